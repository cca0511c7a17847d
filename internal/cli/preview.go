package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/taiiii123/discord-billing-notify/internal/config"
	"github.com/taiiii123/discord-billing-notify/pkg/alerts"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the webhook payload without sending it",
	RunE:  runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().String("date", "", "Treat this date (YYYY-MM-DD) as today")
	previewCmd.Flags().Bool("full", false, "Print the whole report instead of the message only")
}

func runPreview(cmd *cobra.Command, _ []string) error {
	today, err := parseDate(cmd)
	if err != nil {
		return err
	}
	full, _ := cmd.Flags().GetBool("full")

	reporter, cfg, _, err := initReporter(cmd.Context())
	if err != nil {
		return err
	}

	rep, err := reporter.Build(cmd.Context(), today)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	var out any = rep.Message
	switch {
	case full:
		out = rep
	case cfg.Webhook.Format == config.FormatSlack:
		out = alerts.ToSlack(rep.Message)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
