package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/taiiii123/discord-billing-notify/pkg/report"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Fetch current charges and post them to the webhook",
	Long: `Fetch the month-to-date total and per-service charges, classify them
against the configured budget, and post the summary to the webhook.
A failed webhook delivery is reported but does not fail the command.`,
	RunE: runNotify,
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.Flags().String("date", "", "Treat this date (YYYY-MM-DD) as today")
}

func runNotify(cmd *cobra.Command, _ []string) error {
	today, err := parseDate(cmd)
	if err != nil {
		return err
	}

	reporter, _, _, err := initReporter(cmd.Context())
	if err != nil {
		return err
	}

	rep, err := reporter.Run(cmd.Context(), today)
	if err != nil {
		return fmt.Errorf("run report: %w", err)
	}

	printSummary(rep)
	return nil
}

func printSummary(rep *report.Report) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Run:\t%s\n", rep.RunID)
	fmt.Fprintf(w, "Period:\t%s to %s\n", rep.Range.StartString(), rep.Range.EndString())
	fmt.Fprintf(w, "Total:\t%s USD\n", report.Money(rep.Total.Amount))
	fmt.Fprintf(w, "Budget:\t%s USD (%s)\n", report.Money(rep.Budget.Limit), rep.Level)
	fmt.Fprintf(w, "Services:\t%d\n", len(rep.Services))

	if rep.Delivery != nil {
		status := "delivered"
		if !rep.Delivery.Delivered() {
			status = fmt.Sprintf("failed: %v", rep.Delivery.Err)
		}
		fmt.Fprintf(w, "Webhook:\t%s\n", status)
	}
	w.Flush()
}
