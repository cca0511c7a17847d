package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/taiiii123/discord-billing-notify/internal/app"
	"github.com/taiiii123/discord-billing-notify/internal/config"
	"github.com/taiiii123/discord-billing-notify/pkg/model"
	"github.com/taiiii123/discord-billing-notify/pkg/report"
)

// Version is set at build time via ldflags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "billing-notify",
	Short: "AWS billing notifier for Discord and Slack webhooks",
	Long: `billing-notify reads month-to-date AWS charges from Cost Explorer,
compares them with an AWS Budgets limit, and posts a color-coded summary
to a chat webhook.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.billing-notify/config.yaml)")
}

// loadConfig loads the configuration.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger creates a structured logger on stderr.
func newLogger(cfg *config.Config) *slog.Logger {
	return app.NewLogger(cfg, os.Stderr)
}

// initReporter creates a fully wired reporter from config.
func initReporter(ctx context.Context) (*report.Reporter, *config.Config, *slog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := newLogger(cfg)

	reporter, err := app.NewReporter(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return reporter, cfg, logger, nil
}

// parseDate reads the --date flag, defaulting to now.
func parseDate(cmd *cobra.Command) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("date")
	if raw == "" {
		return time.Now(), nil
	}
	d, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", raw)
	}
	return d, nil
}
