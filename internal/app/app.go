// Package app wires configuration into a ready-to-run reporter.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/taiiii123/discord-billing-notify/internal/config"
	"github.com/taiiii123/discord-billing-notify/pkg/alerts"
	"github.com/taiiii123/discord-billing-notify/pkg/billing"
	"github.com/taiiii123/discord-billing-notify/pkg/messages"
	"github.com/taiiii123/discord-billing-notify/pkg/report"
)

// NewLogger creates a structured logger from config.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// NewNotifier creates the webhook notifier selected by config.
func NewNotifier(cfg *config.Config) alerts.Notifier {
	if cfg.Webhook.Format == config.FormatSlack {
		return alerts.NewSlackNotifier(cfg.Webhook.URL, cfg.Webhook.Timeout)
	}
	return alerts.NewWebhookNotifier(cfg.Webhook.URL, cfg.Webhook.Secret, cfg.Webhook.Timeout)
}

// LoadCatalog returns the display catalog for the configured locale.
// A catalog file, when set, is registered over the builtin catalogs and
// selected unless another locale is configured explicitly.
func LoadCatalog(cfg *config.Config) (*messages.Catalog, error) {
	registry, err := messages.NewRegistry()
	if err != nil {
		return nil, err
	}

	locale := cfg.Messages.Locale
	if cfg.Messages.File != "" {
		c, err := messages.Load(cfg.Messages.File)
		if err != nil {
			return nil, fmt.Errorf("load messages: %w", err)
		}
		registry.Register(c)
		if locale == "" {
			locale = c.Locale
		}
	}

	return registry.Get(locale)
}

// NewReporter creates a fully wired reporter backed by AWS.
func NewReporter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*report.Reporter, error) {
	catalog, err := LoadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	awsCfg, err := billing.LoadAWSConfig(ctx, cfg.AWS.Region)
	if err != nil {
		return nil, err
	}

	return NewReporterWithSource(cfg, billing.NewFetcherFromConfig(awsCfg), catalog, logger), nil
}

// NewReporterWithSource creates a reporter over an arbitrary billing source.
func NewReporterWithSource(cfg *config.Config, source report.Source, catalog *messages.Catalog, logger *slog.Logger) *report.Reporter {
	return report.NewReporter(source, NewNotifier(cfg), catalog, report.Settings{
		AccountID:  cfg.AWS.AccountID,
		BudgetName: cfg.AWS.BudgetName,
		Username:   cfg.Webhook.Username,
		AvatarURL:  cfg.Webhook.AvatarURL,
	}, logger)
}
