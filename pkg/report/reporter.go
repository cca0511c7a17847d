package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taiiii123/discord-billing-notify/pkg/alerts"
	"github.com/taiiii123/discord-billing-notify/pkg/messages"
	"github.com/taiiii123/discord-billing-notify/pkg/model"
	"golang.org/x/sync/errgroup"
)

// Source provides billing and budget data.
type Source interface {
	FetchTotal(ctx context.Context, r model.DateRange) (*model.TotalBilling, error)
	FetchByService(ctx context.Context, r model.DateRange) ([]model.ServiceBilling, error)
	FetchBudget(ctx context.Context, accountID, budgetName string) (*model.Budget, error)
}

// Settings identifies the budget and the notification sender.
type Settings struct {
	AccountID  string
	BudgetName string
	Username   string // overrides the catalog username when set
	AvatarURL  string
}

// Report is everything gathered and produced by one invocation.
type Report struct {
	RunID    string                 `json:"run_id"`
	Range    model.DateRange        `json:"range"`
	Total    model.TotalBilling     `json:"total"`
	Services []model.ServiceBilling `json:"services"`
	Budget   model.Budget           `json:"budget"`
	Level    alerts.AlertLevel      `json:"level"`
	Message  alerts.Message         `json:"message"`
	Delivery *alerts.Delivery       `json:"delivery,omitempty"`
}

// Reporter runs the fetch, format, classify and notify pipeline.
type Reporter struct {
	source    Source
	notifier  alerts.Notifier
	catalog   *messages.Catalog
	formatter *Formatter
	settings  Settings
	logger    *slog.Logger
}

// NewReporter creates a reporter with the given dependencies.
func NewReporter(source Source, notifier alerts.Notifier, catalog *messages.Catalog, settings Settings, logger *slog.Logger) *Reporter {
	return &Reporter{
		source:    source,
		notifier:  notifier,
		catalog:   catalog,
		formatter: NewFormatter(catalog),
		settings:  settings,
		logger:    logger,
	}
}

// Build gathers billing data for the window ending at today and assembles
// the notification. Any fetch failure aborts the build.
func (r *Reporter) Build(ctx context.Context, today time.Time) (*Report, error) {
	rep := &Report{
		RunID: uuid.New().String(),
		Range: model.ComputeRange(today),
	}
	logger := r.logger.With("run_id", rep.RunID)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := r.source.FetchTotal(gctx, rep.Range)
		if err != nil {
			return fmt.Errorf("fetch total billing: %w", err)
		}
		rep.Total = *total
		return nil
	})
	g.Go(func() error {
		services, err := r.source.FetchByService(gctx, rep.Range)
		if err != nil {
			return fmt.Errorf("fetch service billings: %w", err)
		}
		rep.Services = services
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	budget, err := r.source.FetchBudget(ctx, r.settings.AccountID, r.settings.BudgetName)
	if err != nil {
		return nil, fmt.Errorf("fetch budget: %w", err)
	}
	rep.Budget = *budget

	rep.Level = alerts.Classify(rep.Total.Amount, rep.Budget.Limit)
	rep.Message = r.message(rep)

	logger.Info("billing report built",
		"start", rep.Range.StartString(),
		"end", rep.Range.EndString(),
		"total", Money(rep.Total.Amount),
		"budget", Money(rep.Budget.Limit),
		"level", rep.Level,
		"services", len(rep.Services),
	)

	return rep, nil
}

// Run builds the report and posts it. A failed delivery is logged and
// recorded in the report; only fetch failures are returned.
func (r *Reporter) Run(ctx context.Context, today time.Time) (*Report, error) {
	rep, err := r.Build(ctx, today)
	if err != nil {
		return nil, err
	}

	delivery := r.notifier.Send(ctx, rep.Message)
	rep.Delivery = &delivery

	if !delivery.Delivered() {
		r.logger.Error("webhook delivery failed",
			"run_id", rep.RunID,
			"notifier", delivery.Notifier,
			"error", delivery.Err,
		)
		return rep, nil
	}

	r.logger.Info("notification sent",
		"run_id", rep.RunID,
		"notifier", delivery.Notifier,
		"status", delivery.StatusCode,
	)
	return rep, nil
}

func (r *Reporter) message(rep *Report) alerts.Message {
	title, detail := r.formatter.Format(rep.Total, rep.Services)

	username := r.settings.Username
	if username == "" {
		username = r.catalog.Username
	}

	return alerts.Message{
		Username:  username,
		AvatarURL: r.settings.AvatarURL,
		Embeds: []alerts.Embed{
			{
				Title:       title,
				Description: r.formatter.Description(rep.Total),
				Color:       rep.Level.Color(),
				Fields: []alerts.Field{
					{
						Name:   r.catalog.BudgetField,
						Value:  r.formatter.BudgetValue(rep.Budget, rep.Level),
						Inline: false,
					},
					{
						Name:   r.catalog.ServicesField,
						Value:  detail,
						Inline: false,
					},
				},
			},
		},
	}
}
