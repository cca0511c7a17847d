package report_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taiiii123/discord-billing-notify/pkg/alerts"
	"github.com/taiiii123/discord-billing-notify/pkg/messages"
	"github.com/taiiii123/discord-billing-notify/pkg/model"
	"github.com/taiiii123/discord-billing-notify/pkg/report"
)

type fakeSource struct {
	mu         sync.Mutex
	total      decimal.Decimal
	services   []model.ServiceBilling
	limit      decimal.Decimal
	totalErr   error
	serviceErr error
	budgetErr  error
	ranges     []model.DateRange
	accountID  string
	budgetName string
}

func (f *fakeSource) FetchTotal(_ context.Context, r model.DateRange) (*model.TotalBilling, error) {
	f.mu.Lock()
	f.ranges = append(f.ranges, r)
	f.mu.Unlock()
	if f.totalErr != nil {
		return nil, f.totalErr
	}
	return &model.TotalBilling{Start: r.Start, End: r.End, Amount: f.total, Unit: "USD"}, nil
}

func (f *fakeSource) FetchByService(_ context.Context, r model.DateRange) ([]model.ServiceBilling, error) {
	f.mu.Lock()
	f.ranges = append(f.ranges, r)
	f.mu.Unlock()
	if f.serviceErr != nil {
		return nil, f.serviceErr
	}
	return f.services, nil
}

func (f *fakeSource) FetchBudget(_ context.Context, accountID, budgetName string) (*model.Budget, error) {
	f.accountID = accountID
	f.budgetName = budgetName
	if f.budgetErr != nil {
		return nil, f.budgetErr
	}
	return &model.Budget{Name: budgetName, Limit: f.limit, Unit: "USD"}, nil
}

type recordingNotifier struct {
	sent     []alerts.Message
	delivery alerts.Delivery
}

func (n *recordingNotifier) Name() string { return "recording" }

func (n *recordingNotifier) Send(_ context.Context, msg alerts.Message) alerts.Delivery {
	n.sent = append(n.sent, msg)
	d := n.delivery
	d.Notifier = n.Name()
	return d
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newReporter(t *testing.T, src report.Source, n alerts.Notifier) *report.Reporter {
	t.Helper()
	c, err := messages.Builtin("en")
	require.NoError(t, err)
	return report.NewReporter(src, n, c, report.Settings{
		AccountID:  "123456789012",
		BudgetName: "monthly",
		AvatarURL:  "https://example.com/aws.png",
	}, testLogger())
}

func midSeptember() time.Time {
	return time.Date(2024, time.September, 15, 9, 0, 0, 0, time.UTC)
}

func TestReporter_Run_EndToEnd(t *testing.T) {
	src := &fakeSource{
		total: decimal.RequireFromString("250.00"),
		services: []model.ServiceBilling{
			{ServiceName: "Amazon EC2", Amount: decimal.RequireFromString("200.00")},
			{ServiceName: "AWS Lambda", Amount: decimal.RequireFromString("0.001")},
			{ServiceName: "Amazon S3", Amount: decimal.RequireFromString("50.00")},
		},
		limit: decimal.RequireFromString("300.00"),
	}
	n := &recordingNotifier{delivery: alerts.Delivery{StatusCode: http.StatusNoContent}}
	r := newReporter(t, src, n)

	rep, err := r.Run(context.Background(), midSeptember())
	require.NoError(t, err)

	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, "2024-09-01", rep.Range.StartString())
	assert.Equal(t, "2024-09-15", rep.Range.EndString())
	assert.Equal(t, alerts.AlertWithinBudget, rep.Level)
	assert.Equal(t, "123456789012", src.accountID)
	assert.Equal(t, "monthly", src.budgetName)
	for _, got := range src.ranges {
		assert.Equal(t, rep.Range, got)
	}

	require.Len(t, n.sent, 1)
	msg := n.sent[0]
	assert.Equal(t, "AWS Cost Notification", msg.Username)
	assert.Equal(t, "https://example.com/aws.png", msg.AvatarURL)
	require.Len(t, msg.Embeds, 1)

	embed := msg.Embeds[0]
	assert.Equal(t, "09/01～09/14", embed.Title)
	assert.Equal(t, "250.00 USD", embed.Description)
	assert.Equal(t, 0x3498DB, embed.Color)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "[Budget]", embed.Fields[0].Name)
	assert.Contains(t, embed.Fields[0].Value, "300.00 USD　　within budget")
	assert.False(t, embed.Fields[0].Inline)
	assert.Equal(t, "[Cost by service]", embed.Fields[1].Name)
	assert.Equal(t, "・Amazon EC2： 200.00 USD\n・Amazon S3： 50.00 USD", embed.Fields[1].Value)

	require.NotNil(t, rep.Delivery)
	assert.True(t, rep.Delivery.Delivered())
}

func TestReporter_Run_FirstOfMonthReportsPreviousMonth(t *testing.T) {
	src := &fakeSource{total: decimal.RequireFromString("12.3"), limit: decimal.RequireFromString("10")}
	n := &recordingNotifier{}
	r := newReporter(t, src, n)

	rep, err := r.Run(context.Background(), time.Date(2024, time.October, 1, 0, 5, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2024-09-01", rep.Range.StartString())
	assert.Equal(t, "2024-10-01", rep.Range.EndString())
	assert.Equal(t, alerts.AlertOverBudget, rep.Level)
	assert.Equal(t, "09/01～09/30", n.sent[0].Embeds[0].Title)
	assert.Equal(t, 0xE74C3C, n.sent[0].Embeds[0].Color)
}

func TestReporter_Run_FreeMonth(t *testing.T) {
	src := &fakeSource{total: decimal.Zero, limit: decimal.RequireFromString("10")}
	n := &recordingNotifier{}
	r := newReporter(t, src, n)

	rep, err := r.Run(context.Background(), midSeptember())
	require.NoError(t, err)
	assert.Equal(t, alerts.AlertFree, rep.Level)
	assert.Equal(t, "0.00 USD", n.sent[0].Embeds[0].Description)
	assert.Contains(t, n.sent[0].Embeds[0].Fields[0].Value, "no charges")
	assert.Empty(t, n.sent[0].Embeds[0].Fields[1].Value)
}

func TestReporter_Run_DeliveryFailureIsSwallowed(t *testing.T) {
	src := &fakeSource{total: decimal.RequireFromString("1"), limit: decimal.RequireFromString("10")}
	n := &recordingNotifier{delivery: alerts.Delivery{Err: errors.New("connection refused")}}
	r := newReporter(t, src, n)

	rep, err := r.Run(context.Background(), midSeptember())
	require.NoError(t, err)
	require.NotNil(t, rep.Delivery)
	assert.False(t, rep.Delivery.Delivered())
	assert.Len(t, n.sent, 1)
}

func TestReporter_Run_WebhookTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := server.URL
	server.Close()

	src := &fakeSource{total: decimal.RequireFromString("1"), limit: decimal.RequireFromString("10")}
	r := newReporter(t, src, alerts.NewWebhookNotifier(url, "", time.Second))

	rep, err := r.Run(context.Background(), midSeptember())
	require.NoError(t, err)
	assert.False(t, rep.Delivery.Delivered())
}

func TestReporter_Run_FetchFailuresAreFatal(t *testing.T) {
	tests := []struct {
		name string
		src  *fakeSource
		want string
	}{
		{"total", &fakeSource{totalErr: errors.New("auth failure")}, "fetch total billing"},
		{"services", &fakeSource{serviceErr: errors.New("throttled")}, "fetch service billings"},
		{"budget", &fakeSource{budgetErr: errors.New("not found")}, "fetch budget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &recordingNotifier{}
			r := newReporter(t, tt.src, n)

			rep, err := r.Run(context.Background(), midSeptember())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Nil(t, rep)
			assert.Empty(t, n.sent)
		})
	}
}

func TestReporter_Build_DoesNotSend(t *testing.T) {
	src := &fakeSource{total: decimal.RequireFromString("5"), limit: decimal.RequireFromString("10")}
	n := &recordingNotifier{}
	r := newReporter(t, src, n)

	rep, err := r.Build(context.Background(), midSeptember())
	require.NoError(t, err)
	assert.Nil(t, rep.Delivery)
	assert.Empty(t, n.sent)
}

func TestReporter_UsernameOverride(t *testing.T) {
	c, err := messages.Builtin("ja")
	require.NoError(t, err)

	src := &fakeSource{total: decimal.RequireFromString("5"), limit: decimal.RequireFromString("10")}
	n := &recordingNotifier{}
	r := report.NewReporter(src, n, c, report.Settings{Username: "billing-bot"}, testLogger())

	rep, err := r.Build(context.Background(), midSeptember())
	require.NoError(t, err)
	assert.Equal(t, "billing-bot", rep.Message.Username)
	assert.Equal(t, "[予算]", rep.Message.Embeds[0].Fields[0].Name)
}
