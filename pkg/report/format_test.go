package report_test

import (
	"strings"
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

func newFormatter(t *testing.T, locale string) *report.Formatter {
	t.Helper()
	c, err := messages.Builtin(locale)
	require.NoError(t, err)
	return report.NewFormatter(c)
}

func september() model.TotalBilling {
	return model.TotalBilling{
		Start:  time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC),
		End:    time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC),
		Amount: decimal.RequireFromString("123.456"),
	}
}

func TestFormat_TitleAndDescription(t *testing.T) {
	f := newFormatter(t, "en")

	title, _ := f.Format(september(), nil)
	assert.Equal(t, "09/01～09/30", title)
	assert.Equal(t, "123.46 USD", f.Description(september()))
}

func TestFormat_SuppressesZeroServices(t *testing.T) {
	f := newFormatter(t, "en")
	services := []model.ServiceBilling{
		{ServiceName: "A", Amount: decimal.RequireFromString("10.004")},
		{ServiceName: "B", Amount: decimal.RequireFromString("0.001")},
		{ServiceName: "C", Amount: decimal.RequireFromString("5.0")},
	}

	_, detail := f.Format(september(), services)
	assert.Equal(t, "・A： 10.00 USD\n・C： 5.00 USD", detail)
	assert.Len(t, services, 3)
}

func TestFormat_RoundsBeforeSuppressing(t *testing.T) {
	f := newFormatter(t, "en")
	services := []model.ServiceBilling{
		{ServiceName: "Rounds up", Amount: decimal.RequireFromString("0.005")},
		{ServiceName: "Rounds down", Amount: decimal.RequireFromString("0.0049")},
		{ServiceName: "Zero", Amount: decimal.Zero},
	}

	_, detail := f.Format(september(), services)
	assert.Equal(t, "・Rounds up： 0.01 USD", detail)
}

func TestFormat_NoServices(t *testing.T) {
	f := newFormatter(t, "en")
	_, detail := f.Format(september(), []model.ServiceBilling{
		{ServiceName: "Free tier", Amount: decimal.Zero},
	})
	assert.Empty(t, detail)
}

func TestFormat_Japanese(t *testing.T) {
	f := newFormatter(t, "ja")

	title, detail := f.Format(september(), []model.ServiceBilling{
		{ServiceName: "Amazon EC2", Amount: decimal.RequireFromString("1.5")},
	})
	assert.Equal(t, "09/01～09/30の請求額", title)
	assert.Equal(t, "・Amazon EC2： 1.50 USD", detail)
	assert.Equal(t, "総請求額： 123.46 USD", f.Description(september()))
}

func TestBudgetValue(t *testing.T) {
	f := newFormatter(t, "en")
	budget := model.Budget{Name: "monthly", Limit: decimal.RequireFromString("300")}

	got := f.BudgetValue(budget, alerts.AlertWithinBudget)
	assert.Equal(t, "300.00 USD　　within budget\n"+strings.Repeat("-", 50), got)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "250.00", report.Money(decimal.RequireFromString("250")))
	assert.Equal(t, "0.00", report.Money(decimal.Zero))
	assert.Equal(t, "10.01", report.Money(decimal.RequireFromString("10.005")))
	assert.Equal(t, "0.13", report.Money(decimal.RequireFromString("0.125")))
	assert.Equal(t, "-0.13", report.Money(decimal.RequireFromString("-0.125")))
}
