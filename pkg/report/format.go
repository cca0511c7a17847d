package report

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/taiiii123/discord-billing-notify/pkg/alerts"
	"github.com/taiiii123/discord-billing-notify/pkg/messages"
	"github.com/taiiii123/discord-billing-notify/pkg/model"
)

const displayDate = "01/02"

// separator closes the budget field.
var separator = "\n" + strings.Repeat("-", 50)

// Formatter renders billing data into display strings.
type Formatter struct {
	catalog *messages.Catalog
}

// NewFormatter creates a formatter using catalog.
func NewFormatter(catalog *messages.Catalog) *Formatter {
	return &Formatter{catalog: catalog}
}

// Format returns the title and the per-service breakdown.
// Services whose amount rounds to 0.00 are left out.
func (f *Formatter) Format(total model.TotalBilling, services []model.ServiceBilling) (title, detail string) {
	title = messages.Render(f.catalog.Title,
		"start", total.Start.Format(displayDate),
		"end", total.DisplayEnd().Format(displayDate),
	)

	lines := make([]string, 0, len(services))
	for _, s := range services {
		amount := s.Amount.Round(2)
		if amount.IsZero() {
			continue
		}
		lines = append(lines, messages.Render(f.catalog.ServiceLine,
			"service", s.ServiceName,
			"amount", amount.StringFixed(2),
		))
	}
	return title, strings.Join(lines, "\n")
}

// Description renders the total line of the embed.
func (f *Formatter) Description(total model.TotalBilling) string {
	return messages.Render(f.catalog.Description, "amount", Money(total.Amount))
}

// BudgetValue renders the budget field value.
func (f *Formatter) BudgetValue(budget model.Budget, level alerts.AlertLevel) string {
	return messages.Render(f.catalog.BudgetValue,
		"limit", Money(budget.Limit),
		"message", f.catalog.AlertMessage(level),
	) + separator
}

// Money formats an amount with two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
