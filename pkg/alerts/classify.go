package alerts

import "github.com/shopspring/decimal"

// Classify maps the unrounded cost and the budget limit to an alert level.
// A cost equal to the limit counts as over budget.
func Classify(cost, limit decimal.Decimal) AlertLevel {
	switch {
	case cost.IsZero():
		return AlertFree
	case cost.LessThan(limit):
		return AlertWithinBudget
	default:
		return AlertOverBudget
	}
}
