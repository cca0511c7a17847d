package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used by Cost Explorer.
const DateLayout = "2006-01-02"

// DateRange is a reporting window. End is exclusive.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// StartString returns Start as an ISO date.
func (r DateRange) StartString() string { return r.Start.Format(DateLayout) }

// EndString returns End as an ISO date.
func (r DateRange) EndString() string { return r.End.Format(DateLayout) }

// TotalBilling is the amortized cost of a whole period.
type TotalBilling struct {
	Start  time.Time       `json:"start"`
	End    time.Time       `json:"end"`
	Amount decimal.Decimal `json:"amount"`
	Unit   string          `json:"unit,omitempty"`
}

// DisplayEnd returns the last day included in the period.
func (b TotalBilling) DisplayEnd() time.Time {
	return b.End.AddDate(0, 0, -1)
}

// ServiceBilling is the amortized cost of a single AWS service.
type ServiceBilling struct {
	ServiceName string          `json:"service_name"`
	Amount      decimal.Decimal `json:"amount"`
	Unit        string          `json:"unit,omitempty"`
}

// Budget is the configured ceiling of a named AWS budget.
type Budget struct {
	Name  string          `json:"name"`
	Limit decimal.Decimal `json:"limit"`
	Unit  string          `json:"unit,omitempty"`
}

// ComputeRange returns the month-to-date window ending at today.
// Cost Explorer rejects a range whose start equals its end, so on the first
// day of a month the whole previous month is reported instead.
func ComputeRange(today time.Time) DateRange {
	end := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	start := BeginOfMonth(end)
	if start.Equal(end) {
		start = start.AddDate(0, -1, 0)
	}
	return DateRange{Start: start, End: end}
}

// BeginOfMonth returns the first day of t's month.
func BeginOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
