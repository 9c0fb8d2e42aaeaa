package analytics

import "github.com/shopspring/decimal"

// Totals holds reconciled dashboard KPI figures.
type Totals struct {
	TotalPlan      decimal.Decimal `json:"total_plan"`
	TotalActual    decimal.Decimal `json:"total_actual"`
	TotalRemaining decimal.Decimal `json:"total_remaining"`
	TotalOverrun   decimal.Decimal `json:"total_overrun"`
}

// Normalize reconciles raw plan/actual totals into non-negative remaining and
// overrun figures. overrunFloor is the overrun total computed elsewhere from
// non-netted per-item or per-month figures; it acts as a floor on the netted
// overrun, never a ceiling, so an itemized overrun is not silently decreased
// by months that underspent.
func Normalize(plan, actual, overrunFloor decimal.Decimal) Totals {
	return Totals{
		TotalPlan:      plan,
		TotalActual:    actual,
		TotalRemaining: decimal.Max(plan.Sub(actual), decimal.Zero),
		TotalOverrun:   decimal.Max(actual.Sub(plan), overrunFloor),
	}
}
