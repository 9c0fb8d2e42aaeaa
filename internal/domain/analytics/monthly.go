package analytics

import "github.com/shopspring/decimal"

// MonthlyBucket is a raw planned/actual pair for a single month before derivation.
type MonthlyBucket struct {
	Planned decimal.Decimal
	Actual  decimal.Decimal
}

// MonthlyPoint is one month of the budget trend with derived fields.
// Remaining and Overrun are mutually exclusive: at most one of them is positive.
type MonthlyPoint struct {
	Month      int             `json:"month"`
	Planned    decimal.Decimal `json:"planned"`
	Actual     decimal.Decimal `json:"actual"`
	Remaining  decimal.Decimal `json:"remaining"`
	Overrun    decimal.Decimal `json:"overrun"`
	OverrunPct decimal.Decimal `json:"overrun_pct"`
}

// QuarterPoint is a quarter-level rollup of already-derived monthly values.
type QuarterPoint struct {
	Quarter   int             `json:"quarter"`
	Planned   decimal.Decimal `json:"planned"`
	Actual    decimal.Decimal `json:"actual"`
	Remaining decimal.Decimal `json:"remaining"`
	Overrun   decimal.Decimal `json:"overrun"`
	HasData   bool            `json:"has_data"`
}

// DeriveMonth computes the derived fields for one month.
// OverrunPct is zero whenever any budget remains; when the plan is fully
// consumed it is overrun/planned, and zero if nothing was planned at all,
// even with positive actuals. The planned==0 case is kept as-is for
// compatibility with historical reports.
func DeriveMonth(month int, planned, actual decimal.Decimal) MonthlyPoint {
	remaining := decimal.Max(planned.Sub(actual), decimal.Zero)
	overrun := decimal.Max(actual.Sub(planned), decimal.Zero)

	pct := decimal.Zero
	if !remaining.IsPositive() && planned.IsPositive() {
		pct = overrun.Div(planned)
	}

	return MonthlyPoint{
		Month:      month,
		Planned:    planned,
		Actual:     actual,
		Remaining:  remaining,
		Overrun:    overrun,
		OverrunPct: pct,
	}
}

// MonthlySeries expands sparse per-month buckets into a full 12-month series
// with derived fields. Missing months are treated as all-zero.
func MonthlySeries(buckets map[int]MonthlyBucket) []MonthlyPoint {
	series := make([]MonthlyPoint, 0, 12)
	for month := 1; month <= 12; month++ {
		b := buckets[month]
		series = append(series, DeriveMonth(month, b.Planned, b.Actual))
	}
	return series
}

// QuarterlyRollup partitions a monthly series into the four calendar quarters
// and sums planned, actual, remaining and overrun within each quarter.
// The per-month derived values are summed as-is rather than recomputed from
// quarter totals, so a quarter mixing over- and under-spent months keeps both
// non-negative sub-aggregates instead of a netted position.
func QuarterlyRollup(series []MonthlyPoint) []QuarterPoint {
	quarters := make([]QuarterPoint, 4)
	for i := range quarters {
		quarters[i].Quarter = i + 1
	}
	for _, p := range series {
		if p.Month < 1 || p.Month > 12 {
			continue
		}
		q := &quarters[(p.Month-1)/3]
		q.Planned = q.Planned.Add(p.Planned)
		q.Actual = q.Actual.Add(p.Actual)
		q.Remaining = q.Remaining.Add(p.Remaining)
		q.Overrun = q.Overrun.Add(p.Overrun)
	}
	for i := range quarters {
		q := &quarters[i]
		total := q.Actual.Add(q.Overrun).Add(q.Remaining)
		q.HasData = total.IsPositive()
	}
	return quarters
}
