package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultRankingLimit is the number of over-budget items shown by default.
const DefaultRankingLimit = 10

// LineItem is one budget line's plan/actual totals before ranking.
type LineItem struct {
	BudgetCode string
	BudgetName string
	Plan       decimal.Decimal
	Actual     decimal.Decimal
}

// RankedItem is an over-budget line with its computed overrun.
type RankedItem struct {
	BudgetCode string          `json:"budget_code"`
	BudgetName string          `json:"budget_name"`
	Plan       decimal.Decimal `json:"plan"`
	Actual     decimal.Decimal `json:"actual"`
	Over       decimal.Decimal `json:"over"`
	OverPct    decimal.Decimal `json:"over_pct"`
}

// RankingSummary aggregates the qualifying over-budget lines.
type RankingSummary struct {
	OverTotal     decimal.Decimal `json:"over_total"`
	OverItemCount int             `json:"over_item_count"`
}

// Rank keeps only line items that exceeded their plan and sorts them
// descending by overrun amount. The sort is stable, so ties keep input order.
// Sorting is by absolute overrun, not percentage.
func Rank(items []LineItem) []RankedItem {
	ranked := make([]RankedItem, 0, len(items))
	for _, it := range items {
		over := decimal.Max(it.Actual.Sub(it.Plan), decimal.Zero)
		if !over.IsPositive() {
			continue
		}
		pct := decimal.Zero
		if it.Plan.IsPositive() {
			pct = over.Div(it.Plan).Mul(decimal.NewFromInt(100))
		}
		ranked = append(ranked, RankedItem{
			BudgetCode: it.BudgetCode,
			BudgetName: it.BudgetName,
			Plan:       it.Plan,
			Actual:     it.Actual,
			Over:       over,
			OverPct:    pct,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Over.GreaterThan(ranked[j].Over)
	})
	return ranked
}

// Top returns the first n ranked items.
func Top(ranked []RankedItem, n int) []RankedItem {
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// Summarize totals the qualifying overruns.
func Summarize(ranked []RankedItem) RankingSummary {
	s := RankingSummary{OverItemCount: len(ranked)}
	for _, it := range ranked {
		s.OverTotal = s.OverTotal.Add(it.Over)
	}
	return s
}

// TopOverrun returns the item with the highest overrun; on a tie the one
// appearing first wins. The second return is false for an empty list.
func TopOverrun(ranked []RankedItem) (RankedItem, bool) {
	if len(ranked) == 0 {
		return RankedItem{}, false
	}
	top := ranked[0]
	for _, it := range ranked[1:] {
		if it.Over.GreaterThan(top.Over) {
			top = it
		}
	}
	return top, true
}
