package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/butcetakip/backend/internal/domain/budget"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// riskyMissingMonths is how many expense-less planned months flag a budget
// line as risky.
const riskyMissingMonths = 3

// monthNamesTR holds the Turkish month display names, 1-indexed.
var monthNamesTR = [13]string{"",
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// MonthNameTR returns the Turkish name of a month, empty for out-of-range.
func MonthNameTR(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNamesTR[month]
}

// MissingMonth is one planned month with no recorded spend
type MissingMonth struct {
	Month   int             `json:"month"`
	Label   string          `json:"label"`
	Planned decimal.Decimal `json:"planned"`
}

// ItemInsight is one budget line's missing-spend picture
type ItemInsight struct {
	BudgetItemID  uuid.UUID       `json:"budget_item_id"`
	BudgetCode    string          `json:"budget_code"`
	BudgetName    string          `json:"budget_name"`
	MissingMonths []MissingMonth  `json:"missing_months"`
	PlannedTotal  decimal.Decimal `json:"planned_total"`
}

// InsightsResponse flags budget lines that look stalled or unbilled.
// RiskyItems have at least three elapsed planned months without a recorded
// expense; MissingInvoices lists every line with at least one such month.
type InsightsResponse struct {
	Year            int           `json:"year"`
	RiskyItems      []ItemInsight `json:"risky_items"`
	MissingInvoices []ItemInsight `json:"missing_invoices"`
}

// Insights computes the risky-item and missing-invoice reminders for a year.
// Only months up to the current month count for the current year; past years
// consider all twelve.
func (s *DashboardService) Insights(ctx context.Context, year int, scenarioID *uuid.UUID) (*InsightsResponse, error) {
	return s.insightsAt(ctx, year, scenarioID, time.Now())
}

func (s *DashboardService) insightsAt(ctx context.Context, year int, scenarioID *uuid.UUID, now time.Time) (*InsightsResponse, error) {
	horizon := 12
	switch {
	case year == now.Year():
		horizon = int(now.Month())
	case year > now.Year():
		horizon = 0
	}

	aggregates, err := s.planRepo.AggregateByItemMonth(ctx, year, scenarioID)
	if err != nil {
		return nil, err
	}
	recorded, err := s.expenseRepo.RecordedItemMonths(ctx, year, scenarioID)
	if err != nil {
		return nil, err
	}

	byItem := make(map[uuid.UUID]*ItemInsight)
	order := make([]uuid.UUID, 0)
	for _, agg := range aggregates {
		if agg.Month > horizon || !agg.Amount.IsPositive() {
			continue
		}
		if _, ok := recorded[budget.ItemMonth{BudgetItemID: agg.BudgetItemID, Month: agg.Month}]; ok {
			continue
		}
		insight, ok := byItem[agg.BudgetItemID]
		if !ok {
			insight = &ItemInsight{
				BudgetItemID: agg.BudgetItemID,
				BudgetCode:   agg.BudgetCode,
				BudgetName:   agg.BudgetName,
			}
			byItem[agg.BudgetItemID] = insight
			order = append(order, agg.BudgetItemID)
		}
		insight.MissingMonths = append(insight.MissingMonths, MissingMonth{
			Month:   agg.Month,
			Label:   MonthNameTR(agg.Month),
			Planned: agg.Amount,
		})
		insight.PlannedTotal = insight.PlannedTotal.Add(agg.Amount)
	}

	resp := &InsightsResponse{
		Year:            year,
		RiskyItems:      make([]ItemInsight, 0),
		MissingInvoices: make([]ItemInsight, 0, len(order)),
	}
	for _, id := range order {
		insight := byItem[id]
		sort.Slice(insight.MissingMonths, func(i, j int) bool {
			return insight.MissingMonths[i].Month < insight.MissingMonths[j].Month
		})
		resp.MissingInvoices = append(resp.MissingInvoices, *insight)
		if len(insight.MissingMonths) >= riskyMissingMonths {
			resp.RiskyItems = append(resp.RiskyItems, *insight)
		}
	}
	return resp, nil
}
