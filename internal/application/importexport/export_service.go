package importexport

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/butcetakip/backend/internal/application/dashboard"
	"github.com/butcetakip/backend/internal/domain/analytics"
	"github.com/butcetakip/backend/internal/domain/budget"
	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExportService renders budget data as XLSX workbooks and CSV files
type ExportService struct {
	itemRepo    budget.BudgetItemRepository
	planRepo    budget.PlanEntryRepository
	expenseRepo budget.ExpenseRepository
}

// NewExportService creates a new ExportService
func NewExportService(
	itemRepo budget.BudgetItemRepository,
	planRepo budget.PlanEntryRepository,
	expenseRepo budget.ExpenseRepository,
) *ExportService {
	return &ExportService{
		itemRepo:    itemRepo,
		planRepo:    planRepo,
		expenseRepo: expenseRepo,
	}
}

// BudgetXLSX renders the yearly plan grid: one row per budget line with the
// twelve planned month columns, the plan total and the recorded actual total.
func (s *ExportService) BudgetXLSX(ctx context.Context, year int, scenarioID *uuid.UUID) ([]byte, error) {
	aggregates, err := s.planRepo.AggregateByItemMonth(ctx, year, scenarioID)
	if err != nil {
		return nil, err
	}
	actuals, err := s.expenseRepo.SumByItem(ctx, year, scenarioID)
	if err != nil {
		return nil, err
	}

	type itemRow struct {
		code   string
		name   string
		months [13]decimal.Decimal
		id     uuid.UUID
	}
	rows := make([]*itemRow, 0)
	index := make(map[uuid.UUID]*itemRow)
	for _, agg := range aggregates {
		row, ok := index[agg.BudgetItemID]
		if !ok {
			row = &itemRow{code: agg.BudgetCode, name: agg.BudgetName, id: agg.BudgetItemID}
			index[agg.BudgetItemID] = row
			rows = append(rows, row)
		}
		if agg.Month >= 1 && agg.Month <= 12 {
			row.months[agg.Month] = row.months[agg.Month].Add(agg.Amount)
		}
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := fmt.Sprintf("Bütçe %d", year)
	f.SetSheetName("Sheet1", sheet)

	header := []any{"Kod", "Ad"}
	for month := 1; month <= 12; month++ {
		header = append(header, dashboard.MonthNameTR(month))
	}
	header = append(header, "Plan Toplam", "Gerçekleşen", "Kalan", "Aşım")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, row := range rows {
		var planTotal decimal.Decimal
		cells := []any{row.code, row.name}
		for month := 1; month <= 12; month++ {
			planTotal = planTotal.Add(row.months[month])
			cells = append(cells, toFloat(row.months[month]))
		}
		actual := actuals[row.id]
		remaining := decimal.Max(planTotal.Sub(actual), decimal.Zero)
		overrun := decimal.Max(actual.Sub(planTotal), decimal.Zero)
		cells = append(cells, toFloat(planTotal), toFloat(actual), toFloat(remaining), toFloat(overrun))

		addr := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// QuarterlyXLSX renders the quarterly rollup of the whole budget for a year
func (s *ExportService) QuarterlyXLSX(ctx context.Context, year int, scenarioID *uuid.UUID) ([]byte, error) {
	planned, err := s.planRepo.SumByMonth(ctx, budget.PlanFilter{Year: year, ScenarioID: scenarioID})
	if err != nil {
		return nil, err
	}
	actual, err := s.expenseRepo.SumByMonth(ctx, year, scenarioID, nil)
	if err != nil {
		return nil, err
	}

	buckets := make(map[int]analytics.MonthlyBucket, 12)
	for month := 1; month <= 12; month++ {
		buckets[month] = analytics.MonthlyBucket{Planned: planned[month], Actual: actual[month]}
	}
	quarters := analytics.QuarterlyRollup(analytics.MonthlySeries(buckets))

	f := excelize.NewFile()
	defer f.Close()
	sheet := fmt.Sprintf("Çeyrek %d", year)
	f.SetSheetName("Sheet1", sheet)

	header := []any{"Çeyrek", "Plan", "Gerçekleşen", "Kalan", "Aşım"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, q := range quarters {
		cells := []any{
			fmt.Sprintf("Q%d", q.Quarter),
			toFloat(q.Planned),
			toFloat(q.Actual),
			toFloat(q.Remaining),
			toFloat(q.Overrun),
		}
		addr := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// OutOfBudgetCSV exports the year's out-of-budget expenses
func (s *ExportService) OutOfBudgetCSV(ctx context.Context, year int) ([]byte, error) {
	expenses, err := s.expenseRepo.FindFiltered(ctx, budget.ExpenseFilter{
		Year:               year,
		IncludeOutOfBudget: true,
	})
	if err != nil {
		return nil, err
	}
	filtered := expenses[:0]
	for _, e := range expenses {
		if e.IsOutOfBudget {
			filtered = append(filtered, e)
		}
	}
	return s.expensesCSV(ctx, filtered)
}

// CancelledCSV exports the year's cancelled expenses
func (s *ExportService) CancelledCSV(ctx context.Context, year int) ([]byte, error) {
	expenses, err := s.expenseRepo.FindFiltered(ctx, budget.ExpenseFilter{
		Year:               year,
		Statuses:           []budget.ExpenseStatus{budget.ExpenseStatusCancelled},
		IncludeOutOfBudget: true,
	})
	if err != nil {
		return nil, err
	}
	return s.expensesCSV(ctx, expenses)
}

func (s *ExportService) expensesCSV(ctx context.Context, expenses []budget.Expense) ([]byte, error) {
	codes, err := s.itemCodes(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"expense_date", "budget_code", "vendor", "description", "quantity", "unit_price", "amount", "status", "is_out_of_budget"}); err != nil {
		return nil, err
	}
	for _, e := range expenses {
		record := []string{
			e.ExpenseDate.Format("2006-01-02"),
			codes[e.BudgetItemID],
			e.Vendor,
			e.Description,
			e.Quantity.String(),
			e.UnitPrice.String(),
			e.Amount.StringFixed(2),
			string(e.Status),
			fmt.Sprintf("%t", e.IsOutOfBudget),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ExportService) itemCodes(ctx context.Context) (map[uuid.UUID]string, error) {
	f := shared.DefaultFilter()
	f.PageSize = 1000
	f.OrderBy = "code"
	f.OrderDir = "asc"
	items, err := s.itemRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	codes := make(map[uuid.UUID]string, len(items))
	for i := range items {
		codes[items[i].ID] = items[i].Code
	}
	return codes, nil
}

// Spreadsheet cells hold floats; decimals stay exact everywhere else.
func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
