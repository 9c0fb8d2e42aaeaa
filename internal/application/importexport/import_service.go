package importexport

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/butcetakip/backend/internal/domain/budget"
	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/butcetakip/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// importColumns is the expected header of tabular plan imports, in order.
var importColumns = []string{"budget_code", "budget_name", "scenario", "year", "month", "amount", "department"}

// ImportRow is one plan figure from an uploaded file
type ImportRow struct {
	BudgetCode string `json:"budget_code"`
	BudgetName string `json:"budget_name"`
	Scenario   string `json:"scenario"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Amount     string `json:"amount"`
	Department string `json:"department"`
}

// ImportResult summarizes one import run. Rows that fail validation are
// skipped and reported; valid rows are still committed.
type ImportResult struct {
	TotalRows        int      `json:"total_rows"`
	PlansCreated     int      `json:"plans_created"`
	ItemsCreated     int      `json:"items_created"`
	ScenariosCreated int      `json:"scenarios_created"`
	Errors           []string `json:"errors,omitempty"`
}

// DashboardInvalidator drops cached dashboard payloads for a budget year.
// Satisfied by cache.DashboardCache.
type DashboardInvalidator interface {
	InvalidateYear(ctx context.Context, year int) error
}

// ImportService loads budget plans from JSON, CSV and XLSX uploads
type ImportService struct {
	itemRepo     budget.BudgetItemRepository
	scenarioRepo budget.ScenarioRepository
	planRepo     budget.PlanEntryRepository
	expenseRepo  budget.ExpenseRepository
	invalidator  DashboardInvalidator
}

// NewImportService creates a new ImportService
func NewImportService(
	itemRepo budget.BudgetItemRepository,
	scenarioRepo budget.ScenarioRepository,
	planRepo budget.PlanEntryRepository,
	expenseRepo budget.ExpenseRepository,
	invalidator DashboardInvalidator,
) *ImportService {
	return &ImportService{
		itemRepo:     itemRepo,
		scenarioRepo: scenarioRepo,
		planRepo:     planRepo,
		expenseRepo:  expenseRepo,
		invalidator:  invalidator,
	}
}

// ImportJSON imports plan rows from a JSON array
func (s *ImportService) ImportJSON(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var rows []ImportRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Request body is not a valid JSON row array")
	}
	return s.importRows(ctx, rows)
}

// ImportCSV imports plan rows from a CSV file with a header row
func (s *ImportService) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "CSV file is empty")
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []ImportRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "CSV file is malformed: "+err.Error())
		}
		rows = append(rows, rowFromRecord(record, cols))
	}
	return s.importRows(ctx, rows)
}

// ImportXLSX imports plan rows from the first sheet of an XLSX workbook
func (s *ImportService) ImportXLSX(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "File is not a valid XLSX workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Workbook has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Workbook sheet is empty")
	}

	cols, err := mapColumns(records[0])
	if err != nil {
		return nil, err
	}
	rows := make([]ImportRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, rowFromRecord(record, cols))
	}
	return s.importRows(ctx, rows)
}

func (s *ImportService) importRows(ctx context.Context, rows []ImportRow) (*ImportResult, error) {
	result := &ImportResult{TotalRows: len(rows)}
	itemCache := make(map[string]*budget.BudgetItem)
	scenarioCache := make(map[string]*budget.Scenario)

	years := make(map[int]struct{})
	for i, row := range rows {
		if err := s.importRow(ctx, row, itemCache, scenarioCache, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", i+1, err.Error()))
			continue
		}
		years[row.Year] = struct{}{}
	}
	for year := range years {
		s.invalidateYear(ctx, year)
	}

	logger.L(ctx).Info("plan import finished",
		zap.Int("total", result.TotalRows),
		zap.Int("created", result.PlansCreated),
		zap.Int("failed", len(result.Errors)))
	return result, nil
}

func (s *ImportService) importRow(
	ctx context.Context,
	row ImportRow,
	itemCache map[string]*budget.BudgetItem,
	scenarioCache map[string]*budget.Scenario,
	result *ImportResult,
) error {
	code := strings.TrimSpace(row.BudgetCode)
	if code == "" {
		return errors.New("budget_code is required")
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(row.Amount))
	if err != nil {
		return fmt.Errorf("amount %q is not a number", row.Amount)
	}

	item, err := s.resolveItem(ctx, code, row.BudgetName, itemCache, result)
	if err != nil {
		return err
	}
	scenario, err := s.resolveScenario(ctx, row.Scenario, row.Year, scenarioCache, result)
	if err != nil {
		return err
	}

	entry, err := budget.NewPlanEntry(row.Year, row.Month, amount, scenario.ID, item.ID, row.Department)
	if err != nil {
		return err
	}
	if err := s.planRepo.Save(ctx, entry); err != nil {
		return err
	}
	result.PlansCreated++
	return nil
}

func (s *ImportService) resolveItem(ctx context.Context, code, name string, cache map[string]*budget.BudgetItem, result *ImportResult) (*budget.BudgetItem, error) {
	if item, ok := cache[code]; ok {
		return item, nil
	}
	item, err := s.itemRepo.FindByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		item, err = budget.NewBudgetItem(code, name)
		if err != nil {
			return nil, err
		}
		if err := s.itemRepo.Save(ctx, item); err != nil {
			return nil, err
		}
		result.ItemsCreated++
	}
	cache[code] = item
	return item, nil
}

func (s *ImportService) resolveScenario(ctx context.Context, name string, year int, cache map[string]*budget.Scenario, result *ImportResult) (*budget.Scenario, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Default"
	}
	key := fmt.Sprintf("%s:%d", name, year)
	if scenario, ok := cache[key]; ok {
		return scenario, nil
	}
	scenario, err := s.scenarioRepo.FindByNameAndYear(ctx, name, year)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		scenario, err = budget.NewScenario(name, year)
		if err != nil {
			return nil, err
		}
		if err := s.scenarioRepo.Save(ctx, scenario); err != nil {
			return nil, err
		}
		result.ScenariosCreated++
	}
	cache[key] = scenario
	return scenario, nil
}

// CleanupResult reports how many rows a cleanup removed
type CleanupResult struct {
	PlansDeleted    int64 `json:"plans_deleted"`
	ExpensesDeleted int64 `json:"expenses_deleted"`
}

// Cleanup deletes all plan entries and expenses for one year, optionally
// restricted to one scenario. Admin only; there is no undo beyond a backup.
func (s *ImportService) Cleanup(ctx context.Context, year int, scenarioID *uuid.UUID) (*CleanupResult, error) {
	if year == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Cleanup requires a year")
	}

	plans, err := s.planRepo.DeleteFiltered(ctx, budget.PlanFilter{Year: year, ScenarioID: scenarioID})
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.DeleteFiltered(ctx, budget.ExpenseFilter{
		Year:               year,
		ScenarioID:         scenarioID,
		IncludeOutOfBudget: true,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateYear(ctx, year)

	logger.L(ctx).Info("cleanup finished",
		zap.Int("year", year),
		zap.Int64("plans_deleted", plans),
		zap.Int64("expenses_deleted", expenses))
	return &CleanupResult{PlansDeleted: plans, ExpensesDeleted: expenses}, nil
}

func (s *ImportService) invalidateYear(ctx context.Context, year int) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateYear(ctx, year); err != nil {
		logger.L(ctx).Warn("dashboard cache invalidation failed",
			zap.Int("year", year),
			zap.Error(err))
	}
}

func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"budget_code", "year", "month", "amount"} {
		if _, ok := cols[required]; !ok {
			return nil, shared.NewDomainError("INVALID_INPUT", "Missing required column: "+required)
		}
	}
	return cols, nil
}

func rowFromRecord(record []string, cols map[string]int) ImportRow {
	cell := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	atoi := func(name string) int {
		n, _ := strconv.Atoi(cell(name))
		return n
	}
	return ImportRow{
		BudgetCode: cell("budget_code"),
		BudgetName: cell("budget_name"),
		Scenario:   cell("scenario"),
		Year:       atoi("year"),
		Month:      atoi("month"),
		Amount:     cell("amount"),
		Department: cell("department"),
	}
}
