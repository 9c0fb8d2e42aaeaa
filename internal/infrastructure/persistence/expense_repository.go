package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/butcetakip/backend/internal/domain/budget"
	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/butcetakip/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormExpenseRepository implements ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByID finds an expense by its ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.Expense, error) {
	var model models.ExpenseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds expenses with filtering
func (r *GormExpenseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]budget.Expense, error) {
	var expenseModels []models.ExpenseModel
	query := r.db.WithContext(ctx).Model(&models.ExpenseModel{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("(vendor LIKE ? OR description LIKE ?)", pattern, pattern)
	}

	sortField := ValidateSortField(filter.OrderBy, ExpenseSortFields, "expense_date")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if offset := (filter.Page - 1) * filter.PageSize; offset > 0 {
			query = query.Offset(offset)
		}
	}

	if err := query.Find(&expenseModels).Error; err != nil {
		return nil, err
	}
	return toExpenses(expenseModels), nil
}

// FindFiltered finds expenses matching the expense filter ordered by date
func (r *GormExpenseRepository) FindFiltered(ctx context.Context, f budget.ExpenseFilter) ([]budget.Expense, error) {
	var expenseModels []models.ExpenseModel
	query := r.applyExpenseFilter(r.db.WithContext(ctx).Model(&models.ExpenseModel{}), f)
	if err := query.Order("expense_date DESC, created_at DESC").Find(&expenseModels).Error; err != nil {
		return nil, err
	}
	return toExpenses(expenseModels), nil
}

// SumByMonth sums recorded, in-budget expense amounts per calendar month of
// the expense date. Month extraction happens in Go so the query stays
// portable across postgres and the sqlite test driver.
func (r *GormExpenseRepository) SumByMonth(ctx context.Context, year int, scenarioID, budgetItemID *uuid.UUID) (map[int]decimal.Decimal, error) {
	type dateAmount struct {
		ExpenseDate time.Time
		Amount      decimal.Decimal
	}
	query := r.actualsQuery(ctx, year, scenarioID)
	if budgetItemID != nil {
		query = query.Where("budget_item_id = ?", *budgetItemID)
	}
	var rows []dateAmount
	if err := query.Select("expense_date, amount").Scan(&rows).Error; err != nil {
		return nil, err
	}

	sums := make(map[int]decimal.Decimal)
	for _, row := range rows {
		month := int(row.ExpenseDate.Month())
		sums[month] = sums[month].Add(row.Amount)
	}
	return sums, nil
}

// SumByItem sums recorded, in-budget expense amounts per budget item for a
// year. Expenses without a scenario count toward every scenario.
func (r *GormExpenseRepository) SumByItem(ctx context.Context, year int, scenarioID *uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	type itemSum struct {
		BudgetItemID uuid.UUID
		Amount       decimal.Decimal
	}
	query := r.actualsQuery(ctx, year, scenarioID)

	var rows []itemSum
	if err := query.
		Select("budget_item_id, SUM(amount) AS amount").
		Group("budget_item_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	sums := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.BudgetItemID] = row.Amount
	}
	return sums, nil
}

// RecordedItemMonths returns the (budget item, month) pairs with at least one
// recorded, in-budget expense in the year
func (r *GormExpenseRepository) RecordedItemMonths(ctx context.Context, year int, scenarioID *uuid.UUID) (map[budget.ItemMonth]struct{}, error) {
	type itemDate struct {
		BudgetItemID uuid.UUID
		ExpenseDate  time.Time
	}
	var rows []itemDate
	if err := r.actualsQuery(ctx, year, scenarioID).
		Select("budget_item_id, expense_date").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	recorded := make(map[budget.ItemMonth]struct{})
	for _, row := range rows {
		key := budget.ItemMonth{BudgetItemID: row.BudgetItemID, Month: int(row.ExpenseDate.Month())}
		recorded[key] = struct{}{}
	}
	return recorded, nil
}

// Save creates or updates an expense
func (r *GormExpenseRepository) Save(ctx context.Context, expense *budget.Expense) error {
	model := models.ExpenseModelFromDomain(expense)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes an expense
func (r *GormExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ExpenseModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteFiltered removes all expenses matching the expense filter
func (r *GormExpenseRepository) DeleteFiltered(ctx context.Context, f budget.ExpenseFilter) (int64, error) {
	query := r.applyExpenseFilter(r.db.WithContext(ctx).Where("1 = 1"), f)
	result := query.Delete(&models.ExpenseModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Count counts expenses matching the filter
func (r *GormExpenseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ExpenseModel{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("(vendor LIKE ? OR description LIKE ?)", pattern, pattern)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// actualsQuery scopes a query to the expenses that count as actual spend:
// recorded status, inside the budget, in the given year.
func (r *GormExpenseRepository) actualsQuery(ctx context.Context, year int, scenarioID *uuid.UUID) *gorm.DB {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	query := r.db.WithContext(ctx).Model(&models.ExpenseModel{}).
		Where("status = ?", budget.ExpenseStatusRecorded).
		Where("is_out_of_budget = ?", false).
		Where("expense_date >= ? AND expense_date < ?", from, to)
	if scenarioID != nil {
		query = query.Where("(scenario_id = ? OR scenario_id IS NULL)", *scenarioID)
	}
	return query
}

func (r *GormExpenseRepository) applyExpenseFilter(query *gorm.DB, f budget.ExpenseFilter) *gorm.DB {
	if f.Year != 0 {
		from := time.Date(f.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		query = query.Where("expense_date >= ? AND expense_date < ?", from, from.AddDate(1, 0, 0))
	}
	if f.BudgetItemID != nil {
		query = query.Where("budget_item_id = ?", *f.BudgetItemID)
	}
	if f.ScenarioID != nil {
		query = query.Where("scenario_id = ?", *f.ScenarioID)
	}
	if f.StartDate != nil {
		query = query.Where("expense_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		query = query.Where("expense_date <= ?", *f.EndDate)
	}
	if f.OnDate != nil {
		day := time.Date(f.OnDate.Year(), f.OnDate.Month(), f.OnDate.Day(), 0, 0, 0, 0, f.OnDate.Location())
		query = query.Where("expense_date >= ? AND expense_date < ?", day, day.AddDate(0, 0, 1))
	}
	if len(f.Statuses) > 0 {
		query = query.Where("status IN ?", f.Statuses)
	}
	if !f.IncludeOutOfBudget {
		query = query.Where("is_out_of_budget = ?", false)
	}
	if f.CreatedBy != nil {
		query = query.Where("created_by = ?", *f.CreatedBy)
	}
	if f.ImportedOnly {
		query = query.Where("is_imported = ?", true)
	}
	return query
}

func toExpenses(expenseModels []models.ExpenseModel) []budget.Expense {
	expenses := make([]budget.Expense, len(expenseModels))
	for i, model := range expenseModels {
		expenses[i] = *model.ToDomain()
	}
	return expenses
}
