package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/butcetakip/backend/internal/domain/budget"
	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/butcetakip/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPlanEntryRepository implements PlanEntryRepository using GORM
type GormPlanEntryRepository struct {
	db *gorm.DB
}

// NewGormPlanEntryRepository creates a new GormPlanEntryRepository
func NewGormPlanEntryRepository(db *gorm.DB) *GormPlanEntryRepository {
	return &GormPlanEntryRepository{db: db}
}

// FindByID finds a plan entry by its ID
func (r *GormPlanEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.PlanEntry, error) {
	var model models.PlanEntryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds plan entries with filtering
func (r *GormPlanEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]budget.PlanEntry, error) {
	var entryModels []models.PlanEntryModel
	query := r.db.WithContext(ctx).Model(&models.PlanEntryModel{})
	if filter.Search != "" {
		query = query.Where("department LIKE ?", "%"+filter.Search+"%")
	}

	sortField := ValidateSortField(filter.OrderBy, PlanEntrySortFields, "month")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if offset := (filter.Page - 1) * filter.PageSize; offset > 0 {
			query = query.Offset(offset)
		}
	}

	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toPlanEntries(entryModels), nil
}

// FindFiltered finds plan entries matching the plan filter ordered by month
func (r *GormPlanEntryRepository) FindFiltered(ctx context.Context, f budget.PlanFilter) ([]budget.PlanEntry, error) {
	var entryModels []models.PlanEntryModel
	query := r.applyPlanFilter(r.db.WithContext(ctx).Model(&models.PlanEntryModel{}), f)
	if err := query.Order("month ASC, created_at ASC").Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toPlanEntries(entryModels), nil
}

// AggregateByItemMonth sums duplicate plan rows per (budget item, month)
func (r *GormPlanEntryRepository) AggregateByItemMonth(ctx context.Context, year int, scenarioID *uuid.UUID) ([]budget.PlanAggregateRow, error) {
	query := r.db.WithContext(ctx).Model(&models.PlanEntryModel{}).
		Select("plan_entries.budget_item_id, budget_items.code AS budget_code, budget_items.name AS budget_name, plan_entries.month, SUM(plan_entries.amount) AS amount").
		Joins("JOIN budget_items ON budget_items.id = plan_entries.budget_item_id").
		Where("plan_entries.year = ?", year)
	if scenarioID != nil {
		query = query.Where("plan_entries.scenario_id = ?", *scenarioID)
	}

	var rows []budget.PlanAggregateRow
	if err := query.
		Group("plan_entries.budget_item_id, budget_items.code, budget_items.name, plan_entries.month").
		Order("budget_items.code ASC, plan_entries.month ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SumByMonth sums plan amounts per month
func (r *GormPlanEntryRepository) SumByMonth(ctx context.Context, f budget.PlanFilter) (map[int]decimal.Decimal, error) {
	type monthSum struct {
		Month  int
		Amount decimal.Decimal
	}
	var rows []monthSum
	query := r.applyPlanFilter(r.db.WithContext(ctx).Model(&models.PlanEntryModel{}), f)
	if err := query.
		Select("month, SUM(amount) AS amount").
		Group("month").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	sums := make(map[int]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.Month] = row.Amount
	}
	return sums, nil
}

// SumByItem sums plan amounts per budget item for a year
func (r *GormPlanEntryRepository) SumByItem(ctx context.Context, year int, scenarioID *uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	type itemSum struct {
		BudgetItemID uuid.UUID
		Amount       decimal.Decimal
	}
	query := r.db.WithContext(ctx).Model(&models.PlanEntryModel{}).
		Where("year = ?", year)
	if scenarioID != nil {
		query = query.Where("scenario_id = ?", *scenarioID)
	}

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

// Departments lists distinct non-empty departments across all plan entries
func (r *GormPlanEntryRepository) Departments(ctx context.Context) ([]string, error) {
	var departments []string
	if err := r.db.WithContext(ctx).Model(&models.PlanEntryModel{}).
		Distinct("department").
		Where("department <> ''").
		Order("department ASC").
		Pluck("department", &departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

// Save creates or updates a plan entry
func (r *GormPlanEntryRepository) Save(ctx context.Context, entry *budget.PlanEntry) error {
	model := models.PlanEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a plan entry
func (r *GormPlanEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PlanEntryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteFiltered removes all plan entries matching the plan filter
func (r *GormPlanEntryRepository) DeleteFiltered(ctx context.Context, f budget.PlanFilter) (int64, error) {
	query := r.applyPlanFilter(r.db.WithContext(ctx).Where("1 = 1"), f)
	result := query.Delete(&models.PlanEntryModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Count counts plan entries matching the filter
func (r *GormPlanEntryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PlanEntryModel{})
	if filter.Search != "" {
		query = query.Where("department LIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPlanEntryRepository) applyPlanFilter(query *gorm.DB, f budget.PlanFilter) *gorm.DB {
	if f.Year != 0 {
		query = query.Where("year = ?", f.Year)
	}
	if f.ScenarioID != nil {
		query = query.Where("scenario_id = ?", *f.ScenarioID)
	}
	if f.BudgetItemID != nil {
		query = query.Where("budget_item_id = ?", *f.BudgetItemID)
	}
	if f.Department != "" {
		query = query.Where("department = ?", f.Department)
	}
	return query
}

func toPlanEntries(entryModels []models.PlanEntryModel) []budget.PlanEntry {
	entries := make([]budget.PlanEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries
}
