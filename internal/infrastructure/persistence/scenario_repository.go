package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/butcetakip/backend/internal/domain/budget"
	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/butcetakip/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormScenarioRepository implements ScenarioRepository using GORM
type GormScenarioRepository struct {
	db *gorm.DB
}

// NewGormScenarioRepository creates a new GormScenarioRepository
func NewGormScenarioRepository(db *gorm.DB) *GormScenarioRepository {
	return &GormScenarioRepository{db: db}
}

// FindByID finds a scenario by its ID
func (r *GormScenarioRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.Scenario, error) {
	var model models.ScenarioModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNameAndYear finds a scenario by its unique (name, year) pair
func (r *GormScenarioRepository) FindByNameAndYear(ctx context.Context, name string, year int) (*budget.Scenario, error) {
	var model models.ScenarioModel
	if err := r.db.WithContext(ctx).
		Where("name = ? AND year = ?", name, year).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByYear finds all scenarios for a year ordered by name
func (r *GormScenarioRepository) FindByYear(ctx context.Context, year int) ([]budget.Scenario, error) {
	var scenarioModels []models.ScenarioModel
	if err := r.db.WithContext(ctx).
		Where("year = ?", year).
		Order("name ASC").
		Find(&scenarioModels).Error; err != nil {
		return nil, err
	}
	scenarios := make([]budget.Scenario, len(scenarioModels))
	for i, model := range scenarioModels {
		scenarios[i] = *model.ToDomain()
	}
	return scenarios, nil
}

// FindAll finds scenarios with filtering
func (r *GormScenarioRepository) FindAll(ctx context.Context, filter shared.Filter) ([]budget.Scenario, error) {
	var scenarioModels []models.ScenarioModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ScenarioModel{}), filter)

	sortField := ValidateSortField(filter.OrderBy, ScenarioSortFields, "year")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if offset := (filter.Page - 1) * filter.PageSize; offset > 0 {
			query = query.Offset(offset)
		}
	}

	if err := query.Find(&scenarioModels).Error; err != nil {
		return nil, err
	}
	scenarios := make([]budget.Scenario, len(scenarioModels))
	for i, model := range scenarioModels {
		scenarios[i] = *model.ToDomain()
	}
	return scenarios, nil
}

// Save creates or updates a scenario
func (r *GormScenarioRepository) Save(ctx context.Context, scenario *budget.Scenario) error {
	model := models.ScenarioModelFromDomain(scenario)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a scenario
func (r *GormScenarioRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ScenarioModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts scenarios matching the filter
func (r *GormScenarioRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ScenarioModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormScenarioRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("(name LIKE ? OR description LIKE ?)", pattern, pattern)
	}
	if year, ok := filter.Filters["year"]; ok {
		query = query.Where("year = ?", year)
	}
	return query
}
