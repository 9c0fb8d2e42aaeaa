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

// GormBudgetItemRepository implements BudgetItemRepository using GORM
type GormBudgetItemRepository struct {
	db *gorm.DB
}

// NewGormBudgetItemRepository creates a new GormBudgetItemRepository
func NewGormBudgetItemRepository(db *gorm.DB) *GormBudgetItemRepository {
	return &GormBudgetItemRepository{db: db}
}

// FindByID finds a budget item by its ID
func (r *GormBudgetItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.BudgetItem, error) {
	var model models.BudgetItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a budget item by its unique code
func (r *GormBudgetItemRepository) FindByCode(ctx context.Context, code string) (*budget.BudgetItem, error) {
	var model models.BudgetItemModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds budget items with filtering
func (r *GormBudgetItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]budget.BudgetItem, error) {
	var itemModels []models.BudgetItemModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BudgetItemModel{}), filter)

	sortField := ValidateSortField(filter.OrderBy, BudgetItemSortFields, "code")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if offset := (filter.Page - 1) * filter.PageSize; offset > 0 {
			query = query.Offset(offset)
		}
	}

	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}
	items := make([]budget.BudgetItem, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// Save creates or updates a budget item
func (r *GormBudgetItemRepository) Save(ctx context.Context, item *budget.BudgetItem) error {
	model := models.BudgetItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a budget item
func (r *GormBudgetItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BudgetItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts budget items matching the filter
func (r *GormBudgetItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BudgetItemModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormBudgetItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("(code LIKE ? OR name LIKE ? OR description LIKE ?)", pattern, pattern, pattern)
	}
	if category, ok := filter.Filters["map_category"]; ok {
		query = query.Where("map_category = ?", category)
	}
	return query
}
