package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/butcetakip/backend/internal/domain/warranty"
	"github.com/butcetakip/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWarrantyItemRepository implements warranty.Repository using GORM
type GormWarrantyItemRepository struct {
	db *gorm.DB
}

// NewGormWarrantyItemRepository creates a new GormWarrantyItemRepository
func NewGormWarrantyItemRepository(db *gorm.DB) *GormWarrantyItemRepository {
	return &GormWarrantyItemRepository{db: db}
}

// FindByID finds a warranty item by its ID
func (r *GormWarrantyItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*warranty.Item, error) {
	var model models.WarrantyItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds warranty items with filtering
func (r *GormWarrantyItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]warranty.Item, error) {
	var itemModels []models.WarrantyItemModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.WarrantyItemModel{}), filter)

	sortField := ValidateSortField(filter.OrderBy, WarrantyItemSortFields, "end_date")
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
	return toWarrantyItems(itemModels), nil
}

// FindActive returns items with the soonest expirations first. Items without
// an end date sort last.
func (r *GormWarrantyItemRepository) FindActive(ctx context.Context, includeInactive bool) ([]warranty.Item, error) {
	query := r.db.WithContext(ctx).Model(&models.WarrantyItemModel{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var itemModels []models.WarrantyItemModel
	if err := query.
		Order("end_date IS NULL, end_date ASC, name ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return toWarrantyItems(itemModels), nil
}

// FindByType returns active items of one type with the soonest expirations first
func (r *GormWarrantyItemRepository) FindByType(ctx context.Context, itemType warranty.ItemType) ([]warranty.Item, error) {
	var itemModels []models.WarrantyItemModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND type = ?", true, itemType).
		Order("end_date IS NULL, end_date ASC, name ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return toWarrantyItems(itemModels), nil
}

// Save creates or updates a warranty item
func (r *GormWarrantyItemRepository) Save(ctx context.Context, item *warranty.Item) error {
	model := models.WarrantyItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a warranty item
func (r *GormWarrantyItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.WarrantyItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts warranty items matching the filter
func (r *GormWarrantyItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.WarrantyItemModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormWarrantyItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("(name LIKE ? OR location LIKE ? OR domain LIKE ? OR issuer LIKE ?)",
			pattern, pattern, pattern, pattern)
	}
	if itemType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", itemType)
	}
	if isActive, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", isActive)
	}
	return query
}

func toWarrantyItems(itemModels []models.WarrantyItemModel) []warranty.Item {
	items := make([]warranty.Item, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items
}
