package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/butcetakip/backend/internal/domain/views"
	"github.com/butcetakip/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSavedViewRepository implements views.Repository using GORM
type GormSavedViewRepository struct {
	db *gorm.DB
}

// NewGormSavedViewRepository creates a new GormSavedViewRepository
func NewGormSavedViewRepository(db *gorm.DB) *GormSavedViewRepository {
	return &GormSavedViewRepository{db: db}
}

// FindByID finds a saved view by its ID
func (r *GormSavedViewRepository) FindByID(ctx context.Context, id uuid.UUID) (*views.SavedView, error) {
	var model models.SavedViewModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUserAndKey finds a user's view by key
func (r *GormSavedViewRepository) FindByUserAndKey(ctx context.Context, userID uuid.UUID, key string) (*views.SavedView, error) {
	var model models.SavedViewModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND key = ?", userID, key).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUser finds all views owned by a user ordered by key
func (r *GormSavedViewRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*views.SavedView, error) {
	var viewModels []models.SavedViewModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("key ASC").
		Find(&viewModels).Error; err != nil {
		return nil, err
	}
	result := make([]*views.SavedView, len(viewModels))
	for i, model := range viewModels {
		result[i] = model.ToDomain()
	}
	return result, nil
}

// FindAll finds saved views with filtering
func (r *GormSavedViewRepository) FindAll(ctx context.Context, filter shared.Filter) ([]views.SavedView, error) {
	var viewModels []models.SavedViewModel
	query := r.db.WithContext(ctx).Model(&models.SavedViewModel{})
	if filter.Search != "" {
		query = query.Where("key LIKE ?", "%"+filter.Search+"%")
	}

	sortField := ValidateSortField(filter.OrderBy, CommonSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if offset := (filter.Page - 1) * filter.PageSize; offset > 0 {
			query = query.Offset(offset)
		}
	}

	if err := query.Find(&viewModels).Error; err != nil {
		return nil, err
	}
	result := make([]views.SavedView, len(viewModels))
	for i, model := range viewModels {
		result[i] = *model.ToDomain()
	}
	return result, nil
}

// Save upserts a saved view on its (user, key) pair
func (r *GormSavedViewRepository) Save(ctx context.Context, view *views.SavedView) error {
	model := models.SavedViewModelFromDomain(view)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "key"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(model).Error
}

// Delete removes a saved view
func (r *GormSavedViewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SavedViewModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts saved views matching the filter
func (r *GormSavedViewRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.SavedViewModel{})
	if filter.Search != "" {
		query = query.Where("key LIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
