package persistence

import (
	"context"
	"errors"

	"github.com/butcetakip/backend/internal/domain/budget"
	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/butcetakip/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseFormStatusRepository implements PurchaseFormStatusRepository using GORM
type GormPurchaseFormStatusRepository struct {
	db *gorm.DB
}

// NewGormPurchaseFormStatusRepository creates a new GormPurchaseFormStatusRepository
func NewGormPurchaseFormStatusRepository(db *gorm.DB) *GormPurchaseFormStatusRepository {
	return &GormPurchaseFormStatusRepository{db: db}
}

// Save upserts a tracking row on its natural key
func (r *GormPurchaseFormStatusRepository) Save(ctx context.Context, status *budget.PurchaseFormStatus) error {
	model := models.PurchaseFormStatusModelFromDomain(status)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "budget_code"},
			{Name: "year"},
			{Name: "month"},
			{Name: "scenario_id"},
			{Name: "department"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"is_form_prepared", "updated_by", "prepared_at", "updated_at"}),
	}).Create(model).Error
}

// FindByKey finds a tracking row by its natural key
func (r *GormPurchaseFormStatusRepository) FindByKey(ctx context.Context, budgetCode string, year, month int, scenarioID uuid.UUID, department string) (*budget.PurchaseFormStatus, error) {
	var model models.PurchaseFormStatusModel
	if err := r.db.WithContext(ctx).
		Where("budget_code = ? AND year = ? AND month = ? AND scenario_id = ? AND department = ?",
			budgetCode, year, month, scenarioID, department).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindForPeriod finds all tracking rows for a year
func (r *GormPurchaseFormStatusRepository) FindForPeriod(ctx context.Context, year int, scenarioID *uuid.UUID) ([]budget.PurchaseFormStatus, error) {
	query := r.db.WithContext(ctx).Where("year = ?", year)
	if scenarioID != nil {
		query = query.Where("scenario_id = ?", *scenarioID)
	}

	var statusModels []models.PurchaseFormStatusModel
	if err := query.Order("budget_code ASC, month ASC").Find(&statusModels).Error; err != nil {
		return nil, err
	}
	statuses := make([]budget.PurchaseFormStatus, len(statusModels))
	for i, model := range statusModels {
		statuses[i] = *model.ToDomain()
	}
	return statuses, nil
}
