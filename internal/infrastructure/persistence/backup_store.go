package persistence

import (
	"context"
	"time"

	"github.com/butcetakip/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const restoreBatchSize = 500

// Snapshot is a full dump of the application state, used by the backup and
// restore endpoints. Users are deliberately excluded so restoring a snapshot
// cannot lock anyone out.
type Snapshot struct {
	TakenAt              time.Time                        `json:"taken_at"`
	BudgetItems          []models.BudgetItemModel         `json:"budget_items"`
	Scenarios            []models.ScenarioModel           `json:"scenarios"`
	PlanEntries          []models.PlanEntryModel          `json:"plan_entries"`
	Expenses             []models.ExpenseModel            `json:"expenses"`
	PurchaseFormStatuses []models.PurchaseFormStatusModel `json:"purchase_form_statuses"`
	WarrantyItems        []models.WarrantyItemModel       `json:"warranty_items"`
}

// BackupStore dumps and restores the full application state
type BackupStore struct {
	db *gorm.DB
}

// NewBackupStore creates a new BackupStore
func NewBackupStore(db *gorm.DB) *BackupStore {
	return &BackupStore{db: db}
}

// Dump reads every table into a snapshot
func (s *BackupStore) Dump(ctx context.Context) (*Snapshot, error) {
	snapshot := &Snapshot{TakenAt: time.Now().UTC()}
	db := s.db.WithContext(ctx)

	if err := db.Order("code ASC").Find(&snapshot.BudgetItems).Error; err != nil {
		return nil, err
	}
	if err := db.Order("year ASC, name ASC").Find(&snapshot.Scenarios).Error; err != nil {
		return nil, err
	}
	if err := db.Order("year ASC, month ASC").Find(&snapshot.PlanEntries).Error; err != nil {
		return nil, err
	}
	if err := db.Order("expense_date ASC").Find(&snapshot.Expenses).Error; err != nil {
		return nil, err
	}
	if err := db.Order("year ASC, month ASC").Find(&snapshot.PurchaseFormStatuses).Error; err != nil {
		return nil, err
	}
	if err := db.Order("name ASC").Find(&snapshot.WarrantyItems).Error; err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Restore replaces the full application state with the snapshot. The swap
// runs in one transaction so a failed restore leaves the previous state
// untouched.
func (s *BackupStore) Restore(ctx context.Context, snapshot *Snapshot) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Children first so foreign keys never dangle mid-transaction.
		for _, model := range []interface{}{
			&models.PurchaseFormStatusModel{},
			&models.ExpenseModel{},
			&models.PlanEntryModel{},
			&models.ScenarioModel{},
			&models.BudgetItemModel{},
			&models.WarrantyItemModel{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}

		if len(snapshot.BudgetItems) > 0 {
			if err := tx.CreateInBatches(snapshot.BudgetItems, restoreBatchSize).Error; err != nil {
				return err
			}
		}
		if len(snapshot.Scenarios) > 0 {
			if err := tx.CreateInBatches(snapshot.Scenarios, restoreBatchSize).Error; err != nil {
				return err
			}
		}
		if len(snapshot.PlanEntries) > 0 {
			if err := tx.CreateInBatches(snapshot.PlanEntries, restoreBatchSize).Error; err != nil {
				return err
			}
		}
		if len(snapshot.Expenses) > 0 {
			if err := tx.CreateInBatches(snapshot.Expenses, restoreBatchSize).Error; err != nil {
				return err
			}
		}
		if len(snapshot.PurchaseFormStatuses) > 0 {
			if err := tx.CreateInBatches(snapshot.PurchaseFormStatuses, restoreBatchSize).Error; err != nil {
				return err
			}
		}
		if len(snapshot.WarrantyItems) > 0 {
			if err := tx.CreateInBatches(snapshot.WarrantyItems, restoreBatchSize).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
