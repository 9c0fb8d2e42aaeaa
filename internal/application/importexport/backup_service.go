package importexport

import (
	"context"

	"github.com/butcetakip/backend/internal/infrastructure/logger"
	"github.com/butcetakip/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// BackupService exposes whole-database snapshots for admins. User accounts
// are not part of the snapshot, so a restore cannot lock anyone out.
type BackupService struct {
	store *persistence.BackupStore
}

// NewBackupService creates a new BackupService
func NewBackupService(store *persistence.BackupStore) *BackupService {
	return &BackupService{store: store}
}

// Dump captures everything except user accounts
func (s *BackupService) Dump(ctx context.Context) (*persistence.Snapshot, error) {
	snapshot, err := s.store.Dump(ctx)
	if err != nil {
		return nil, err
	}
	logger.L(ctx).Info("backup snapshot taken",
		zap.Int("budget_items", len(snapshot.BudgetItems)),
		zap.Int("expenses", len(snapshot.Expenses)))
	return snapshot, nil
}

// Restore replaces all budget and warranty data with the snapshot contents
// inside one transaction
func (s *BackupService) Restore(ctx context.Context, snapshot *persistence.Snapshot) error {
	if err := s.store.Restore(ctx, snapshot); err != nil {
		return err
	}
	logger.L(ctx).Info("backup snapshot restored",
		zap.Int("budget_items", len(snapshot.BudgetItems)),
		zap.Int("expenses", len(snapshot.Expenses)))
	return nil
}
