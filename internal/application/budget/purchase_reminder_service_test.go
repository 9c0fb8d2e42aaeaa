package budget

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	domainbudget "github.com/butcetakip/backend/internal/domain/budget"
	"github.com/butcetakip/backend/internal/infrastructure/persistence"
	"github.com/butcetakip/backend/internal/infrastructure/persistence/models"
)

type reminderFixture struct {
	service  *PurchaseReminderService
	items    domainbudget.BudgetItemRepository
	plans    domainbudget.PlanEntryRepository
	expenses domainbudget.ExpenseRepository
}

func setupReminders(t *testing.T) *reminderFixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.BudgetItemModel{},
		&models.PlanEntryModel{},
		&models.ExpenseModel{},
		&models.PurchaseFormStatusModel{},
	))

	items := persistence.NewGormBudgetItemRepository(db)
	plans := persistence.NewGormPlanEntryRepository(db)
	expenses := persistence.NewGormExpenseRepository(db)
	statuses := persistence.NewGormPurchaseFormStatusRepository(db)
	return &reminderFixture{
		service:  NewPurchaseReminderService(plans, expenses, statuses),
		items:    items,
		plans:    plans,
		expenses: expenses,
	}
}

func TestPurchaseReminderService_List(t *testing.T) {
	fx := setupReminders(t)
	ctx := context.Background()
	scenarioID := uuid.New()

	covered, err := domainbudget.NewBudgetItem("IT-001", "Lisanslar")
	require.NoError(t, err)
	require.NoError(t, fx.items.Save(ctx, covered))
	open, err := domainbudget.NewBudgetItem("IT-002", "Donanım")
	require.NoError(t, err)
	require.NoError(t, fx.items.Save(ctx, open))

	for _, itemID := range []uuid.UUID{covered.ID, open.ID} {
		entry, err := domainbudget.NewPlanEntry(2026, 2, decimal.RequireFromString("800.00"), scenarioID, itemID, "")
		require.NoError(t, err)
		require.NoError(t, fx.plans.Save(ctx, entry))
	}

	// Only the covered item has a recorded expense in February.
	expense, err := domainbudget.NewExpense(covered.ID, &scenarioID,
		time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(1), decimal.RequireFromString("800.00"), nil)
	require.NoError(t, err)
	require.NoError(t, fx.expenses.Save(ctx, expense))

	rows, err := fx.service.List(ctx, 2026, scenarioID, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "IT-002", rows[0].BudgetCode)
	assert.Equal(t, 2, rows[0].Month)
	assert.True(t, rows[0].PlannedAmount.Equal(decimal.RequireFromString("800")))
	assert.False(t, rows[0].IsFormPrepared)

	none, err := fx.service.List(ctx, 2026, scenarioID, 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPurchaseReminderService_MarkPrepared(t *testing.T) {
	fx := setupReminders(t)
	ctx := context.Background()
	scenarioID := uuid.New()

	item, err := domainbudget.NewBudgetItem("IT-002", "Donanım")
	require.NoError(t, err)
	require.NoError(t, fx.items.Save(ctx, item))
	entry, err := domainbudget.NewPlanEntry(2026, 2, decimal.RequireFromString("800.00"), scenarioID, item.ID, "")
	require.NoError(t, err)
	require.NoError(t, fx.plans.Save(ctx, entry))

	req := MarkPreparedRequest{
		BudgetCode: "IT-002",
		Year:       2026,
		Month:      2,
		ScenarioID: scenarioID,
		Prepared:   true,
	}
	require.NoError(t, fx.service.MarkPrepared(ctx, "ayse@example.com", req))

	rows, err := fx.service.List(ctx, 2026, scenarioID, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsFormPrepared)
	assert.Equal(t, "ayse@example.com", rows[0].UpdatedBy)
	assert.NotNil(t, rows[0].PreparedAt)

	// Flipping back is an upsert on the same key, not a second row.
	req.Prepared = false
	require.NoError(t, fx.service.MarkPrepared(ctx, "ayse@example.com", req))
	rows, err = fx.service.List(ctx, 2026, scenarioID, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].IsFormPrepared)
	assert.Nil(t, rows[0].PreparedAt)
}

func TestPurchaseReminderService_MarkPreparedBulk(t *testing.T) {
	fx := setupReminders(t)
	ctx := context.Background()
	scenarioID := uuid.New()

	reqs := []MarkPreparedRequest{
		{BudgetCode: "IT-001", Year: 2026, Month: 1, ScenarioID: scenarioID, Prepared: true},
		{BudgetCode: "", Year: 2026, Month: 2, ScenarioID: scenarioID, Prepared: true},
	}
	done, err := fx.service.MarkPreparedBulk(ctx, "admin@example.com", reqs)
	require.Error(t, err)
	assert.Equal(t, 1, done)
}
