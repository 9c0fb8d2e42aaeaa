package importexport

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/butcetakip/backend/internal/domain/budget"
	"github.com/butcetakip/backend/internal/infrastructure/persistence"
	"github.com/butcetakip/backend/internal/infrastructure/persistence/models"
)

type exportFixture struct {
	service  *ExportService
	items    budget.BudgetItemRepository
	plans    budget.PlanEntryRepository
	expenses budget.ExpenseRepository
}

func setupExport(t *testing.T) *exportFixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.BudgetItemModel{},
		&models.PlanEntryModel{},
		&models.ExpenseModel{},
	))

	items := persistence.NewGormBudgetItemRepository(db)
	plans := persistence.NewGormPlanEntryRepository(db)
	expenses := persistence.NewGormExpenseRepository(db)
	return &exportFixture{
		service:  NewExportService(items, plans, expenses),
		items:    items,
		plans:    plans,
		expenses: expenses,
	}
}

func TestExportService_BudgetXLSX(t *testing.T) {
	fx := setupExport(t)
	ctx := context.Background()
	scenarioID := uuid.New()

	item, err := budget.NewBudgetItem("IT-001", "Lisanslar")
	require.NoError(t, err)
	require.NoError(t, fx.items.Save(ctx, item))
	entry, err := budget.NewPlanEntry(2026, 1, decimal.RequireFromString("1000.00"), scenarioID, item.ID, "")
	require.NoError(t, err)
	require.NoError(t, fx.plans.Save(ctx, entry))

	expense, err := budget.NewExpense(item.ID, &scenarioID,
		time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(1), decimal.RequireFromString("1250.00"), nil)
	require.NoError(t, err)
	require.NoError(t, fx.expenses.Save(ctx, expense))

	payload, err := fx.service.BudgetXLSX(ctx, 2026, &scenarioID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bütçe 2026")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Kod", rows[0][0])
	assert.Equal(t, "Ocak", rows[0][2])
	assert.Equal(t, "IT-001", rows[1][0])
	assert.Equal(t, "1000", rows[1][2])  // January plan
	assert.Equal(t, "1250", rows[1][15]) // actual total
	assert.Equal(t, "250", rows[1][17])  // overrun
}

func TestExportService_QuarterlyXLSX(t *testing.T) {
	fx := setupExport(t)
	ctx := context.Background()
	scenarioID := uuid.New()
	itemID := uuid.New()

	for month := 1; month <= 3; month++ {
		entry, err := budget.NewPlanEntry(2026, month, decimal.RequireFromString("100.00"), scenarioID, itemID, "")
		require.NoError(t, err)
		require.NoError(t, fx.plans.Save(ctx, entry))
	}

	payload, err := fx.service.QuarterlyXLSX(ctx, 2026, &scenarioID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Çeyrek 2026")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Q1", rows[1][0])
	assert.Equal(t, "300", rows[1][1])
}

func TestExportService_ExpenseCSVs(t *testing.T) {
	fx := setupExport(t)
	ctx := context.Background()

	item, err := budget.NewBudgetItem("GN-001", "Kırtasiye")
	require.NoError(t, err)
	require.NoError(t, fx.items.Save(ctx, item))

	mk := func(outOfBudget bool, cancel bool) {
		expense, err := budget.NewExpense(item.ID, nil,
			time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			decimal.NewFromInt(2), decimal.RequireFromString("25.00"), nil)
		require.NoError(t, err)
		expense.IsOutOfBudget = outOfBudget
		if cancel {
			require.NoError(t, expense.Cancel())
		}
		require.NoError(t, fx.expenses.Save(ctx, expense))
	}
	mk(false, false)
	mk(true, false)
	mk(false, true)

	outOfBudget, err := fx.service.OutOfBudgetCSV(ctx, 2026)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(outOfBudget)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2) // header + one row
	assert.Equal(t, "GN-001", records[1][1])
	assert.Equal(t, "50.00", records[1][6])
	assert.Equal(t, "true", records[1][8])

	cancelled, err := fx.service.CancelledCSV(ctx, 2026)
	require.NoError(t, err)
	records, err = csv.NewReader(bytes.NewReader(cancelled)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "cancelled", records[1][7])
}
