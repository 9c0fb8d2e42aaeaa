package persistence

import (
	"context"
	"testing"

	"github.com/butcetakip/backend/internal/domain/budget"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/butcetakip/backend/internal/infrastructure/persistence/models"
)

func setupPlanTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.BudgetItemModel{}, &models.ScenarioModel{}, &models.PlanEntryModel{})
	require.NoError(t, err)

	return db
}

func mustPlanEntry(t *testing.T, year, month int, amount string, scenarioID, itemID uuid.UUID, department string) *budget.PlanEntry {
	t.Helper()
	entry, err := budget.NewPlanEntry(year, month, decimal.RequireFromString(amount), scenarioID, itemID, department)
	require.NoError(t, err)
	return entry
}

func TestGormPlanEntryRepository_SaveAndFindByID(t *testing.T) {
	db := setupPlanTestDB(t)
	repo := NewGormPlanEntryRepository(db)
	ctx := context.Background()

	entry := mustPlanEntry(t, 2026, 3, "1500.00", uuid.New(), uuid.New(), "IT")
	require.NoError(t, repo.Save(ctx, entry))

	found, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, found.ID)
	assert.Equal(t, 2026, found.Year)
	assert.Equal(t, 3, found.Month)
	assert.True(t, found.Amount.Equal(decimal.RequireFromString("1500.00")))
	assert.Equal(t, "IT", found.Department)
}

func TestGormPlanEntryRepository_FindFiltered(t *testing.T) {
	db := setupPlanTestDB(t)
	repo := NewGormPlanEntryRepository(db)
	ctx := context.Background()

	scenarioA := uuid.New()
	scenarioB := uuid.New()
	itemID := uuid.New()

	require.NoError(t, repo.Save(ctx, mustPlanEntry(t, 2026, 1, "100", scenarioA, itemID, "IT")))
	require.NoError(t, repo.Save(ctx, mustPlanEntry(t, 2026, 2, "200", scenarioA, itemID, "HR")))
	require.NoError(t, repo.Save(ctx, mustPlanEntry(t, 2026, 1, "300", scenarioB, itemID, "IT")))
	require.NoError(t, repo.Save(ctx, mustPlanEntry(t, 2025, 1, "400", scenarioA, itemID, "IT")))

	t.Run("filters by year and scenario", func(t *testing.T) {
		entries, err := repo.FindFiltered(ctx, budget.PlanFilter{Year: 2026, ScenarioID: &scenarioA})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, 1, entries[0].Month)
		assert.Equal(t, 2, entries[1].Month)
	})

	t.Run("filters by department", func(t *testing.T) {
		entries, err := repo.FindFiltered(ctx, budget.PlanFilter{Year: 2026, Department: "HR"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.True(t, entries[0].Amount.Equal(decimal.RequireFromString("200")))
	})

	t.Run("zero filter returns everything", func(t *testing.T) {
		entries, err := repo.FindFiltered(ctx, budget.PlanFilter{})
		require.NoError(t, err)
		assert.Len(t, entries, 4)
	})
}

func TestGormPlanEntryRepository_AggregateByItemMonth(t *testing.T) {
	db := setupPlanTestDB(t)
	repo := NewGormPlanEntryRepository(db)
	itemRepo := NewGormBudgetItemRepository(db)
	ctx := context.Background()

	itemB, err := budget.NewBudgetItem("B-200", "Licenses")
	require.NoError(t, err)
	itemA, err := budget.NewBudgetItem("A-100", "Hardware")
	require.NoError(t, err)
	require.NoError(t, itemRepo.Save(ctx, itemA))
	require.NoError(t, itemRepo.Save(ctx, itemB))

	scenarioID := uuid.New()
	// Duplicate rows for (A-100, January) must be summed into one cell.
	require.NoError(t, repo.Save(ctx, mustPlanEntry(t, 2026, 1, "100", scenarioID, itemA.ID, "IT")))
	require.NoError(t, repo.Save(ctx, mustPlanEntry(t, 2026, 1, "50", scenarioID, itemA.ID, "HR")))
	require.NoError(t, repo.Save(ctx, mustPlanEntry(t, 2026, 2, "70", scenarioID, itemA.ID, "IT")))
	require.NoError(t, repo.Save(ctx, mustPlanEntry(t, 2026, 1, "900", scenarioID, itemB.ID, "IT")))

	rows, err := repo.AggregateByItemMonth(ctx, 2026, &scenarioID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "A-100", rows[0].BudgetCode)
	assert.Equal(t, 1, rows[0].Month)
	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("150")))

	assert.Equal(t, "A-100", rows[1].BudgetCode)
	assert.Equal(t, 2, rows[1].Month)

	assert.Equal(t, "B-200", rows[2].BudgetCode)
	assert.Equal(t, "Licenses", rows[2].BudgetName)
}

func TestGormPlanEntryRepository_SumByMonth(t *testing.T) {
	db := setupPlanTestDB(t)
	repo := NewGormPlanEntryRepository(db)
	ctx := context.Background()

	scenarioID := uuid.New()
	itemID := uuid.New()
	require.NoError(t, repo.Save(ctx, mustPlanEntry(t, 2026, 1, "100", scenarioID, itemID, "")))
	require.NoError(t, repo.Save(ctx, mustPlanEntry(t, 2026, 1, "25", scenarioID, uuid.New(), "")))
	require.NoError(t, repo.Save(ctx, mustPlanEntry(t, 2026, 6, "40", scenarioID, itemID, "")))

	sums, err := repo.SumByMonth(ctx, budget.PlanFilter{Year: 2026, ScenarioID: &scenarioID})
	require.NoError(t, err)
	require.Len(t, sums, 2)
	assert.True(t, sums[1].Equal(decimal.RequireFromString("125")))
	assert.True(t, sums[6].Equal(decimal.RequireFromString("40")))
}

func TestGormPlanEntryRepository_Departments(t *testing.T) {
	db := setupPlanTestDB(t)
	repo := NewGormPlanEntryRepository(db)
	ctx := context.Background()

	scenarioID := uuid.New()
	require.NoError(t, repo.Save(ctx, mustPlanEntry(t, 2026, 1, "1", scenarioID, uuid.New(), "IT")))
	require.NoError(t, repo.Save(ctx, mustPlanEntry(t, 2026, 2, "1", scenarioID, uuid.New(), "IT")))
	require.NoError(t, repo.Save(ctx, mustPlanEntry(t, 2026, 3, "1", scenarioID, uuid.New(), "Finans")))
	require.NoError(t, repo.Save(ctx, mustPlanEntry(t, 2026, 4, "1", scenarioID, uuid.New(), "")))

	departments, err := repo.Departments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Finans", "IT"}, departments)
}

func TestGormPlanEntryRepository_DeleteFiltered(t *testing.T) {
	db := setupPlanTestDB(t)
	repo := NewGormPlanEntryRepository(db)
	ctx := context.Background()

	scenarioID := uuid.New()
	itemID := uuid.New()
	require.NoError(t, repo.Save(ctx, mustPlanEntry(t, 2026, 1, "1", scenarioID, itemID, "")))
	require.NoError(t, repo.Save(ctx, mustPlanEntry(t, 2026, 2, "1", scenarioID, itemID, "")))
	require.NoError(t, repo.Save(ctx, mustPlanEntry(t, 2025, 1, "1", scenarioID, itemID, "")))

	deleted, err := repo.DeleteFiltered(ctx, budget.PlanFilter{Year: 2026})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := repo.FindFiltered(ctx, budget.PlanFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, 2025, remaining[0].Year)
}
