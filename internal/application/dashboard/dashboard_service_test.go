package dashboard

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

	"github.com/butcetakip/backend/internal/domain/budget"
	"github.com/butcetakip/backend/internal/infrastructure/cache"
	"github.com/butcetakip/backend/internal/infrastructure/persistence"
	"github.com/butcetakip/backend/internal/infrastructure/persistence/models"
)

type dashboardFixture struct {
	service  *DashboardService
	items    budget.BudgetItemRepository
	plans    budget.PlanEntryRepository
	expenses budget.ExpenseRepository
	cache    cache.DashboardCache
}

func setupDashboard(t *testing.T) *dashboardFixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.BudgetItemModel{},
		&models.ScenarioModel{},
		&models.PlanEntryModel{},
		&models.ExpenseModel{},
	))

	items := persistence.NewGormBudgetItemRepository(db)
	plans := persistence.NewGormPlanEntryRepository(db)
	expenses := persistence.NewGormExpenseRepository(db)
	dashCache := cache.NewInMemoryDashboardCache()
	t.Cleanup(func() { dashCache.Close() })

	return &dashboardFixture{
		service:  NewDashboardService(plans, expenses, items, dashCache),
		items:    items,
		plans:    plans,
		expenses: expenses,
		cache:    dashCache,
	}
}

func (fx *dashboardFixture) addItem(t *testing.T, code, name string) *budget.BudgetItem {
	t.Helper()
	item, err := budget.NewBudgetItem(code, name)
	require.NoError(t, err)
	require.NoError(t, fx.items.Save(context.Background(), item))
	return item
}

func (fx *dashboardFixture) addPlan(t *testing.T, itemID, scenarioID uuid.UUID, month int, amount string) {
	t.Helper()
	entry, err := budget.NewPlanEntry(2026, month, decimal.RequireFromString(amount), scenarioID, itemID, "")
	require.NoError(t, err)
	require.NoError(t, fx.plans.Save(context.Background(), entry))
}

func (fx *dashboardFixture) addExpense(t *testing.T, itemID uuid.UUID, month int, amount string) {
	t.Helper()
	date := time.Date(2026, time.Month(month), 15, 0, 0, 0, 0, time.UTC)
	expense, err := budget.NewExpense(itemID, nil, date, decimal.NewFromInt(1), decimal.RequireFromString(amount), nil)
	require.NoError(t, err)
	require.NoError(t, fx.expenses.Save(context.Background(), expense))
}

func TestDashboardService_Summary(t *testing.T) {
	fx := setupDashboard(t)
	ctx := context.Background()
	scenarioID := uuid.New()

	item := fx.addItem(t, "IT-001", "Lisanslar")
	fx.addPlan(t, item.ID, scenarioID, 1, "1000.00")
	fx.addPlan(t, item.ID, scenarioID, 2, "1000.00")
	fx.addExpense(t, item.ID, 1, "1200.00") // over in January
	fx.addExpense(t, item.ID, 2, "400.00")  // under in February

	resp, err := fx.service.Summary(ctx, Query{Year: 2026, ScenarioID: &scenarioID})
	require.NoError(t, err)

	require.Len(t, resp.Monthly, 12)
	jan := resp.Monthly[0]
	assert.True(t, jan.Overrun.Equal(decimal.RequireFromString("200")))
	assert.True(t, jan.Remaining.IsZero())
	feb := resp.Monthly[1]
	assert.True(t, feb.Remaining.Equal(decimal.RequireFromString("600")))
	assert.True(t, feb.Overrun.IsZero())

	// Netted total has 400 headroom, but the per-month overrun floor wins.
	assert.True(t, resp.KPI.TotalPlan.Equal(decimal.RequireFromString("2000")))
	assert.True(t, resp.KPI.TotalActual.Equal(decimal.RequireFromString("1600")))
	assert.True(t, resp.KPI.TotalRemaining.Equal(decimal.RequireFromString("400")))
	assert.True(t, resp.KPI.TotalOverrun.Equal(decimal.RequireFromString("200")))

	require.Len(t, resp.Quarterly, 4)
	q1 := resp.Quarterly[0]
	assert.True(t, q1.HasData)
	assert.True(t, q1.Remaining.Equal(decimal.RequireFromString("600")))
	assert.True(t, q1.Overrun.Equal(decimal.RequireFromString("200")))
	assert.False(t, resp.Quarterly[3].HasData)
}

func TestDashboardService_SummaryExcludesCancelled(t *testing.T) {
	fx := setupDashboard(t)
	ctx := context.Background()
	scenarioID := uuid.New()

	item := fx.addItem(t, "IT-004", "Yazılım")
	fx.addPlan(t, item.ID, scenarioID, 3, "1000.00")
	fx.addExpense(t, item.ID, 3, "100.00")

	date := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)
	cancelled, err := budget.NewExpense(item.ID, nil, date, decimal.NewFromInt(1), decimal.RequireFromString("900.00"), nil)
	require.NoError(t, err)
	require.NoError(t, cancelled.Cancel())
	require.NoError(t, fx.expenses.Save(ctx, cancelled))

	resp, err := fx.service.Summary(ctx, Query{Year: 2026, ScenarioID: &scenarioID})
	require.NoError(t, err)
	march := resp.Monthly[2]
	assert.True(t, march.Actual.Equal(decimal.RequireFromString("100")))
	assert.True(t, resp.KPI.TotalActual.Equal(decimal.RequireFromString("100")))
}

func TestDashboardService_SummaryUsesCache(t *testing.T) {
	fx := setupDashboard(t)
	ctx := context.Background()
	scenarioID := uuid.New()

	item := fx.addItem(t, "IT-001", "Lisanslar")
	fx.addPlan(t, item.ID, scenarioID, 1, "500.00")

	first, err := fx.service.Summary(ctx, Query{Year: 2026, ScenarioID: &scenarioID})
	require.NoError(t, err)

	// A mutation without invalidation is not visible until the TTL expires.
	fx.addPlan(t, item.ID, scenarioID, 1, "500.00")
	cached, err := fx.service.Summary(ctx, Query{Year: 2026, ScenarioID: &scenarioID})
	require.NoError(t, err)
	assert.True(t, cached.KPI.TotalPlan.Equal(first.KPI.TotalPlan))

	require.NoError(t, fx.cache.InvalidateYear(ctx, 2026))
	fresh, err := fx.service.Summary(ctx, Query{Year: 2026, ScenarioID: &scenarioID})
	require.NoError(t, err)
	assert.True(t, fresh.KPI.TotalPlan.Equal(decimal.RequireFromString("1000")))
}

func TestDashboardService_Trend(t *testing.T) {
	fx := setupDashboard(t)
	ctx := context.Background()
	scenarioID := uuid.New()

	item := fx.addItem(t, "IT-002", "Donanım")
	other := fx.addItem(t, "IT-003", "Ağ")
	fx.addPlan(t, item.ID, scenarioID, 5, "300.00")
	fx.addPlan(t, other.ID, scenarioID, 5, "9999.00")
	fx.addExpense(t, item.ID, 5, "120.00")

	resp, err := fx.service.Trend(ctx, 2026, &scenarioID, "IT-002")
	require.NoError(t, err)
	assert.Equal(t, "IT-002", resp.BudgetCode)
	assert.Equal(t, "Donanım", resp.BudgetName)
	may := resp.Monthly[4]
	assert.True(t, may.Planned.Equal(decimal.RequireFromString("300")))
	assert.True(t, may.Actual.Equal(decimal.RequireFromString("120")))
}

func TestDashboardService_OverBudget(t *testing.T) {
	fx := setupDashboard(t)
	ctx := context.Background()
	scenarioID := uuid.New()

	over := fx.addItem(t, "GN-001", "Kırtasiye")
	worse := fx.addItem(t, "GN-002", "Temizlik")
	under := fx.addItem(t, "GN-003", "Su")
	fx.addPlan(t, over.ID, scenarioID, 1, "100.00")
	fx.addPlan(t, worse.ID, scenarioID, 1, "100.00")
	fx.addPlan(t, under.ID, scenarioID, 1, "100.00")
	fx.addExpense(t, over.ID, 1, "150.00")
	fx.addExpense(t, worse.ID, 1, "400.00")
	fx.addExpense(t, under.ID, 1, "50.00")

	resp, err := fx.service.OverBudget(ctx, 2026, &scenarioID, 0)
	require.NoError(t, err)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, "GN-002", resp.Items[0].BudgetCode)
	assert.True(t, resp.Items[0].Over.Equal(decimal.RequireFromString("300")))
	assert.Equal(t, "GN-001", resp.Items[1].BudgetCode)
	assert.Equal(t, 2, resp.Summary.OverItemCount)
	assert.True(t, resp.Summary.OverTotal.Equal(decimal.RequireFromString("350")))
}

func TestDashboardService_Insights(t *testing.T) {
	fx := setupDashboard(t)
	ctx := context.Background()
	scenarioID := uuid.New()

	stalled := fx.addItem(t, "PR-001", "Danışmanlık")
	healthy := fx.addItem(t, "PR-002", "Bakım")
	for month := 1; month <= 4; month++ {
		fx.addPlan(t, stalled.ID, scenarioID, month, "250.00")
		fx.addPlan(t, healthy.ID, scenarioID, month, "250.00")
		fx.addExpense(t, healthy.ID, month, "250.00")
	}
	fx.addExpense(t, stalled.ID, 1, "250.00")

	now := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	resp, err := fx.service.insightsAt(ctx, 2026, &scenarioID, now)
	require.NoError(t, err)

	require.Len(t, resp.RiskyItems, 1)
	risky := resp.RiskyItems[0]
	assert.Equal(t, "PR-001", risky.BudgetCode)
	require.Len(t, risky.MissingMonths, 3)
	assert.Equal(t, "Şubat", risky.MissingMonths[0].Label)
	assert.Equal(t, "Nisan", risky.MissingMonths[2].Label)
	assert.True(t, risky.PlannedTotal.Equal(decimal.RequireFromString("750")))

	require.Len(t, resp.MissingInvoices, 1)
	assert.Equal(t, "PR-001", resp.MissingInvoices[0].BudgetCode)
}

func TestDashboardService_InsightsFutureYearEmpty(t *testing.T) {
	fx := setupDashboard(t)
	ctx := context.Background()
	scenarioID := uuid.New()

	item := fx.addItem(t, "PR-003", "Eğitim")
	fx.addPlan(t, item.ID, scenarioID, 1, "100.00")

	now := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)
	resp, err := fx.service.insightsAt(ctx, 2026, &scenarioID, now)
	require.NoError(t, err)
	assert.Empty(t, resp.RiskyItems)
	assert.Empty(t, resp.MissingInvoices)
}
