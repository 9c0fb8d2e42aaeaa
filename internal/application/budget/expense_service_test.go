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
	"github.com/butcetakip/backend/internal/domain/identity"
	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/butcetakip/backend/internal/infrastructure/persistence"
	"github.com/butcetakip/backend/internal/infrastructure/persistence/models"
)

func setupExpenseService(t *testing.T) (*ExpenseService, uuid.UUID) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.BudgetItemModel{}, &models.ExpenseModel{}))

	itemRepo := persistence.NewGormBudgetItemRepository(db)
	item, err := domainbudget.NewBudgetItem("IT-001", "Lisanslar")
	require.NoError(t, err)
	require.NoError(t, itemRepo.Save(context.Background(), item))

	service := NewExpenseService(persistence.NewGormExpenseRepository(db), itemRepo, nil)
	return service, item.ID
}

func TestExpenseService_CreateComputesAmount(t *testing.T) {
	service, itemID := setupExpenseService(t)
	ctx := context.Background()

	resp, err := service.Create(ctx, CreateExpenseRequest{
		BudgetItemID: itemID,
		ExpenseDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Quantity:     decimal.RequireFromString("3"),
		UnitPrice:    decimal.RequireFromString("125.505"),
		Vendor:       "Acme",
	})
	require.NoError(t, err)
	assert.True(t, resp.Amount.Equal(decimal.RequireFromString("376.52")))
	assert.Equal(t, "recorded", resp.Status)
}

func TestExpenseService_CreateUnknownItem(t *testing.T) {
	service, _ := setupExpenseService(t)

	_, err := service.Create(context.Background(), CreateExpenseRequest{
		BudgetItemID: uuid.New(),
		ExpenseDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Quantity:     decimal.NewFromInt(1),
		UnitPrice:    decimal.NewFromInt(10),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestExpenseService_OwnershipGate(t *testing.T) {
	service, itemID := setupExpenseService(t)
	ctx := context.Background()

	owner := uuid.New()
	created, err := service.Create(ctx, CreateExpenseRequest{
		BudgetItemID: itemID,
		ExpenseDate:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Quantity:     decimal.NewFromInt(1),
		UnitPrice:    decimal.NewFromInt(50),
		CreatedBy:    &owner,
	})
	require.NoError(t, err)

	update := UpdateExpenseRequest{
		ExpenseDate: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		Quantity:    decimal.NewFromInt(2),
		UnitPrice:   decimal.NewFromInt(50),
	}

	stranger := Actor{UserID: uuid.New(), Role: identity.RoleUser}
	_, err = service.Update(ctx, stranger, created.ID, update)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)

	require.Error(t, service.Delete(ctx, stranger, created.ID))

	// The owner and any admin both pass the gate.
	asOwner := Actor{UserID: owner, Role: identity.RoleUser}
	updated, err := service.Update(ctx, asOwner, created.ID, update)
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(decimal.RequireFromString("100")))

	admin := Actor{UserID: uuid.New(), Role: identity.RoleAdmin}
	require.NoError(t, service.Delete(ctx, admin, created.ID))
}

func TestExpenseService_CancelTwiceFails(t *testing.T) {
	service, itemID := setupExpenseService(t)
	ctx := context.Background()
	admin := Actor{UserID: uuid.New(), Role: identity.RoleAdmin}

	created, err := service.Create(ctx, CreateExpenseRequest{
		BudgetItemID: itemID,
		ExpenseDate:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Quantity:     decimal.NewFromInt(1),
		UnitPrice:    decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	cancelled, err := service.Cancel(ctx, admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	_, err = service.Cancel(ctx, admin, created.ID)
	require.Error(t, err)
}

func TestExpenseService_ListFilters(t *testing.T) {
	service, itemID := setupExpenseService(t)
	ctx := context.Background()
	me := uuid.New()

	mk := func(vendor string, createdBy *uuid.UUID) {
		_, err := service.Create(ctx, CreateExpenseRequest{
			BudgetItemID: itemID,
			ExpenseDate:  time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
			Quantity:     decimal.NewFromInt(1),
			UnitPrice:    decimal.NewFromInt(10),
			Vendor:       vendor,
			CreatedBy:    createdBy,
		})
		require.NoError(t, err)
	}
	mk("Papirus Kırtasiye", &me)
	mk("Acme Bilişim", nil)

	actor := Actor{UserID: me, Role: identity.RoleUser}

	all, err := service.List(ctx, actor, ExpenseListFilter{Year: 2026})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := service.List(ctx, actor, ExpenseListFilter{Year: 2026, MineOnly: true})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Papirus Kırtasiye", mine[0].Vendor)

	// Text search is case-insensitive over vendor and description.
	found, err := service.List(ctx, actor, ExpenseListFilter{Year: 2026, Query: "acme"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Acme Bilişim", found[0].Vendor)

	_, err = service.List(ctx, actor, ExpenseListFilter{Year: 2026, Status: "recorded,bogus"})
	require.Error(t, err)
}

func TestExpenseService_ListIncludesOutOfBudgetByDefault(t *testing.T) {
	service, itemID := setupExpenseService(t)
	ctx := context.Background()
	actor := Actor{UserID: uuid.New(), Role: identity.RoleUser}

	_, err := service.Create(ctx, CreateExpenseRequest{
		BudgetItemID: itemID,
		ExpenseDate:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Quantity:     decimal.NewFromInt(1),
		UnitPrice:    decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	_, err = service.Create(ctx, CreateExpenseRequest{
		BudgetItemID:  itemID,
		ExpenseDate:   time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC),
		Quantity:      decimal.NewFromInt(1),
		UnitPrice:     decimal.NewFromInt(20),
		IsOutOfBudget: true,
	})
	require.NoError(t, err)

	all, err := service.List(ctx, actor, ExpenseListFilter{Year: 2026})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	exclude := false
	inBudget, err := service.List(ctx, actor, ExpenseListFilter{Year: 2026, IncludeOutOfBudget: &exclude})
	require.NoError(t, err)
	require.Len(t, inBudget, 1)
	assert.False(t, inBudget[0].IsOutOfBudget)
}
