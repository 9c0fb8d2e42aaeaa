package views

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/butcetakip/backend/internal/infrastructure/persistence"
	"github.com/butcetakip/backend/internal/infrastructure/persistence/models"
)

func setupViewService(t *testing.T) *ViewService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SavedViewModel{}))
	return NewViewService(persistence.NewGormSavedViewRepository(db))
}

func TestViewService_PutGetRoundTrip(t *testing.T) {
	service := setupViewService(t)
	ctx := context.Background()
	userID := uuid.New()

	payload := json.RawMessage(`{"columns":["code","name"],"year":2026}`)
	_, err := service.Put(ctx, userID, "budget-grid", payload)
	require.NoError(t, err)

	got, err := service.Get(ctx, userID, "budget-grid")
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(got.Payload))

	// Put on the same key replaces, not duplicates.
	replaced := json.RawMessage(`{"columns":["code"]}`)
	_, err = service.Put(ctx, userID, "budget-grid", replaced)
	require.NoError(t, err)

	list, err := service.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.JSONEq(t, string(replaced), string(list[0].Payload))
}

func TestViewService_PutRejectsInvalidJSON(t *testing.T) {
	service := setupViewService(t)

	_, err := service.Put(context.Background(), uuid.New(), "budget-grid", json.RawMessage(`{oops`))
	require.Error(t, err)
}

func TestViewService_ScopedToUser(t *testing.T) {
	service := setupViewService(t)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	_, err := service.Put(ctx, alice, "budget-grid", json.RawMessage(`{"a":1}`))
	require.NoError(t, err)

	_, err = service.Get(ctx, bob, "budget-grid")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, service.Delete(ctx, alice, "budget-grid"))
	_, err = service.Get(ctx, alice, "budget-grid")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
