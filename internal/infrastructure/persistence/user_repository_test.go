package persistence

import (
	"context"
	"testing"

	"github.com/butcetakip/backend/internal/domain/identity"
	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/butcetakip/backend/internal/domain/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/butcetakip/backend/internal/infrastructure/persistence/models"
)

func setupUserTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.UserModel{}, &models.SavedViewModel{})
	require.NoError(t, err)

	return db
}

func TestGormUserRepository_FindByEmail(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser("Ayse@Example.com", "Ayşe Yılmaz", "gizli-parola", identity.RoleUser)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))

	found, err := repo.FindByEmail(ctx, "  AYSE@example.COM ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "ayse@example.com", found.Email)

	_, err = repo.FindByEmail(ctx, "yok@example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUserRepository_RoleFilter(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	admin, err := identity.NewUser("admin@example.com", "Yönetici", "gizli-parola", identity.RoleAdmin)
	require.NoError(t, err)
	regular, err := identity.NewUser("user@example.com", "Kullanıcı", "gizli-parola", identity.RoleUser)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, admin))
	require.NoError(t, repo.Save(ctx, regular))

	filter := shared.DefaultFilter()
	filter.Filters["role"] = string(identity.RoleAdmin)
	users, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@example.com", users[0].Email)
}

func TestGormSavedViewRepository_UpsertByUserAndKey(t *testing.T) {
	db := setupUserTestDB(t)
	userRepo := NewGormUserRepository(db)
	repo := NewGormSavedViewRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser("ayse@example.com", "Ayşe", "gizli-parola", identity.RoleUser)
	require.NoError(t, err)
	require.NoError(t, userRepo.Save(ctx, user))

	view, err := views.NewSavedView(user.ID, "budget-grid", []byte(`{"columns":["code"]}`))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, view))

	// A second save under the same key replaces the payload.
	replacement, err := views.NewSavedView(user.ID, "budget-grid", []byte(`{"columns":["code","name"]}`))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, replacement))

	found, err := repo.FindByUserAndKey(ctx, user.ID, "budget-grid")
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["code","name"]}`, string(found.Payload))

	all, err := repo.FindByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGormSavedViewRepository_FindByUserAndKey_NotFound(t *testing.T) {
	db := setupUserTestDB(t)
	userRepo := NewGormUserRepository(db)
	repo := NewGormSavedViewRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser("ayse@example.com", "Ayşe", "gizli-parola", identity.RoleUser)
	require.NoError(t, err)
	require.NoError(t, userRepo.Save(ctx, user))

	_, err = repo.FindByUserAndKey(ctx, user.ID, "bilinmeyen")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
