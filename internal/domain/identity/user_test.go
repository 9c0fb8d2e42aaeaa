package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		u, err := NewUser("  Finans@Example.COM ", "Finans Uzmanı", "s3cret-pass", RoleUser)
		require.NoError(t, err)
		assert.Equal(t, "finans@example.com", u.Email)
		assert.True(t, u.IsActive)
		assert.True(t, u.VerifyPassword("s3cret-pass"))
		assert.False(t, u.VerifyPassword("wrong"))
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "", "s3cret-pass", RoleUser)
		assert.Error(t, err)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := NewUser("a@b.co", "", "short", RoleUser)
		assert.Error(t, err)
	})

	t.Run("invalid role", func(t *testing.T) {
		_, err := NewUser("a@b.co", "", "s3cret-pass", "superuser")
		assert.Error(t, err)
	})
}

func TestUserChangePassword(t *testing.T) {
	u, err := NewUser("a@b.co", "", "first-pass", RoleAdmin)
	require.NoError(t, err)

	require.NoError(t, u.ChangePassword("second-pass"))
	assert.True(t, u.VerifyPassword("second-pass"))
	assert.False(t, u.VerifyPassword("first-pass"))
	assert.Error(t, u.ChangePassword("x"))
}

func TestUserIsAdmin(t *testing.T) {
	admin, err := NewUser("admin@b.co", "", "s3cret-pass", RoleAdmin)
	require.NoError(t, err)
	user, err := NewUser("user@b.co", "", "s3cret-pass", RoleUser)
	require.NoError(t, err)

	assert.True(t, admin.IsAdmin())
	assert.False(t, user.IsAdmin())
}
