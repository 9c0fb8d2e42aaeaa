package auth

import (
	"testing"
	"time"

	"github.com/butcetakip/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-for-jwt-signing-0001",
		AccessTokenExpiration: expiration,
		Issuer:                "butce-test",
	})
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestService(time.Hour)
	userID := uuid.New()

	token, err := svc.Generate(userID, "a@b.co", "admin")
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)
	assert.NotEmpty(t, token.Token)

	claims, err := svc.Validate(token.Token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "a@b.co", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "butce-test", claims.Issuer)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := newTestService(-time.Minute)
	token, err := svc.Generate(uuid.New(), "a@b.co", "user")
	require.NoError(t, err)

	_, err = svc.Validate(token.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	svc := newTestService(time.Hour)
	token, err := svc.Generate(uuid.New(), "a@b.co", "user")
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:                "another-secret-key-entirely-000000",
		AccessTokenExpiration: time.Hour,
		Issuer:                "butce-test",
	})
	_, err = other.Validate(token.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := newTestService(time.Hour)
	_, err := svc.Validate("not.a.token")
	assert.Error(t, err)
}
