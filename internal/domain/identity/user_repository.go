package identity

import (
	"context"

	"github.com/butcetakip/backend/internal/domain/shared"
)

// UserRepository persists users
type UserRepository interface {
	shared.Repository[User]
	FindByEmail(ctx context.Context, email string) (*User, error)
}
