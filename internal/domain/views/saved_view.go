package views

import (
	"context"
	"regexp"

	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/google/uuid"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]{0,63}$`)

// SavedView is a user-scoped, named blob of grid state: column layout,
// active filters, label history. The backend treats the payload as opaque
// JSON and only enforces the ownership boundary.
type SavedView struct {
	shared.BaseEntity
	UserID  uuid.UUID
	Key     string
	Payload []byte
}

// NewSavedView creates a saved view for a user
func NewSavedView(userID uuid.UUID, key string, payload []byte) (*SavedView, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "User is required")
	}
	if !keyPattern.MatchString(key) {
		return nil, shared.NewDomainError("INVALID_INPUT", "View key must be lowercase alphanumeric with dots, dashes or underscores")
	}
	if len(payload) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "View payload is required")
	}

	return &SavedView{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Key:        key,
		Payload:    payload,
	}, nil
}

// Replace swaps the stored payload
func (v *SavedView) Replace(payload []byte) error {
	if len(payload) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "View payload is required")
	}
	v.Payload = payload
	v.Touch()
	return nil
}

// Repository persists saved views keyed by (user, key).
type Repository interface {
	shared.Repository[SavedView]
	FindByUserAndKey(ctx context.Context, userID uuid.UUID, key string) (*SavedView, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*SavedView, error)
}
