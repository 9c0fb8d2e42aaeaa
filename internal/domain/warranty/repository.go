package warranty

import (
	"context"

	"github.com/butcetakip/backend/internal/domain/shared"
)

// Repository persists warranty items
type Repository interface {
	shared.Repository[Item]
	// FindActive returns items ordered by end date, optionally including
	// deactivated ones.
	FindActive(ctx context.Context, includeInactive bool) ([]Item, error)
	// FindByType returns active items of one type ordered by end date.
	FindByType(ctx context.Context, itemType ItemType) ([]Item, error)
}
