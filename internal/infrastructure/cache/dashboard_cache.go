package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DashboardCache stores rendered dashboard payloads keyed by their query
// parameters. Entries are grouped by budget year so a plan or expense
// mutation can drop every affected view at once.
type DashboardCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	InvalidateYear(ctx context.Context, year int) error
	Close() error
}

// Key builds a cache key from the year and the remaining query dimensions.
// Empty parts are kept so the same dimension list always yields the same
// shape.
func Key(view string, year int, parts ...string) string {
	return fmt.Sprintf("%s:%d:%s", view, year, strings.Join(parts, ":"))
}

func yearPrefix(year int) string {
	return fmt.Sprintf(":%d:", year)
}
