package cache

import (
	"github.com/butcetakip/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewDashboardCache creates the dashboard cache for the configured backend.
// When Redis is unreachable it falls back to the in-memory cache so the API
// still serves dashboards, just without cross-instance sharing.
func NewDashboardCache(cfg config.RedisConfig, logger *zap.Logger) DashboardCache {
	if !cfg.Enabled {
		logger.Info("Dashboard cache using in-memory store")
		return NewInMemoryDashboardCache()
	}

	redisCache, err := NewRedisDashboardCache(cfg.Addr(), cfg.Password, cfg.DB)
	if err != nil {
		logger.Warn("Redis unavailable, dashboard cache falling back to in-memory store",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return NewInMemoryDashboardCache()
	}

	logger.Info("Dashboard cache using Redis", zap.String("addr", cfg.Addr()))
	return redisCache
}
