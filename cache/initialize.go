package cache

import (
	"os"

	"salon-booking/config"

	"github.com/umakantv/go-utils/cache"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// InitializeCache builds the cache that holds session records. Store "redis"
// connects to cfg.Redis; anything else keeps sessions in process memory.
func InitializeCache(cfg *config.Config) cache.Cache {
	cacheType := "memory"
	if cfg.Session.Store == "redis" {
		cacheType = "redis"
	}

	cache, err := cache.New(cache.Config{
		Type:          cacheType,
		RedisAddr:     cfg.Redis.Address,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Error("Failed to initialize cache:", zap.Error(err), zap.String("addr", cfg.Redis.Address))
		os.Exit(1)
	}
	logger.Info("Cache initialized", zap.String("type", cacheType))
	return cache
}
