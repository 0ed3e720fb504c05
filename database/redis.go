package database

import (
	"context"
	"fmt"

	"github.com/Ricci-ricci/backend/config"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// ConnectRedis returns nil, nil when REDIS_ADDR is not configured.
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		log.Info("ℹ️ REDIS_ADDR not set, sessions are revoked in memory")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	log.Info("✅ Redis connection opened")
	return rdb, nil
}
