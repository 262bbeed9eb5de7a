package queue

import (
	"strings"

	"github.com/hibiken/asynq"

	"hotel-concierge-platform/internal/config"
)

// RedisConnOpt builds the asynq connection options from config. REDIS_URL
// may be a full redis:// URL (managed providers) or a bare host:port, same
// as the go-redis client setup.
func RedisConnOpt(cfg *config.Config) (asynq.RedisConnOpt, error) {
	if strings.HasPrefix(cfg.RedisURL, "redis://") || strings.HasPrefix(cfg.RedisURL, "rediss://") {
		return asynq.ParseRedisURI(cfg.RedisURL)
	}
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}
