package queue

import (
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-concierge-platform/internal/config"
)

func TestRedisConnOptHostPort(t *testing.T) {
	opt, err := RedisConnOpt(&config.Config{
		RedisURL:      "localhost:6379",
		RedisPassword: "secret",
		RedisDB:       2,
	})
	require.NoError(t, err)

	clientOpt, ok := opt.(asynq.RedisClientOpt)
	require.True(t, ok)
	assert.Equal(t, "localhost:6379", clientOpt.Addr)
	assert.Equal(t, "secret", clientOpt.Password)
	assert.Equal(t, 2, clientOpt.DB)
}

func TestRedisConnOptURL(t *testing.T) {
	opt, err := RedisConnOpt(&config.Config{
		RedisURL: "redis://:secret@redis.internal:6380/1",
	})
	require.NoError(t, err)

	clientOpt, ok := opt.(asynq.RedisClientOpt)
	require.True(t, ok)
	assert.Equal(t, "redis.internal:6380", clientOpt.Addr)
	assert.Equal(t, "secret", clientOpt.Password)
	assert.Equal(t, 1, clientOpt.DB)
}

func TestRedisConnOptBadURL(t *testing.T) {
	_, err := RedisConnOpt(&config.Config{RedisURL: "redis://bad url"})
	assert.Error(t, err)
}
