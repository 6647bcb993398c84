package di

import (
	"testing"

	"github.com/stretchr/testify/assert"

	icache "QuantDesk/internal/service/cache"
	"QuantDesk/pkg/config"
)

func TestProvidePayloadCacheSelectsBackend(t *testing.T) {
	cfg := &config.Config{}
	_, ok := ProvidePayloadCache(cfg).(*icache.TTLCache)
	assert.True(t, ok, "memory payload cache without redis")

	cfg.Cache.Redis.Enabled = true
	cfg.Cache.Redis.Host = "localhost"
	cfg.Cache.Redis.Port = 6379
	_, ok = ProvidePayloadCache(cfg).(*icache.RedisCache)
	assert.True(t, ok, "redis payload cache when enabled")
}
