package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRedisCacheUnreachable(t *testing.T) {
	// nothing listens on port 1
	c := NewRedisCache(RedisConfig{Addr: "127.0.0.1:1"}, "test:")
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.Error(t, c.Ping(ctx))

	var out []string
	err := c.Get(ctx, "models:openai", &out)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}

func TestRedisCacheKeyPrefix(t *testing.T) {
	c := NewRedisCache(RedisConfig{Addr: "127.0.0.1:1"}, "ai-core:")
	defer c.Close()

	assert.Equal(t, "ai-core:models:gemini", c.key("models:gemini"))
}
