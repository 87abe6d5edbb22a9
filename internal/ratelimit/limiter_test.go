package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wshotel/wshotel/internal/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (*RateLimiter, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		RateLimitConnectIP:   "5-M",
		RateLimitConnectUser: "5-M",
	}

	rl, err := NewRateLimiter(cfg, rc)
	require.NoError(t, err)

	return rl, mr
}

func TestNewRateLimiter_Memory(t *testing.T) {
	cfg := &config.Config{
		RateLimitConnectIP:   "10-M",
		RateLimitConnectUser: "10-M",
	}
	rl, err := NewRateLimiter(cfg, nil)
	assert.NoError(t, err)
	assert.NotNil(t, rl)
	assert.Nil(t, rl.redisClient)
}

func TestCheckConnectIP(t *testing.T) {
	rl, mr := newTestLimiter(t)
	defer mr.Close()

	gin.SetMode(gin.TestMode)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/connect", nil)
		assert.True(t, rl.CheckConnectIP(c))
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/connect", nil)
	assert.False(t, rl.CheckConnectIP(c))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestCheckConnectUser(t *testing.T) {
	rl, mr := newTestLimiter(t)
	defer mr.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		assert.NoError(t, rl.CheckConnectUser(ctx, "guest-1"))
	}

	assert.Error(t, rl.CheckConnectUser(ctx, "guest-1"))
}

func TestCheckConnectIP_FailsOpenOnStoreFailure(t *testing.T) {
	rl, mr := newTestLimiter(t)
	mr.Close()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/connect", nil)

	assert.True(t, rl.CheckConnectIP(c))
}

func TestPing_MemoryStoreAlwaysHealthy(t *testing.T) {
	cfg := &config.Config{RateLimitConnectIP: "10-M", RateLimitConnectUser: "10-M"}
	rl, err := NewRateLimiter(cfg, nil)
	require.NoError(t, err)

	assert.NoError(t, rl.Ping(context.Background()))
}

func TestPing_RedisStore(t *testing.T) {
	rl, mr := newTestLimiter(t)
	defer mr.Close()

	assert.NoError(t, rl.Ping(context.Background()))

	mr.Close()
	assert.Error(t, rl.Ping(context.Background()))
}
