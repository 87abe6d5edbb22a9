// Package ratelimit guards connection admission using Redis or local memory.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/wshotel/wshotel/internal/config"
	"github.com/wshotel/wshotel/internal/logging"
	"github.com/wshotel/wshotel/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

// RateLimiter enforces per-IP and per-user limits on new connection attempts.
// Established connections are never throttled once admitted; a handler that
// wants finer-grained throttling implements it itself inside OnMessage.
type RateLimiter struct {
	connectIP   *limiter.Limiter
	connectUser *limiter.Limiter
	store       limiter.Store
	redisClient *redis.Client
}

// NewRateLimiter builds a RateLimiter backed by Redis when redisClient is
// non-nil, or an in-process memory store otherwise.
func NewRateLimiter(cfg *config.Config, redisClient *redis.Client) (*RateLimiter, error) {
	ipRate, err := limiter.NewRateFromFormatted(cfg.RateLimitConnectIP)
	if err != nil {
		return nil, fmt.Errorf("invalid connect IP rate: %w", err)
	}

	userRate, err := limiter.NewRateFromFormatted(cfg.RateLimitConnectUser)
	if err != nil {
		return nil, fmt.Errorf("invalid connect user rate: %w", err)
	}

	var store limiter.Store
	if redisClient != nil {
		s, err := sredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{
			Prefix: "wshotel:limiter:",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create redis store: %w", err)
		}
		store = s
		logging.Info(context.Background(), "rate limiter using redis store")
	} else {
		store = memory.NewStore()
		logging.Warn(context.Background(), "rate limiter using memory store (redis disabled)")
	}

	return &RateLimiter{
		connectIP:   limiter.New(store, ipRate),
		connectUser: limiter.New(store, userRate),
		store:       store,
		redisClient: redisClient,
	}, nil
}

// CheckConnectIP checks the per-IP limit for a new connection attempt.
// Returns true if the connection may proceed. On a store failure it fails
// open and logs the error, since availability of the room takes priority
// over strict enforcement.
func (rl *RateLimiter) CheckConnectIP(c *gin.Context) bool {
	ctx := c.Request.Context()
	ip := c.ClientIP()

	start := time.Now()
	res, err := rl.connectIP.Get(ctx, ip)
	metrics.RedisOperationDuration.WithLabelValues("connect_ip").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RedisOperationsTotal.WithLabelValues("connect_ip", "error").Inc()
		logging.Error(ctx, "connect rate limiter store failed", zap.Error(err))
		return true
	}
	metrics.RedisOperationsTotal.WithLabelValues("connect_ip", "success").Inc()

	if res.Reached {
		metrics.RateLimitExceeded.WithLabelValues("connect", "ip").Inc()
		c.Header("X-RateLimit-Retry-After", strconv.FormatInt(res.Reset, 10))
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many connection attempts from this address"})
		return false
	}

	return true
}

// CheckConnectUser checks the per-user limit, called once a connection has
// been authenticated and a stable user identity is known.
func (rl *RateLimiter) CheckConnectUser(ctx context.Context, userID string) error {
	start := time.Now()
	res, err := rl.connectUser.Get(ctx, userID)
	metrics.RedisOperationDuration.WithLabelValues("connect_user").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RedisOperationsTotal.WithLabelValues("connect_user", "error").Inc()
		logging.Error(ctx, "connect rate limiter store failed", zap.Error(err))
		return nil
	}
	metrics.RedisOperationsTotal.WithLabelValues("connect_user", "success").Inc()

	if res.Reached {
		metrics.RateLimitExceeded.WithLabelValues("connect", "user").Inc()
		return fmt.Errorf("rate limit exceeded for user %s", userID)
	}

	return nil
}

// Ping satisfies health.Pinger by round-tripping the backing Redis client.
// Returns nil immediately when running against the memory store, since
// there is nothing external to probe.
func (rl *RateLimiter) Ping(ctx context.Context) error {
	if rl.redisClient == nil {
		return nil
	}
	return rl.redisClient.Ping(ctx).Err()
}
