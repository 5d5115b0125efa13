package middelware

import (
	"fmt"
	"net/http"

	"wastewise-backend/models"
	"wastewise-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// NewRateLimitStore builds the limiter store selected by rate_limit_store.
// A redis store that cannot be configured falls back to memory.
func NewRateLimitStore(cfg *models.Config, log logger.Logger) limiter.Store {
	if cfg.RateLimitStore != "redis" {
		return memory.NewStore()
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Warnf("Invalid redis_url for rate limiting, falling back to memory: %v", err)
		return memory.NewStore()
	}
	store, err := sredis.NewStoreWithOptions(redis.NewClient(opts), limiter.StoreOptions{
		Prefix:   "wastewise_ratelimit",
		MaxRetry: 3,
	})
	if err != nil {
		log.Warnf("Failed to create Redis store for rate limiting, falling back to memory: %v", err)
		return memory.NewStore()
	}
	return store
}

// RateLimit limits each client IP to rate_limit_requests_per_minute requests
func RateLimit(cfg *models.Config, store limiter.Store, log logger.Logger) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(fmt.Sprintf("%d-M", cfg.RateLimitRequestsPerMinute))
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit: %w", err)
	}

	return mgin.NewMiddleware(
		limiter.New(store, rate, limiter.WithTrustForwardHeader(true)),
		mgin.WithKeyGetter(func(c *gin.Context) string {
			return c.ClientIP()
		}),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			log.Warnf("Rate limit reached for %s", c.ClientIP())
			abortWithError(c, http.StatusTooManyRequests, "Too many requests", models.ErrorTypeValidation, "rate limit exceeded, retry later")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			log.Errorf("Rate limiter failed: %v", err)
			c.Next()
		}),
	), nil
}
