package middleware

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"kbcportal/internal/infrastructure/logger"
)

const msgTooManyRequests = "Too many requests"

// RateLimiter counts requests per client IP in fixed redis windows. With no
// redis client every request passes.
type RateLimiter struct {
	redisClient *redis.Client
	log         *logger.Logger
}

func NewRateLimiter(client *redis.Client, log *logger.Logger) *RateLimiter {
	if log == nil {
		log = logger.Nop()
	}
	return &RateLimiter{redisClient: client, log: log}
}

func rateLimitKey(bucket, ip string) string {
	return fmt.Sprintf("rate_limit:%s:%s", ip, bucket)
}

// Limit allows limit requests per window for bucket. A redis failure lets
// the request through.
func (rl *RateLimiter) Limit(bucket string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.redisClient == nil {
			c.Next()
			return
		}

		key := rateLimitKey(bucket, c.ClientIP())
		count, ttl, err := rl.hit(c, key, window)
		if err != nil {
			rl.log.Warn("rate limit unavailable", "bucket", bucket, "error", err)
			c.Next()
			return
		}

		if count > int64(limit) {
			retry := int(math.Ceil(ttl.Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", fmt.Sprint(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": msgTooManyRequests})
			return
		}
		c.Next()
	}
}

// hit counts one request. The window starts with the first hit; NX keeps
// later hits from extending it, and running both in one MULTI means a key
// never lives without a TTL.
func (rl *RateLimiter) hit(c *gin.Context, key string, window time.Duration) (int64, time.Duration, error) {
	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := rl.redisClient.TxPipelined(c, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(c, key)
		pipe.ExpireNX(c, key, window)
		ttl = pipe.TTL(c, key)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return incr.Val(), ttl.Val(), nil
}
