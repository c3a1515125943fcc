package middleware

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"RollCall/config"
	"RollCall/pkg/errors"
	"RollCall/pkg/logger"
	"RollCall/pkg/response"
	"RollCall/storage/redis"
)

// RateLimitConfig 固定窗口限流配置，按客户端 IP 计数。
type RateLimitConfig struct {
	Window      time.Duration
	MaxRequests int
	KeyPrefix   string
}

// RecordRateLimitConfig 写接口限流：签到是人手点的，一个 IP
// 一分钟几十次已经是异常流量。
var RecordRateLimitConfig = RateLimitConfig{
	Window:      time.Minute,
	MaxRequests: 30,
	KeyPrefix:   "rate:record",
}

// RecordRateLimitMiddleware 签到接口的限流中间件。
func RecordRateLimitMiddleware() app.HandlerFunc {
	return RateLimitMiddleware(RecordRateLimitConfig)
}

// RateLimitMiddleware redis INCR + EXPIRE 的固定窗口限流。
// redis 出问题时放行，限流坏了不应该挡住签到。
func RateLimitMiddleware(cfg RateLimitConfig) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if !config.Cfg.RateLimitEnabled {
			c.Next(ctx)
			return
		}

		key := redis.Key(cfg.KeyPrefix, c.ClientIP())

		count, err := redis.Client().Incr(ctx, key).Result()
		if err != nil {
			logger.Logger.Warn("Rate limit check failed, allowing request",
				zap.String("key", key),
				zap.Error(err),
			)
			c.Next(ctx)
			return
		}

		if count == 1 {
			if err := redis.Client().Expire(ctx, key, cfg.Window).Err(); err != nil {
				logger.Logger.Warn("Failed to set rate limit window", zap.Error(err))
			}
		}

		if count > int64(cfg.MaxRequests) {
			response.Error(ctx, c, errors.Definition{
				Code:    "RATE_LIMITED",
				Message: "Too many requests, try again later",
			})
			c.Abort()
			return
		}

		c.Next(ctx)
	}
}
