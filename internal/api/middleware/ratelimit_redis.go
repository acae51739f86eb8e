package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"loan-offers/internal/config"

	"github.com/redis/go-redis/v9"
)

const redisRateLimitWindow = time.Second

// RedisRateLimiterMiddleware is a fixed-window per-IP counter shared by every
// replica through Redis. Redis failures let the request through.
type RedisRateLimiterMiddleware struct {
	redisClient redis.UniversalClient
	cfg         config.RateLimitConfig
	logger      *slog.Logger
	window      time.Duration
}

func NewRedisRateLimiterMiddleware(cfg config.RateLimitConfig, redisClient redis.UniversalClient, logger *slog.Logger) *RedisRateLimiterMiddleware {
	logger = logger.With("component", "RedisRateLimiterMiddleware")

	if !cfg.Enabled {
		logger.Info("Rate limiting is disabled via configuration.")
	} else if redisClient == nil {
		logger.Warn("Rate limiting enabled but no Redis client provided; disabling.")
		cfg.Enabled = false
	} else {
		logger.Info("Redis rate limiter configured", "rps", cfg.RPS, "window", redisRateLimitWindow)
	}

	return &RedisRateLimiterMiddleware{
		redisClient: redisClient,
		cfg:         cfg,
		logger:      logger,
		window:      redisRateLimitWindow,
	}
}

func (rl *RedisRateLimiterMiddleware) IsEnabled() bool {
	return rl.cfg.Enabled && rl.redisClient != nil
}

func (rl *RedisRateLimiterMiddleware) Middleware(next http.Handler) http.Handler {
	if !rl.IsEnabled() {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := clientIP(r)
		if ip == unknownClientIP {
			rl.logger.ErrorContext(ctx, "Blocking request due to unknown client IP for rate limiting", "remoteAddr", r.RemoteAddr)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		key := fmt.Sprintf("loan-offers:ratelimit:%s", ip)

		pipe := rl.redisClient.Pipeline()
		incrCmd := pipe.Incr(ctx, key)
		ttlCmd := pipe.TTL(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			rl.logger.ErrorContext(ctx, "Redis pipeline failed during rate limiting check", "error", err, "ip", ip)
			next.ServeHTTP(w, r)
			return
		}

		currentCount, err := incrCmd.Result()
		if err != nil {
			rl.logger.ErrorContext(ctx, "Failed to read INCR result", "error", err, "ip", ip)
			next.ServeHTTP(w, r)
			return
		}

		// -1: no expiry, -2: key vanished between INCR and TTL.
		if ttl, err := ttlCmd.Result(); err == nil && (ttl == -1 || ttl == -2) {
			if err := rl.redisClient.Expire(ctx, key, rl.window).Err(); err != nil {
				rl.logger.ErrorContext(ctx, "Failed to set Redis EXPIRE for rate limit key", "error", err, "ip", ip)
			}
		}

		if currentCount > int64(rl.cfg.RPS) {
			rl.logger.WarnContext(ctx, "Rate limit exceeded", "ip", ip, "count", currentCount, "limit", rl.cfg.RPS)
			writeRateLimited(w,
				fmt.Sprintf("%.0f", rl.window.Seconds()),
				fmt.Sprintf("Rate limit exceeded. Limit is %.0f requests per %v.", rl.cfg.RPS, rl.window))
			return
		}

		next.ServeHTTP(w, r)
	})
}
