package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nexusems/internal/shared/config"
)

// Type buckets requests into separate limits per traffic class
type Type string

const (
	TypeDefault Type = "default"
	TypePublic  Type = "public"
	TypeAuth    Type = "auth"
	TypeBooking Type = "booking"
	TypeAdmin   Type = "admin"
)

// Result represents one rate limit decision
type Result struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}

// slidingWindowScript counts and records a request atomically inside a
// Redis sorted set keyed per client and traffic class. It replies with an
// explicit {allowed, count, remaining} triple: the denied branch never adds
// the request, so the count alone cannot tell the two outcomes apart.
const slidingWindowScript = `
local key = KEYS[1]
local window_start = tonumber(ARGV[1])
local now = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local window_seconds = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

local current_count = redis.call('ZCARD', key)
if current_count >= limit then
	redis.call('EXPIRE', key, window_seconds)
	return {0, current_count, 0}
end

redis.call('ZADD', key, now, now)
redis.call('EXPIRE', key, window_seconds)
return {1, current_count + 1, limit - current_count - 1}
`

// RateLimiter enforces sliding-window limits backed by Redis
type RateLimiter struct {
	client *redis.Client
	cfg    config.RateLimitConfig
}

// NewRateLimiter creates a Redis-backed rate limiter
func NewRateLimiter(client *redis.Client, cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{client: client, cfg: cfg}
}

// IsAllowed checks and records one request for the client
func (r *RateLimiter) IsAllowed(ctx context.Context, clientIP string, limitType Type) (*Result, error) {
	limit := r.getLimit(limitType)

	if !r.cfg.Enabled || r.isWhitelisted(clientIP) {
		return &Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit,
			ResetTime: time.Now().Add(r.cfg.WindowDuration).Unix(),
		}, nil
	}

	key := fmt.Sprintf("nexusems:ratelimit:%s:%s", clientIP, limitType)
	return r.checkLimit(ctx, key, limit)
}

func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int) (*Result, error) {
	now := time.Now()
	windowStart := now.Add(-r.cfg.WindowDuration)

	raw, err := r.client.Eval(ctx, slidingWindowScript, []string{key},
		windowStart.UnixNano(),
		now.UnixNano(),
		limit,
		int(r.cfg.WindowDuration.Seconds()),
	).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit eval failed: %w", err)
	}

	values, ok := raw.([]interface{})
	if !ok || len(values) != 3 {
		return nil, fmt.Errorf("unexpected rate limit script response: %v", raw)
	}
	allowed, _ := values[0].(int64)
	remaining, _ := values[2].(int64)

	return &Result{
		Allowed:   allowed == 1,
		Limit:     limit,
		Remaining: int(remaining),
		ResetTime: now.Add(r.cfg.WindowDuration).Unix(),
	}, nil
}

func (r *RateLimiter) getLimit(limitType Type) int {
	switch limitType {
	case TypePublic:
		return r.cfg.PublicRequests
	case TypeAuth:
		return r.cfg.AuthRequests
	case TypeBooking:
		return r.cfg.BookingRequests
	case TypeAdmin:
		return r.cfg.AdminRequests
	default:
		return r.cfg.DefaultRequests
	}
}

func (r *RateLimiter) isWhitelisted(ip string) bool {
	for _, whitelisted := range r.cfg.WhitelistedIPs {
		if ip == whitelisted {
			return true
		}
	}
	return false
}
