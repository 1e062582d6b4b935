package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexusems/internal/shared/config"
)

func testConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:         true,
		WindowDuration:  time.Minute,
		DefaultRequests: 100,
		PublicRequests:  50,
		AuthRequests:    5,
		BookingRequests: 10,
		AdminRequests:   200,
	}
}

// expectEval registers a script expectation that ignores the time-derived
// arguments and replies with the given {allowed, count, remaining} triple.
func expectEval(mock redismock.ClientMock, key string, reply []interface{}) {
	mock.CustomMatch(func(expected, actual []interface{}) error {
		return nil
	}).ExpectEval(slidingWindowScript, []string{key}, 0, 0, 0, 0).SetVal(reply)
}

func TestIsAllowedUnderLimit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, testConfig())

	expectEval(mock, "nexusems:ratelimit:203.0.113.7:auth", []interface{}{int64(1), int64(3), int64(2)})

	result, err := limiter.IsAllowed(context.Background(), "203.0.113.7", TypeAuth)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 5, result.Limit)
	assert.Equal(t, 2, result.Remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsAllowedDeniesAtLimit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, testConfig())

	// Denied branch: the window already holds limit entries and the request
	// was not recorded, so the count equals the limit rather than exceeding it.
	expectEval(mock, "nexusems:ratelimit:203.0.113.7:auth", []interface{}{int64(0), int64(5), int64(0)})

	result, err := limiter.IsAllowed(context.Background(), "203.0.113.7", TypeAuth)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsAllowedWhitelistedBypassesRedis(t *testing.T) {
	cfg := testConfig()
	cfg.WhitelistedIPs = []string{"10.0.0.1"}
	client, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, cfg)

	result, err := limiter.IsAllowed(context.Background(), "10.0.0.1", TypeBooking)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 10, result.Remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsAllowedDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	client, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, cfg)

	result, err := limiter.IsAllowed(context.Background(), "203.0.113.7", TypeDefault)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 100, result.Limit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	client, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, testConfig())

	expectEval(mock, "nexusems:ratelimit:203.0.113.7:auth", []interface{}{int64(0), int64(5), int64(0)})

	router := gin.New()
	router.Use(Middleware(limiter))
	router.POST("/api/v1/auth/login", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMiddlewareFailsOpenOnRedisError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	client, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(client, testConfig())

	mock.CustomMatch(func(expected, actual []interface{}) error {
		return nil
	}).ExpectEval(slidingWindowScript, []string{"nexusems:ratelimit:203.0.113.7:auth"}, 0, 0, 0, 0).
		SetErr(assert.AnError)

	router := gin.New()
	router.Use(Middleware(limiter))
	router.POST("/api/v1/auth/login", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassify(t *testing.T) {
	assert.Equal(t, TypeAuth, classify("/api/v1/auth/login"))
	assert.Equal(t, TypeBooking, classify("/api/v1/events/:event_id/bookings"))
	assert.Equal(t, TypeBooking, classify("/api/v1/waitlist/:id"))
	assert.Equal(t, TypePublic, classify("/api/v1/events/:id"))
	assert.Equal(t, TypeDefault, classify("/health"))
}
