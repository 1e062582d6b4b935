package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nexusems_http_requests_total",
		Help: "Total HTTP requests processed, by method, route and status code.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nexusems_http_request_duration_seconds",
		Help:    "HTTP request latency distribution.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// EmailsSent counts delivered notification emails by kind.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nexusems_notification_emails_sent_total",
		Help: "Notification emails successfully handed to the mail server, by kind.",
	}, []string{"kind"})

	// EmailsFailed counts notification emails that could not be delivered.
	EmailsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nexusems_notification_emails_failed_total",
		Help: "Notification emails that failed to send, by kind.",
	}, []string{"kind"})

	// WaitlistNotified counts waitlist entries promoted to NOTIFIED.
	WaitlistNotified = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nexusems_waitlist_entries_notified_total",
		Help: "Waitlist entries promoted to NOTIFIED across all notification runs.",
	})
)

// Handler exposes the default prometheus registry for the /metrics route
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// HTTPMiddleware records request counts and latencies per route template
func HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(
			c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
