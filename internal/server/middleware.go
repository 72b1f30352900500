package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID reuses the caller's X-Request-ID or assigns a new UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestIDFrom returns the id assigned by RequestID, or "".
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// AccessLog writes one line per request.
func AccessLog(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"request_id", RequestIDFrom(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"bytes", c.Writer.Size(),
			"client_ip", c.ClientIP(),
			"duration", time.Since(start))
	}
}

// maxTrackedClients bounds the number of per-IP limiters kept in memory.
const maxTrackedClients = 10000

// RateLimiter stores rate limiters per IP address. The least recently seen
// clients are evicted once maxClients is reached.
type RateLimiter struct {
	limiters *lru.Cache[string, *rate.Limiter]
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

// NewRateLimiter creates a new rate limiter with the specified rate and burst
// that tracks at most maxClients addresses.
func NewRateLimiter(rateLimit rate.Limit, burst, maxClients int) *RateLimiter {
	if maxClients < 1 {
		maxClients = maxTrackedClients
	}
	limiters, _ := lru.New[string, *rate.Limiter](maxClients)
	return &RateLimiter{
		limiters: limiters,
		rate:     rateLimit,
		burst:    burst,
	}
}

// Len returns the number of tracked addresses.
func (rl *RateLimiter) Len() int {
	return rl.limiters.Len()
}

// getLimiter returns the rate limiter for the given IP, creating one if needed
func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters.Get(ip)
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(ip, limiter)
	}
	return limiter
}

// RateLimit limits requests per client IP. requestsPerMinute <= 0 disables it.
func RateLimit(requestsPerMinute, burst int) gin.HandlerFunc {
	if requestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := NewRateLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), burst, maxTrackedClients)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = c.RemoteIP()
		}

		if !limiter.getLimiter(ip).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
