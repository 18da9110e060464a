package middleware

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/servicespot/servicespot/internal/cache"
	"github.com/servicespot/servicespot/internal/telemetry"
)

// ResponseCacheConfig holds response caching configuration.
type ResponseCacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// ResponseCache caches successful GET responses in Redis, keyed by request
// path and query. Used on the nearby-search endpoint, where identical
// searches are common and geocoding is rate-limited upstream.
type ResponseCache struct {
	redis  cache.RedisServiceInterface
	config ResponseCacheConfig
}

// cachedResponse is the stored representation of a response.
type cachedResponse struct {
	Status      int       `json:"status"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	CachedAt    time.Time `json:"cached_at"`
}

// NewResponseCache creates the middleware. A nil redis service disables it.
func NewResponseCache(redis cache.RedisServiceInterface, config ResponseCacheConfig) *ResponseCache {
	return &ResponseCache{
		redis:  redis,
		config: config,
	}
}

// Middleware returns the caching handler.
func (rc *ResponseCache) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rc.config.Enabled || rc.redis == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := rc.cacheKey(c)
		logger := telemetry.GetContextualLogger(ctx).WithFields(map[string]interface{}{
			"operation": "response_cache",
			"cache_key": key,
		})

		var cached cachedResponse
		if err := rc.redis.GetCache(ctx, key, &cached); err == nil {
			logger.WithField("result", "hit").Debug("Serving cached response")
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		logger.WithField("result", "miss").Debug("Response not cached")

		capture := &bodyCapturingWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = capture
		c.Next()

		// Only successful responses are worth replaying.
		if capture.Status() != http.StatusOK {
			return
		}

		entry := cachedResponse{
			Status:      capture.Status(),
			ContentType: capture.Header().Get("Content-Type"),
			Body:        capture.body.Bytes(),
			CachedAt:    time.Now(),
		}
		if err := rc.redis.SetCache(ctx, key, entry, rc.config.TTL); err != nil {
			logger.WithError(err).Warn("Failed to cache response")
		}
	}
}

// Invalidate drops all cached responses. Called when the pincode cache is
// cleared so stale search results do not outlive it.
func (rc *ResponseCache) Invalidate(c *gin.Context) {
	if rc.redis == nil {
		return
	}
	ctx := c.Request.Context()
	deleted, err := rc.redis.DeletePattern(ctx, "http_response:*")
	if err != nil {
		telemetry.GetContextualLogger(ctx).WithError(err).
			Warn("Failed to invalidate response cache")
		return
	}
	telemetry.GetContextualLogger(ctx).WithFields(map[string]interface{}{
		"operation": "response_cache_invalidate",
		"deleted":   deleted,
	}).Info("Response cache invalidated")
}

func (rc *ResponseCache) cacheKey(c *gin.Context) string {
	hash := md5.Sum([]byte(c.Request.URL.Path + "?" + c.Request.URL.RawQuery))
	return fmt.Sprintf("http_response:%x", hash)
}

// bodyCapturingWriter duplicates the response body into a buffer so it can
// be cached after the handler has written it.
type bodyCapturingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCapturingWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCapturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
