package middlewares

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vitatrack/cache"
)

type cachedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// CacheResponse caches successful GET responses per user for ttl. A no-op
// when redis is disabled.
func CacheResponse(ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cache.Enabled() || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := fmt.Sprintf("cache:%d:%s", UserID(c), c.Request.URL.RequestURI())

		var cached cachedResponse
		if err := cache.Get(key, &cached); err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(cached.Status, "application/json", cached.Body)
			c.Abort()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if c.Writer.Status() == http.StatusOK {
			_ = cache.Set(key, cachedResponse{
				Status: c.Writer.Status(),
				Body:   rec.buf.Bytes(),
			}, ttl)
		}
	}
}

// InvalidateUserCache drops a user's cached GET responses after a write.
func InvalidateUserCache(userID uint) {
	_ = cache.DeletePattern(fmt.Sprintf("cache:%d:*", userID))
}
