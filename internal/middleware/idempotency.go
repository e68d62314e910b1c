package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// storedResponse is the replayed body and status for a seen idempotency key.
type storedResponse struct {
	StatusCode  int             `json:"status_code"`
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
}

type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the first response for repeated mutating requests
// carrying the same Idempotency-Key. Keys are scoped per caller and per
// route so the same key on different endpoints does not collide. Accept
// and settlement endpoints rely on this to make client retries safe.
func Idempotency(client *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := "idem:" + c.GetHeader("X-User-ID") + ":" + c.Request.Method + ":" + c.FullPath() + ":" + key

		data, err := client.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var stored storedResponse
			if json.Unmarshal(data, &stored) == nil {
				c.Data(stored.StatusCode, stored.ContentType, stored.Body)
				c.Abort()
				return
			}
		} else if err != redis.Nil {
			// Redis unavailable; serve the request without replay protection.
			c.Next()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w

		c.Next()

		// 5xx responses are not stored so a retry can succeed.
		status := c.Writer.Status()
		if status >= 200 && status < 500 {
			stored := storedResponse{
				StatusCode:  status,
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        w.body.Bytes(),
			}
			if data, err := json.Marshal(stored); err == nil {
				_ = client.Set(ctx, cacheKey, data, idempotencyTTL).Err()
			}
		}
	}
}
