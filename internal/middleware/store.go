package middleware

import (
	"context"
	"time"

	"github.com/folio-space/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// PingFunc reports whether the document store is reachable.
type PingFunc func(ctx context.Context) error

// RequireStore answers 503 without running the handler when the store cannot be reached.
func RequireStore(ping PingFunc, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		if err := ping(ctx); err != nil {
			response.ServiceUnavailable(c)
			return
		}
		c.Next()
	}
}
