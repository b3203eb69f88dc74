package health

import (
	"context"
	"net/http"
	"time"

	"github.com/folio-space/core/internal/pkg/apperr"
	"github.com/folio-space/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const pingTimeout = 2 * time.Second

// Database reports document store reachability and index state.
type Database interface {
	Ping(ctx context.Context) error
	IndexesReady() bool
}

// MailVerifier checks the outbound mail connection.
type MailVerifier interface {
	Configured() bool
	Verify(ctx context.Context) error
}

func RegisterRoutes(rg *gin.RouterGroup, db Database, mailer MailVerifier, authMW gin.HandlerFunc) {
	rg.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()
		dbOK := db.Ping(ctx) == nil

		status := "ok"
		code := http.StatusOK
		if !dbOK {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":   status,
			"database": dbOK,
			"indexes":  dbOK && db.IndexesReady(),
		})
	})

	rg.GET("/health/email", authMW, func(c *gin.Context) {
		if !mailer.Configured() {
			response.OK(c, gin.H{"configured": false, "verified": false})
			return
		}
		if err := mailer.Verify(c.Request.Context()); err != nil {
			response.Error(c, apperr.Upstream("Email service verification failed", err))
			return
		}
		response.OK(c, gin.H{"configured": true, "verified": true})
	})
}
