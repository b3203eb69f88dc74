package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	redispkg "github.com/folio-space/core/internal/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotenceHeader  = "x-idempotence"
	idempotenceTTL     = 60 * time.Second
	idempotenceMaxBody = 1 << 20
)

// Idempotence rejects a repeated POST or PUT with the same body from the same
// client while the first one is in flight or within a minute of its success.
func Idempotence(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			c.Next()
			return
		}
		if shouldSkipIdempotence(c.Request.URL.Path) {
			c.Next()
			return
		}

		key, err := resolveIdempotenceKey(c)
		if err != nil || key == "" {
			c.Next()
			return
		}

		redisKey := redispkg.Key("idempotence", key)
		ctx := c.Request.Context()

		val, err := rdb.Get(ctx, redisKey).Result()
		if err == nil {
			msg := "The same request can only be sent once within 60 seconds"
			if val == "0" {
				msg = "The same request is already being processed"
			}
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"ok":      0,
				"code":    http.StatusConflict,
				"error":   "DUPLICATE_REQUEST",
				"message": msg,
			})
			return
		}
		if !errors.Is(err, redis.Nil) {
			c.Next()
			return
		}

		if ok, setErr := rdb.SetNX(ctx, redisKey, "0", idempotenceTTL).Result(); setErr != nil || !ok {
			c.Next()
			return
		}

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			rdb.Set(ctx, redisKey, "1", redis.KeepTTL)
		} else {
			rdb.Del(ctx, redisKey)
		}
	}
}

func shouldSkipIdempotence(path string) bool {
	p := strings.TrimRight(strings.ToLower(strings.TrimSpace(path)), "/")
	switch p {
	case "/api/auth/login",
		// repeats get their own answer from the handler
		"/api/subscribers/subscribe",
		"/api/subscribers/unsubscribe":
		return true
	}
	return false
}

// resolveIdempotenceKey returns the idempotence key for the current request.
func resolveIdempotenceKey(c *gin.Context) (string, error) {
	if hdr := c.GetHeader(idempotenceHeader); hdr != "" {
		return hdr, nil
	}
	// uploads are too large to hash
	if strings.HasPrefix(c.ContentType(), "multipart/") || c.Request.ContentLength > idempotenceMaxBody {
		return "", nil
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, idempotenceMaxBody+1))
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if len(body) > idempotenceMaxBody {
		return "", nil
	}

	ua := c.Request.UserAgent()
	ip := c.ClientIP()
	token := extractToken(c)
	if len(body) == 0 && ua == "" && ip == "" && token == "" {
		return "", nil
	}

	raw := c.Request.Method + "|" + c.Request.URL.String() + "|" + string(body) + "|" + ua + "|" + ip + "|" + token
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:]), nil
}
