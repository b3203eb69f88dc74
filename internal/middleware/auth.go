package middleware

import (
	"errors"
	"strings"

	"github.com/folio-space/core/internal/pkg/jwt"
	"github.com/folio-space/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const ContextKeyAdminID = "admin_id"

// TokenParser validates a bearer token.
type TokenParser interface {
	Parse(token string) (*jwt.Claims, error)
}

// Auth returns a middleware that requires a valid admin token.
func Auth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := validate(tokens, extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyAdminID, claims.AdminID)
		c.Next()
	}
}

// OptionalAuth sets the admin ID if a valid token is present, but does not block the request.
func OptionalAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := validate(tokens, extractToken(c)); err == nil {
			c.Set(ContextKeyAdminID, claims.AdminID)
		}
		c.Next()
	}
}

func validate(tokens TokenParser, token string) (*jwt.Claims, error) {
	if token == "" {
		return nil, errors.New("token is required")
	}
	claims, err := tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	if claims.AdminID == "" {
		return nil, jwt.ErrInvalidToken
	}
	return claims, nil
}

// CurrentAdminID extracts the authenticated admin ID from context.
func CurrentAdminID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyAdminID)
	id, _ := v.(string)
	return id
}

// IsAuthenticated returns true if the request carried a valid token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentAdminID(c) != ""
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return NormalizeToken(auth)
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
