package response

import (
	"net/http"

	"github.com/folio-space/core/internal/pkg/apperr"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// logger receives the causes of 5xx responses. Replaced at startup.
var logger = zap.NewNop()

// SetLogger configures the logger used for server-side error details.
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

// OK sends a 200 response.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message sends a 200 response with a single message field.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Error converts err into the JSON error envelope and aborts the chain.
func Error(c *gin.Context, err error) {
	ae := apperr.From(err)
	if ae.Status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("code", ae.Code),
			zap.Error(err),
		)
	}
	message := ae.Message
	if ae.Code == apperr.CodeUpstream && ae.Cause != nil {
		message = ae.Message + ": " + ae.Cause.Error()
	}
	abort(c, ae.Status, ae.Code, message)
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, apperr.CodeValidation, message)
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context) {
	abort(c, http.StatusUnauthorized, apperr.CodeUnauthorized, "Authentication required. Please log in again.")
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context) {
	abort(c, http.StatusNotFound, apperr.CodeNotFound, "Not Found")
}

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context) {
	abort(c, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method Not Allowed")
}

// ServiceUnavailable sends the 503 returned while the document store is unreachable.
func ServiceUnavailable(c *gin.Context) {
	abort(c, http.StatusServiceUnavailable, apperr.CodeUnavailable, apperr.UnavailableMessage)
}

// TooManyRequests sends a 429 error response.
func TooManyRequests(c *gin.Context) {
	c.Header("Retry-After", "1")
	abort(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, please slow down.")
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"ok": 0, "code": status, "error": code, "message": message})
}
