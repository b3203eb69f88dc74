// Package uploads serves media written by the local media store.
package uploads

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/folio-space/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".ogg":  "video/ogg",
}

type Handler struct {
	dir string
}

func NewHandler(dir string) *Handler {
	return &Handler{dir: dir}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/uploads/*filepath", h.serve)
	r.HEAD("/uploads/*filepath", h.serve)
}

func (h *Handler) serve(c *gin.Context) {
	rel, ok := cleanPath(c.Param("filepath"))
	if !ok {
		response.NotFound(c)
		return
	}
	f, err := os.Open(filepath.Join(h.dir, filepath.FromSlash(rel)))
	if err != nil {
		response.NotFound(c)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		response.NotFound(c)
		return
	}

	if ct, ok := videoTypes[strings.ToLower(filepath.Ext(rel))]; ok {
		c.Header("Content-Type", ct)
		c.Header("Accept-Ranges", "bytes")
	}
	c.Header("Cache-Control", "public, max-age=31536000")
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}

// cleanPath accepts only slash-separated safe segments.
func cleanPath(raw string) (string, bool) {
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return "", false
	}
	segs := strings.Split(trimmed, "/")
	for _, seg := range segs {
		if seg == "." || seg == ".." || !isSafeSegment(seg) {
			return "", false
		}
	}
	return strings.Join(segs, "/"), true
}

// isSafeSegment returns true when s is non-empty and contains only
// alphanumerics, hyphens, underscores, or dots.
func isSafeSegment(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			continue
		}
		return false
	}
	return true
}
