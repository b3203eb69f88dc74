package media

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/folio-space/core/internal/config"
	"github.com/folio-space/core/internal/pkg/apperr"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Asset is an uploaded file: its public URL and the reference used to delete it.
type Asset struct {
	URL string
	Ref string
}

// Store uploads and deletes media files.
type Store interface {
	Upload(ctx context.Context, folder string, fh *multipart.FileHeader) (Asset, error)
	Delete(ctx context.Context, ref string) error
}

var allowedExt = map[string]bool{
	".jpeg": true, ".jpg": true, ".png": true, ".gif": true, ".webp": true,
	".mp4": true, ".webm": true, ".ogg": true,
}

// New picks the S3 store when a bucket is configured and the local disk store otherwise.
func New(cfg *config.AppConfig) (Store, error) {
	if cfg.S3Configured() {
		return NewS3Store(cfg.Media)
	}
	return NewLocalStore(cfg.UploadsDir(), "/uploads", cfg.MaxUploadBytes()), nil
}

// Validate checks extension, content type and size of an upload.
func Validate(fh *multipart.FileHeader, maxBytes int64) error {
	if fh == nil {
		return apperr.Validation("No file uploaded")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return apperr.Validation("Only images and videos are allowed")
	}
	if !allowedContentType(contentType(fh)) {
		return apperr.Validation("Only images and videos are allowed")
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return apperr.Validation(fmt.Sprintf("File too large. Maximum size is %dMB", maxBytes>>20))
	}
	return nil
}

func contentType(fh *multipart.FileHeader) string {
	ct := strings.TrimSpace(fh.Header.Get("Content-Type"))
	if ct == "" || ct == "application/octet-stream" {
		ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename)))
	}
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return ct
}

func allowedContentType(ct string) bool {
	return strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/") || ct == "audio/ogg"
}

// objectName builds a collision-free, URL-safe file name for an upload.
func objectName(original string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := slug.Make(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))
	if len(base) > 40 {
		base = strings.Trim(base[:40], "-")
	}
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("%d-%s-%s%s", now.UnixNano(), uuid.NewString(), base, ext)
}

func safeFolder(folder string) string {
	folder = slug.Make(folder)
	if folder == "" {
		return "misc"
	}
	return folder
}
