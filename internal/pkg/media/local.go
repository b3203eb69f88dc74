package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/folio-space/core/internal/pkg/apperr"
)

// LocalStore writes uploads below dir and serves them under urlPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
	maxBytes  int64
	now       func() time.Time
}

func NewLocalStore(dir, urlPrefix string, maxBytes int64) *LocalStore {
	return &LocalStore{
		dir:       dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		maxBytes:  maxBytes,
		now:       time.Now,
	}
}

func (s *LocalStore) Upload(_ context.Context, folder string, fh *multipart.FileHeader) (Asset, error) {
	if err := Validate(fh, s.maxBytes); err != nil {
		return Asset{}, err
	}
	folder = safeFolder(folder)
	name := objectName(fh.Filename, s.now())

	dir := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Asset{}, apperr.Internal(err)
	}

	src, err := fh.Open()
	if err != nil {
		return Asset{}, apperr.Internal(fmt.Errorf("open upload: %w", err))
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return Asset{}, apperr.Internal(err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return Asset{}, apperr.Internal(fmt.Errorf("write upload: %w", err))
	}
	if err := dst.Close(); err != nil {
		return Asset{}, apperr.Internal(err)
	}

	ref := path.Join(folder, name)
	return Asset{URL: s.urlPrefix + "/" + ref, Ref: ref}, nil
}

func (s *LocalStore) Delete(_ context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	p, ok := s.resolve(ref)
	if !ok {
		return apperr.Validation("invalid media reference")
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperr.Upstream("Failed to delete media", err)
	}
	return nil
}

// resolve maps ref to a path inside dir, rejecting traversal.
func (s *LocalStore) resolve(ref string) (string, bool) {
	clean := path.Clean("/" + ref)
	if clean == "/" {
		return "", false
	}
	return filepath.Join(s.dir, filepath.FromSlash(clean)), true
}
