package media

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/folio-space/core/internal/config"
	"github.com/folio-space/core/internal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name, contentType string, body []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+name+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r := multipart.NewReader(&buf, w.Boundary())
	form, err := r.ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		contentType string
		size        int
		wantErr     bool
	}{
		{"jpeg", "photo.JPG", "image/jpeg", 10, false},
		{"webm video", "clip.webm", "video/webm", 10, false},
		{"type from extension", "photo.webp", "", 10, false},
		{"pdf rejected", "doc.pdf", "application/pdf", 10, true},
		{"extension mismatch", "photo.png", "text/html", 10, true},
		{"too large", "photo.png", "image/png", 2048, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fh := fileHeader(t, tt.file, tt.contentType, bytes.Repeat([]byte{1}, tt.size))
			err := Validate(fh, 1024)
			if tt.wantErr {
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, apperr.CodeValidation, ae.Code)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestObjectName(t *testing.T) {
	now := time.Unix(0, 42)
	name := objectName("My Holiday Photo!.PNG", now)
	assert.True(t, strings.HasPrefix(name, "42-"))
	assert.True(t, strings.HasSuffix(name, "-my-holiday-photo.png"))
	assert.NotEqual(t, name, objectName("My Holiday Photo!.PNG", now))
	assert.True(t, strings.HasSuffix(objectName("???.jpg", now), "-file.jpg"))
}

func TestLocalStoreUploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir, "/uploads/", 1<<20)

	asset, err := store.Upload(context.Background(), "header images", fileHeader(t, "a.png", "image/png", []byte("png")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(asset.Ref, "header-images/"))
	assert.Equal(t, "/uploads/"+asset.Ref, asset.URL)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(asset.Ref)))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	require.NoError(t, store.Delete(context.Background(), asset.Ref))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(asset.Ref)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(context.Background(), asset.Ref), "deleting a missing file is not an error")
	assert.NoError(t, store.Delete(context.Background(), ""))
}

func TestLocalStoreDeleteStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(root, "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	store := NewLocalStore(filepath.Join(root, "uploads"), "/uploads", 0)
	require.NoError(t, store.Delete(context.Background(), "../secret.txt"))

	_, err := os.Stat(outside)
	assert.NoError(t, err)
}

func TestLocalStoreRejectsInvalidUpload(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/uploads", 0)
	_, err := store.Upload(context.Background(), "posts", fileHeader(t, "run.sh", "text/x-sh", []byte("#!")))
	assert.Error(t, err)
}

type s3Request struct {
	method string
	path   string
	body   string
}

func fakeS3(t *testing.T, status int) (*httptest.Server, *[]s3Request, *sync.Mutex) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []s3Request
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, s3Request{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()
		if status >= 400 {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>denied</Message></Error>`))
			return
		}
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs, &mu
}

func s3Config(endpoint string) config.MediaConfig {
	return config.MediaConfig{
		Bucket:          "assets",
		Region:          "auto",
		Endpoint:        endpoint,
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		PublicURL:       "https://cdn.example.com/",
		Prefix:          "site",
		MaxUploadMB:     1,
	}
}

func TestS3StoreUploadAndDelete(t *testing.T) {
	srv, reqs, mu := fakeS3(t, http.StatusOK)
	store, err := NewS3Store(s3Config(srv.URL))
	require.NoError(t, err)

	asset, err := store.Upload(context.Background(), "latest-posts", fileHeader(t, "clip.mp4", "video/mp4", []byte("video-bytes")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(asset.Ref, "site/latest-posts/"))
	assert.Equal(t, "https://cdn.example.com/"+asset.Ref, asset.URL)

	require.NoError(t, store.Delete(context.Background(), asset.Ref))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, *reqs, 2)
	assert.Equal(t, http.MethodPut, (*reqs)[0].method)
	assert.Equal(t, "/assets/"+asset.Ref, (*reqs)[0].path)
	assert.Equal(t, "video-bytes", (*reqs)[0].body)
	assert.Equal(t, http.MethodDelete, (*reqs)[1].method)
}

func TestS3StoreDeleteFailureIsUpstream(t *testing.T) {
	srv, _, _ := fakeS3(t, http.StatusForbidden)
	store, err := NewS3Store(s3Config(srv.URL))
	require.NoError(t, err)

	err = store.Delete(context.Background(), "site/x.png")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeUpstream, ae.Code)
}

func TestPublicBase(t *testing.T) {
	assert.Equal(t, "https://r2.example.com/assets", publicBase(config.MediaConfig{Bucket: "assets", Endpoint: "https://r2.example.com/"}))
	assert.Equal(t, "https://assets.s3.eu-west-1.amazonaws.com", publicBase(config.MediaConfig{Bucket: "assets", Region: "eu-west-1"}))
}
