package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/folio-space/core/internal/models"
	"github.com/folio-space/core/internal/pkg/apperr"
	"github.com/folio-space/core/internal/pkg/media"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type post = *models.LatestPostModel

func testKind() Kind[post] {
	return Kind[post]{
		Label:      "Post",
		Collection: "latestposts",
		Folder:     "latest-posts",
		FileField:  "file",
		URLField:   "mediaUrl",
		Sort:       bson.D{{Key: "createdAt", Value: -1}},
		New:        func() post { return &models.LatestPostModel{} },
		Apply: func(p post, in Input) error {
			if v, ok := in.String("title"); ok {
				p.Title = v
			}
			if v, ok := in.Trimmed("type"); ok {
				p.Type = models.PostType(v)
			}
			if p.Type == "" {
				return apperr.Validation("type is required")
			}
			return nil
		},
		MediaOptional: func(p post) bool { return p.Type == models.PostTypeText },
	}
}

// memRepo stores copies so a failed operation cannot leak edits.
type memRepo struct {
	mu        sync.Mutex
	rows      []models.LatestPostModel
	insertErr error
	saveErr   error
}

func (r *memRepo) List(_ context.Context, activeOnly bool) ([]post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]post, 0, len(r.rows))
	for i := len(r.rows) - 1; i >= 0; i-- {
		if activeOnly && !r.rows[i].IsActive {
			continue
		}
		cp := r.rows[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memRepo) FindByID(_ context.Context, id primitive.ObjectID) (post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id {
			cp := row
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepo) Insert(_ context.Context, p post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	p.ID = primitive.NewObjectID()
	r.rows = append(r.rows, *p)
	return nil
}

func (r *memRepo) Save(_ context.Context, p post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	for i := range r.rows {
		if r.rows[i].ID == p.ID {
			r.rows[i] = *p
			return nil
		}
	}
	return ErrNotFound
}

func (r *memRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *memRepo) get(t *testing.T, id primitive.ObjectID) models.LatestPostModel {
	t.Helper()
	p, err := r.FindByID(context.Background(), id)
	require.NoError(t, err)
	return *p
}

type fakeMedia struct {
	mu        sync.Mutex
	n         int
	stored    map[string]bool
	deleted   []string
	uploadErr error
	deleteErr error
}

func newFakeMedia() *fakeMedia { return &fakeMedia{stored: map[string]bool{}} }

func (m *fakeMedia) Upload(_ context.Context, folder string, fh *multipart.FileHeader) (media.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil {
		return media.Asset{}, m.uploadErr
	}
	m.n++
	ref := fmt.Sprintf("%s/%d-%s", folder, m.n, fh.Filename)
	m.stored[ref] = true
	return media.Asset{URL: "https://cdn.example/" + ref, Ref: ref}, nil
}

func (m *fakeMedia) Delete(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, ref)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.stored, ref)
	return nil
}

func (m *fakeMedia) has(ref string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stored[ref]
}

func newTestService() (*Service[post], *memRepo, *fakeMedia) {
	repo := &memRepo{}
	assets := newFakeMedia()
	svc := NewService(testKind(), Repository[post](repo), media.Store(assets), zap.NewNop())
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc, repo, assets
}

func fileHeader(t *testing.T, field, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File[field][0]
}

func fields(kv ...string) map[string]string {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

var errBoom = errors.New("boom")
