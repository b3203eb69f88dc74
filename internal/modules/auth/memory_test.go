package auth

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"sync"
	"testing"

	"github.com/folio-space/core/internal/models"
	"github.com/folio-space/core/internal/pkg/media"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memoryRepo struct {
	mu   sync.Mutex
	rows []models.AdminModel
}

func (r *memoryRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

func (r *memoryRepo) FindByEmail(_ context.Context, email string) (*models.AdminModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == email {
			cp := row
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.AdminModel, error) {
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

func (r *memoryRepo) List(context.Context) ([]models.AdminModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.AdminModel(nil), r.rows...), nil
}

func (r *memoryRepo) Insert(_ context.Context, a *models.AdminModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == a.Email {
			return ErrDuplicateEmail
		}
	}
	a.ID = primitive.NewObjectID()
	r.rows = append(r.rows, *a)
	return nil
}

func (r *memoryRepo) Save(_ context.Context, a *models.AdminModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := -1
	for i, row := range r.rows {
		if row.ID == a.ID {
			idx = i
		} else if row.Email == a.Email {
			return ErrDuplicateEmail
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	r.rows[idx] = *a
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, row := range r.rows {
		if row.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type fakeMedia struct {
	mu      sync.Mutex
	n       int
	deleted []string
}

func (m *fakeMedia) Upload(_ context.Context, folder string, fh *multipart.FileHeader) (media.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	ref := fmt.Sprintf("%s/%d-%s", folder, m.n, fh.Filename)
	return media.Asset{URL: "/uploads/" + ref, Ref: ref}, nil
}

func (m *fakeMedia) Delete(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, ref)
	return nil
}

func avatarFile(t *testing.T, name string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, _ = part.Write([]byte("png"))
	require.NoError(t, w.Close())
	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["image"][0]
}
