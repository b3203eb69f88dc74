package subscriber

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/folio-space/core/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryRepo is an in-memory Repository with the same unique-email and
// ordering rules as the Mongo implementation.
type memoryRepo struct {
	mu   sync.Mutex
	rows map[primitive.ObjectID]models.SubscriberModel
	err  error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[primitive.ObjectID]models.SubscriberModel)}
}

func (r *memoryRepo) FindByEmail(_ context.Context, email string) (*models.SubscriberModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, row := range r.rows {
		if row.Email == email {
			cp := row
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.SubscriberModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	row, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (r *memoryRepo) Insert(_ context.Context, s *models.SubscriberModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, row := range r.rows {
		if row.Email == s.Email {
			return ErrDuplicateEmail
		}
	}
	s.ID = primitive.NewObjectID()
	r.rows[s.ID] = *s
	return nil
}

func (r *memoryRepo) Save(_ context.Context, s *models.SubscriberModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.rows[s.ID]; !ok {
		return ErrNotFound
	}
	r.rows[s.ID] = *s
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.rows[id]; !ok {
		return ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memoryRepo) List(_ context.Context, f ListFilter) ([]models.SubscriberModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]models.SubscriberModel, 0)
	for _, row := range r.rows {
		if matches(row, f) {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if f.Source == models.SourcePartner && out[i].Read != out[j].Read {
			return !out[i].Read
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryRepo) Count(ctx context.Context, f ListFilter) (int64, error) {
	rows, err := r.List(ctx, f)
	return int64(len(rows)), err
}

func (r *memoryRepo) CountBySource(_ context.Context) (map[models.Source]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make(map[models.Source]int64)
	for _, row := range r.rows {
		out[row.Source]++
	}
	return out, nil
}

func (r *memoryRepo) byEmail(email string) (models.SubscriberModel, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == email {
			return row, true
		}
	}
	return models.SubscriberModel{}, false
}

func (r *memoryRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func matches(row models.SubscriberModel, f ListFilter) bool {
	if f.Subscribed != nil && row.Subscribed != *f.Subscribed {
		return false
	}
	if f.Source != "" && row.Source != f.Source {
		return false
	}
	if f.Read != nil && row.Read != *f.Read {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(row.Email), q) && !strings.Contains(strings.ToLower(row.Name), q) {
			return false
		}
	}
	return true
}
