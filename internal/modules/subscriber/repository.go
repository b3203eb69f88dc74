package subscriber

import (
	"context"
	"errors"

	"github.com/folio-space/core/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound       = errors.New("subscriber not found")
	ErrDuplicateEmail = errors.New("subscriber email already exists")
)

// ListFilter narrows List and Count. Zero values mean "any".
type ListFilter struct {
	Subscribed *bool
	Source     models.Source
	Read       *bool
	Search     string
}

// Repository persists subscriber records. Lookups by email expect the
// lower-cased form.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.SubscriberModel, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.SubscriberModel, error)
	Insert(ctx context.Context, s *models.SubscriberModel) error
	Save(ctx context.Context, s *models.SubscriberModel) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, f ListFilter) ([]models.SubscriberModel, error)
	Count(ctx context.Context, f ListFilter) (int64, error)
	CountBySource(ctx context.Context) (map[models.Source]int64, error)
}
