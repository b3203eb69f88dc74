package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/folio-space/core/internal/pkg/apperr"
	"github.com/folio-space/core/internal/pkg/media"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Service[T Document] struct {
	kind   Kind[T]
	repo   Repository[T]
	media  media.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService[T Document](kind Kind[T], repo Repository[T], store media.Store, logger *zap.Logger) *Service[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service[T]{
		kind:   kind,
		repo:   repo,
		media:  store,
		logger: logger.With(zap.String("collection", kind.Collection)),
		now:    time.Now,
	}
}

func (s *Service[T]) Kind() Kind[T] { return s.kind }

// ListPublic returns the active records in display order.
func (s *Service[T]) ListPublic(ctx context.Context) ([]T, error) {
	return s.repo.List(ctx, true)
}

// ListAdmin returns every record in display order.
func (s *Service[T]) ListAdmin(ctx context.Context) ([]T, error) {
	return s.repo.List(ctx, false)
}

func (s *Service[T]) Create(ctx context.Context, in Input) (T, error) {
	var zero T
	doc := s.kind.New()
	base := doc.Content()
	base.IsActive = true
	if err := s.apply(doc, in); err != nil {
		return zero, err
	}

	var uploaded string
	url, _ := in.Trimmed(s.kind.URLField)
	switch {
	case in.File != nil:
		asset, err := s.media.Upload(ctx, s.kind.Folder, in.File)
		if err != nil {
			return zero, err
		}
		doc.SetMediaURL(asset.URL)
		base.PublicID = asset.Ref
		uploaded = asset.Ref
	case url != "":
		doc.SetMediaURL(url)
	case !s.kind.mediaOptional(doc):
		return zero, s.missingMedia()
	}

	base.Touch(s.now())
	if err := s.repo.Insert(ctx, doc); err != nil {
		if uploaded != "" {
			s.discard(ctx, uploaded)
		}
		return zero, err
	}
	s.logger.Info("content created", zap.String("id", base.ID.Hex()))
	return doc, nil
}

// Update applies a partial form. A new file replaces the stored asset, a new
// URL replaces it too, and an explicitly empty URL clears the media. The
// previous asset is removed from the host only after the record is saved.
func (s *Service[T]) Update(ctx context.Context, id string, in Input) (T, error) {
	var zero T
	doc, err := s.find(ctx, id)
	if err != nil {
		return zero, err
	}
	if err := s.apply(doc, in); err != nil {
		return zero, err
	}
	base := doc.Content()

	var uploaded, stale string
	url, urlSet := in.Trimmed(s.kind.URLField)
	switch {
	case in.File != nil:
		asset, err := s.media.Upload(ctx, s.kind.Folder, in.File)
		if err != nil {
			return zero, err
		}
		stale = base.PublicID
		doc.SetMediaURL(asset.URL)
		base.PublicID = asset.Ref
		uploaded = asset.Ref
	case urlSet && url == "":
		if !s.kind.mediaOptional(doc) {
			return zero, s.missingMedia()
		}
		stale = base.PublicID
		doc.SetMediaURL("")
		base.PublicID = ""
	case urlSet && url != doc.MediaURL():
		stale = base.PublicID
		doc.SetMediaURL(url)
		base.PublicID = ""
	case doc.MediaURL() == "" && !s.kind.mediaOptional(doc):
		return zero, s.missingMedia()
	}

	base.Touch(s.now())
	if err := s.repo.Save(ctx, doc); err != nil {
		if uploaded != "" {
			s.discard(ctx, uploaded)
		}
		return zero, s.notFound(err)
	}
	if stale != "" {
		s.discard(ctx, stale)
	}
	return doc, nil
}

// Delete removes the record. A failure to delete the remote asset is logged
// and does not keep the record.
func (s *Service[T]) Delete(ctx context.Context, id string) error {
	doc, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if ref := doc.Content().PublicID; ref != "" {
		if err := s.media.Delete(ctx, ref); err != nil {
			s.logger.Warn("delete media failed", zap.String("ref", ref), zap.Error(err))
		}
	}
	return s.notFound(s.repo.Delete(ctx, doc.Content().ID))
}

func (s *Service[T]) find(ctx context.Context, id string) (T, error) {
	var zero T
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return zero, apperr.Validation("Invalid id")
	}
	doc, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return zero, s.notFound(err)
	}
	return doc, nil
}

func (s *Service[T]) apply(doc T, in Input) error {
	active, ok, err := in.Bool("isActive")
	if err != nil {
		return err
	}
	if ok {
		doc.Content().IsActive = active
	}
	if s.kind.Apply != nil {
		return s.kind.Apply(doc, in)
	}
	return nil
}

// discard removes an asset that no record references any more.
func (s *Service[T]) discard(ctx context.Context, ref string) {
	if err := s.media.Delete(context.WithoutCancel(ctx), ref); err != nil {
		s.logger.Warn("delete media failed", zap.String("ref", ref), zap.Error(err))
	}
}

func (s *Service[T]) missingMedia() error {
	return apperr.Validation(fmt.Sprintf("Please upload a file or provide %s", s.kind.URLField))
}

func (s *Service[T]) notFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound(s.kind.Label + " not found")
	}
	return err
}
