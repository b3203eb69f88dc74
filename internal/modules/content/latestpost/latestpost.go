// Package latestpost serves the latest-posts feed.
package latestpost

import (
	"strings"

	"github.com/folio-space/core/internal/database"
	"github.com/folio-space/core/internal/models"
	"github.com/folio-space/core/internal/modules/content"
	"github.com/folio-space/core/internal/pkg/apperr"
	"github.com/folio-space/core/internal/pkg/media"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type Model = *models.LatestPostModel

func Kind() content.Kind[Model] {
	return content.Kind[Model]{
		Label:         "Post",
		Collection:    database.CollectionLatestPosts,
		Folder:        "latest-posts",
		FileField:     "file",
		URLField:      "mediaUrl",
		Sort:          bson.D{{Key: "createdAt", Value: -1}},
		New:           func() Model { return &models.LatestPostModel{} },
		Apply:         apply,
		MediaOptional: func(p Model) bool { return p.Type == models.PostTypeText },
	}
}

func NewService(store *database.Store, assets media.Store, logger *zap.Logger) *content.Service[Model] {
	kind := Kind()
	return content.NewService(kind, content.NewMongoRepository(store, kind), assets, logger)
}

func apply(p Model, in content.Input) error {
	if title, ok := in.Trimmed("title"); ok {
		p.Title = title
	}
	if body, ok := in.String("body"); ok {
		p.Body = body
	}
	if raw, ok := in.Trimmed("type"); ok {
		p.Type = models.PostType(strings.ToLower(raw))
	}
	if p.Type == "" {
		return apperr.Validation("type is required")
	}
	if !p.Type.Valid() {
		return apperr.Validation("type must be one of: image, video, youtube, text")
	}
	return nil
}
