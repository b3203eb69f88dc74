// Package headervideo serves the header poster videos.
package headervideo

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

type Model = *models.HeaderVideoModel

func Kind() content.Kind[Model] {
	return content.Kind[Model]{
		Label:      "Video",
		Collection: database.CollectionHeaderVideos,
		Folder:     "header-videos",
		FileField:  "video",
		URLField:   "videoUrl",
		Sort:       bson.D{{Key: "position", Value: 1}, {Key: "createdAt", Value: -1}},
		New: func() Model {
			return &models.HeaderVideoModel{Position: models.VideoPositionCenter}
		},
		Apply: apply,
	}
}

func NewService(store *database.Store, assets media.Store, logger *zap.Logger) *content.Service[Model] {
	kind := Kind()
	return content.NewService(kind, content.NewMongoRepository(store, kind), assets, logger)
}

func apply(doc Model, in content.Input) error {
	if alt, ok := in.String("altText"); ok {
		doc.AltText = strings.TrimSpace(alt)
	}
	if raw, ok := in.Trimmed("position"); ok && raw != "" {
		pos := models.VideoPosition(strings.ToLower(raw))
		if !pos.Valid() {
			return apperr.Validation("position must be one of: left, right, center")
		}
		doc.Position = pos
	}
	return nil
}
