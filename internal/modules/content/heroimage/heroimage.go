// Package heroimage serves the slides of the home hero carousel.
package heroimage

import (
	"strings"

	"github.com/folio-space/core/internal/database"
	"github.com/folio-space/core/internal/models"
	"github.com/folio-space/core/internal/modules/content"
	"github.com/folio-space/core/internal/pkg/media"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type Model = *models.HeroImageModel

func Kind() content.Kind[Model] {
	return content.Kind[Model]{
		Label:      "Hero image",
		Collection: database.CollectionHeroImages,
		Folder:     "hero-images",
		FileField:  "image",
		URLField:   "imageUrl",
		Sort:       bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: -1}},
		New:        func() Model { return &models.HeroImageModel{} },
		Apply:      apply,
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
	order, ok, err := in.Int("order")
	if err != nil {
		return err
	}
	if ok {
		doc.Order = order
	}
	return nil
}
