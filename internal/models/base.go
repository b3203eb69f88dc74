package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Base is embedded by every document stored in the database.
// JSON names keep the `_id` / camelCase shape the admin dashboard consumes.
type Base struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"     json:"updatedAt"`
}

// Touch stamps CreatedAt on first save and UpdatedAt on every save.
func (b *Base) Touch(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// ContentBase adds the fields shared by the public media resources.
type ContentBase struct {
	Base     `bson:",inline"`
	IsActive bool   `bson:"isActive"            json:"isActive"`
	PublicID string `bson:"public_id,omitempty" json:"public_id,omitempty"` // storage reference of an uploaded asset
}

// Content returns the shared content fields.
func (c *ContentBase) Content() *ContentBase { return c }
