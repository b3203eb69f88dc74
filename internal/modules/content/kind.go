// Package content implements the admin-managed media resources (header
// poster images and videos, hero slides, latest posts) on top of one generic
// service. Each resource supplies a Kind describing its collection, media
// fields and editable attributes.
package content

import (
	"github.com/folio-space/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Document is implemented by pointers to the content models.
type Document interface {
	Content() *models.ContentBase
	MediaURL() string
	SetMediaURL(url string)
}

// Kind describes one content resource.
type Kind[T Document] struct {
	// Label names a single record in messages, e.g. "Post".
	Label      string
	Collection string
	// Folder groups uploads on the media host.
	Folder string
	// FileField and URLField are the form fields carrying the upload or an
	// external media URL.
	FileField string
	URLField  string
	Sort      bson.D

	New func() T
	// Apply copies the resource's own form fields onto doc and validates
	// the result.
	Apply func(doc T, in Input) error
	// MediaOptional reports whether doc may be saved without media.
	MediaOptional func(doc T) bool
}

func (k Kind[T]) mediaOptional(doc T) bool {
	return k.MediaOptional != nil && k.MediaOptional(doc)
}
