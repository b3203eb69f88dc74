package heroimage

import (
	"testing"

	"github.com/folio-space/core/internal/database"
	"github.com/folio-space/core/internal/modules/content"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	k := Kind()
	assert.Equal(t, database.CollectionHeroImages, k.Collection)
	assert.Equal(t, "image", k.FileField)
	assert.Equal(t, "imageUrl", k.URLField)

	doc := k.New()
	require.NoError(t, k.Apply(doc, content.Input{Fields: map[string]string{"altText": "Slide", "order": "-1"}}))
	assert.Equal(t, "Slide", doc.AltText)
	assert.Equal(t, -1, doc.Order)
}

func TestRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(nil, 0).RegisterRoutes(r.Group("/api"), func(c *gin.Context) { c.Next() })

	var got []string
	for _, rt := range r.Routes() {
		got = append(got, rt.Method+" "+rt.Path)
	}
	assert.ElementsMatch(t, []string{
		"GET /api/home-hero/images",
		"GET /api/home-hero/admin/images",
		"POST /api/home-hero/admin/images",
		"PUT /api/home-hero/admin/images/:id",
		"DELETE /api/home-hero/admin/images/:id",
	}, got)
}
