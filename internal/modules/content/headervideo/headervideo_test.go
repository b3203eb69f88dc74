package headervideo

import (
	"testing"

	"github.com/folio-space/core/internal/models"
	"github.com/folio-space/core/internal/modules/content"
	"github.com/folio-space/core/internal/pkg/apperr"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPosition(t *testing.T) {
	doc := Kind().New()
	assert.Equal(t, models.VideoPositionCenter, doc.Position)

	require.NoError(t, apply(doc, content.Input{Fields: map[string]string{"position": "Left", "altText": "Reel"}}))
	assert.Equal(t, models.VideoPositionLeft, doc.Position)
	assert.Equal(t, "Reel", doc.AltText)

	require.NoError(t, apply(doc, content.Input{Fields: map[string]string{"position": ""}}))
	assert.Equal(t, models.VideoPositionLeft, doc.Position)

	err := apply(doc, content.Input{Fields: map[string]string{"position": "top"}})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeValidation, apperr.As(err).Code)
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
		"GET /api/header-poster/videos",
		"GET /api/header-poster/admin/videos",
		"POST /api/header-poster/admin/videos",
		"PUT /api/header-poster/admin/videos/:id",
		"DELETE /api/header-poster/admin/videos/:id",
	}, got)
}
