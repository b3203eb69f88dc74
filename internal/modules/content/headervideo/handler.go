package headervideo

import (
	"github.com/folio-space/core/internal/modules/content"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	*content.Handler[Model]
}

func NewHandler(svc *content.Service[Model], maxBody int64) *Handler {
	return &Handler{Handler: content.NewHandler(svc, maxBody)}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/header-poster")
	g.GET("/videos", h.ListPublic)

	a := g.Group("/admin", authMW)
	a.GET("/videos", h.ListAdmin)
	a.POST("/videos", h.Create)
	a.PUT("/videos/:id", h.Update)
	a.DELETE("/videos/:id", h.Delete)
}
