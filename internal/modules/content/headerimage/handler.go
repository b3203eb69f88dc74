package headerimage

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
	g.GET("/images", h.ListPublic)

	a := g.Group("/admin", authMW)
	a.GET("/images", h.ListAdmin)
	a.POST("/images", h.Create)
	a.PUT("/images/:id", h.Update)
	a.DELETE("/images/:id", h.Delete)
}
