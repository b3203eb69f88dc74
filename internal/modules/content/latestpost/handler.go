package latestpost

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
	g := rg.Group("/latest-posts")
	g.GET("", h.ListPublic)
	g.GET("/admin", authMW, h.ListAdmin)
	g.POST("", authMW, h.Create)
	g.PUT("/:id", authMW, h.Update)
	g.DELETE("/:id", authMW, h.Delete)
}
