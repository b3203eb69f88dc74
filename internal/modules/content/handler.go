package content

import (
	"net/http"

	"github.com/folio-space/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

// Handler exposes a Service over HTTP. Resources mount its methods on their
// own route layout.
type Handler[T Document] struct {
	svc     *Service[T]
	maxBody int64
}

// NewHandler caps request bodies at maxBody bytes; zero disables the cap.
func NewHandler[T Document](svc *Service[T], maxBody int64) *Handler[T] {
	return &Handler[T]{svc: svc, maxBody: maxBody}
}

func (h *Handler[T]) ListPublic(c *gin.Context) {
	items, err := h.svc.ListPublic(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler[T]) ListAdmin(c *gin.Context) {
	items, err := h.svc.ListAdmin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler[T]) Create(c *gin.Context) {
	in, ok := h.input(c)
	if !ok {
		return
	}
	doc, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, doc)
}

func (h *Handler[T]) Update(c *gin.Context) {
	in, ok := h.input(c)
	if !ok {
		return
	}
	doc, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, doc)
}

func (h *Handler[T]) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, h.svc.Kind().Label+" deleted")
}

func (h *Handler[T]) input(c *gin.Context) (Input, bool) {
	if h.maxBody > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	}
	in, err := ParseInput(c, h.svc.Kind().FileField)
	if err != nil {
		response.Error(c, err)
		return in, false
	}
	return in, true
}
