package subscriber

import (
	"strconv"
	"strings"

	"github.com/folio-space/core/internal/models"
	"github.com/folio-space/core/internal/pkg/response"
	"github.com/folio-space/core/internal/pkg/validate"
	"github.com/gin-gonic/gin"
)

type subscribeRequest struct {
	Email  string `json:"email"  form:"email"  binding:"required"`
	Name   string `json:"name"   form:"name"`
	Source string `json:"source" form:"source" binding:"omitempty,subsource"`
	Notes  string `json:"notes"  form:"notes"`
	Phone  string `json:"phone"  form:"phone"`
}

type unsubscribeRequest struct {
	Email string `json:"email" form:"email" binding:"required"`
}

type updateRequest struct {
	Name       *string   `json:"name"`
	Source     *string   `json:"source"`
	Tags       *[]string `json:"tags"`
	Notes      *string   `json:"notes"`
	Phone      *string   `json:"phone"`
	Subscribed *bool     `json:"subscribed"`
	Read       *bool     `json:"read"`
}

type broadcastRequest struct {
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	SendToAll bool   `json:"sendToAll"`
	Format    string `json:"format" binding:"omitempty,oneof=text markdown"`
}

type idParam struct {
	ID string `uri:"id" binding:"required,objectid"`
}

type Handler struct {
	svc         *Service
	broadcaster *Broadcaster
}

func NewHandler(svc *Service, broadcaster *Broadcaster) *Handler {
	return &Handler{svc: svc, broadcaster: broadcaster}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/subscribers")
	g.POST("/subscribe", h.subscribe)
	g.POST("/unsubscribe", h.unsubscribe)

	a := g.Group("/admin", authMW)
	a.GET("", h.list)
	a.GET("/stats", h.stats)
	a.GET("/subscribers/stats", h.stats)
	a.GET("/unread-contact-count", h.unreadContactCount)
	a.POST("/broadcast", h.broadcast)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
}

func (h *Handler) subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, validate.Message(err))
		return
	}
	res, err := h.svc.Subscribe(c.Request.Context(), SubscribeInput{
		Email:  req.Email,
		Name:   req.Name,
		Source: req.Source,
		Notes:  req.Notes,
		Phone:  req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if res.Kind == KindResubscribed {
		response.OK(c, gin.H{"message": res.Kind.Message(), "subscriber": res.Subscriber})
		return
	}
	response.Created(c, gin.H{
		"message": res.Kind.Message(),
		"subscriber": gin.H{
			"email": res.Subscriber.Email,
			"name":  res.Subscriber.Name,
		},
	})
}

func (h *Handler) unsubscribe(c *gin.Context) {
	var req unsubscribeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, validate.Message(err))
		return
	}
	if err := h.svc.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "You have been unsubscribed successfully")
}

func (h *Handler) list(c *gin.Context) {
	var f ListFilter
	var ok bool
	if f.Subscribed, ok = optionalBool(c, "subscribed"); !ok {
		return
	}
	if f.Read, ok = optionalBool(c, "read"); !ok {
		return
	}
	f.Source = models.Source(strings.TrimSpace(c.Query("source")))
	f.Search = c.Query("search")

	subs, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, subs)
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

func (h *Handler) unreadContactCount(c *gin.Context) {
	n, err := h.svc.UnreadContactCount(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"count": n})
}

func (h *Handler) update(c *gin.Context) {
	var p idParam
	if err := c.ShouldBindUri(&p); err != nil {
		response.BadRequest(c, validate.Message(err))
		return
	}
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validate.Message(err))
		return
	}
	sub, err := h.svc.Update(c.Request.Context(), p.ID, UpdateInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, sub)
}

func (h *Handler) delete(c *gin.Context) {
	var p idParam
	if err := c.ShouldBindUri(&p); err != nil {
		response.BadRequest(c, validate.Message(err))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), p.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Subscriber deleted successfully")
}

func (h *Handler) broadcast(c *gin.Context) {
	var req broadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validate.Message(err))
		return
	}
	res, err := h.broadcaster.Broadcast(c.Request.Context(), BroadcastInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// optionalBool reads a boolean query parameter; absent means nil. An
// unparsable value answers 400 and returns false.
func optionalBool(c *gin.Context, key string) (*bool, bool) {
	raw, present := c.GetQuery(key)
	raw = strings.TrimSpace(raw)
	if !present || raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		response.BadRequest(c, "Invalid value for "+key)
		return nil, false
	}
	return &v, true
}
