package auth

import (
	"mime/multipart"

	"github.com/folio-space/core/internal/middleware"
	"github.com/folio-space/core/internal/pkg/response"
	"github.com/folio-space/core/internal/pkg/validate"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"    form:"email"    binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type registerRequest struct {
	Email    string `json:"email"    form:"email"    binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
	Name     string `json:"name"     form:"name"`
}

type profileRequest struct {
	Name   *string               `json:"name"  form:"name"`
	Email  *string               `json:"email" form:"email" binding:"omitempty,email"`
	Avatar *multipart.FileHeader `json:"-"     form:"image"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword"     binding:"required,min=6"`
}

type idParam struct {
	ID string `uri:"id" binding:"required,objectid"`
}

type Handler struct {
	svc    *Service
	tokens middleware.TokenParser
}

func NewHandler(svc *Service, tokens middleware.TokenParser) *Handler {
	return &Handler{svc: svc, tokens: tokens}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	a := rg.Group("/auth")
	a.POST("/login", h.login)
	a.POST("/register", middleware.OptionalAuth(h.tokens), h.register)

	authed := a.Group("", authMW)
	authed.GET("/me", h.me)
	authed.PUT("/profile", h.updateProfile)
	authed.PUT("/password", h.changePassword)
	authed.GET("/admins", h.listAdmins)
	authed.DELETE("/admins/:id", h.deleteAdmin)
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, validate.Message(err))
		return
	}
	token, admin, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"token": token, "user": admin})
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, validate.Message(err))
		return
	}
	admin, err := h.svc.Register(c.Request.Context(), middleware.CurrentAdminID(c), RegisterInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"message": "Admin created", "user": admin})
}

func (h *Handler) me(c *gin.Context) {
	admin, err := h.svc.Me(c.Request.Context(), middleware.CurrentAdminID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, admin)
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, validate.Message(err))
		return
	}
	admin, err := h.svc.UpdateProfile(c.Request.Context(), middleware.CurrentAdminID(c), ProfileInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, admin)
}

func (h *Handler) changePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, validate.Message(err))
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), middleware.CurrentAdminID(c), req.CurrentPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Password updated")
}

func (h *Handler) listAdmins(c *gin.Context) {
	admins, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, admins)
}

func (h *Handler) deleteAdmin(c *gin.Context) {
	var p idParam
	if err := c.ShouldBindUri(&p); err != nil {
		response.BadRequest(c, validate.Message(err))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentAdminID(c), p.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Admin deleted")
}
