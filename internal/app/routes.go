package app

import (
	"net/http"

	"github.com/folio-space/core/internal/middleware"
	"github.com/folio-space/core/internal/modules/auth"
	"github.com/folio-space/core/internal/modules/content/headerimage"
	"github.com/folio-space/core/internal/modules/content/headervideo"
	"github.com/folio-space/core/internal/modules/content/heroimage"
	"github.com/folio-space/core/internal/modules/content/latestpost"
	"github.com/folio-space/core/internal/modules/health"
	"github.com/folio-space/core/internal/modules/subscriber"
	"github.com/folio-space/core/internal/modules/uploads"
	"github.com/folio-space/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api"

func (a *App) registerRoutes(d deps) {
	r := a.router
	authMW := middleware.Auth(d.tokens)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	uploads.NewHandler(a.cfg.UploadsDir()).RegisterRoutes(r)

	// Infrastructure, reachable while the database is down
	infra := r.Group(apiPrefix)
	health.RegisterRoutes(infra, d.store, d.mailer, authMW)
	infra.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })

	api := r.Group(apiPrefix, middleware.RequireStore(d.ping, storeCheckTimeout))
	maxBody := a.cfg.MaxUploadBytes() + 1<<20

	// Subscribers, contact inbox and broadcast
	subRepo := subscriber.NewMongoRepository(d.store)
	subscriber.NewHandler(
		subscriber.NewService(subRepo, a.logger.Named("subscriber")),
		subscriber.NewBroadcaster(subRepo, d.mailer, subscriber.BroadcasterOptions{
			ClientURL:  a.cfg.ClientURL,
			SkipVerify: a.cfg.SMTP.SkipVerify,
		}, a.logger.Named("broadcast")),
	).RegisterRoutes(api, authMW)

	// Content
	contentLog := a.logger.Named("content")
	headerimage.NewHandler(headerimage.NewService(d.store, d.assets, contentLog), maxBody).RegisterRoutes(api, authMW)
	headervideo.NewHandler(headervideo.NewService(d.store, d.assets, contentLog), maxBody).RegisterRoutes(api, authMW)
	heroimage.NewHandler(heroimage.NewService(d.store, d.assets, contentLog), maxBody).RegisterRoutes(api, authMW)
	latestpost.NewHandler(latestpost.NewService(d.store, d.assets, contentLog), maxBody).RegisterRoutes(api, authMW)

	// Admin accounts
	auth.NewHandler(
		auth.NewService(auth.NewMongoRepository(d.store), d.tokens, d.assets, a.logger.Named("auth")),
		d.tokens,
	).RegisterRoutes(api, authMW)
}
