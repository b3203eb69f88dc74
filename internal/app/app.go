package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/folio-space/core/internal/config"
	"github.com/folio-space/core/internal/database"
	"github.com/folio-space/core/internal/middleware"
	"github.com/folio-space/core/internal/pkg/jwt"
	"github.com/folio-space/core/internal/pkg/mail"
	"github.com/folio-space/core/internal/pkg/media"
	pkgredis "github.com/folio-space/core/internal/pkg/redis"
	"github.com/folio-space/core/internal/pkg/validate"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	store  *database.Store
	rdb    *redis.Client
	logger *zap.Logger
}

// deps are the shared clients handed to the route handlers.
type deps struct {
	store  *database.Store
	ping   middleware.PingFunc
	assets media.Store
	mailer *mail.Sender
	tokens *jwt.Manager
}

// New initializes the application: config → MongoDB → Redis → media → routes.
// An unreachable database does not fail startup; guarded routes answer 503
// until it comes back.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	validate.Register()

	store, err := database.Connect(cfg.Mongo, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ServerSelectionTimeout)
	if err := store.Ping(ctx); err != nil {
		logger.Warn("mongodb unreachable at startup", zap.Error(err))
	} else {
		logger.Info("mongodb connected", zap.String("database", cfg.Mongo.Database))
	}
	cancel()

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = pkgredis.Connect(context.Background(), cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, falling back to in-process rate limiting", zap.Error(err))
			rdb = nil
		}
	}

	assets, err := media.New(cfg)
	if err != nil {
		_ = store.Close(context.Background())
		return nil, fmt.Errorf("media: %w", err)
	}
	if cfg.S3Configured() {
		logger.Info("media host", zap.String("bucket", cfg.Media.Bucket))
	} else {
		logger.Info("media host", zap.String("dir", cfg.UploadsDir()))
	}

	mailer := mail.New(mail.ConfigFrom(cfg.SMTP))
	if !mailer.Configured() {
		logger.Warn("smtp is not configured, broadcasts will run dry")
	}

	tokens := jwt.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	if tokens.UsesDefaultSecret() {
		logger.Warn("jwt_secret is empty, using built-in default secret")
	}

	a := &App{cfg: cfg, store: store, rdb: rdb, logger: logger}
	a.router = newRouter(cfg, logger, tokens, rdb)
	a.registerRoutes(deps{
		store:  store,
		ping:   store.Ping,
		assets: assets,
		mailer: mailer,
		tokens: tokens,
	})
	return a, nil
}

func newRouter(cfg *config.AppConfig, logger *zap.Logger, tokens *jwt.Manager, rdb *redis.Client) *gin.Engine {
	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = 8 << 20
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	// admins skip the limiter, so identify them first
	router.Use(middleware.OptionalAuth(tokens))
	if rdb != nil {
		router.Use(middleware.RateLimit(middleware.NewRedisLimiter(rdb)))
		router.Use(middleware.Idempotence(rdb))
	} else {
		router.Use(middleware.RateLimit(middleware.NewMemoryLimiter()))
	}
	return router
}

// Addr returns the listen address.
func (a *App) Addr() string { return a.cfg.Addr() }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown closes the database and Redis clients.
func (a *App) Shutdown(ctx context.Context) {
	if err := a.store.Close(ctx); err != nil {
		a.logger.Warn("mongodb disconnect failed", zap.Error(err))
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Warn("redis close failed", zap.Error(err))
		}
	}
}

// storeCheckTimeout bounds the per-request database reachability check.
const storeCheckTimeout = 5 * time.Second
