package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/folio-space/core/internal/app"
	"github.com/folio-space/core/internal/config"
	"github.com/folio-space/core/internal/pkg/logger"
	"github.com/folio-space/core/internal/pkg/response"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog, _ := zap.NewProduction()
		bootLog.Fatal("failed to load config", zap.Error(err))
	}

	log, err := logger.New(logger.Options{Dev: cfg.IsDev(), Dir: cfg.LogDir()})
	if err != nil {
		log, _ = zap.NewProduction()
		log.Warn("file log pipeline unavailable, fallback to zap production logger", zap.Error(err))
	}
	defer log.Sync()
	response.SetLogger(log)

	application, err := app.New(log, cfg)
	if err != nil {
		log.Fatal("failed to initialize app", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              application.Addr(),
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	application.Shutdown(ctx)
	log.Info("server exited")
}
