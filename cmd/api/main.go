package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"callcenter-analytics/internal/analytics"
	"callcenter-analytics/internal/calls"
	"callcenter-analytics/internal/config"
	"callcenter-analytics/internal/httpapi"
	"callcenter-analytics/internal/ingest"
	"callcenter-analytics/internal/live"
	"callcenter-analytics/pkg/logger"
	"callcenter-analytics/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// Services (no globals; everything injected)
	repo := calls.NewPostgresRepo(db)
	hub := live.NewHub()
	handlers := httpapi.Handlers{
		Ingest:    ingest.NewService(repo, live.NewRedisPublisher(rdb)),
		Analytics: analytics.NewService(repo, utils.NewRedisCache(rdb, "analytics"), cfg.Dashboard.CacheTTL),
		Live:      hub,
	}

	// Relay inserted records from Redis to connected dashboard clients.
	go hub.RunRedisSubscriber(rootCtx, rdb)

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(cors.New(corsConfig(cfg)))

	registerRoutes(r, handlers)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
	hub.Close()

	_ = logger.ShutdownFlush(shutdownCtx, 2*time.Second)
}

func corsConfig(cfg config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.Dashboard.CORSAllowOrigins) == 0 {
		// Local development convenience; production requires explicit origins.
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = cfg.Dashboard.CORSAllowOrigins
	return c
}
