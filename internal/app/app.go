package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mindweave/mindweave-backend/internal/db"
	"github.com/mindweave/mindweave-backend/internal/logger"
	"github.com/mindweave/mindweave-backend/internal/observability"
	"github.com/mindweave/mindweave-backend/internal/server"
	"github.com/mindweave/mindweave-backend/internal/sse"
)

type App struct {
	Log      *logger.Logger
	Config   Config
	Postgres *db.PostgresService
	Hub      *sse.SSEHub
	Repos    Repos
	Services Services
	Handlers Handlers
	Router   *gin.Engine

	cancel       context.CancelFunc
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	bootstrapLog, err := logger.New("development")
	if err != nil {
		return nil, fmt.Errorf("bootstrap logger: %w", err)
	}

	cfg := LoadConfig(bootstrapLog)

	log := bootstrapLog
	if cfg.LogMode != "development" {
		log, err = logger.New(cfg.LogMode)
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
	}

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	postgres, err := db.NewPostgresService(log)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	if err := postgres.AutoMigrateAll(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	hub := sse.NewSSEHub(log)
	r := wireRepos(postgres.DB(), log)
	s, err := wireServices(postgres.DB(), log, r)
	if err != nil {
		return nil, err
	}
	h := wireHandlers(s, hub)
	authMW := wireMiddleware(log, s)

	router := server.NewRouter(server.RouterConfig{
		ServiceName:     cfg.ServiceName,
		AllowedOrigins:  cfg.AllowedOrigins,
		AuthMiddleware:  authMW,
		AuthHandler:     h.Auth,
		SourceHandler:   h.Source,
		MindmapHandler:  h.Mindmap,
		ModuleHandler:   h.Module,
		AidHandler:      h.Aid,
		ProgressHandler: h.Progress,
		SSEHandler:      h.SSE,
	})

	return &App{
		Log:          log,
		Config:       cfg,
		Postgres:     postgres,
		Hub:          hub,
		Repos:        r,
		Services:     s,
		Handlers:     h,
		Router:       router,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background pieces: the weave worker and the redis
// forwarder that feeds cross-instance events into the local hub.
func (a *App) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if err := a.Services.Bus.StartForwarder(ctx, a.Hub.Broadcast); err != nil {
		cancel()
		return fmt.Errorf("sse forwarder: %w", err)
	}
	a.Services.Weaver.StartWorker(ctx)

	a.Log.Info("background workers started")
	return nil
}

func (a *App) Run(addr string) error {
	a.Log.Info("http server listening", "addr", addr)
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.Services.Bus != nil {
		if err := a.Services.Bus.Close(); err != nil {
			a.Log.Warn("sse bus close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
