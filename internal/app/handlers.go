package app

import (
	"github.com/mindweave/mindweave-backend/internal/handlers"
	"github.com/mindweave/mindweave-backend/internal/logger"
	"github.com/mindweave/mindweave-backend/internal/middleware"
	"github.com/mindweave/mindweave-backend/internal/sse"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Source   *handlers.SourceHandler
	Mindmap  *handlers.MindmapHandler
	Module   *handlers.ModuleHandler
	Aid      *handlers.AidHandler
	Progress *handlers.ProgressHandler
	SSE      *handlers.SSEHandler
}

func wireHandlers(s Services, hub *sse.SSEHub) Handlers {
	return Handlers{
		Auth:     handlers.NewAuthHandler(s.Auth),
		Source:   handlers.NewSourceHandler(s.Source),
		Mindmap:  handlers.NewMindmapHandler(s.Mindmap, s.Aid),
		Module:   handlers.NewModuleHandler(s.Aid),
		Aid:      handlers.NewAidHandler(s.Aid),
		Progress: handlers.NewProgressHandler(s.Progress),
		SSE:      handlers.NewSSEHandler(hub),
	}
}

func wireMiddleware(log *logger.Logger, s Services) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(log, s.Auth)
}
