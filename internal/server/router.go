package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mindweave/mindweave-backend/internal/handlers"
	"github.com/mindweave/mindweave-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName     string
	AllowedOrigins  []string
	AuthMiddleware  *middleware.AuthMiddleware
	AuthHandler     *handlers.AuthHandler
	SourceHandler   *handlers.SourceHandler
	MindmapHandler  *handlers.MindmapHandler
	ModuleHandler   *handlers.ModuleHandler
	AidHandler      *handlers.AidHandler
	ProgressHandler *handlers.ProgressHandler
	SSEHandler      *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api/v1")
	api.POST("/auth/register", cfg.AuthHandler.Register)

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Auth
	protected.GET("/auth/me", cfg.AuthHandler.GetMe)
	// Sources
	protected.POST("/sources", cfg.SourceHandler.CreateSource)
	protected.GET("/sources", cfg.SourceHandler.ListSources)
	// Mindmaps
	protected.GET("/mindmaps", cfg.MindmapHandler.GetMindmap)
	protected.GET("/mindmaps/nodes/:nodeId/flashcards", cfg.MindmapHandler.GetOrCreateFlashcards)
	// Modules
	protected.GET("/modules/:nodeId", cfg.ModuleHandler.GetOrCreateModule)
	// Aids
	protected.POST("/aids", cfg.AidHandler.GetOrCreateAid)
	// Progress
	protected.POST("/progress/log", cfg.ProgressHandler.LogProgress)
	protected.GET("/progress", cfg.ProgressHandler.GetProgress)

	// SSE lives outside the versioned API; EventSource clients hit it
	// directly with a token query parameter.
	stream := router.Group("/sse")
	stream.Use(cfg.AuthMiddleware.RequireAuth())
	stream.GET("/stream", cfg.SSEHandler.SSEStream)

	return router
}
