package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mindweave/mindweave-backend/internal/logger"
	"github.com/mindweave/mindweave-backend/internal/services"
)

type Services struct {
	OpenAI     services.OpenAIClient
	Extract    services.ExtractService
	Generation services.GenerationService
	Ownership  services.OwnershipService
	Aid        services.AidService
	Progress   services.ProgressService
	Mindmap    services.MindmapService
	Auth       services.AuthService
	Source     services.SourceService
	Weaver     services.WeaverService
	Bus        services.SSEBus
}

func wireServices(db *gorm.DB, log *logger.Logger, r Repos) (Services, error) {
	openaiClient, err := services.NewOpenAIClient(log)
	if err != nil {
		return Services{}, fmt.Errorf("openai client: %w", err)
	}

	bus, err := services.NewRedisSSEBus(log)
	if err != nil {
		return Services{}, fmt.Errorf("sse bus: %w", err)
	}

	authService, err := services.NewAuthService(log, r.User)
	if err != nil {
		return Services{}, fmt.Errorf("auth service: %w", err)
	}

	extract := services.NewExtractService(log)
	generation := services.NewGenerationService(log, openaiClient)
	ownership := services.NewOwnershipService(log, r.Node, r.Source)

	return Services{
		OpenAI:     openaiClient,
		Extract:    extract,
		Generation: generation,
		Ownership:  ownership,
		Aid:        services.NewAidService(db, log, r.Aid, ownership, generation),
		Progress:   services.NewProgressService(db, log, r.Progress, r.Node, r.Source, ownership),
		Mindmap:    services.NewMindmapService(log, r.Node, r.Edge, ownership),
		Auth:       authService,
		Source:     services.NewSourceService(db, log, r.Source, r.WeaveJob, extract, bus),
		Weaver:     services.NewWeaverService(db, log, r.WeaveJob, r.Source, r.Node, r.Edge, generation, bus),
		Bus:        bus,
	}, nil
}
