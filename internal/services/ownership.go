package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindweave/mindweave-backend/internal/apperr"
	"github.com/mindweave/mindweave-backend/internal/logger"
	"github.com/mindweave/mindweave-backend/internal/repos"
	"github.com/mindweave/mindweave-backend/internal/types"
)

// OwnershipService answers "may this user touch this node or source".
// Every aid, progress, and mindmap operation runs through it before any
// read or write happens.
type OwnershipService interface {
	// VerifyNodeOwnership resolves the node and checks that the user owns
	// its source. A missing node is a 404; an existing node backed by a
	// source the user does not own is a 403.
	VerifyNodeOwnership(ctx context.Context, tx *gorm.DB, nodeID, userID uuid.UUID) (*types.Node, error)

	// VerifySourceOwnership resolves the source for the user. Missing and
	// foreign sources are indistinguishable to the caller: both are 404,
	// so source IDs cannot be probed for existence.
	VerifySourceOwnership(ctx context.Context, tx *gorm.DB, sourceID, userID uuid.UUID) (*types.Source, error)
}

type ownershipService struct {
	log        *logger.Logger
	nodeRepo   repos.NodeRepo
	sourceRepo repos.SourceRepo
}

func NewOwnershipService(baseLog *logger.Logger, nodeRepo repos.NodeRepo, sourceRepo repos.SourceRepo) OwnershipService {
	return &ownershipService{
		log:        baseLog.With("service", "OwnershipService"),
		nodeRepo:   nodeRepo,
		sourceRepo: sourceRepo,
	}
}

func (os *ownershipService) VerifyNodeOwnership(ctx context.Context, tx *gorm.DB, nodeID, userID uuid.UUID) (*types.Node, error) {
	nodes, err := os.nodeRepo.GetByIDs(ctx, tx, []uuid.UUID{nodeID})
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, apperr.NotFound("Node not found.")
	}
	node := nodes[0]

	sources, err := os.sourceRepo.GetByIDs(ctx, tx, []uuid.UUID{node.SourceID})
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 || sources[0].OwnerID != userID {
		return nil, apperr.Forbidden("Access denied. You do not own the source material.")
	}
	return node, nil
}

func (os *ownershipService) VerifySourceOwnership(ctx context.Context, tx *gorm.DB, sourceID, userID uuid.UUID) (*types.Source, error) {
	sources, err := os.sourceRepo.GetByIDs(ctx, tx, []uuid.UUID{sourceID})
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 || sources[0].OwnerID != userID {
		return nil, apperr.NotFound("Source not found or access denied.")
	}
	return sources[0], nil
}
