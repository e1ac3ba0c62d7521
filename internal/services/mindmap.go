package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/mindweave/mindweave-backend/internal/logger"
	"github.com/mindweave/mindweave-backend/internal/repos"
	"github.com/mindweave/mindweave-backend/internal/types"
)

type Mindmap struct {
	Nodes []*types.Node `json:"nodes"`
	Edges []*types.Edge `json:"edges"`
}

type MindmapService interface {
	// FetchBySourceID returns the woven graph for a source the user owns.
	FetchBySourceID(ctx context.Context, userID, sourceID uuid.UUID) (*Mindmap, error)
}

type mindmapService struct {
	log       *logger.Logger
	nodeRepo  repos.NodeRepo
	edgeRepo  repos.EdgeRepo
	ownership OwnershipService
}

func NewMindmapService(baseLog *logger.Logger, nodeRepo repos.NodeRepo, edgeRepo repos.EdgeRepo, ownership OwnershipService) MindmapService {
	return &mindmapService{
		log:       baseLog.With("service", "MindmapService"),
		nodeRepo:  nodeRepo,
		edgeRepo:  edgeRepo,
		ownership: ownership,
	}
}

func (ms *mindmapService) FetchBySourceID(ctx context.Context, userID, sourceID uuid.UUID) (*Mindmap, error) {
	if _, err := ms.ownership.VerifySourceOwnership(ctx, nil, sourceID, userID); err != nil {
		return nil, err
	}

	nodes, err := ms.nodeRepo.GetBySourceIDs(ctx, nil, []uuid.UUID{sourceID})
	if err != nil {
		return nil, err
	}
	edges, err := ms.edgeRepo.GetBySourceIDs(ctx, nil, []uuid.UUID{sourceID})
	if err != nil {
		return nil, err
	}

	if nodes == nil {
		nodes = []*types.Node{}
	}
	if edges == nil {
		edges = []*types.Edge{}
	}
	return &Mindmap{Nodes: nodes, Edges: edges}, nil
}
