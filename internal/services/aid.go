package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindweave/mindweave-backend/internal/logger"
	"github.com/mindweave/mindweave-backend/internal/repos"
	"github.com/mindweave/mindweave-backend/internal/types"
)

// AidService drives the cache-or-generate pipeline for study aids.
type AidService interface {
	// FetchOrCreate returns the cached aid for (node, kind) or generates
	// and stores a new one. created reports whether a new row was written.
	// With forceRegenerate set, an existing aid is regenerated in place,
	// keeping its ID; the flag has no effect on a cache miss.
	FetchOrCreate(ctx context.Context, userID, nodeID uuid.UUID, kind AidKind, forceRegenerate bool) (*types.Aid, bool, error)
}

type aidService struct {
	db         *gorm.DB
	log        *logger.Logger
	aidRepo    repos.AidRepo
	ownership  OwnershipService
	generation GenerationService
}

func NewAidService(db *gorm.DB, baseLog *logger.Logger, aidRepo repos.AidRepo, ownership OwnershipService, generation GenerationService) AidService {
	return &aidService{
		db:         db,
		log:        baseLog.With("service", "AidService"),
		aidRepo:    aidRepo,
		ownership:  ownership,
		generation: generation,
	}
}

func (as *aidService) FetchOrCreate(ctx context.Context, userID, nodeID uuid.UUID, kind AidKind, forceRegenerate bool) (*types.Aid, bool, error) {
	node, err := as.ownership.VerifyNodeOwnership(ctx, nil, nodeID, userID)
	if err != nil {
		return nil, false, err
	}

	existing, err := as.aidRepo.GetByNodeAndKind(ctx, nil, nodeID, string(kind))
	if err != nil {
		return nil, false, err
	}
	if existing != nil && !forceRegenerate {
		as.log.Debug("Aid cache hit", "node_id", nodeID, "kind", string(kind))
		return existing, false, nil
	}

	// Cache miss or forced regeneration. Generation happens outside any
	// transaction: it can take minutes and must not hold locks.
	as.log.Debug("Aid cache miss", "node_id", nodeID, "kind", string(kind), "regenerate", forceRegenerate)
	content, err := as.generation.GenerateAidContent(ctx, kind, node)
	if err != nil {
		return nil, false, err
	}
	now := time.Now().UTC()

	if existing != nil {
		// Regeneration updates in place so the aid keeps its identity.
		if err := as.aidRepo.UpdateFields(ctx, nil, existing.ID, map[string]interface{}{
			"content":      content,
			"generated_at": now,
		}); err != nil {
			return nil, false, err
		}
		existing.Content = content
		existing.GeneratedAt = now
		return existing, false, nil
	}

	aid := &types.Aid{
		NodeID:      nodeID,
		UserID:      userID,
		Kind:        string(kind),
		Content:     content,
		GeneratedAt: now,
	}

	var winner *types.Aid
	created := false
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-check under the transaction: a concurrent request may have
		// stored the same aid while we were generating. First writer wins;
		// the unique index on (node_id, kind) backs this up.
		cached, lookErr := as.aidRepo.GetByNodeAndKind(ctx, tx, nodeID, string(kind))
		if lookErr != nil {
			return lookErr
		}
		if cached != nil {
			winner = cached
			return nil
		}
		if _, createErr := as.aidRepo.Create(ctx, tx, []*types.Aid{aid}); createErr != nil {
			return createErr
		}
		winner = aid
		created = true
		return nil
	})
	if err != nil {
		// A duplicate key failure means we lost the race after the
		// re-check; the winner's row is the aid to serve.
		cached, lookErr := as.aidRepo.GetByNodeAndKind(ctx, nil, nodeID, string(kind))
		if lookErr == nil && cached != nil {
			as.log.Debug("Aid insert lost race, serving winner", "node_id", nodeID, "kind", string(kind))
			return cached, false, nil
		}
		return nil, false, err
	}
	if !created {
		as.log.Debug("Aid stored concurrently, serving winner", "node_id", nodeID, "kind", string(kind))
	}
	return winner, created, nil
}
