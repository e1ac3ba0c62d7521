package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindweave/mindweave-backend/internal/logger"
	"github.com/mindweave/mindweave-backend/internal/types"
)

type EdgeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, edges []*types.Edge) ([]*types.Edge, error)
	GetBySourceIDs(ctx context.Context, tx *gorm.DB, sourceIDs []uuid.UUID) ([]*types.Edge, error)
}

type edgeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEdgeRepo(db *gorm.DB, baseLog *logger.Logger) EdgeRepo {
	repoLog := baseLog.With("repo", "EdgeRepo")
	return &edgeRepo{db: db, log: repoLog}
}

func (er *edgeRepo) Create(ctx context.Context, tx *gorm.DB, edges []*types.Edge) ([]*types.Edge, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	if len(edges) == 0 {
		return []*types.Edge{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&edges).Error; err != nil {
		return nil, err
	}

	return edges, nil
}

func (er *edgeRepo) GetBySourceIDs(ctx context.Context, tx *gorm.DB, sourceIDs []uuid.UUID) ([]*types.Edge, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []*types.Edge

	if len(sourceIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("source_id IN ?", sourceIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
