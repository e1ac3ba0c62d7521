package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindweave/mindweave-backend/internal/logger"
	"github.com/mindweave/mindweave-backend/internal/types"
)

type NodeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, nodes []*types.Node) ([]*types.Node, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, nodeIDs []uuid.UUID) ([]*types.Node, error)
	GetBySourceIDs(ctx context.Context, tx *gorm.DB, sourceIDs []uuid.UUID) ([]*types.Node, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type nodeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNodeRepo(db *gorm.DB, baseLog *logger.Logger) NodeRepo {
	repoLog := baseLog.With("repo", "NodeRepo")
	return &nodeRepo{db: db, log: repoLog}
}

func (nr *nodeRepo) Create(ctx context.Context, tx *gorm.DB, nodes []*types.Node) ([]*types.Node, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	if len(nodes) == 0 {
		return []*types.Node{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&nodes).Error; err != nil {
		return nil, err
	}

	return nodes, nil
}

func (nr *nodeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, nodeIDs []uuid.UUID) ([]*types.Node, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var results []*types.Node

	if len(nodeIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", nodeIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (nr *nodeRepo) GetBySourceIDs(ctx context.Context, tx *gorm.DB, sourceIDs []uuid.UUID) ([]*types.Node, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var results []*types.Node

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

func (nr *nodeRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return transaction.WithContext(ctx).
		Model(&types.Node{}).
		Where("id = ?", id).
		Updates(updates).Error
}
