package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindweave/mindweave-backend/internal/logger"
	"github.com/mindweave/mindweave-backend/internal/types"
)

type AidRepo interface {
	Create(ctx context.Context, tx *gorm.DB, aids []*types.Aid) ([]*types.Aid, error)
	GetByNodeAndKind(ctx context.Context, tx *gorm.DB, nodeID uuid.UUID, kind string) (*types.Aid, error)
	GetByNodeID(ctx context.Context, tx *gorm.DB, nodeID uuid.UUID) ([]*types.Aid, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type aidRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAidRepo(db *gorm.DB, baseLog *logger.Logger) AidRepo {
	repoLog := baseLog.With("repo", "AidRepo")
	return &aidRepo{db: db, log: repoLog}
}

func (ar *aidRepo) Create(ctx context.Context, tx *gorm.DB, aids []*types.Aid) ([]*types.Aid, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if len(aids) == 0 {
		return []*types.Aid{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&aids).Error; err != nil {
		return nil, err
	}

	return aids, nil
}

func (ar *aidRepo) GetByNodeAndKind(ctx context.Context, tx *gorm.DB, nodeID uuid.UUID, kind string) (*types.Aid, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if nodeID == uuid.Nil {
		return nil, nil
	}

	var aid types.Aid
	err := transaction.WithContext(ctx).
		Where("node_id = ? AND kind = ?", nodeID, kind).
		Limit(1).
		Find(&aid).Error
	if err != nil {
		return nil, err
	}
	if aid.ID == uuid.Nil {
		return nil, nil
	}
	return &aid, nil
}

func (ar *aidRepo) GetByNodeID(ctx context.Context, tx *gorm.DB, nodeID uuid.UUID) ([]*types.Aid, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Aid

	if nodeID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("node_id = ?", nodeID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *aidRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
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
		Model(&types.Aid{}).
		Where("id = ?", id).
		Updates(updates).Error
}
