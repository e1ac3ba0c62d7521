package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindweave/mindweave-backend/internal/logger"
	"github.com/mindweave/mindweave-backend/internal/types"
)

type ProgressEntryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entries []*types.ProgressEntry) ([]*types.ProgressEntry, error)

	// GetTimelineByUserAndNodes returns the user's entries for the given
	// nodes ordered newest first, with logged_at ties broken by insertion
	// order. The descending order matters: status aggregation takes the
	// first entry seen per node.
	GetTimelineByUserAndNodes(ctx context.Context, tx *gorm.DB, userID uuid.UUID, nodeIDs []uuid.UUID) ([]*types.ProgressEntry, error)
}

type progressEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressEntryRepo(db *gorm.DB, baseLog *logger.Logger) ProgressEntryRepo {
	repoLog := baseLog.With("repo", "ProgressEntryRepo")
	return &progressEntryRepo{db: db, log: repoLog}
}

func (pr *progressEntryRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.ProgressEntry) ([]*types.ProgressEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(entries) == 0 {
		return []*types.ProgressEntry{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (pr *progressEntryRepo) GetTimelineByUserAndNodes(ctx context.Context, tx *gorm.DB, userID uuid.UUID, nodeIDs []uuid.UUID) ([]*types.ProgressEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.ProgressEntry

	if userID == uuid.Nil || len(nodeIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND node_id IN ?", userID, nodeIDs).
		Order("logged_at DESC, seq DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
