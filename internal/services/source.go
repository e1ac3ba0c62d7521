package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mindweave/mindweave-backend/internal/apperr"
	"github.com/mindweave/mindweave-backend/internal/logger"
	"github.com/mindweave/mindweave-backend/internal/repos"
	"github.com/mindweave/mindweave-backend/internal/sse"
	"github.com/mindweave/mindweave-backend/internal/types"
)

// SourceService owns source intake: extracting text, creating the
// source record, and enqueueing its weave job.
type SourceService interface {
	// ProcessNewURL extracts text synchronously, then creates the queued
	// source and its weave job in one transaction. If the transaction
	// commits, the job exists; if it fails, neither record does.
	ProcessNewURL(ctx context.Context, userID uuid.UUID, rawURL string) (*types.Source, error)

	// ProcessNewFile is reserved for uploaded documents.
	ProcessNewFile(ctx context.Context, userID uuid.UUID, filename string) (*types.Source, error)

	ListByOwner(ctx context.Context, userID uuid.UUID) ([]*types.Source, error)
}

type sourceService struct {
	db         *gorm.DB
	log        *logger.Logger
	sourceRepo repos.SourceRepo
	jobRepo    repos.WeaveJobRepo
	extract    ExtractService
	bus        SSEBus
}

func NewSourceService(db *gorm.DB, baseLog *logger.Logger, sourceRepo repos.SourceRepo, jobRepo repos.WeaveJobRepo, extract ExtractService, bus SSEBus) SourceService {
	return &sourceService{
		db:         db,
		log:        baseLog.With("service", "SourceService"),
		sourceRepo: sourceRepo,
		jobRepo:    jobRepo,
		extract:    extract,
		bus:        bus,
	}
}

func (ss *sourceService) ProcessNewURL(ctx context.Context, userID uuid.UUID, rawURL string) (*types.Source, error) {
	sourceType, text, err := ss.extract.ExtractFromURL(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	source := &types.Source{
		OwnerID: userID,
		Type:    sourceType,
		Origin:  rawURL,
		Status:  types.SourceStatusQueued,
	}

	metadata, err := json.Marshal(map[string]any{
		"source_type": sourceType,
		"origin":      rawURL,
		"text_length": len(text),
	})
	if err != nil {
		return nil, err
	}

	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ss.sourceRepo.Create(ctx, tx, []*types.Source{source}); err != nil {
			return err
		}
		job := &types.WeaveJob{
			ID:       uuid.New(),
			SourceID: source.ID,
			UserID:   userID,
			RawText:  text,
			Status:   types.WeaveJobStatusQueued,
			Metadata: datatypes.JSON(metadata),
		}
		_, err := ss.jobRepo.Create(ctx, tx, []*types.WeaveJob{job})
		return err
	})
	if err != nil {
		return nil, err
	}

	ss.log.Info("Source queued for weaving", "source_id", source.ID, "type", sourceType)
	if ss.bus != nil {
		// Best effort: a dropped notification never fails the request.
		if pubErr := ss.bus.Publish(ctx, sse.SSEMessage{
			Channel: sse.UserChannel(userID),
			Event:   sse.SSEEventSourceQueued,
			Data:    map[string]any{"source_id": source.ID, "status": source.Status},
		}); pubErr != nil {
			ss.log.Warn("Failed to publish SourceQueued", "source_id", source.ID, "error", pubErr)
		}
	}
	return source, nil
}

func (ss *sourceService) ProcessNewFile(ctx context.Context, userID uuid.UUID, filename string) (*types.Source, error) {
	return nil, apperr.NotImplemented("File upload processing is not yet implemented.")
}

func (ss *sourceService) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*types.Source, error) {
	sources, err := ss.sourceRepo.GetByOwnerID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if sources == nil {
		sources = []*types.Source{}
	}
	return sources, nil
}
