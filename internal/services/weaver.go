package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"gorm.io/gorm"

	"github.com/mindweave/mindweave-backend/internal/logger"
	"github.com/mindweave/mindweave-backend/internal/repos"
	"github.com/mindweave/mindweave-backend/internal/sse"
	"github.com/mindweave/mindweave-backend/internal/types"
	"github.com/mindweave/mindweave-backend/internal/utils"
)

// WeaverService is the background worker that turns queued sources into
// mind maps. It claims weave jobs from the database queue and drives
// each one through the weaving state machine:
//
//	queued -> weaving_mindmap -> completed | failed
type WeaverService interface {
	StartWorker(ctx context.Context)
	ProcessJob(ctx context.Context, job *types.WeaveJob)
}

type weaverService struct {
	db         *gorm.DB
	log        *logger.Logger
	jobRepo    repos.WeaveJobRepo
	sourceRepo repos.SourceRepo
	nodeRepo   repos.NodeRepo
	edgeRepo   repos.EdgeRepo
	generation GenerationService
	bus        SSEBus

	concurrency int64
	maxAttempts int
}

func NewWeaverService(
	db *gorm.DB,
	baseLog *logger.Logger,
	jobRepo repos.WeaveJobRepo,
	sourceRepo repos.SourceRepo,
	nodeRepo repos.NodeRepo,
	edgeRepo repos.EdgeRepo,
	generation GenerationService,
	bus SSEBus,
) WeaverService {
	return &weaverService{
		db:          db,
		log:         baseLog.With("service", "WeaverService"),
		jobRepo:     jobRepo,
		sourceRepo:  sourceRepo,
		nodeRepo:    nodeRepo,
		edgeRepo:    edgeRepo,
		generation:  generation,
		bus:         bus,
		concurrency: int64(utils.GetEnvAsInt("WEAVER_CONCURRENCY", 5, baseLog)),
		maxAttempts: utils.GetEnvAsInt("WEAVER_MAX_ATTEMPTS", 1, baseLog),
	}
}

func (ws *weaverService) StartWorker(ctx context.Context) {
	sem := semaphore.NewWeighted(ws.concurrency)

	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()

		// Worker policy. maxAttempts defaults to 1: a failed weave stays
		// failed until the user resubmits the source. staleRunning only
		// matters after a crash mid-weave.
		retryDelay := 30 * time.Second
		staleRunning := 10 * time.Minute

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !sem.TryAcquire(1) {
					continue
				}
				job, err := ws.jobRepo.ClaimNextRunnable(ctx, nil, ws.maxAttempts, retryDelay, staleRunning)
				if err != nil {
					ws.log.Warn("ClaimNextRunnable failed", "error", err)
					sem.Release(1)
					continue
				}
				if job == nil {
					sem.Release(1)
					continue
				}
				go func(job *types.WeaveJob) {
					defer sem.Release(1)
					ws.ProcessJob(ctx, job)
				}(job)
			}
		}
	}()
}

func (ws *weaverService) ProcessJob(ctx context.Context, job *types.WeaveJob) {
	jobID := job.ID
	sourceID := job.SourceID
	userID := job.UserID

	// Both failure writes are best effort: if the job row update lands
	// but the source update does not, the source is left weaving and
	// crash recovery reclaims the job later.
	fail := func(cause error) {
		now := time.Now()
		ws.log.Error("Weave job failed", "job_id", jobID, "source_id", sourceID, "error", cause)
		if err := ws.jobRepo.UpdateFields(ctx, nil, jobID, map[string]interface{}{
			"status":        types.WeaveJobStatusFailed,
			"error":         cause.Error(),
			"last_error_at": now,
			"locked_at":     nil,
		}); err != nil {
			ws.log.Error("Failed to mark weave job failed", "job_id", jobID, "error", err)
		}
		if err := ws.sourceRepo.UpdateFields(ctx, nil, sourceID, map[string]interface{}{
			"status": types.SourceStatusFailed,
			"error":  cause.Error(),
		}); err != nil {
			ws.log.Error("Failed to annotate source failure", "source_id", sourceID, "error", err)
		}
		ws.broadcast(ctx, userID, sse.SSEEventWeaveFailed, map[string]any{
			"source_id": sourceID,
			"error":     cause.Error(),
		})
	}

	if err := ws.sourceRepo.UpdateFields(ctx, nil, sourceID, map[string]interface{}{
		"status": types.SourceStatusWeaving,
		"error":  "",
	}); err != nil {
		fail(err)
		return
	}
	ws.broadcast(ctx, userID, sse.SSEEventWeaveStarted, map[string]any{
		"source_id": sourceID,
		"status":    types.SourceStatusWeaving,
	})

	draft, err := ws.generation.WeaveMindmap(ctx, job.RawText)
	if err != nil {
		fail(err)
		return
	}

	_ = ws.jobRepo.Heartbeat(ctx, nil, jobID)

	nodeCount, edgeCount, err := ws.persistDraft(ctx, sourceID, draft)
	if err != nil {
		fail(err)
		return
	}

	now := time.Now()
	if err := ws.jobRepo.UpdateFields(ctx, nil, jobID, map[string]interface{}{
		"status":    types.WeaveJobStatusSucceeded,
		"locked_at": nil,
	}); err != nil {
		ws.log.Error("Failed to mark weave job succeeded", "job_id", jobID, "error", err)
	}

	ws.log.Info("Weave completed", "source_id", sourceID, "nodes", nodeCount, "edges", edgeCount)
	ws.broadcast(ctx, userID, sse.SSEEventWeaveComplete, map[string]any{
		"source_id": sourceID,
		"status":    types.SourceStatusCompleted,
		"nodes":     nodeCount,
		"edges":     edgeCount,
		"woven_at":  now,
	})
}

// persistDraft writes the generated graph and flips the source to
// completed in one transaction, so a half-written mind map can never be
// observed.
func (ws *weaverService) persistDraft(ctx context.Context, sourceID uuid.UUID, draft *MindmapDraft) (int, int, error) {
	nodeCount := 0
	edgeCount := 0

	err := ws.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		idMap := make(map[string]uuid.UUID, len(draft.Nodes))
		nodes := make([]*types.Node, 0, len(draft.Nodes))
		for _, dn := range draft.Nodes {
			node := &types.Node{
				ID:       uuid.New(),
				SourceID: sourceID,
				Title:    dn.Title,
				Summary:  dn.Summary,
			}
			idMap[dn.ID] = node.ID
			nodes = append(nodes, node)
		}
		if _, err := ws.nodeRepo.Create(ctx, tx, nodes); err != nil {
			return err
		}

		edges := make([]*types.Edge, 0, len(draft.Edges))
		for _, de := range draft.Edges {
			edges = append(edges, &types.Edge{
				SourceID:     sourceID,
				SourceNodeID: idMap[de.Source],
				TargetNodeID: idMap[de.Target],
			})
		}
		if _, err := ws.edgeRepo.Create(ctx, tx, edges); err != nil {
			return err
		}

		now := time.Now()
		if err := ws.sourceRepo.UpdateFields(ctx, tx, sourceID, map[string]interface{}{
			"status":           types.SourceStatusCompleted,
			"mindmap_woven_at": now,
		}); err != nil {
			return err
		}

		nodeCount = len(nodes)
		edgeCount = len(edges)
		return nil
	})
	return nodeCount, edgeCount, err
}

func (ws *weaverService) broadcast(ctx context.Context, userID uuid.UUID, event sse.SSEEvent, data map[string]any) {
	if ws.bus == nil {
		return
	}
	if err := ws.bus.Publish(ctx, sse.SSEMessage{
		Channel: sse.UserChannel(userID),
		Event:   event,
		Data:    data,
	}); err != nil {
		ws.log.Warn("Failed to publish weave event", "event", string(event), "error", err)
	}
}
