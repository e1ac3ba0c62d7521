package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindweave/mindweave-backend/internal/repos"
	"github.com/mindweave/mindweave-backend/internal/repos/testutil"
	"github.com/mindweave/mindweave-backend/internal/types"
)

func newTestWeaverService(t *testing.T, tx *gorm.DB, gen GenerationService) WeaverService {
	t.Helper()
	log := testutil.Logger(t)
	return NewWeaverService(
		tx,
		log,
		repos.NewWeaveJobRepo(tx, log),
		repos.NewSourceRepo(tx, log),
		repos.NewNodeRepo(tx, log),
		repos.NewEdgeRepo(tx, log),
		gen,
		nil,
	)
}

func seedQueuedWeave(t *testing.T, tx *gorm.DB) (*types.Source, *types.WeaveJob) {
	t.Helper()
	log := testutil.Logger(t)
	sourceRepo := repos.NewSourceRepo(tx, log)
	jobRepo := repos.NewWeaveJobRepo(tx, log)
	ctx := context.Background()

	source := &types.Source{
		OwnerID: uuid.New(),
		Type:    types.SourceTypeURL,
		Origin:  "https://example.com/article",
		Status:  types.SourceStatusQueued,
	}
	if _, err := sourceRepo.Create(ctx, tx, []*types.Source{source}); err != nil {
		t.Fatalf("create source: %v", err)
	}
	job := &types.WeaveJob{
		ID:       uuid.New(),
		SourceID: source.ID,
		UserID:   source.OwnerID,
		RawText:  "raw knowledge text",
		Status:   types.WeaveJobStatusRunning,
		Attempts: 1,
	}
	if _, err := jobRepo.Create(ctx, tx, []*types.WeaveJob{job}); err != nil {
		t.Fatalf("create job: %v", err)
	}
	return source, job
}

func TestProcessJobFailureAnnotatesSource(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	source, job := seedQueuedWeave(t, tx)
	ws := newTestWeaverService(t, tx, &fakeGenerationService{err: errors.New("model exploded")})

	ws.ProcessJob(ctx, job)

	sources, err := repos.NewSourceRepo(tx, log).GetByIDs(ctx, tx, []uuid.UUID{source.ID})
	if err != nil {
		t.Fatalf("get source: %v", err)
	}
	if sources[0].Status != types.SourceStatusFailed {
		t.Fatalf("source status = %q, want failed", sources[0].Status)
	}
	if sources[0].Status == types.SourceStatusWeaving {
		t.Fatal("source must never be left weaving after a failure")
	}
	if sources[0].Error == "" {
		t.Fatal("failed source must carry a non-empty error")
	}

	jobs, err := repos.NewWeaveJobRepo(tx, log).GetByIDs(ctx, tx, []uuid.UUID{job.ID})
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if jobs[0].Status != types.WeaveJobStatusFailed {
		t.Fatalf("job status = %q, want failed", jobs[0].Status)
	}
	if jobs[0].Error == "" || jobs[0].LastErrorAt == nil {
		t.Fatal("failed job must carry error and last_error_at")
	}
}

func TestProcessJobPersistsWovenGraph(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	source, job := seedQueuedWeave(t, tx)
	gen := &fakeGenerationService{draft: &MindmapDraft{
		Nodes: []MindmapDraftNode{
			{ID: "n1", Title: "Roots", Summary: "The base."},
			{ID: "n2", Title: "Leaves", Summary: "The top."},
		},
		Edges: []MindmapDraftEdge{{Source: "n1", Target: "n2"}},
	}}
	ws := newTestWeaverService(t, tx, gen)

	ws.ProcessJob(ctx, job)

	sources, err := repos.NewSourceRepo(tx, log).GetByIDs(ctx, tx, []uuid.UUID{source.ID})
	if err != nil {
		t.Fatalf("get source: %v", err)
	}
	if sources[0].Status != types.SourceStatusCompleted {
		t.Fatalf("source status = %q, want completed", sources[0].Status)
	}
	if sources[0].MindmapWovenAt == nil {
		t.Fatal("completed source must carry mindmap_woven_at")
	}

	nodes, err := repos.NewNodeRepo(tx, log).GetBySourceIDs(ctx, tx, []uuid.UUID{source.ID})
	if err != nil {
		t.Fatalf("get nodes: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	nodeIDs := map[uuid.UUID]bool{}
	for _, n := range nodes {
		nodeIDs[n.ID] = true
	}

	edges, err := repos.NewEdgeRepo(tx, log).GetBySourceIDs(ctx, tx, []uuid.UUID{source.ID})
	if err != nil {
		t.Fatalf("get edges: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	if !nodeIDs[edges[0].SourceNodeID] || !nodeIDs[edges[0].TargetNodeID] {
		t.Fatal("edge endpoints must map to the persisted nodes")
	}

	jobs, err := repos.NewWeaveJobRepo(tx, log).GetByIDs(ctx, tx, []uuid.UUID{job.ID})
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if jobs[0].Status != types.WeaveJobStatusSucceeded {
		t.Fatalf("job status = %q, want succeeded", jobs[0].Status)
	}
}
