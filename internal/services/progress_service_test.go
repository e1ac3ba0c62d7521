package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindweave/mindweave-backend/internal/apperr"
	"github.com/mindweave/mindweave-backend/internal/repos"
	"github.com/mindweave/mindweave-backend/internal/repos/testutil"
	"github.com/mindweave/mindweave-backend/internal/types"
)

func newTestProgressService(t *testing.T, tx *gorm.DB) ProgressService {
	t.Helper()
	log := testutil.Logger(t)
	nodeRepo := repos.NewNodeRepo(tx, log)
	sourceRepo := repos.NewSourceRepo(tx, log)
	ownership := NewOwnershipService(log, nodeRepo, sourceRepo)
	return NewProgressService(tx, log, repos.NewProgressEntryRepo(tx, log), nodeRepo, sourceRepo, ownership)
}

func TestLogWritesEntryAndBadgeTogether(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	userID := uuid.New()
	node := seedOwnedNode(t, tx, userID)
	svc := newTestProgressService(t, tx)

	entry, err := svc.Log(ctx, userID, node.ID, 25, types.ProgressStatusCompleted)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if entry.ID == uuid.Nil {
		t.Fatal("entry must be persisted with an id")
	}

	timeline, err := repos.NewProgressEntryRepo(tx, log).GetTimelineByUserAndNodes(ctx, tx, userID, []uuid.UUID{node.ID})
	if err != nil {
		t.Fatalf("get timeline: %v", err)
	}
	if len(timeline) != 1 || timeline[0].TimeSpentMinutes != 25 {
		t.Fatalf("unexpected timeline %+v", timeline)
	}

	nodes, err := repos.NewNodeRepo(tx, log).GetByIDs(ctx, tx, []uuid.UUID{node.ID})
	if err != nil {
		t.Fatalf("get node: %v", err)
	}
	if nodes[0].StatusBadge != types.ProgressStatusCompleted {
		t.Fatalf("status badge = %q, want completed", nodes[0].StatusBadge)
	}
}

func TestLogRejectsBadInput(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	userID := uuid.New()
	node := seedOwnedNode(t, tx, userID)
	svc := newTestProgressService(t, tx)

	_, err := svc.Log(ctx, userID, node.ID, 10, "done")
	if apperr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("bad status: status = %d, want 400", apperr.StatusOf(err))
	}

	_, err = svc.Log(ctx, userID, node.ID, -5, types.ProgressStatusInProgress)
	if apperr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("negative minutes: status = %d, want 400", apperr.StatusOf(err))
	}

	_, err = svc.Log(ctx, uuid.New(), node.ID, 10, types.ProgressStatusInProgress)
	if apperr.StatusOf(err) != http.StatusForbidden {
		t.Fatalf("foreign node: status = %d, want 403", apperr.StatusOf(err))
	}
}
