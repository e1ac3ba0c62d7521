package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mindweave/mindweave-backend/internal/repos/testutil"
	"github.com/mindweave/mindweave-backend/internal/types"
)

func TestClaimNextRunnableOrdersByCreatedAt(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewWeaveJobRepo(db, testutil.Logger(t))
	ctx := context.Background()

	now := time.Now()
	older := &types.WeaveJob{
		ID:        uuid.New(),
		SourceID:  uuid.New(),
		UserID:    uuid.New(),
		RawText:   "older",
		Status:    types.WeaveJobStatusQueued,
		CreatedAt: now.Add(-2 * time.Hour),
	}
	newer := &types.WeaveJob{
		ID:        uuid.New(),
		SourceID:  uuid.New(),
		UserID:    uuid.New(),
		RawText:   "newer",
		Status:    types.WeaveJobStatusQueued,
		CreatedAt: now.Add(-1 * time.Hour),
	}
	if _, err := repo.Create(ctx, tx, []*types.WeaveJob{newer, older}); err != nil {
		t.Fatalf("create jobs: %v", err)
	}

	first, err := repo.ClaimNextRunnable(ctx, tx, 1, 30*time.Second, 10*time.Minute)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if first == nil || first.ID != older.ID {
		t.Fatalf("expected oldest job first, got %+v", first)
	}

	second, err := repo.ClaimNextRunnable(ctx, tx, 1, 30*time.Second, 10*time.Minute)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if second == nil || second.ID != newer.ID {
		t.Fatalf("expected second job next, got %+v", second)
	}

	third, err := repo.ClaimNextRunnable(ctx, tx, 1, 30*time.Second, 10*time.Minute)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if third != nil {
		t.Fatalf("expected no runnable job, got %+v", third)
	}
}

func TestClaimNextRunnableMarksRunning(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewWeaveJobRepo(db, testutil.Logger(t))
	ctx := context.Background()

	job := &types.WeaveJob{
		ID:       uuid.New(),
		SourceID: uuid.New(),
		UserID:   uuid.New(),
		RawText:  "text",
		Status:   types.WeaveJobStatusQueued,
	}
	if _, err := repo.Create(ctx, tx, []*types.WeaveJob{job}); err != nil {
		t.Fatalf("create job: %v", err)
	}

	claimed, err := repo.ClaimNextRunnable(ctx, tx, 1, 30*time.Second, 10*time.Minute)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed == nil {
		t.Fatal("expected to claim the job")
	}

	stored, err := repo.GetByIDs(ctx, tx, []uuid.UUID{job.ID})
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 job, got %d", len(stored))
	}
	if stored[0].Status != types.WeaveJobStatusRunning {
		t.Fatalf("status = %q, want running", stored[0].Status)
	}
	if stored[0].Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", stored[0].Attempts)
	}
	if stored[0].LockedAt == nil || stored[0].HeartbeatAt == nil {
		t.Fatal("expected locked_at and heartbeat_at to be set")
	}
}

func TestClaimNextRunnableSkipsExhaustedFailures(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewWeaveJobRepo(db, testutil.Logger(t))
	ctx := context.Background()

	errAt := time.Now().Add(-time.Hour)
	job := &types.WeaveJob{
		ID:          uuid.New(),
		SourceID:    uuid.New(),
		UserID:      uuid.New(),
		RawText:     "text",
		Status:      types.WeaveJobStatusFailed,
		Attempts:    1,
		LastErrorAt: &errAt,
	}
	if _, err := repo.Create(ctx, tx, []*types.WeaveJob{job}); err != nil {
		t.Fatalf("create job: %v", err)
	}

	// attempts == maxAttempts, so the failure is terminal.
	claimed, err := repo.ClaimNextRunnable(ctx, tx, 1, 30*time.Second, 10*time.Minute)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed != nil {
		t.Fatalf("exhausted failed job should not be claimable, got %+v", claimed)
	}

	// With a higher ceiling the same job becomes runnable again.
	claimed, err = repo.ClaimNextRunnable(ctx, tx, 2, 30*time.Second, 10*time.Minute)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed == nil || claimed.ID != job.ID {
		t.Fatalf("expected failed job to be retried, got %+v", claimed)
	}
}

func TestClaimNextRunnableRecoversStaleRunning(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewWeaveJobRepo(db, testutil.Logger(t))
	ctx := context.Background()

	stale := time.Now().Add(-time.Hour)
	fresh := time.Now()
	staleJob := &types.WeaveJob{
		ID:          uuid.New(),
		SourceID:    uuid.New(),
		UserID:      uuid.New(),
		RawText:     "stale",
		Status:      types.WeaveJobStatusRunning,
		Attempts:    1,
		HeartbeatAt: &stale,
	}
	liveJob := &types.WeaveJob{
		ID:          uuid.New(),
		SourceID:    uuid.New(),
		UserID:      uuid.New(),
		RawText:     "live",
		Status:      types.WeaveJobStatusRunning,
		Attempts:    1,
		HeartbeatAt: &fresh,
	}
	if _, err := repo.Create(ctx, tx, []*types.WeaveJob{staleJob, liveJob}); err != nil {
		t.Fatalf("create jobs: %v", err)
	}

	claimed, err := repo.ClaimNextRunnable(ctx, tx, 3, 30*time.Second, 10*time.Minute)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed == nil || claimed.ID != staleJob.ID {
		t.Fatalf("expected the stale job, got %+v", claimed)
	}

	claimed, err = repo.ClaimNextRunnable(ctx, tx, 3, 30*time.Second, 10*time.Minute)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed != nil {
		t.Fatalf("live running job should not be claimable, got %+v", claimed)
	}
}

func TestHeartbeatOnlyTouchesRunningJobs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewWeaveJobRepo(db, testutil.Logger(t))
	ctx := context.Background()

	job := &types.WeaveJob{
		ID:       uuid.New(),
		SourceID: uuid.New(),
		UserID:   uuid.New(),
		RawText:  "text",
		Status:   types.WeaveJobStatusQueued,
	}
	if _, err := repo.Create(ctx, tx, []*types.WeaveJob{job}); err != nil {
		t.Fatalf("create job: %v", err)
	}

	if err := repo.Heartbeat(ctx, tx, job.ID); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	stored, err := repo.GetByIDs(ctx, tx, []uuid.UUID{job.ID})
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if stored[0].HeartbeatAt != nil {
		t.Fatal("heartbeat should not touch a queued job")
	}
}
