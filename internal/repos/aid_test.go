package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mindweave/mindweave-backend/internal/repos/testutil"
	"github.com/mindweave/mindweave-backend/internal/types"
)

func TestAidGetByNodeAndKind(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewAidRepo(db, testutil.Logger(t))
	ctx := context.Background()

	nodeID := uuid.New()
	aid := &types.Aid{
		NodeID:      nodeID,
		UserID:      uuid.New(),
		Kind:        "summary",
		Content:     "a short summary",
		GeneratedAt: time.Now(),
	}
	if _, err := repo.Create(ctx, tx, []*types.Aid{aid}); err != nil {
		t.Fatalf("create aid: %v", err)
	}

	got, err := repo.GetByNodeAndKind(ctx, tx, nodeID, "summary")
	if err != nil {
		t.Fatalf("get aid: %v", err)
	}
	if got == nil || got.ID != aid.ID {
		t.Fatalf("expected the stored aid, got %+v", got)
	}

	miss, err := repo.GetByNodeAndKind(ctx, tx, nodeID, "flashcards")
	if err != nil {
		t.Fatalf("get aid: %v", err)
	}
	if miss != nil {
		t.Fatalf("expected nil for a missing kind, got %+v", miss)
	}
}

func TestAidUniquePerNodeAndKind(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewAidRepo(db, testutil.Logger(t))
	ctx := context.Background()

	nodeID := uuid.New()
	first := &types.Aid{NodeID: nodeID, UserID: uuid.New(), Kind: "summary", Content: "one", GeneratedAt: time.Now()}
	if _, err := repo.Create(ctx, tx, []*types.Aid{first}); err != nil {
		t.Fatalf("create aid: %v", err)
	}

	dup := &types.Aid{NodeID: nodeID, UserID: uuid.New(), Kind: "summary", Content: "two", GeneratedAt: time.Now()}
	if _, err := repo.Create(ctx, tx, []*types.Aid{dup}); err == nil {
		t.Fatal("expected unique violation for duplicate node/kind")
	}
}

func TestAidUpdateFieldsKeepsID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewAidRepo(db, testutil.Logger(t))
	ctx := context.Background()

	nodeID := uuid.New()
	aid := &types.Aid{NodeID: nodeID, UserID: uuid.New(), Kind: "module", Content: "v1", GeneratedAt: time.Now()}
	if _, err := repo.Create(ctx, tx, []*types.Aid{aid}); err != nil {
		t.Fatalf("create aid: %v", err)
	}

	regeneratedAt := time.Now()
	err := repo.UpdateFields(ctx, tx, aid.ID, map[string]interface{}{
		"content":      "v2",
		"generated_at": regeneratedAt,
	})
	if err != nil {
		t.Fatalf("update aid: %v", err)
	}

	got, err := repo.GetByNodeAndKind(ctx, tx, nodeID, "module")
	if err != nil {
		t.Fatalf("get aid: %v", err)
	}
	if got == nil || got.ID != aid.ID {
		t.Fatalf("regeneration must keep the aid ID, got %+v", got)
	}
	if got.Content != "v2" {
		t.Fatalf("content = %q, want v2", got.Content)
	}
}
