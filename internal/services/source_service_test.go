package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindweave/mindweave-backend/internal/repos"
	"github.com/mindweave/mindweave-backend/internal/repos/testutil"
	"github.com/mindweave/mindweave-backend/internal/types"
)

type fakeExtractService struct {
	sourceType string
	text       string
	err        error
}

func (f *fakeExtractService) ExtractFromURL(ctx context.Context, rawURL string) (string, string, error) {
	return f.sourceType, f.text, f.err
}

func newTestSourceService(t *testing.T, tx *gorm.DB, extract ExtractService) SourceService {
	t.Helper()
	log := testutil.Logger(t)
	return NewSourceService(tx, log, repos.NewSourceRepo(tx, log), repos.NewWeaveJobRepo(tx, log), extract, nil)
}

func TestProcessNewURLEnqueuesJobWithMetadata(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	userID := uuid.New()
	extract := &fakeExtractService{sourceType: types.SourceTypeYoutube, text: "transcript text"}
	svc := newTestSourceService(t, tx, extract)

	source, err := svc.ProcessNewURL(ctx, userID, "https://youtu.be/abc123")
	if err != nil {
		t.Fatalf("process url: %v", err)
	}
	if source.Status != types.SourceStatusQueued {
		t.Fatalf("source status = %q, want queued", source.Status)
	}
	if source.Type != types.SourceTypeYoutube {
		t.Fatalf("source type = %q, want youtube", source.Type)
	}

	var jobs []*types.WeaveJob
	if err := tx.Where("source_id = ?", source.ID).Find(&jobs).Error; err != nil {
		t.Fatalf("find jobs: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 weave job, got %d", len(jobs))
	}
	job := jobs[0]
	if job.Status != types.WeaveJobStatusQueued {
		t.Fatalf("job status = %q, want queued", job.Status)
	}
	if job.RawText != "transcript text" {
		t.Fatalf("job raw text = %q", job.RawText)
	}

	var meta struct {
		SourceType string `json:"source_type"`
		Origin     string `json:"origin"`
		TextLength int    `json:"text_length"`
	}
	if err := json.Unmarshal(job.Metadata, &meta); err != nil {
		t.Fatalf("unmarshal job metadata: %v", err)
	}
	if meta.SourceType != types.SourceTypeYoutube {
		t.Fatalf("metadata source_type = %q, want youtube", meta.SourceType)
	}
	if meta.Origin != "https://youtu.be/abc123" {
		t.Fatalf("metadata origin = %q", meta.Origin)
	}
	if meta.TextLength != len("transcript text") {
		t.Fatalf("metadata text_length = %d, want %d", meta.TextLength, len("transcript text"))
	}
}

func TestProcessNewURLExtractionFailureWritesNothing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	userID := uuid.New()
	svc := newTestSourceService(t, tx, &fakeExtractService{err: errors.New("fetch failed")})

	if _, err := svc.ProcessNewURL(ctx, userID, "https://example.com/broken"); err == nil {
		t.Fatal("expected extraction failure to propagate")
	}

	var count int64
	if err := tx.Model(&types.Source{}).Where("owner_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("count sources: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no source rows, got %d", count)
	}
}
