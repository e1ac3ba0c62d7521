package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/mindweave/mindweave-backend/internal/apperr"
	"github.com/mindweave/mindweave-backend/internal/repos/testutil"
	"github.com/mindweave/mindweave-backend/internal/types"
)

type fakeOpenAIClient struct {
	text    string
	jsonOut map[string]any
	err     error
}

func (f *fakeOpenAIClient) GenerateText(ctx context.Context, system string, user string) (string, error) {
	return f.text, f.err
}

func (f *fakeOpenAIClient) GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error) {
	return f.jsonOut, f.err
}

func TestGenerateAidContentProviderFailure(t *testing.T) {
	svc := NewGenerationService(testutil.Logger(t), &fakeOpenAIClient{err: errors.New("connection refused")})

	_, err := svc.GenerateAidContent(context.Background(), AidKindSummary, &types.Node{Title: "t", Summary: "s"})
	if err == nil {
		t.Fatal("expected error")
	}
	if apperr.StatusOf(err) != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", apperr.StatusOf(err), http.StatusBadGateway)
	}
	if apperr.MessageOf(err) != "The AI model service is currently unavailable." {
		t.Fatalf("unexpected client message %q", apperr.MessageOf(err))
	}
}

func TestGenerateAidContentInvalidKind(t *testing.T) {
	svc := NewGenerationService(testutil.Logger(t), &fakeOpenAIClient{text: "ok"})

	_, err := svc.GenerateAidContent(context.Background(), AidKind("quiz"), &types.Node{})
	if apperr.StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", apperr.StatusOf(err), http.StatusBadRequest)
	}
}

func TestWeaveMindmapValidDraft(t *testing.T) {
	svc := NewGenerationService(testutil.Logger(t), &fakeOpenAIClient{
		jsonOut: map[string]any{
			"nodes": []any{
				map[string]any{"id": "n1", "title": "Roots", "summary": "The base."},
				map[string]any{"id": "n2", "title": "Leaves", "summary": "The top."},
			},
			"edges": []any{
				map[string]any{"source": "n1", "target": "n2"},
			},
		},
	})

	draft, err := svc.WeaveMindmap(context.Background(), "some raw text")
	if err != nil {
		t.Fatalf("WeaveMindmap: %v", err)
	}
	if len(draft.Nodes) != 2 || len(draft.Edges) != 1 {
		t.Fatalf("unexpected draft shape: %d nodes, %d edges", len(draft.Nodes), len(draft.Edges))
	}
}

func TestWeaveMindmapRejectsBadDrafts(t *testing.T) {
	cases := []struct {
		name string
		out  map[string]any
	}{
		{"empty", map[string]any{"nodes": []any{}, "edges": []any{}}},
		{"duplicate ids", map[string]any{
			"nodes": []any{
				map[string]any{"id": "n1", "title": "a", "summary": "x"},
				map[string]any{"id": "n1", "title": "b", "summary": "y"},
			},
			"edges": []any{},
		}},
		{"dangling edge", map[string]any{
			"nodes": []any{map[string]any{"id": "n1", "title": "a", "summary": "x"}},
			"edges": []any{map[string]any{"source": "n1", "target": "ghost"}},
		}},
		{"blank title", map[string]any{
			"nodes": []any{map[string]any{"id": "n1", "title": " ", "summary": "x"}},
			"edges": []any{},
		}},
	}

	for _, tc := range cases {
		svc := NewGenerationService(testutil.Logger(t), &fakeOpenAIClient{jsonOut: tc.out})
		_, err := svc.WeaveMindmap(context.Background(), "text")
		if err == nil {
			t.Fatalf("%s: expected rejection", tc.name)
		}
		if apperr.StatusOf(err) != http.StatusBadGateway {
			t.Fatalf("%s: status = %d, want %d", tc.name, apperr.StatusOf(err), http.StatusBadGateway)
		}
	}
}
