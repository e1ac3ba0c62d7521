package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mindweave/mindweave-backend/internal/apperr"
	"github.com/mindweave/mindweave-backend/internal/logger"
	"github.com/mindweave/mindweave-backend/internal/types"
)

const modelUnavailableMsg = "The AI model service is currently unavailable."

// MindmapDraft is the model's proposed graph before it is persisted.
// Node IDs here are the model's own local identifiers; the weaver maps
// them to database UUIDs when it stores the graph.
type MindmapDraft struct {
	Nodes []MindmapDraftNode `json:"nodes"`
	Edges []MindmapDraftEdge `json:"edges"`
}

type MindmapDraftNode struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type MindmapDraftEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type GenerationService interface {
	GenerateAidContent(ctx context.Context, kind AidKind, node *types.Node) (string, error)
	WeaveMindmap(ctx context.Context, rawText string) (*MindmapDraft, error)
}

type generationService struct {
	log    *logger.Logger
	client OpenAIClient
}

func NewGenerationService(baseLog *logger.Logger, client OpenAIClient) GenerationService {
	return &generationService{
		log:    baseLog.With("service", "GenerationService"),
		client: client,
	}
}

// GenerateAidContent produces the text body for one aid kind. Any
// provider failure, including timeouts and refusals, surfaces as a 502
// so handlers never leak provider detail to clients.
func (gs *generationService) GenerateAidContent(ctx context.Context, kind AidKind, node *types.Node) (string, error) {
	system, err := AidSystemPrompt(kind)
	if err != nil {
		return "", apperr.Wrap(http.StatusBadRequest, "Invalid aid type specified.", err)
	}

	content, err := gs.client.GenerateText(ctx, system, NodeSourceText(node))
	if err != nil {
		gs.log.Error("Aid generation failed", "kind", string(kind), "node_id", node.ID, "error", err)
		return "", apperr.Wrap(http.StatusBadGateway, modelUnavailableMsg, err)
	}
	return content, nil
}

func (gs *generationService) WeaveMindmap(ctx context.Context, rawText string) (*MindmapDraft, error) {
	obj, err := gs.client.GenerateJSON(ctx, mindmapSystemPrompt, rawText, "mindmap", MindmapSchema())
	if err != nil {
		gs.log.Error("Mindmap generation failed", "error", err)
		return nil, apperr.Wrap(http.StatusBadGateway, modelUnavailableMsg, err)
	}

	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, apperr.Wrap(http.StatusBadGateway, modelUnavailableMsg, err)
	}
	var draft MindmapDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, apperr.Wrap(http.StatusBadGateway, modelUnavailableMsg, err)
	}

	if err := validateDraft(&draft); err != nil {
		gs.log.Error("Mindmap draft rejected", "error", err)
		return nil, apperr.Wrap(http.StatusBadGateway, modelUnavailableMsg, err)
	}
	return &draft, nil
}

func validateDraft(draft *MindmapDraft) error {
	if len(draft.Nodes) == 0 {
		return fmt.Errorf("draft contains no nodes")
	}
	seen := make(map[string]bool, len(draft.Nodes))
	for _, n := range draft.Nodes {
		id := strings.TrimSpace(n.ID)
		if id == "" || strings.TrimSpace(n.Title) == "" {
			return fmt.Errorf("draft node missing id or title")
		}
		if seen[id] {
			return fmt.Errorf("duplicate draft node id %q", id)
		}
		seen[id] = true
	}
	for _, e := range draft.Edges {
		if !seen[e.Source] || !seen[e.Target] {
			return fmt.Errorf("draft edge references unknown node %q -> %q", e.Source, e.Target)
		}
	}
	return nil
}
