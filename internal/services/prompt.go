package services

import (
	"fmt"

	"github.com/mindweave/mindweave-backend/internal/types"
)

// AidKind names one of the study aid flavors the generation pipeline
// can produce for a node.
type AidKind string

const (
	AidKindSummary    AidKind = "summary"
	AidKindModule     AidKind = "module"
	AidKindFlashcards AidKind = "flashcards"
	AidKindStudyPlan  AidKind = "study_plan"
)

func ParseAidKind(raw string) (AidKind, bool) {
	switch AidKind(raw) {
	case AidKindSummary, AidKindModule, AidKindFlashcards, AidKindStudyPlan:
		return AidKind(raw), true
	}
	return "", false
}

// AidSystemPrompt returns the system instruction for one aid kind. The
// wording is part of the product surface: flashcards and study plans are
// parsed downstream by their line format, so changes here break clients.
func AidSystemPrompt(kind AidKind) (string, error) {
	switch kind {
	case AidKindSummary:
		return "Summarize the following text concisely, focusing on the main points.", nil
	case AidKindModule:
		return "Based on the following concept, create a concise real-world analogy to explain it, and then suggest a simple micro-project idea for a beginner to apply the concept.", nil
	case AidKindFlashcards:
		return "From the text below, generate exactly 3 distinct question and answer pairs suitable for flashcards. Format each pair strictly as 'Q: [Your Question]' on one line, followed by 'A: [Your Answer]' on the next line.", nil
	case AidKindStudyPlan:
		return "Based on the core topic, create a 7-day study plan. Each day should have a specific, actionable goal. Format the output as a list, with each day on a new line starting with 'Day X:'.", nil
	}
	return "", fmt.Errorf("unknown aid kind %q", kind)
}

// NodeSourceText builds the user message fed to the model for any aid
// kind. Only the node's title and summary go in, never raw source text.
func NodeSourceText(node *types.Node) string {
	return fmt.Sprintf("Title: %s\nSummary: %s", node.Title, node.Summary)
}

const mindmapSystemPrompt = "You are an expert in structuring knowledge. Analyze the following text and break it down into a mind map of core concepts. Return nodes with short titles and one-paragraph summaries, and edges connecting related concepts. Node ids must be unique strings and every edge must reference existing node ids."

// MindmapSchema is the strict JSON schema handed to the model when
// weaving a mind map out of raw source text.
func MindmapSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"nodes": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":      map[string]any{"type": "string"},
						"title":   map[string]any{"type": "string"},
						"summary": map[string]any{"type": "string"},
					},
					"required":             []string{"id", "title", "summary"},
					"additionalProperties": false,
				},
			},
			"edges": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"source": map[string]any{"type": "string"},
						"target": map[string]any{"type": "string"},
					},
					"required":             []string{"source", "target"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"nodes", "edges"},
		"additionalProperties": false,
	}
}
