package services

import (
	"strings"
	"testing"

	"github.com/mindweave/mindweave-backend/internal/types"
)

func TestParseAidKind(t *testing.T) {
	for _, raw := range []string{"summary", "module", "flashcards", "study_plan"} {
		kind, ok := ParseAidKind(raw)
		if !ok {
			t.Fatalf("expected %q to parse", raw)
		}
		if string(kind) != raw {
			t.Fatalf("expected kind %q, got %q", raw, kind)
		}
	}

	for _, raw := range []string{"", "Summary", "quiz", "study-plan"} {
		if _, ok := ParseAidKind(raw); ok {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestAidSystemPromptDeterministic(t *testing.T) {
	kinds := []AidKind{AidKindSummary, AidKindModule, AidKindFlashcards, AidKindStudyPlan}
	seen := make(map[string]AidKind, len(kinds))

	for _, kind := range kinds {
		first, err := AidSystemPrompt(kind)
		if err != nil {
			t.Fatalf("AidSystemPrompt(%q): %v", kind, err)
		}
		second, err := AidSystemPrompt(kind)
		if err != nil {
			t.Fatalf("AidSystemPrompt(%q): %v", kind, err)
		}
		if first != second {
			t.Fatalf("prompt for %q is not deterministic", kind)
		}
		if prev, dup := seen[first]; dup {
			t.Fatalf("kinds %q and %q share a prompt", prev, kind)
		}
		seen[first] = kind
	}

	if _, err := AidSystemPrompt(AidKind("quiz")); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestAidSystemPromptLineFormats(t *testing.T) {
	flash, err := AidSystemPrompt(AidKindFlashcards)
	if err != nil {
		t.Fatalf("AidSystemPrompt: %v", err)
	}
	if !strings.Contains(flash, "Q: [Your Question]") || !strings.Contains(flash, "A: [Your Answer]") {
		t.Fatalf("flashcards prompt lost its Q/A line format: %q", flash)
	}

	plan, err := AidSystemPrompt(AidKindStudyPlan)
	if err != nil {
		t.Fatalf("AidSystemPrompt: %v", err)
	}
	if !strings.Contains(plan, "Day X:") {
		t.Fatalf("study plan prompt lost its day line format: %q", plan)
	}
}

func TestNodeSourceText(t *testing.T) {
	node := &types.Node{Title: "Recursion", Summary: "A function calling itself."}
	got := NodeSourceText(node)
	want := "Title: Recursion\nSummary: A function calling itself."
	if got != want {
		t.Fatalf("NodeSourceText = %q, want %q", got, want)
	}
}
