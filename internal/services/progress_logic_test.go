package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mindweave/mindweave-backend/internal/types"
)

func TestCalculateChartDataFirstEntryWins(t *testing.T) {
	nodeA := &types.Node{ID: uuid.New()}
	nodeB := &types.Node{ID: uuid.New()}
	nodeC := &types.Node{ID: uuid.New()}
	nodes := []*types.Node{nodeA, nodeB, nodeC}

	now := time.Now()
	// Newest first, the way the repo returns the timeline. Node A was
	// marked in_progress and later completed; only the completion counts.
	timeline := []*types.ProgressEntry{
		{NodeID: nodeA.ID, Status: types.ProgressStatusCompleted, LoggedAt: now},
		{NodeID: nodeB.ID, Status: types.ProgressStatusInProgress, LoggedAt: now.Add(-time.Hour)},
		{NodeID: nodeA.ID, Status: types.ProgressStatusInProgress, LoggedAt: now.Add(-2 * time.Hour)},
	}

	chart := calculateChartData(nodes, timeline)
	if chart.Completed != 1 {
		t.Fatalf("completed = %d, want 1", chart.Completed)
	}
	if chart.InProgress != 1 {
		t.Fatalf("in_progress = %d, want 1", chart.InProgress)
	}
	if chart.NotStarted != 1 {
		t.Fatalf("not_started = %d, want 1", chart.NotStarted)
	}
}

func TestCalculateChartDataEmptyTimeline(t *testing.T) {
	nodes := []*types.Node{{ID: uuid.New()}, {ID: uuid.New()}}
	chart := calculateChartData(nodes, nil)
	if chart.NotStarted != 2 || chart.Completed != 0 || chart.InProgress != 0 {
		t.Fatalf("unexpected chart for empty timeline: %+v", chart)
	}
}

func TestCalculateChartDataIgnoresForeignEntries(t *testing.T) {
	node := &types.Node{ID: uuid.New()}
	timeline := []*types.ProgressEntry{
		{NodeID: uuid.New(), Status: types.ProgressStatusCompleted, LoggedAt: time.Now()},
	}
	chart := calculateChartData([]*types.Node{node}, timeline)
	if chart.NotStarted != 1 || chart.Completed != 0 {
		t.Fatalf("entries for unknown nodes should not count: %+v", chart)
	}
}
