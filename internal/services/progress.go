package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindweave/mindweave-backend/internal/apperr"
	"github.com/mindweave/mindweave-backend/internal/logger"
	"github.com/mindweave/mindweave-backend/internal/repos"
	"github.com/mindweave/mindweave-backend/internal/types"
)

// ProgressTotals and ProgressChartData shape the dashboard payload.
type ProgressChartData struct {
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	NotStarted int `json:"not_started"`
}

type ProgressTotals struct {
	TotalMinutes int    `json:"totalMinutes"`
	TotalHours   string `json:"totalHours"`
	TotalNodes   int    `json:"totalNodes"`
}

type AggregatedProgress struct {
	ChartData ProgressChartData      `json:"chartData"`
	Totals    ProgressTotals         `json:"totals"`
	Timeline  []*types.ProgressEntry `json:"timeline"`
}

type ProgressService interface {
	// Log appends a progress entry and stamps the node's status badge in
	// one transaction. Either both writes land or neither does.
	Log(ctx context.Context, userID, nodeID uuid.UUID, timeSpentMinutes int, status string) (*types.ProgressEntry, error)

	// GetAggregated builds the dashboard view across every node the user
	// owns: per-status node counts, time totals, and the full timeline
	// newest first.
	GetAggregated(ctx context.Context, userID uuid.UUID) (*AggregatedProgress, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	progressRepo repos.ProgressEntryRepo
	nodeRepo     repos.NodeRepo
	sourceRepo   repos.SourceRepo
	ownership    OwnershipService
}

func NewProgressService(db *gorm.DB, baseLog *logger.Logger, progressRepo repos.ProgressEntryRepo, nodeRepo repos.NodeRepo, sourceRepo repos.SourceRepo, ownership OwnershipService) ProgressService {
	return &progressService{
		db:           db,
		log:          baseLog.With("service", "ProgressService"),
		progressRepo: progressRepo,
		nodeRepo:     nodeRepo,
		sourceRepo:   sourceRepo,
		ownership:    ownership,
	}
}

func (ps *progressService) Log(ctx context.Context, userID, nodeID uuid.UUID, timeSpentMinutes int, status string) (*types.ProgressEntry, error) {
	if status != types.ProgressStatusInProgress && status != types.ProgressStatusCompleted {
		return nil, apperr.InvalidArgument("Status must be 'in_progress' or 'completed'.")
	}
	if timeSpentMinutes < 0 {
		return nil, apperr.InvalidArgument("timeSpentMinutes must not be negative.")
	}

	if _, err := ps.ownership.VerifyNodeOwnership(ctx, nil, nodeID, userID); err != nil {
		return nil, err
	}

	entry := &types.ProgressEntry{
		UserID:           userID,
		NodeID:           nodeID,
		TimeSpentMinutes: timeSpentMinutes,
		Status:           status,
		LoggedAt:         time.Now().UTC(),
	}

	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ps.progressRepo.Create(ctx, tx, []*types.ProgressEntry{entry}); err != nil {
			return err
		}
		return ps.nodeRepo.UpdateFields(ctx, tx, nodeID, map[string]interface{}{
			"status_badge": status,
		})
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (ps *progressService) GetAggregated(ctx context.Context, userID uuid.UUID) (*AggregatedProgress, error) {
	sources, err := ps.sourceRepo.GetByOwnerID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	sourceIDs := make([]uuid.UUID, 0, len(sources))
	for _, s := range sources {
		sourceIDs = append(sourceIDs, s.ID)
	}

	nodes, err := ps.nodeRepo.GetBySourceIDs(ctx, nil, sourceIDs)
	if err != nil {
		return nil, err
	}
	nodeIDs := make([]uuid.UUID, 0, len(nodes))
	for _, n := range nodes {
		nodeIDs = append(nodeIDs, n.ID)
	}

	timeline, err := ps.progressRepo.GetTimelineByUserAndNodes(ctx, nil, userID, nodeIDs)
	if err != nil {
		return nil, err
	}
	if timeline == nil {
		timeline = []*types.ProgressEntry{}
	}

	chartData := calculateChartData(nodes, timeline)
	totalMinutes := 0
	for _, entry := range timeline {
		totalMinutes += entry.TimeSpentMinutes
	}

	return &AggregatedProgress{
		ChartData: chartData,
		Totals: ProgressTotals{
			TotalMinutes: totalMinutes,
			TotalHours:   fmt.Sprintf("%.2f", float64(totalMinutes)/60),
			TotalNodes:   len(nodes),
		},
		Timeline: timeline,
	}, nil
}

// calculateChartData buckets nodes by their latest logged status. The
// timeline arrives sorted newest first, so the first entry seen for a
// node is its current status; nodes with no entries are not_started.
func calculateChartData(nodes []*types.Node, timeline []*types.ProgressEntry) ProgressChartData {
	nodeStatus := make(map[uuid.UUID]string, len(nodes))
	for _, entry := range timeline {
		if _, ok := nodeStatus[entry.NodeID]; !ok {
			nodeStatus[entry.NodeID] = entry.Status
		}
	}

	var chart ProgressChartData
	for _, node := range nodes {
		switch nodeStatus[node.ID] {
		case types.ProgressStatusCompleted:
			chart.Completed++
		case types.ProgressStatusInProgress:
			chart.InProgress++
		default:
			chart.NotStarted++
		}
	}
	return chart
}
