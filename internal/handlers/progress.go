package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindweave/mindweave-backend/internal/apperr"
	"github.com/mindweave/mindweave-backend/internal/services"
)

type ProgressHandler struct {
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

func (ph *ProgressHandler) LogProgress(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		RespondError(c, apperr.Unauthenticated("Authentication required."))
		return
	}

	var req struct {
		NodeID           string `json:"nodeId"`
		TimeSpentMinutes *int   `json:"timeSpentMinutes"`
		Status           string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apperr.InvalidArgument("nodeId, timeSpentMinutes, and status are required."))
		return
	}
	if req.NodeID == "" || req.TimeSpentMinutes == nil || req.Status == "" {
		RespondError(c, apperr.InvalidArgument("nodeId, timeSpentMinutes, and status are required."))
		return
	}
	nodeID, err := uuid.Parse(req.NodeID)
	if err != nil {
		RespondError(c, apperr.InvalidArgument("nodeId, timeSpentMinutes, and status are required."))
		return
	}

	entry, err := ph.progressService.Log(c.Request.Context(), userID, nodeID, *req.TimeSpentMinutes, req.Status)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, entry, "Progress logged successfully.")
}

func (ph *ProgressHandler) GetProgress(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		RespondError(c, apperr.Unauthenticated("Authentication required."))
		return
	}

	result, err := ph.progressService.GetAggregated(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, result, "Progress retrieved successfully.")
}
