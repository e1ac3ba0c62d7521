package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindweave/mindweave-backend/internal/apperr"
	"github.com/mindweave/mindweave-backend/internal/services"
)

type MindmapHandler struct {
	mindmapService services.MindmapService
	aidService     services.AidService
}

func NewMindmapHandler(mindmapService services.MindmapService, aidService services.AidService) *MindmapHandler {
	return &MindmapHandler{mindmapService: mindmapService, aidService: aidService}
}

func (mh *MindmapHandler) GetMindmap(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		RespondError(c, apperr.Unauthenticated("Authentication required."))
		return
	}

	sourceID, err := uuid.Parse(c.Query("sourceId"))
	if err != nil {
		RespondError(c, apperr.InvalidArgument("sourceId query parameter is required."))
		return
	}

	mindmap, err := mh.mindmapService.FetchBySourceID(c.Request.Context(), userID, sourceID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, mindmap, "Mindmap retrieved successfully.")
}

func (mh *MindmapHandler) GetOrCreateFlashcards(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		RespondError(c, apperr.Unauthenticated("Authentication required."))
		return
	}

	nodeID, err := uuid.Parse(c.Param("nodeId"))
	if err != nil {
		RespondError(c, apperr.InvalidArgument("Node ID is required in the URL path."))
		return
	}

	aid, created, err := mh.aidService.FetchOrCreate(c.Request.Context(), userID, nodeID, services.AidKindFlashcards, false)
	if err != nil {
		RespondError(c, err)
		return
	}
	if created {
		RespondData(c, http.StatusCreated, aid, "Flashcards generated successfully.")
		return
	}
	RespondData(c, http.StatusOK, aid, "Flashcards retrieved from cache.")
}
