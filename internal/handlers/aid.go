package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindweave/mindweave-backend/internal/apperr"
	"github.com/mindweave/mindweave-backend/internal/services"
)

type AidHandler struct {
	aidService services.AidService
}

func NewAidHandler(aidService services.AidService) *AidHandler {
	return &AidHandler{aidService: aidService}
}

func (ah *AidHandler) GetOrCreateAid(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		RespondError(c, apperr.Unauthenticated("Authentication required."))
		return
	}

	var req struct {
		NodeID string `json:"nodeId"`
		Type   string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apperr.InvalidArgument("nodeId and type are required."))
		return
	}
	nodeID, err := uuid.Parse(req.NodeID)
	if err != nil {
		RespondError(c, apperr.InvalidArgument("nodeId and type are required."))
		return
	}
	kind, ok := services.ParseAidKind(req.Type)
	if !ok {
		RespondError(c, apperr.InvalidArgument("Invalid aid type specified."))
		return
	}

	aid, created, err := ah.aidService.FetchOrCreate(c.Request.Context(), userID, nodeID, kind, false)
	if err != nil {
		RespondError(c, err)
		return
	}
	if created {
		RespondData(c, http.StatusCreated, aid, "Aid generated successfully.")
		return
	}
	RespondData(c, http.StatusOK, aid, "Aid retrieved from cache.")
}
