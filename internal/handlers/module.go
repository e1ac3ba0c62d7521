package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindweave/mindweave-backend/internal/apperr"
	"github.com/mindweave/mindweave-backend/internal/services"
)

type ModuleHandler struct {
	aidService services.AidService
}

func NewModuleHandler(aidService services.AidService) *ModuleHandler {
	return &ModuleHandler{aidService: aidService}
}

// GetOrCreateModule serves the learning module aid for a node. The
// regenerate query flag forces a fresh generation that replaces the
// cached module in place.
func (mh *ModuleHandler) GetOrCreateModule(c *gin.Context) {
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
	forceRegenerate := c.Query("regenerate") == "true"

	aid, created, err := mh.aidService.FetchOrCreate(c.Request.Context(), userID, nodeID, services.AidKindModule, forceRegenerate)
	if err != nil {
		RespondError(c, err)
		return
	}
	switch {
	case created:
		RespondData(c, http.StatusCreated, aid, "Module created successfully.")
	case forceRegenerate:
		RespondData(c, http.StatusOK, aid, "Module regenerated successfully.")
	default:
		RespondData(c, http.StatusOK, aid, "Module retrieved from cache.")
	}
}
