package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindweave/mindweave-backend/internal/apperr"
	"github.com/mindweave/mindweave-backend/internal/services"
)

type SourceHandler struct {
	sourceService services.SourceService
}

func NewSourceHandler(sourceService services.SourceService) *SourceHandler {
	return &SourceHandler{sourceService: sourceService}
}

func (sh *SourceHandler) CreateSource(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		RespondError(c, apperr.Unauthenticated("Authentication required."))
		return
	}

	var req struct {
		URL  string `json:"url"`
		File string `json:"file"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apperr.InvalidArgument("A 'url' or 'file' must be provided."))
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" && req.File == "" {
		RespondError(c, apperr.InvalidArgument("A 'url' or 'file' must be provided."))
		return
	}

	var err error
	if req.URL != "" {
		source, urlErr := sh.sourceService.ProcessNewURL(c.Request.Context(), userID, req.URL)
		if urlErr == nil {
			RespondData(c, http.StatusAccepted, source, "Source accepted and queued for processing.")
			return
		}
		err = urlErr
	} else {
		_, err = sh.sourceService.ProcessNewFile(c.Request.Context(), userID, req.File)
	}
	RespondError(c, err)
}

func (sh *SourceHandler) ListSources(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		RespondError(c, apperr.Unauthenticated("Authentication required."))
		return
	}

	sources, err := sh.sourceService.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, sources, "Sources retrieved successfully.")
}
