package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mindweave/mindweave-backend/internal/apperr"
	"github.com/mindweave/mindweave-backend/internal/requestdata"
	"github.com/mindweave/mindweave-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apperr.InvalidArgument("Email, password, and display name are required."))
		return
	}

	user, err := ah.authService.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, user, "User registered successfully.")
}

func (ah *AuthHandler) GetMe(c *gin.Context) {
	userID := currentUserID(c)
	if userID == uuid.Nil {
		RespondError(c, apperr.Unauthenticated("Authentication required."))
		return
	}

	user, err := ah.authService.GetMe(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondData(c, http.StatusOK, user, "User profile retrieved successfully.")
}

func currentUserID(c *gin.Context) uuid.UUID {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		return uuid.Nil
	}
	return rd.UserID
}
