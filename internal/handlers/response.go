package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mindweave/mindweave-backend/internal/apperr"
)

// Envelope is the uniform response body: {success, data, message} on
// success, {success:false, message} on error.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func RespondData(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Envelope{Success: true, Data: data, Message: message})
}

func RespondError(c *gin.Context, err error) {
	c.JSON(apperr.StatusOf(err), Envelope{Success: false, Message: apperr.MessageOf(err)})
}
