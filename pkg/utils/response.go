package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the common JSON envelope for error paths. Success payloads keep
// the endpoint-specific shapes defined by the handlers.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error:   message,
	})
}

func SendValidationError(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendNotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

func SendInternalError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}

func SendServiceUnavailable(c *gin.Context, message string) {
	SendError(c, http.StatusServiceUnavailable, message)
}
