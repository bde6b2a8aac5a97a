package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reelscope/reelscope/internal/domain"
)

// Response is the uniform envelope every endpoint returns. Success responses
// carry data, failures carry error; never both.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Error: message})
}

// statusFor maps domain errors to HTTP status codes: validation errors are
// the client's fault, missing records are 404, everything else is a server
// fault.
func statusFor(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
