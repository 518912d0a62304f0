package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/logging"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/validation"
)

const (
	msgBadRequest       = "bad request"
	msgNotFound         = "resource not found"
	msgMethodNotAllowed = "method not allowed"
	msgUnprocessable    = "unprocessable"
	msgRateLimited      = "rate limit exceeded"
	msgInternal         = "internal server error"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// writeError is the single place an error becomes an HTTP response.
// Authorization failures keep the status and message they were created with.
func writeError(c *gin.Context, err error) {
	if authErr, ok := domain.AsAuthError(err); ok {
		writeStatus(c, authErr.Status, authErr.Error())
		return
	}
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeStatus(c, http.StatusUnprocessableEntity, msgUnprocessable+": "+verr.Error())
	case errors.Is(err, domain.ErrValidation):
		writeStatus(c, http.StatusUnprocessableEntity, msgUnprocessable)
	case errors.Is(err, domain.ErrInvalidArgument):
		writeStatus(c, http.StatusBadRequest, msgBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		writeStatus(c, http.StatusNotFound, msgNotFound)
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		writeStatus(c, http.StatusInternalServerError, msgInternal)
	}
}

func writeStatus(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Success: false,
		Error:   status,
		Message: message,
	})
}
