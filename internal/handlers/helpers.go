package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nisshin-gakuen/admission-portal/internal/services"
	"github.com/nisshin-gakuen/admission-portal/pkg/response"
)

// writeServiceError maps the service error taxonomy onto HTTP responses.
// Unrecognized errors become a generic 500 so storage details never leak.
func writeServiceError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		response.ValidationFailed(c, vErr.Fields)
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(c, "record not found")
	case errors.Is(err, services.ErrDuplicateKey):
		response.Conflict(c, err.Error())
	case errors.Is(err, services.ErrImmutableKey):
		response.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrStorageUnavailable):
		response.Unavailable(c, "storage unavailable")
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Unauthorized(c, "invalid credentials")
	default:
		response.Error(c, err)
	}
}

// parseIDParam reads a numeric :id path parameter.
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}
