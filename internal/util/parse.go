package util

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/socialsimple/backend/internal/errors"
)

// ParseUUIDParam parses a path parameter as a UUID, responding with 400 when
// it is malformed.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondWithAPIError(c, errors.InvalidParam(name, "invalid "+name+": must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}
