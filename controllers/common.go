package controllers

import (
	"errors"
	"net/http"
	"time"

	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var kindStatus = map[services.Kind]int{
	services.KindValidation:        http.StatusBadRequest,
	services.KindUnauthenticated:   http.StatusUnauthorized,
	services.KindForbidden:         http.StatusForbidden,
	services.KindNotFound:          http.StatusNotFound,
	services.KindConflict:          http.StatusBadRequest,
	services.KindInvalidState:      http.StatusBadRequest,
	services.KindInvalidTransition: http.StatusBadRequest,
	services.KindLimitReached:      http.StatusBadRequest,
}

// respondError writes err using the status for its kind. Anything that is
// not a domain error is logged and reported as a generic 500.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	status, ok := kindStatus[services.KindOf(err)]
	if !ok {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
		utils.RespondWithError(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	var derr *services.Error
	if errors.As(err, &derr) && len(derr.Fields) > 0 {
		c.AbortWithStatusJSON(status, gin.H{"error": derr.Message, "details": derr.Fields})
		return
	}
	utils.RespondWithError(c, status, err.Error())
}

// pathID parses a uuid route parameter, answering 404 for malformed ids.
func pathID(c *gin.Context, name, notFound string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusNotFound, notFound)
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalDay reads a query bound as a day or RFC3339 timestamp.
func parseOptionalDay(c *gin.Context, key string, loc *time.Location, endOfDay bool) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := utils.ParseDay(raw, loc)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+key+" date")
		return nil, false
	}
	t = t.In(loc)
	if endOfDay && len(raw) == len(utils.DayLayout) {
		t = utils.EndOfDay(t)
	}
	return &t, true
}
