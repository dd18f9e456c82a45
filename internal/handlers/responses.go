package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roadlink/trip-inventory-backend/internal/apperrors"
)

// respondError translates a domain error into the HTTP response for it.
// Typed errors carry their own status; anything unrecognized is logged and
// reported as a 500 without leaking internals to the client.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var notFound *apperrors.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": notFound.Error(),
			"code":  "NOT_FOUND",
		})
		return
	}

	var scheduleConflict *apperrors.ScheduleConflictError
	if errors.As(err, &scheduleConflict) {
		c.JSON(http.StatusConflict, gin.H{
			"error":          scheduleConflict.Error(),
			"code":           "SCHEDULE_CONFLICT",
			"bus_id":         scheduleConflict.BusID,
			"conflict_start": scheduleConflict.ConflictStart,
			"conflict_end":   scheduleConflict.ConflictEnd,
		})
		return
	}

	var stateConflict *apperrors.StateConflictError
	if errors.As(err, &stateConflict) {
		c.JSON(http.StatusConflict, gin.H{
			"error":          stateConflict.Error(),
			"code":           "SEAT_STATE_CONFLICT",
			"expected_state": stateConflict.Expected,
			"actual_state":   stateConflict.Actual,
		})
		return
	}

	var layoutInUse *apperrors.LayoutInUseError
	if errors.As(err, &layoutInUse) {
		c.JSON(http.StatusConflict, gin.H{
			"error":  layoutInUse.Error(),
			"code":   "LAYOUT_IN_USE",
			"bus_id": layoutInUse.BusID,
		})
		return
	}

	var unknownSeatType *apperrors.UnknownSeatTypeError
	if errors.As(err, &unknownSeatType) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": unknownSeatType.Error(),
			"code":  "UNKNOWN_SEAT_TYPE",
		})
		return
	}

	var invalidInput *apperrors.InvalidInputError
	if errors.As(err, &invalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": invalidInput.Error(),
			"code":  "INVALID_INPUT",
		})
		return
	}

	logger.WithError(err).Error("Unhandled error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// respondBindError reports a request body or query string that failed to bind
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": "Invalid request: " + err.Error(),
		"code":  "INVALID_INPUT",
	})
}
