package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roadlink/trip-inventory-backend/internal/models"
	"github.com/roadlink/trip-inventory-backend/internal/services"
)

// TripHandler exposes the trip lifecycle, search, seat map and seat
// transition endpoints
type TripHandler struct {
	tripSvc      *services.TripService
	searchSvc    *services.SearchService
	inventorySvc *services.InventoryService
	logger       *logrus.Logger
}

// NewTripHandler creates a new TripHandler
func NewTripHandler(
	tripSvc *services.TripService,
	searchSvc *services.SearchService,
	inventorySvc *services.InventoryService,
	logger *logrus.Logger,
) *TripHandler {
	return &TripHandler{
		tripSvc:      tripSvc,
		searchSvc:    searchSvc,
		inventorySvc: inventorySvc,
		logger:       logger,
	}
}

// CreateTrip creates a trip and its seat inventory
// POST /api/v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req models.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	trip, err := h.tripSvc.Create(&req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, trip)
}

// UpdateTrip reschedules or reassigns a trip
// PUT /api/v1/trips/:tripId
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	tripID := c.Param("tripId")

	var req models.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	trip, err := h.tripSvc.Update(tripID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// DeleteTrip removes a trip and its seat inventory
// DELETE /api/v1/trips/:tripId
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	tripID := c.Param("tripId")

	if err := h.tripSvc.Delete(tripID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetTripDetail returns the display view of one trip
// GET /api/v1/trips/:tripId
func (h *TripHandler) GetTripDetail(c *gin.Context) {
	tripID := c.Param("tripId")

	summary, err := h.tripSvc.GetSummary(tripID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// SearchTrips returns one page of trips matching the query predicates
// GET /api/v1/trips/search
func (h *TripHandler) SearchTrips(c *gin.Context) {
	var filter models.TripSearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.searchSvc.Search(&filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSeatMap returns the trip's seat layout annotated with per-seat status
// GET /api/v1/trips/:tripId/seats
func (h *TripHandler) GetSeatMap(c *gin.Context) {
	tripID := c.Param("tripId")

	seatMap, err := h.inventorySvc.GetSeatMap(tripID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, seatMap)
}

// TransitionSeat applies a guarded seat state transition
// POST /api/v1/trips/:tripId/seats/:seatId/transition
func (h *TripHandler) TransitionSeat(c *gin.Context) {
	tripID := c.Param("tripId")
	seatID := c.Param("seatId")

	var req models.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	state, err := h.inventorySvc.Transition(tripID, seatID,
		models.SeatStateValue(req.From), models.SeatStateValue(req.To))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, state)
}
