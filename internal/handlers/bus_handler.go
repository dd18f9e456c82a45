package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roadlink/trip-inventory-backend/internal/database"
	"github.com/roadlink/trip-inventory-backend/internal/models"
	"github.com/roadlink/trip-inventory-backend/internal/services"
)

// BusHandler exposes bus registration and seat layout endpoints
type BusHandler struct {
	busRepo      *database.BusRepository
	operatorRepo *database.OperatorRepository
	layoutSvc    *services.LayoutService
	logger       *logrus.Logger
}

// NewBusHandler creates a new BusHandler
func NewBusHandler(
	busRepo *database.BusRepository,
	operatorRepo *database.OperatorRepository,
	layoutSvc *services.LayoutService,
	logger *logrus.Logger,
) *BusHandler {
	return &BusHandler{
		busRepo:      busRepo,
		operatorRepo: operatorRepo,
		layoutSvc:    layoutSvc,
		logger:       logger,
	}
}

// CreateBus registers a bus and commits its default generated seat layout
// POST /api/v1/buses
func (h *BusHandler) CreateBus(c *gin.Context) {
	var req models.BusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondBindError(c, err)
		return
	}

	if _, err := h.operatorRepo.GetByID(req.OperatorID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	bus, err := h.busRepo.Create(&req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	seats, err := h.layoutSvc.CommitDefaultLayout(bus.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"bus":   bus,
		"seats": seats,
	})
}

// GetAllBuses lists all registered buses
// GET /api/v1/buses
func (h *BusHandler) GetAllBuses(c *gin.Context) {
	buses, err := h.busRepo.GetAll()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, buses)
}

// GetBusByID returns one bus
// GET /api/v1/buses/:busId
func (h *BusHandler) GetBusByID(c *gin.Context) {
	bus, err := h.busRepo.GetByID(c.Param("busId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, bus)
}

// UpdateBus updates a bus's registration details
// PUT /api/v1/buses/:busId
func (h *BusHandler) UpdateBus(c *gin.Context) {
	var req models.BusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondBindError(c, err)
		return
	}

	bus, err := h.busRepo.Update(c.Param("busId"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, bus)
}

// DeleteBus removes a bus and its seats
// DELETE /api/v1/buses/:busId
func (h *BusHandler) DeleteBus(c *gin.Context) {
	if err := h.busRepo.Delete(c.Param("busId")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetSeats lists the committed seat layout of a bus
// GET /api/v1/buses/:busId/seats
func (h *BusHandler) GetSeats(c *gin.Context) {
	busID := c.Param("busId")

	if _, err := h.busRepo.GetByID(busID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	seats, err := h.busRepo.GetSeatsByBusID(busID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, seats)
}

// ReplaceSeatMap replaces a bus's layout with caller-defined seats
// PUT /api/v1/buses/:busId/seat-map
func (h *BusHandler) ReplaceSeatMap(c *gin.Context) {
	var req models.ReplaceSeatMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	seats, err := h.layoutSvc.ApplyCustomLayout(c.Param("busId"), req.Seats)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"seats":         seats,
		"seat_capacity": len(seats),
	})
}
