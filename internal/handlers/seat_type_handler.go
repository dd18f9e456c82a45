package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roadlink/trip-inventory-backend/internal/database"
	"github.com/roadlink/trip-inventory-backend/internal/models"
)

// SeatTypeHandler exposes the per-operator seat type catalog
type SeatTypeHandler struct {
	seatTypeRepo *database.SeatTypeRepository
	operatorRepo *database.OperatorRepository
	logger       *logrus.Logger
}

// NewSeatTypeHandler creates a new SeatTypeHandler
func NewSeatTypeHandler(seatTypeRepo *database.SeatTypeRepository, operatorRepo *database.OperatorRepository, logger *logrus.Logger) *SeatTypeHandler {
	return &SeatTypeHandler{seatTypeRepo: seatTypeRepo, operatorRepo: operatorRepo, logger: logger}
}

// CreateSeatType defines a seat type for an operator
// POST /api/v1/seat-types
func (h *SeatTypeHandler) CreateSeatType(c *gin.Context) {
	var req models.SeatTypeRequest
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

	seatType, err := h.seatTypeRepo.Create(&req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, seatType)
}

// GetSeatTypesByOperator lists the seat types defined by one operator
// GET /api/v1/operators/:operatorId/seat-types
func (h *SeatTypeHandler) GetSeatTypesByOperator(c *gin.Context) {
	operatorID := c.Param("operatorId")

	if _, err := h.operatorRepo.GetByID(operatorID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	seatTypes, err := h.seatTypeRepo.GetByOperatorID(operatorID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, seatTypes)
}

// DeleteSeatType removes a seat type
// DELETE /api/v1/seat-types/:seatTypeId
func (h *SeatTypeHandler) DeleteSeatType(c *gin.Context) {
	if err := h.seatTypeRepo.Delete(c.Param("seatTypeId")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
