package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roadlink/trip-inventory-backend/internal/database"
	"github.com/roadlink/trip-inventory-backend/internal/models"
)

// OperatorHandler exposes operator reference data endpoints
type OperatorHandler struct {
	operatorRepo *database.OperatorRepository
	logger       *logrus.Logger
}

// NewOperatorHandler creates a new OperatorHandler
func NewOperatorHandler(operatorRepo *database.OperatorRepository, logger *logrus.Logger) *OperatorHandler {
	return &OperatorHandler{operatorRepo: operatorRepo, logger: logger}
}

// CreateOperator creates an operator
// POST /api/v1/operators
func (h *OperatorHandler) CreateOperator(c *gin.Context) {
	var req models.OperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondBindError(c, err)
		return
	}

	operator, err := h.operatorRepo.Create(&req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, operator)
}

// GetAllOperators lists all operators
// GET /api/v1/operators
func (h *OperatorHandler) GetAllOperators(c *gin.Context) {
	operators, err := h.operatorRepo.GetAll()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, operators)
}

// GetOperatorByID returns one operator
// GET /api/v1/operators/:operatorId
func (h *OperatorHandler) GetOperatorByID(c *gin.Context) {
	operator, err := h.operatorRepo.GetByID(c.Param("operatorId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, operator)
}

// UpdateOperator updates an operator
// PUT /api/v1/operators/:operatorId
func (h *OperatorHandler) UpdateOperator(c *gin.Context) {
	var req models.OperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondBindError(c, err)
		return
	}

	operator, err := h.operatorRepo.Update(c.Param("operatorId"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, operator)
}

// DeleteOperator removes an operator
// DELETE /api/v1/operators/:operatorId
func (h *OperatorHandler) DeleteOperator(c *gin.Context) {
	if err := h.operatorRepo.Delete(c.Param("operatorId")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
