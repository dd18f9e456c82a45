package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roadlink/trip-inventory-backend/internal/database"
	"github.com/roadlink/trip-inventory-backend/internal/models"
)

// RouteHandler exposes route reference data endpoints
type RouteHandler struct {
	routeRepo    *database.RouteRepository
	operatorRepo *database.OperatorRepository
	logger       *logrus.Logger
}

// NewRouteHandler creates a new RouteHandler
func NewRouteHandler(routeRepo *database.RouteRepository, operatorRepo *database.OperatorRepository, logger *logrus.Logger) *RouteHandler {
	return &RouteHandler{routeRepo: routeRepo, operatorRepo: operatorRepo, logger: logger}
}

// CreateRoute creates a route for an operator
// POST /api/v1/routes
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	var req models.RouteRequest
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

	route, err := h.routeRepo.Create(&req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, route)
}

// GetAllRoutes lists routes, optionally filtered by operator
// GET /api/v1/routes?operator_id=...
func (h *RouteHandler) GetAllRoutes(c *gin.Context) {
	var (
		routes []models.Route
		err    error
	)

	if operatorID := c.Query("operator_id"); operatorID != "" {
		routes, err = h.routeRepo.GetByOperatorID(operatorID)
	} else {
		routes, err = h.routeRepo.GetAll()
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, routes)
}

// GetRouteByID returns one route
// GET /api/v1/routes/:routeId
func (h *RouteHandler) GetRouteByID(c *gin.Context) {
	route, err := h.routeRepo.GetByID(c.Param("routeId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, route)
}

// DeleteRoute removes a route
// DELETE /api/v1/routes/:routeId
func (h *RouteHandler) DeleteRoute(c *gin.Context) {
	if err := h.routeRepo.Delete(c.Param("routeId")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
