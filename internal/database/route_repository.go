package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/roadlink/trip-inventory-backend/internal/apperrors"
	"github.com/roadlink/trip-inventory-backend/internal/models"
)

// RouteRepository handles routes database operations
type RouteRepository struct {
	db *sqlx.DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db *sqlx.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Create inserts a new route
func (r *RouteRepository) Create(req *models.RouteRequest) (*models.Route, error) {
	query := `
		INSERT INTO routes (id, operator_id, origin, destination, distance_km, estimated_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id, operator_id, origin, destination, distance_km, estimated_minutes, created_at, updated_at
	`

	var route models.Route
	err := r.db.Get(&route, query,
		uuid.New().String(), req.OperatorID, req.Origin, req.Destination,
		req.DistanceKm, req.EstimatedMinutes, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create route: %w", err)
	}

	return &route, nil
}

// GetByID returns a route by id
func (r *RouteRepository) GetByID(id string) (*models.Route, error) {
	query := `
		SELECT id, operator_id, origin, destination, distance_km, estimated_minutes, created_at, updated_at
		FROM routes
		WHERE id = $1
	`

	var route models.Route
	err := r.db.Get(&route, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("route", id)
		}
		return nil, fmt.Errorf("failed to get route: %w", err)
	}

	return &route, nil
}

// GetByOperatorID returns all routes owned by an operator
func (r *RouteRepository) GetByOperatorID(operatorID string) ([]models.Route, error) {
	query := `
		SELECT id, operator_id, origin, destination, distance_km, estimated_minutes, created_at, updated_at
		FROM routes
		WHERE operator_id = $1
		ORDER BY origin, destination
	`

	var routes []models.Route
	err := r.db.Select(&routes, query, operatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	return routes, nil
}

// GetAll returns all routes
func (r *RouteRepository) GetAll() ([]models.Route, error) {
	query := `
		SELECT id, operator_id, origin, destination, distance_km, estimated_minutes, created_at, updated_at
		FROM routes
		ORDER BY origin, destination
	`

	var routes []models.Route
	err := r.db.Select(&routes, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	return routes, nil
}

// Delete removes a route
func (r *RouteRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM routes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete route: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return apperrors.NewNotFound("route", id)
	}

	return nil
}
