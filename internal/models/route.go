package models

import (
	"errors"
	"time"
)

// Route represents a fixed origin/destination pair served by an operator.
// Routes are immutable reference data once created.
type Route struct {
	ID               string    `json:"id" db:"id"`
	OperatorID       string    `json:"operator_id" db:"operator_id"`
	Origin           string    `json:"origin" db:"origin"`
	Destination      string    `json:"destination" db:"destination"`
	DistanceKm       int       `json:"distance_km" db:"distance_km"`
	EstimatedMinutes int       `json:"estimated_minutes" db:"estimated_minutes"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// RouteRequest is used to create a route
type RouteRequest struct {
	OperatorID       string `json:"operator_id" binding:"required"`
	Origin           string `json:"origin" binding:"required"`
	Destination      string `json:"destination" binding:"required"`
	DistanceKm       int    `json:"distance_km"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

// Validate validates the route request
func (r *RouteRequest) Validate() error {
	if r.OperatorID == "" {
		return errors.New("operator_id is required")
	}
	if r.Origin == "" || r.Destination == "" {
		return errors.New("origin and destination are required")
	}
	if r.DistanceKm < 0 {
		return errors.New("distance_km must not be negative")
	}
	if r.EstimatedMinutes < 0 {
		return errors.New("estimated_minutes must not be negative")
	}
	return nil
}
