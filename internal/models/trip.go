package models

import (
	"errors"
	"time"
)

// TripStatus represents the lifecycle status of a trip
type TripStatus string

const (
	TripStatusScheduled TripStatus = "scheduled"
	TripStatusCancelled TripStatus = "cancelled"
	TripStatusCompleted TripStatus = "completed"
)

// ValidTripStatus reports whether s is a known trip status
func ValidTripStatus(s string) bool {
	switch TripStatus(s) {
	case TripStatusScheduled, TripStatusCancelled, TripStatusCompleted:
		return true
	}
	return false
}

// Trip represents a scheduled, time-bounded journey of one bus along one
// route. AvailableSeats is a cached count maintained transactionally by
// seat transitions so that searches never have to aggregate seat states.
type Trip struct {
	ID             string     `json:"id" db:"id"`
	OperatorID     string     `json:"operator_id" db:"operator_id"`
	RouteID        string     `json:"route_id" db:"route_id"`
	BusID          string     `json:"bus_id" db:"bus_id"`
	DepartureTime  time.Time  `json:"departure_time" db:"departure_time"`
	ArrivalTime    time.Time  `json:"arrival_time" db:"arrival_time"`
	Price          float64    `json:"price" db:"price"`
	AvailableSeats int        `json:"available_seats" db:"available_seats"`
	Status         TripStatus `json:"status" db:"status"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// IsCancelled reports whether the trip has been cancelled
func (t *Trip) IsCancelled() bool {
	return t.Status == TripStatusCancelled
}

// TripRequest is used to create or update a trip
type TripRequest struct {
	RouteID       string    `json:"route_id" binding:"required"`
	BusID         string    `json:"bus_id" binding:"required"`
	DepartureTime time.Time `json:"departure_time" binding:"required"`
	ArrivalTime   time.Time `json:"arrival_time" binding:"required"`
	Price         float64   `json:"price" binding:"required,gt=0"`
	Status        *string   `json:"status,omitempty"` // optional, defaults to scheduled
}

// Validate validates the trip request. Zero-length or inverted windows are
// rejected here so the conflict detector never sees a degenerate interval.
func (r *TripRequest) Validate() error {
	if r.RouteID == "" {
		return errors.New("route_id is required")
	}
	if r.BusID == "" {
		return errors.New("bus_id is required")
	}
	if r.DepartureTime.IsZero() || r.ArrivalTime.IsZero() {
		return errors.New("departure_time and arrival_time are required")
	}
	if !r.ArrivalTime.After(r.DepartureTime) {
		return errors.New("arrival_time must be after departure_time")
	}
	if r.Price <= 0 {
		return errors.New("price must be positive")
	}
	if r.Status != nil && !ValidTripStatus(*r.Status) {
		return errors.New("status must be one of scheduled, cancelled, completed")
	}
	return nil
}
