package models

import (
	"errors"
	"time"
)

// SeatType represents a named seat category owned by an operator,
// e.g. "standard", "sleeper", "vip". Custom seat layouts may only
// reference types that exist for the bus's operator.
type SeatType struct {
	ID          string    `json:"id" db:"id"`
	OperatorID  string    `json:"operator_id" db:"operator_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Surcharge   float64   `json:"surcharge" db:"surcharge"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// SeatTypeRequest is used to create a seat type
type SeatTypeRequest struct {
	OperatorID  string  `json:"operator_id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
	Surcharge   float64 `json:"surcharge"`
}

// Validate validates the seat type request
func (r *SeatTypeRequest) Validate() error {
	if r.OperatorID == "" {
		return errors.New("operator_id is required")
	}
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.Surcharge < 0 {
		return errors.New("surcharge must not be negative")
	}
	return nil
}
