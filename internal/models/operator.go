package models

import (
	"errors"
	"time"
)

// Operator represents a bus company that owns vehicles, routes and seat types
type Operator struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	ContactEmail string    `json:"contact_email" db:"contact_email"`
	ContactPhone string    `json:"contact_phone" db:"contact_phone"`
	Rating       *float64  `json:"rating,omitempty" db:"rating"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// OperatorRequest is used to create or update an operator
type OperatorRequest struct {
	Name         string   `json:"name" binding:"required"`
	ContactEmail string   `json:"contact_email"`
	ContactPhone string   `json:"contact_phone"`
	Rating       *float64 `json:"rating,omitempty"`
}

// Validate validates the operator request
func (r *OperatorRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.Rating != nil && (*r.Rating < 0 || *r.Rating > 5) {
		return errors.New("rating must be between 0 and 5")
	}
	return nil
}
