package models

import (
	"errors"
	"fmt"
	"time"
)

// Bus represents a physical vehicle with a committed seat layout.
// Once a layout is committed, SeatCapacity always equals the number
// of seat rows stored for the bus.
type Bus struct {
	ID           string    `json:"id" db:"id"`
	OperatorID   string    `json:"operator_id" db:"operator_id"`
	PlateNumber  string    `json:"plate_number" db:"plate_number"`
	Model        string    `json:"model" db:"model"`
	BusType      string    `json:"bus_type" db:"bus_type"` // standard, sleeper, limousine
	SeatCapacity int       `json:"seat_capacity" db:"seat_capacity"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Seat represents one physical seat position fixed to a bus,
// independent of any trip. Seats are replaced as a whole batch when
// a layout changes, never edited individually.
type Seat struct {
	ID         string    `json:"id" db:"id"`
	BusID      string    `json:"bus_id" db:"bus_id"`
	SeatCode   string    `json:"seat_code" db:"seat_code"` // e.g. A01, B12, VIP-3
	SeatType   string    `json:"seat_type" db:"seat_type"`
	GridRow    int       `json:"grid_row" db:"grid_row"`
	GridCol    int       `json:"grid_col" db:"grid_col"`
	DeckNumber int       `json:"deck_number" db:"deck_number"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// BusRequest is used to create or update a bus
type BusRequest struct {
	OperatorID   string `json:"operator_id" binding:"required"`
	PlateNumber  string `json:"plate_number" binding:"required"`
	Model        string `json:"model"`
	BusType      string `json:"bus_type" binding:"required"`
	SeatCapacity int    `json:"seat_capacity" binding:"required,gt=0"`
}

// Validate validates the bus request
func (r *BusRequest) Validate() error {
	if r.OperatorID == "" {
		return errors.New("operator_id is required")
	}
	if r.PlateNumber == "" {
		return errors.New("plate_number is required")
	}
	if r.BusType == "" {
		return errors.New("bus_type is required")
	}
	if r.SeatCapacity <= 0 {
		return errors.New("seat_capacity must be positive")
	}
	return nil
}

// SeatDefinition is one caller-supplied seat in a custom layout
type SeatDefinition struct {
	SeatCode string  `json:"seat_code" binding:"required"`
	GridRow  int     `json:"grid_row" binding:"required,min=1"`
	GridCol  int     `json:"grid_col" binding:"required,min=1"`
	Deck     int     `json:"deck"`
	SeatType *string `json:"seat_type,omitempty"` // defaults to the bus type when unset
}

// ReplaceSeatMapRequest replaces a bus's entire seat layout
type ReplaceSeatMapRequest struct {
	Seats []SeatDefinition `json:"seats" binding:"required,min=1"`
}

// Validate validates the custom layout definitions: codes must be unique
// within the bus and (row, col, deck) positions must not collide.
func (r *ReplaceSeatMapRequest) Validate() error {
	if len(r.Seats) == 0 {
		return errors.New("at least one seat definition is required")
	}
	codes := make(map[string]bool, len(r.Seats))
	positions := make(map[string]bool, len(r.Seats))
	for i, def := range r.Seats {
		if def.SeatCode == "" {
			return fmt.Errorf("seat %d: seat_code is required", i+1)
		}
		if def.GridRow < 1 || def.GridCol < 1 {
			return fmt.Errorf("seat %s: grid_row and grid_col must be 1-based", def.SeatCode)
		}
		deck := def.Deck
		if deck == 0 {
			deck = 1
		}
		if deck < 1 {
			return fmt.Errorf("seat %s: deck must be at least 1", def.SeatCode)
		}
		if codes[def.SeatCode] {
			return fmt.Errorf("duplicate seat code %s", def.SeatCode)
		}
		codes[def.SeatCode] = true
		pos := fmt.Sprintf("%d:%d:%d", deck, def.GridRow, def.GridCol)
		if positions[pos] {
			return fmt.Errorf("seat %s: position row %d col %d deck %d already taken",
				def.SeatCode, def.GridRow, def.GridCol, deck)
		}
		positions[pos] = true
	}
	return nil
}
