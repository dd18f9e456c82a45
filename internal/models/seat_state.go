package models

import (
	"errors"
	"time"
)

// SeatStateValue represents the booking status of one physical seat
// for one specific trip
type SeatStateValue string

const (
	SeatStateAvailable SeatStateValue = "available"
	SeatStateLocked    SeatStateValue = "locked"
	SeatStateBooked    SeatStateValue = "booked"
)

// ValidSeatState reports whether s is a known seat state
func ValidSeatState(s string) bool {
	switch SeatStateValue(s) {
	case SeatStateAvailable, SeatStateLocked, SeatStateBooked:
		return true
	}
	return false
}

// CanTransition reports whether from -> to is a legal seat transition.
// Booked is terminal; it is only reversed by trip cancellation, which is
// a bulk operation rather than a per-seat transition.
func CanTransition(from, to SeatStateValue) bool {
	switch from {
	case SeatStateAvailable:
		return to == SeatStateLocked || to == SeatStateBooked
	case SeatStateLocked:
		return to == SeatStateAvailable || to == SeatStateBooked
	}
	return false
}

// SeatState is the per-trip booking status of one physical seat.
// Exactly one row exists per (trip, seat) pair for the lifetime of the
// trip; only the state column mutates after creation.
type SeatState struct {
	ID        string         `json:"id" db:"id"`
	TripID    string         `json:"trip_id" db:"trip_id"`
	SeatID    string         `json:"seat_id" db:"seat_id"`
	State     SeatStateValue `json:"state" db:"state"`
	LockedAt  *time.Time     `json:"locked_at,omitempty" db:"locked_at"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// TransitionRequest asks for a single seat's state to change. From is the
// state the caller last observed; the transition fails with a state
// conflict if the recorded state differs.
type TransitionRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// Validate validates the transition request
func (r *TransitionRequest) Validate() error {
	if !ValidSeatState(r.From) {
		return errors.New("from must be one of available, locked, booked")
	}
	if !ValidSeatState(r.To) {
		return errors.New("to must be one of available, locked, booked")
	}
	if !CanTransition(SeatStateValue(r.From), SeatStateValue(r.To)) {
		return errors.New("illegal transition " + r.From + " -> " + r.To)
	}
	return nil
}

// SeatMapSeat is one seat in a trip's seat map, combining the physical
// position with the trip-scoped status and flat price
type SeatMapSeat struct {
	SeatID   string  `json:"seat_id"`
	SeatCode string  `json:"seat_code"`
	SeatType string  `json:"seat_type"`
	GridRow  int     `json:"grid_row"`
	GridCol  int     `json:"grid_col"`
	Deck     int     `json:"deck"`
	Price    float64 `json:"price"`
	Status   string  `json:"status"`
}

// SeatMap is the full seat layout of a trip's bus annotated with per-trip
// availability. Grid bounds are the maxima observed across seats, not the
// bus's nominal capacity, so sparse or gapped layouts render correctly.
type SeatMap struct {
	TripID     string        `json:"trip_id"`
	GridRows   int           `json:"grid_rows"`
	GridCols   int           `json:"grid_cols"`
	TotalDecks int           `json:"total_decks"`
	Seats      []SeatMapSeat `json:"seats"`
}
