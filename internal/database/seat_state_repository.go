package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/roadlink/trip-inventory-backend/internal/apperrors"
	"github.com/roadlink/trip-inventory-backend/internal/models"
)

const seatStateColumns = `id, trip_id, seat_id, state, locked_at, created_at, updated_at`

// SeatStateRepository handles seat_states database operations. The
// Transition method carries the compare-and-swap contract that prevents
// double booking: the state write is guarded by the expected prior state,
// and the trip's cached available-seat count moves in the same transaction.
type SeatStateRepository struct {
	db *sqlx.DB
}

// NewSeatStateRepository creates a new SeatStateRepository
func NewSeatStateRepository(db *sqlx.DB) *SeatStateRepository {
	return &SeatStateRepository{db: db}
}

// GetByTripID returns all seat states for a trip
func (r *SeatStateRepository) GetByTripID(tripID string) ([]models.SeatState, error) {
	query := `SELECT ` + seatStateColumns + ` FROM seat_states WHERE trip_id = $1`

	var states []models.SeatState
	err := r.db.Select(&states, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seat states: %w", err)
	}

	return states, nil
}

// GetByTripAndSeat returns the seat state for one (trip, seat) pair
func (r *SeatStateRepository) GetByTripAndSeat(tripID, seatID string) (*models.SeatState, error) {
	query := `SELECT ` + seatStateColumns + ` FROM seat_states WHERE trip_id = $1 AND seat_id = $2`

	var state models.SeatState
	err := r.db.Get(&state, query, tripID, seatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("seat state", tripID+"/"+seatID)
		}
		return nil, fmt.Errorf("failed to get seat state: %w", err)
	}

	return &state, nil
}

// GetSeatMapRows returns every physical seat of the bus left-joined with
// the trip's seat states. Seats with no recorded state read as available.
func (r *SeatStateRepository) GetSeatMapRows(tripID, busID string) ([]models.SeatMapSeat, error) {
	query := `
		SELECT s.id AS seat_id, s.seat_code, s.seat_type, s.grid_row, s.grid_col,
		       s.deck_number AS deck, COALESCE(ss.state, 'available') AS status
		FROM seats s
		LEFT JOIN seat_states ss ON ss.seat_id = s.id AND ss.trip_id = $1
		WHERE s.bus_id = $2
		ORDER BY s.deck_number, s.grid_row, s.grid_col
	`

	type seatMapRow struct {
		SeatID   string `db:"seat_id"`
		SeatCode string `db:"seat_code"`
		SeatType string `db:"seat_type"`
		GridRow  int    `db:"grid_row"`
		GridCol  int    `db:"grid_col"`
		Deck     int    `db:"deck"`
		Status   string `db:"status"`
	}

	var rows []seatMapRow
	err := r.db.Select(&rows, query, tripID, busID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seat map: %w", err)
	}

	seats := make([]models.SeatMapSeat, len(rows))
	for i, row := range rows {
		seats[i] = models.SeatMapSeat{
			SeatID:   row.SeatID,
			SeatCode: row.SeatCode,
			SeatType: row.SeatType,
			GridRow:  row.GridRow,
			GridCol:  row.GridCol,
			Deck:     row.Deck,
			Status:   row.Status,
		}
	}

	return seats, nil
}

// Transition moves one seat from the expected prior state to the target
// state. The UPDATE is guarded by the expected state; when it matches no
// row, exactly one of two things is true: the pair does not exist (not
// found) or another caller won the race (state conflict). Transitions into
// or out of booked adjust the trip's available_seats in the same
// transaction, keeping the cached count consistent with the seat states.
func (r *SeatStateRepository) Transition(tripID, seatID string, from, to models.SeatStateValue) (*models.SeatState, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	update := `
		UPDATE seat_states
		SET state = $4,
		    locked_at = CASE WHEN $4 = 'locked' THEN NOW() ELSE NULL END,
		    updated_at = NOW()
		WHERE trip_id = $1 AND seat_id = $2 AND state = $3
		RETURNING ` + seatStateColumns

	var state models.SeatState
	err = tx.Get(&state, update, tripID, seatID, from, to)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.transitionFailure(tx, tripID, seatID, from)
		}
		return nil, fmt.Errorf("failed to transition seat: %w", err)
	}

	if to == models.SeatStateBooked && from != models.SeatStateBooked {
		if err := adjustAvailableSeats(tx, tripID, -1); err != nil {
			return nil, err
		}
	}
	if from == models.SeatStateBooked && to != models.SeatStateBooked {
		if err := adjustAvailableSeats(tx, tripID, +1); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit seat transition: %w", err)
	}

	return &state, nil
}

// transitionFailure distinguishes a missing (trip, seat) pair from a lost
// compare-and-swap race and builds the matching error.
func (r *SeatStateRepository) transitionFailure(tx *sqlx.Tx, tripID, seatID string, expected models.SeatStateValue) error {
	var actual string
	err := tx.Get(&actual, `SELECT state FROM seat_states WHERE trip_id = $1 AND seat_id = $2`, tripID, seatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFound("seat state", tripID+"/"+seatID)
		}
		return fmt.Errorf("failed to read seat state: %w", err)
	}

	return &apperrors.StateConflictError{
		TripID:   tripID,
		SeatID:   seatID,
		Expected: string(expected),
		Actual:   actual,
	}
}

func adjustAvailableSeats(tx *sqlx.Tx, tripID string, delta int) error {
	result, err := tx.Exec(
		`UPDATE trips SET available_seats = available_seats + $2, updated_at = NOW() WHERE id = $1`,
		tripID, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust available seats: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return apperrors.NewNotFound("trip", tripID)
	}

	return nil
}

// FindExpiredLocks returns seat states that have been locked since before
// the cutoff. The expiry sweeper releases them through Transition, so an
// in-flight booking that just confirmed a lock is never clobbered.
func (r *SeatStateRepository) FindExpiredLocks(cutoff time.Time, limit int) ([]models.SeatState, error) {
	query := `
		SELECT ` + seatStateColumns + `
		FROM seat_states
		WHERE state = 'locked' AND locked_at < $1
		ORDER BY locked_at
		LIMIT $2
	`

	var states []models.SeatState
	err := r.db.Select(&states, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find expired locks: %w", err)
	}

	return states, nil
}

// CountByState returns how many seat states a trip has in the given state
func (r *SeatStateRepository) CountByState(tripID string, state models.SeatStateValue) (int, error) {
	var count int
	err := r.db.Get(&count,
		`SELECT COUNT(*) FROM seat_states WHERE trip_id = $1 AND state = $2`, tripID, state)
	if err != nil {
		return 0, fmt.Errorf("failed to count seat states: %w", err)
	}

	return count, nil
}
