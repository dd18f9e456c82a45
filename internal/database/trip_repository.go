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

const tripColumns = `id, operator_id, route_id, bus_id, departure_time, arrival_time,
	price, available_seats, status, created_at, updated_at`

// TripRepository handles trips database operations. Multi-write operations
// (create, update, delete) own their transaction: conflict check, trip
// write and seat-state writes commit together or not at all. Concurrent
// creations for the same bus are serialized with a per-bus advisory lock
// so two overlapping windows can never both pass the conflict check.
type TripRepository struct {
	db *sqlx.DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

// GetByID returns a trip by id
func (r *TripRepository) GetByID(id string) (*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	var trip models.Trip
	err := r.db.Get(&trip, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("trip", id)
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return &trip, nil
}

// FindConflict returns the first non-cancelled trip for the bus whose
// [departure, arrival) window overlaps the proposed one, or nil when the
// bus is free. excludeTripID removes a trip from the comparison set so an
// update does not conflict with itself.
func (r *TripRepository) FindConflict(busID string, start, end time.Time, excludeTripID *string) (*models.Trip, error) {
	return r.findConflict(r.db, busID, start, end, excludeTripID)
}

func (r *TripRepository) findConflict(q sqlx.Queryer, busID string, start, end time.Time, excludeTripID *string) (*models.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE bus_id = $1
		  AND status <> 'cancelled'
		  AND departure_time < $3
		  AND arrival_time > $2
	`
	args := []interface{}{busID, start, end}

	if excludeTripID != nil {
		query += ` AND id <> $4`
		args = append(args, *excludeTripID)
	}
	query += ` ORDER BY departure_time LIMIT 1`

	var trip models.Trip
	err := sqlx.Get(q, &trip, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check trip conflicts: %w", err)
	}

	return &trip, nil
}

// lockBus takes a transaction-scoped advisory lock keyed on the bus id,
// serializing conflict checks against the same bus across connections.
func lockBus(tx *sqlx.Tx, busID string) error {
	if _, err := tx.Exec(`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, busID); err != nil {
		return fmt.Errorf("failed to lock bus %s: %w", busID, err)
	}
	return nil
}

// initSeatStates creates exactly one seat-state row per physical seat of
// the bus and returns the resulting available count. prefillRatio marks
// that fraction of seats booked up front; it is only used by seed data.
func initSeatStates(tx *sqlx.Tx, tripID, busID string, prefillRatio float64) (int, error) {
	insert := `
		INSERT INTO seat_states (id, trip_id, seat_id, state, created_at, updated_at)
		SELECT gen_random_uuid(), $1, s.id,
		       CASE WHEN random() < $3 THEN 'booked' ELSE 'available' END,
		       NOW(), NOW()
		FROM seats s
		WHERE s.bus_id = $2
	`
	if _, err := tx.Exec(insert, tripID, busID, prefillRatio); err != nil {
		return 0, fmt.Errorf("failed to initialize seat states: %w", err)
	}

	var available int
	err := tx.Get(&available,
		`SELECT COUNT(*) FROM seat_states WHERE trip_id = $1 AND state = 'available'`, tripID)
	if err != nil {
		return 0, fmt.Errorf("failed to count available seats: %w", err)
	}

	return available, nil
}

// CreateWithInventory inserts the trip and its full seat-state batch in one
// transaction. The conflict check is re-run under the bus advisory lock so
// a concurrent overlapping create observes this trip before committing.
func (r *TripRepository) CreateWithInventory(trip *models.Trip, prefillRatio float64) (*models.Trip, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockBus(tx, trip.BusID); err != nil {
		return nil, err
	}

	conflict, err := r.findConflict(tx, trip.BusID, trip.DepartureTime, trip.ArrivalTime, nil)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, &apperrors.ScheduleConflictError{
			BusID:         trip.BusID,
			WindowStart:   trip.DepartureTime,
			WindowEnd:     trip.ArrivalTime,
			ConflictStart: conflict.DepartureTime,
			ConflictEnd:   conflict.ArrivalTime,
		}
	}

	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	now := time.Now()

	insert := `
		INSERT INTO trips (id, operator_id, route_id, bus_id, departure_time, arrival_time,
			price, available_seats, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`
	_, err = tx.Exec(insert,
		trip.ID, trip.OperatorID, trip.RouteID, trip.BusID,
		trip.DepartureTime, trip.ArrivalTime, trip.Price,
		trip.AvailableSeats, trip.Status, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert trip: %w", err)
	}

	available, err := initSeatStates(tx, trip.ID, trip.BusID, prefillRatio)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(`UPDATE trips SET available_seats = $2 WHERE id = $1`, trip.ID, available); err != nil {
		return nil, fmt.Errorf("failed to set available seats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit trip: %w", err)
	}

	trip.AvailableSeats = available
	trip.CreatedAt = now
	trip.UpdatedAt = now
	return trip, nil
}

// UpdateWithInventory overwrites the trip's route/bus/schedule/price/status
// in one transaction, re-running the conflict check with the trip itself
// excluded. When regenerateSeats is set (the bus assignment changed), the
// old seat-state rows are dropped and a fresh batch is created for the new
// bus's layout, so the inventory always matches the assigned vehicle.
func (r *TripRepository) UpdateWithInventory(trip *models.Trip, regenerateSeats bool) (*models.Trip, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockBus(tx, trip.BusID); err != nil {
		return nil, err
	}

	conflict, err := r.findConflict(tx, trip.BusID, trip.DepartureTime, trip.ArrivalTime, &trip.ID)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, &apperrors.ScheduleConflictError{
			BusID:         trip.BusID,
			WindowStart:   trip.DepartureTime,
			WindowEnd:     trip.ArrivalTime,
			ConflictStart: conflict.DepartureTime,
			ConflictEnd:   conflict.ArrivalTime,
		}
	}

	now := time.Now()
	update := `
		UPDATE trips
		SET operator_id = $2, route_id = $3, bus_id = $4, departure_time = $5,
			arrival_time = $6, price = $7, status = $8, updated_at = $9
		WHERE id = $1
	`
	result, err := tx.Exec(update,
		trip.ID, trip.OperatorID, trip.RouteID, trip.BusID,
		trip.DepartureTime, trip.ArrivalTime, trip.Price, trip.Status, now)
	if err != nil {
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return nil, apperrors.NewNotFound("trip", trip.ID)
	}

	if regenerateSeats {
		if _, err := tx.Exec(`DELETE FROM seat_states WHERE trip_id = $1`, trip.ID); err != nil {
			return nil, fmt.Errorf("failed to delete stale seat states: %w", err)
		}

		available, err := initSeatStates(tx, trip.ID, trip.BusID, 0)
		if err != nil {
			return nil, err
		}

		if _, err := tx.Exec(`UPDATE trips SET available_seats = $2 WHERE id = $1`, trip.ID, available); err != nil {
			return nil, fmt.Errorf("failed to set available seats: %w", err)
		}
		trip.AvailableSeats = available
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit trip update: %w", err)
	}

	trip.UpdatedAt = now
	return trip, nil
}

// DeleteWithInventory removes the trip and all of its seat-state rows in
// one transaction
func (r *TripRepository) DeleteWithInventory(tripID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM seat_states WHERE trip_id = $1`, tripID); err != nil {
		return fmt.Errorf("failed to delete seat states: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM trips WHERE id = $1`, tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return apperrors.NewNotFound("trip", tripID)
	}

	return tx.Commit()
}
