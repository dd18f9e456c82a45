package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/roadlink/trip-inventory-backend/internal/apperrors"
	"github.com/roadlink/trip-inventory-backend/internal/models"
)

// BusRepository handles buses and seats database operations
type BusRepository struct {
	db *sqlx.DB
}

// NewBusRepository creates a new BusRepository
func NewBusRepository(db *sqlx.DB) *BusRepository {
	return &BusRepository{db: db}
}

// Create inserts a new bus
func (r *BusRepository) Create(req *models.BusRequest) (*models.Bus, error) {
	query := `
		INSERT INTO buses (id, operator_id, plate_number, model, bus_type, seat_capacity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id, operator_id, plate_number, model, bus_type, seat_capacity, created_at, updated_at
	`

	var bus models.Bus
	err := r.db.Get(&bus, query,
		uuid.New().String(), req.OperatorID, req.PlateNumber, req.Model,
		req.BusType, req.SeatCapacity, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create bus: %w", err)
	}

	return &bus, nil
}

// GetByID returns a bus by id
func (r *BusRepository) GetByID(id string) (*models.Bus, error) {
	query := `
		SELECT id, operator_id, plate_number, model, bus_type, seat_capacity, created_at, updated_at
		FROM buses
		WHERE id = $1
	`

	var bus models.Bus
	err := r.db.Get(&bus, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("bus", id)
		}
		return nil, fmt.Errorf("failed to get bus: %w", err)
	}

	return &bus, nil
}

// GetAll returns all buses
func (r *BusRepository) GetAll() ([]models.Bus, error) {
	query := `
		SELECT id, operator_id, plate_number, model, bus_type, seat_capacity, created_at, updated_at
		FROM buses
		ORDER BY plate_number
	`

	var buses []models.Bus
	err := r.db.Select(&buses, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list buses: %w", err)
	}

	return buses, nil
}

// Update overwrites a bus's mutable fields. Seat capacity is only changed
// through layout operations, not here.
func (r *BusRepository) Update(id string, req *models.BusRequest) (*models.Bus, error) {
	query := `
		UPDATE buses
		SET operator_id = $2, plate_number = $3, model = $4, bus_type = $5, updated_at = $6
		WHERE id = $1
		RETURNING id, operator_id, plate_number, model, bus_type, seat_capacity, created_at, updated_at
	`

	var bus models.Bus
	err := r.db.Get(&bus, query, id, req.OperatorID, req.PlateNumber, req.Model, req.BusType, time.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("bus", id)
		}
		return nil, fmt.Errorf("failed to update bus: %w", err)
	}

	return &bus, nil
}

// Delete removes a bus and its seats
func (r *BusRepository) Delete(id string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM seats WHERE bus_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete seats: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM buses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bus: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return apperrors.NewNotFound("bus", id)
	}

	return tx.Commit()
}

// GetSeatsByBusID returns all physical seats of a bus in grid order
func (r *BusRepository) GetSeatsByBusID(busID string) ([]models.Seat, error) {
	query := `
		SELECT id, bus_id, seat_code, seat_type, grid_row, grid_col, deck_number, created_at
		FROM seats
		WHERE bus_id = $1
		ORDER BY deck_number, grid_row, grid_col
	`

	var seats []models.Seat
	err := r.db.Select(&seats, query, busID)
	if err != nil {
		return nil, fmt.Errorf("failed to get seats: %w", err)
	}

	return seats, nil
}

// CountSeats returns the number of physical seats stored for a bus
func (r *BusRepository) CountSeats(busID string) (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM seats WHERE bus_id = $1`, busID)
	if err != nil {
		return 0, fmt.Errorf("failed to count seats: %w", err)
	}

	return count, nil
}

// ReplaceSeatLayout atomically replaces a bus's entire seat layout: all
// prior seat rows are deleted, the new batch is inserted, and the bus's
// declared capacity is set to the new seat count. Either everything
// commits or nothing does. Seats still referenced by trip seat states
// cannot be deleted; that foreign key violation aborts the replacement
// and surfaces as a LayoutInUseError.
func (r *BusRepository) ReplaceSeatLayout(busID string, seats []models.Seat) ([]models.Seat, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM seats WHERE bus_id = $1`, busID); err != nil {
		if isForeignKeyViolation(err) {
			return nil, &apperrors.LayoutInUseError{BusID: busID}
		}
		return nil, fmt.Errorf("failed to delete existing seats: %w", err)
	}

	insertQuery := `
		INSERT INTO seats (id, bus_id, seat_code, seat_type, grid_row, grid_col, deck_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	now := time.Now()
	created := make([]models.Seat, 0, len(seats))
	for _, seat := range seats {
		if seat.ID == "" {
			seat.ID = uuid.New().String()
		}
		seat.BusID = busID
		seat.CreatedAt = now

		_, err := tx.Exec(insertQuery,
			seat.ID, seat.BusID, seat.SeatCode, seat.SeatType,
			seat.GridRow, seat.GridCol, seat.DeckNumber, seat.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert seat %s: %w", seat.SeatCode, err)
		}
		created = append(created, seat)
	}

	result, err := tx.Exec(
		`UPDATE buses SET seat_capacity = $2, updated_at = $3 WHERE id = $1`,
		busID, len(seats), now)
	if err != nil {
		return nil, fmt.Errorf("failed to update bus capacity: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return nil, apperrors.NewNotFound("bus", busID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit seat layout: %w", err)
	}

	return created, nil
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
