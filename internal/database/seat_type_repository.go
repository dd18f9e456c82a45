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

// SeatTypeRepository handles seat_types database operations
type SeatTypeRepository struct {
	db *sqlx.DB
}

// NewSeatTypeRepository creates a new SeatTypeRepository
func NewSeatTypeRepository(db *sqlx.DB) *SeatTypeRepository {
	return &SeatTypeRepository{db: db}
}

// Create inserts a new seat type
func (r *SeatTypeRepository) Create(req *models.SeatTypeRequest) (*models.SeatType, error) {
	query := `
		INSERT INTO seat_types (id, operator_id, name, description, surcharge, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id, operator_id, name, description, surcharge, created_at, updated_at
	`

	var seatType models.SeatType
	err := r.db.Get(&seatType, query,
		uuid.New().String(), req.OperatorID, req.Name, req.Description, req.Surcharge, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create seat type: %w", err)
	}

	return &seatType, nil
}

// GetByNameAndOperator returns a seat type by (name, operator) with a
// case-insensitive name match
func (r *SeatTypeRepository) GetByNameAndOperator(name, operatorID string) (*models.SeatType, error) {
	query := `
		SELECT id, operator_id, name, description, surcharge, created_at, updated_at
		FROM seat_types
		WHERE LOWER(name) = LOWER($1) AND operator_id = $2
	`

	var seatType models.SeatType
	err := r.db.Get(&seatType, query, name, operatorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperrors.UnknownSeatTypeError{TypeName: name, OperatorID: operatorID}
		}
		return nil, fmt.Errorf("failed to get seat type: %w", err)
	}

	return &seatType, nil
}

// GetByOperatorID returns all seat types owned by an operator
func (r *SeatTypeRepository) GetByOperatorID(operatorID string) ([]models.SeatType, error) {
	query := `
		SELECT id, operator_id, name, description, surcharge, created_at, updated_at
		FROM seat_types
		WHERE operator_id = $1
		ORDER BY name
	`

	var seatTypes []models.SeatType
	err := r.db.Select(&seatTypes, query, operatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seat types: %w", err)
	}

	return seatTypes, nil
}

// Delete removes a seat type
func (r *SeatTypeRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM seat_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete seat type: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return apperrors.NewNotFound("seat type", id)
	}

	return nil
}
