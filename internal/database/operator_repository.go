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

// OperatorRepository handles operators database operations
type OperatorRepository struct {
	db *sqlx.DB
}

// NewOperatorRepository creates a new OperatorRepository
func NewOperatorRepository(db *sqlx.DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

// Create inserts a new operator
func (r *OperatorRepository) Create(req *models.OperatorRequest) (*models.Operator, error) {
	query := `
		INSERT INTO operators (id, name, contact_email, contact_phone, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id, name, contact_email, contact_phone, rating, created_at, updated_at
	`

	var operator models.Operator
	err := r.db.Get(&operator, query,
		uuid.New().String(), req.Name, req.ContactEmail, req.ContactPhone, req.Rating, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create operator: %w", err)
	}

	return &operator, nil
}

// GetByID returns an operator by id
func (r *OperatorRepository) GetByID(id string) (*models.Operator, error) {
	query := `
		SELECT id, name, contact_email, contact_phone, rating, created_at, updated_at
		FROM operators
		WHERE id = $1
	`

	var operator models.Operator
	err := r.db.Get(&operator, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("operator", id)
		}
		return nil, fmt.Errorf("failed to get operator: %w", err)
	}

	return &operator, nil
}

// GetAll returns all operators
func (r *OperatorRepository) GetAll() ([]models.Operator, error) {
	query := `
		SELECT id, name, contact_email, contact_phone, rating, created_at, updated_at
		FROM operators
		ORDER BY name
	`

	var operators []models.Operator
	err := r.db.Select(&operators, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list operators: %w", err)
	}

	return operators, nil
}

// Update overwrites an operator's mutable fields
func (r *OperatorRepository) Update(id string, req *models.OperatorRequest) (*models.Operator, error) {
	query := `
		UPDATE operators
		SET name = $2, contact_email = $3, contact_phone = $4, rating = $5, updated_at = $6
		WHERE id = $1
		RETURNING id, name, contact_email, contact_phone, rating, created_at, updated_at
	`

	var operator models.Operator
	err := r.db.Get(&operator, query, id, req.Name, req.ContactEmail, req.ContactPhone, req.Rating, time.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("operator", id)
		}
		return nil, fmt.Errorf("failed to update operator: %w", err)
	}

	return &operator, nil
}

// Delete removes an operator
func (r *OperatorRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM operators WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete operator: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return apperrors.NewNotFound("operator", id)
	}

	return nil
}
