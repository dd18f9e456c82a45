package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/roadlink/trip-inventory-backend/internal/apperrors"
	"github.com/roadlink/trip-inventory-backend/internal/models"
)

// SearchParams are the fully resolved predicates a catalogue search runs
// with. The service layer translates the caller-facing filter (calendar
// date, time-of-day bucket) into the DepartFrom/DepartTo window before it
// reaches the repository.
type SearchParams struct {
	Origin       string
	Destination  string
	DepartFrom   *time.Time
	DepartTo     *time.Time
	MinAvailable *int
	BusType      string
	MinPrice     *float64
	MaxPrice     *float64
	OperatorID   string
}

// SearchRepository evaluates trip catalogue queries
type SearchRepository struct {
	db *sqlx.DB
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db *sqlx.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

const searchFrom = `
	FROM trips t
	JOIN routes r ON r.id = t.route_id
	JOIN buses b ON b.id = t.bus_id
	JOIN operators o ON o.id = t.operator_id
`

// buildWhere assembles the WHERE clause from the set predicates. Unset
// fields contribute nothing; set fields are combined with AND.
func buildWhere(p SearchParams) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	add := func(condition string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if p.Origin != "" {
		add(`LOWER(r.origin) LIKE '%%' || LOWER($%d) || '%%'`, p.Origin)
	}
	if p.Destination != "" {
		add(`LOWER(r.destination) LIKE '%%' || LOWER($%d) || '%%'`, p.Destination)
	}
	if p.DepartFrom != nil {
		add(`t.departure_time >= $%d`, *p.DepartFrom)
	}
	if p.DepartTo != nil {
		add(`t.departure_time < $%d`, *p.DepartTo)
	}
	if p.MinAvailable != nil {
		add(`t.available_seats >= $%d`, *p.MinAvailable)
	}
	if p.BusType != "" {
		add(`LOWER(b.bus_type) = LOWER($%d)`, p.BusType)
	}
	if p.MinPrice != nil {
		add(`t.price >= $%d`, *p.MinPrice)
	}
	if p.MaxPrice != nil {
		add(`t.price <= $%d`, *p.MaxPrice)
	}
	if p.OperatorID != "" {
		add(`t.operator_id = $%d`, p.OperatorID)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// Count returns the total number of trips matching the predicates
func (r *SearchRepository) Count(p SearchParams) (int, error) {
	where, args := buildWhere(p)
	query := `SELECT COUNT(*) ` + searchFrom + where

	var count int
	err := r.db.Get(&count, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count trips: %w", err)
	}

	return count, nil
}

// Search returns one page of matching trips, ordered by departure time and
// then trip id so a fixed filter and page always yields the same slice.
func (r *SearchRepository) Search(p SearchParams, offset, limit int) ([]models.TripSummary, error) {
	where, args := buildWhere(p)

	query := `SELECT ` + searchColumns + searchFrom + where + fmt.Sprintf(`
		ORDER BY t.departure_time, t.id
		OFFSET $%d LIMIT $%d
	`, len(args)+1, len(args)+2)

	args = append(args, offset, limit)

	var rows []searchRow
	err := r.db.Select(&rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search trips: %w", err)
	}

	items := make([]models.TripSummary, len(rows))
	for i, row := range rows {
		items[i] = row.toSummary()
	}

	return items, nil
}

// GetTripSummary returns the summary view for a single trip
func (r *SearchRepository) GetTripSummary(tripID string) (*models.TripSummary, error) {
	query := `SELECT ` + searchColumns + searchFrom + `WHERE t.id = $1`

	var row searchRow
	err := r.db.Get(&row, query, tripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("trip", tripID)
		}
		return nil, fmt.Errorf("failed to get trip summary: %w", err)
	}

	summary := row.toSummary()
	return &summary, nil
}

const searchColumns = `t.id AS trip_id, t.status, t.departure_time, t.arrival_time,
	t.price, t.available_seats,
	r.origin, r.destination, r.estimated_minutes,
	o.name AS operator_name,
	b.model AS bus_model, b.bus_type, b.seat_capacity
`

type searchRow struct {
	TripID           string    `db:"trip_id"`
	Status           string    `db:"status"`
	DepartureTime    time.Time `db:"departure_time"`
	ArrivalTime      time.Time `db:"arrival_time"`
	Price            float64   `db:"price"`
	AvailableSeats   int       `db:"available_seats"`
	Origin           string    `db:"origin"`
	Destination      string    `db:"destination"`
	EstimatedMinutes int       `db:"estimated_minutes"`
	OperatorName     string    `db:"operator_name"`
	BusModel         string    `db:"bus_model"`
	BusType          string    `db:"bus_type"`
	SeatCapacity     int       `db:"seat_capacity"`
}

func (row searchRow) toSummary() models.TripSummary {
	return models.TripSummary{
		TripID: row.TripID,
		Status: row.Status,
		Route: models.RouteSummary{
			Origin:          row.Origin,
			Destination:     row.Destination,
			DurationMinutes: row.EstimatedMinutes,
		},
		Operator: models.OperatorSummary{Name: row.OperatorName},
		Bus: models.BusSummary{
			Model:   row.BusModel,
			BusType: row.BusType,
		},
		Schedule: models.ScheduleSummary{
			DepartureTime: row.DepartureTime,
			ArrivalTime:   row.ArrivalTime,
		},
		Pricing:      models.PricingSummary{BasePrice: row.Price},
		Availability: models.AvailabilitySummary{TotalSeats: row.SeatCapacity, AvailableSeats: row.AvailableSeats},
	}
}
