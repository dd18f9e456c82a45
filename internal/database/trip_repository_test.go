package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadlink/trip-inventory-backend/internal/apperrors"
	"github.com/roadlink/trip-inventory-backend/internal/models"
)

func tripRows(trip models.Trip) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "operator_id", "route_id", "bus_id", "departure_time", "arrival_time",
		"price", "available_seats", "status", "created_at", "updated_at",
	}).AddRow(
		trip.ID, trip.OperatorID, trip.RouteID, trip.BusID,
		trip.DepartureTime, trip.ArrivalTime, trip.Price,
		trip.AvailableSeats, string(trip.Status), trip.CreatedAt, trip.UpdatedAt,
	)
}

func TestFindConflict(t *testing.T) {
	sqlxDB, mock := newTestDB(t)
	repo := NewTripRepository(sqlxDB)

	busID := uuid.New().String()
	start := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	end := start.Add(12 * time.Hour)

	t.Run("Overlapping Trip Found", func(t *testing.T) {
		existing := models.Trip{
			ID:            uuid.New().String(),
			OperatorID:    uuid.New().String(),
			RouteID:       uuid.New().String(),
			BusID:         busID,
			DepartureTime: start.Add(-2 * time.Hour),
			ArrivalTime:   start.Add(2 * time.Hour),
			Price:         20,
			Status:        models.TripStatusScheduled,
		}

		mock.ExpectQuery(`SELECT (.+) FROM trips`).
			WithArgs(busID, start, end).
			WillReturnRows(tripRows(existing))

		conflict, err := repo.FindConflict(busID, start, end, nil)
		require.NoError(t, err)
		require.NotNil(t, conflict)
		assert.Equal(t, existing.ID, conflict.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Bus Free", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM trips`).
			WithArgs(busID, start, end).
			WillReturnError(sql.ErrNoRows)

		conflict, err := repo.FindConflict(busID, start, end, nil)
		require.NoError(t, err)
		assert.Nil(t, conflict)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Excluded Trip Does Not Conflict With Itself", func(t *testing.T) {
		selfID := uuid.New().String()

		mock.ExpectQuery(`SELECT (.+) FROM trips`).
			WithArgs(busID, start, end, selfID).
			WillReturnError(sql.ErrNoRows)

		conflict, err := repo.FindConflict(busID, start, end, &selfID)
		require.NoError(t, err)
		assert.Nil(t, conflict)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateWithInventory(t *testing.T) {
	sqlxDB, mock := newTestDB(t)
	repo := NewTripRepository(sqlxDB)

	busID := uuid.New().String()
	trip := &models.Trip{
		OperatorID:    uuid.New().String(),
		RouteID:       uuid.New().String(),
		BusID:         busID,
		DepartureTime: time.Date(2026, 9, 10, 6, 30, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2026, 9, 10, 19, 30, 0, 0, time.UTC),
		Price:         18.5,
		Status:        models.TripStatusScheduled,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
			WithArgs(busID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT (.+) FROM trips`).
			WithArgs(busID, trip.DepartureTime, trip.ArrivalTime).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec(`INSERT INTO trips`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO seat_states`).
			WillReturnResult(sqlmock.NewResult(0, 29))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM seat_states`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(29))
		mock.ExpectExec(`UPDATE trips SET available_seats`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		created, err := repo.CreateWithInventory(trip, 0)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, 29, created.AvailableSeats)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Conflict Aborts Before Insert", func(t *testing.T) {
		existing := models.Trip{
			ID:            uuid.New().String(),
			OperatorID:    trip.OperatorID,
			RouteID:       trip.RouteID,
			BusID:         busID,
			DepartureTime: trip.DepartureTime.Add(-time.Hour),
			ArrivalTime:   trip.DepartureTime.Add(time.Hour),
			Price:         20,
			Status:        models.TripStatusScheduled,
		}

		mock.ExpectBegin()
		mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
			WithArgs(busID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT (.+) FROM trips`).
			WithArgs(busID, trip.DepartureTime, trip.ArrivalTime).
			WillReturnRows(tripRows(existing))
		mock.ExpectRollback()

		created, err := repo.CreateWithInventory(trip, 0)
		assert.Nil(t, created)

		var conflict *apperrors.ScheduleConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, busID, conflict.BusID)
		assert.Equal(t, existing.DepartureTime, conflict.ConflictStart)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateWithInventory(t *testing.T) {
	sqlxDB, mock := newTestDB(t)
	repo := NewTripRepository(sqlxDB)

	trip := &models.Trip{
		ID:            uuid.New().String(),
		OperatorID:    uuid.New().String(),
		RouteID:       uuid.New().String(),
		BusID:         uuid.New().String(),
		DepartureTime: time.Date(2026, 9, 11, 6, 30, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2026, 9, 11, 19, 30, 0, 0, time.UTC),
		Price:         18.5,
		Status:        models.TripStatusScheduled,
	}

	t.Run("Bus Change Regenerates Seat States", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
			WithArgs(trip.BusID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT (.+) FROM trips`).
			WithArgs(trip.BusID, trip.DepartureTime, trip.ArrivalTime, trip.ID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec(`UPDATE trips`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM seat_states`).
			WithArgs(trip.ID).
			WillReturnResult(sqlmock.NewResult(0, 34))
		mock.ExpectExec(`INSERT INTO seat_states`).
			WillReturnResult(sqlmock.NewResult(0, 45))
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM seat_states`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(45))
		mock.ExpectExec(`UPDATE trips SET available_seats`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		updated, err := repo.UpdateWithInventory(trip, true)
		require.NoError(t, err)
		assert.Equal(t, 45, updated.AvailableSeats)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Trip Is Not Found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
			WithArgs(trip.BusID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT (.+) FROM trips`).
			WithArgs(trip.BusID, trip.DepartureTime, trip.ArrivalTime, trip.ID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec(`UPDATE trips`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		updated, err := repo.UpdateWithInventory(trip, false)
		assert.Nil(t, updated)

		var notFound *apperrors.NotFoundError
		require.ErrorAs(t, err, &notFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteWithInventory(t *testing.T) {
	sqlxDB, mock := newTestDB(t)
	repo := NewTripRepository(sqlxDB)

	tripID := uuid.New().String()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM seat_states`).
			WithArgs(tripID).
			WillReturnResult(sqlmock.NewResult(0, 29))
		mock.ExpectExec(`DELETE FROM trips`).
			WithArgs(tripID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.DeleteWithInventory(tripID)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Trip Is Not Found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM seat_states`).
			WithArgs(tripID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM trips`).
			WithArgs(tripID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.DeleteWithInventory(tripID)

		var notFound *apperrors.NotFoundError
		require.ErrorAs(t, err, &notFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
