package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadlink/trip-inventory-backend/internal/apperrors"
	"github.com/roadlink/trip-inventory-backend/internal/models"
)

func newTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func seatStateRows(state models.SeatState) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "trip_id", "seat_id", "state", "locked_at", "created_at", "updated_at",
	}).AddRow(
		state.ID, state.TripID, state.SeatID, string(state.State),
		state.LockedAt, state.CreatedAt, state.UpdatedAt,
	)
}

func TestTransition(t *testing.T) {
	sqlxDB, mock := newTestDB(t)
	repo := NewSeatStateRepository(sqlxDB)

	tripID := uuid.New().String()
	seatID := uuid.New().String()
	now := time.Now()

	t.Run("Available To Locked", func(t *testing.T) {
		lockedAt := now
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE seat_states`).
			WithArgs(tripID, seatID, "available", "locked").
			WillReturnRows(seatStateRows(models.SeatState{
				ID:        uuid.New().String(),
				TripID:    tripID,
				SeatID:    seatID,
				State:     models.SeatStateLocked,
				LockedAt:  &lockedAt,
				CreatedAt: now,
				UpdatedAt: now,
			}))
		mock.ExpectCommit()

		state, err := repo.Transition(tripID, seatID, models.SeatStateAvailable, models.SeatStateLocked)
		require.NoError(t, err)
		assert.Equal(t, models.SeatStateLocked, state.State)
		assert.NotNil(t, state.LockedAt)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Locked To Booked Decrements Available", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE seat_states`).
			WithArgs(tripID, seatID, "locked", "booked").
			WillReturnRows(seatStateRows(models.SeatState{
				ID:        uuid.New().String(),
				TripID:    tripID,
				SeatID:    seatID,
				State:     models.SeatStateBooked,
				CreatedAt: now,
				UpdatedAt: now,
			}))
		mock.ExpectExec(`UPDATE trips SET available_seats = available_seats \+ \$2`).
			WithArgs(tripID, -1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		state, err := repo.Transition(tripID, seatID, models.SeatStateLocked, models.SeatStateBooked)
		require.NoError(t, err)
		assert.Equal(t, models.SeatStateBooked, state.State)
		assert.Nil(t, state.LockedAt)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Lost Race Is State Conflict", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE seat_states`).
			WithArgs(tripID, seatID, "available", "booked").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT state FROM seat_states`).
			WithArgs(tripID, seatID).
			WillReturnRows(sqlmock.NewRows([]string{"state"}).AddRow("booked"))
		mock.ExpectRollback()

		state, err := repo.Transition(tripID, seatID, models.SeatStateAvailable, models.SeatStateBooked)
		assert.Nil(t, state)

		var conflict *apperrors.StateConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "available", conflict.Expected)
		assert.Equal(t, "booked", conflict.Actual)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Seat Is Not Found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE seat_states`).
			WithArgs(tripID, seatID, "available", "locked").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT state FROM seat_states`).
			WithArgs(tripID, seatID).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		state, err := repo.Transition(tripID, seatID, models.SeatStateAvailable, models.SeatStateLocked)
		assert.Nil(t, state)

		var notFound *apperrors.NotFoundError
		require.ErrorAs(t, err, &notFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Counter Update Failure Rolls Back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE seat_states`).
			WithArgs(tripID, seatID, "locked", "booked").
			WillReturnRows(seatStateRows(models.SeatState{
				ID:        uuid.New().String(),
				TripID:    tripID,
				SeatID:    seatID,
				State:     models.SeatStateBooked,
				CreatedAt: now,
				UpdatedAt: now,
			}))
		mock.ExpectExec(`UPDATE trips SET available_seats = available_seats \+ \$2`).
			WithArgs(tripID, -1).
			WillReturnError(fmt.Errorf("database error"))
		mock.ExpectRollback()

		state, err := repo.Transition(tripID, seatID, models.SeatStateLocked, models.SeatStateBooked)
		assert.Nil(t, state)
		assert.Error(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindExpiredLocks(t *testing.T) {
	sqlxDB, mock := newTestDB(t)
	repo := NewSeatStateRepository(sqlxDB)

	cutoff := time.Now().Add(-10 * time.Minute)
	lockedAt := cutoff.Add(-time.Minute)

	t.Run("Returns Locked Rows Before Cutoff", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM seat_states`).
			WithArgs(cutoff, 500).
			WillReturnRows(seatStateRows(models.SeatState{
				ID:       uuid.New().String(),
				TripID:   uuid.New().String(),
				SeatID:   uuid.New().String(),
				State:    models.SeatStateLocked,
				LockedAt: &lockedAt,
			}))

		states, err := repo.FindExpiredLocks(cutoff, 500)
		require.NoError(t, err)
		require.Len(t, states, 1)
		assert.Equal(t, models.SeatStateLocked, states[0].State)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty When Nothing Expired", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM seat_states`).
			WithArgs(cutoff, 500).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "trip_id", "seat_id", "state", "locked_at", "created_at", "updated_at",
			}))

		states, err := repo.FindExpiredLocks(cutoff, 500)
		require.NoError(t, err)
		assert.Empty(t, states)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
