package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadlink/trip-inventory-backend/internal/apperrors"
	"github.com/roadlink/trip-inventory-backend/internal/models"
)

func TestReplaceSeatLayout(t *testing.T) {
	sqlxDB, mock := newTestDB(t)
	repo := NewBusRepository(sqlxDB)

	busID := uuid.New().String()
	seats := []models.Seat{
		{SeatCode: "A01", SeatType: "standard", GridRow: 1, GridCol: 1, DeckNumber: 1},
		{SeatCode: "B01", SeatType: "standard", GridRow: 1, GridCol: 2, DeckNumber: 1},
		{SeatCode: "VIP-1", SeatType: "vip", GridRow: 2, GridCol: 1, DeckNumber: 1},
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM seats`).
			WithArgs(busID).
			WillReturnResult(sqlmock.NewResult(0, 2))
		for range seats {
			mock.ExpectExec(`INSERT INTO seats`).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectExec(`UPDATE buses SET seat_capacity`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		created, err := repo.ReplaceSeatLayout(busID, seats)
		require.NoError(t, err)
		require.Len(t, created, 3)
		for _, seat := range created {
			assert.NotEmpty(t, seat.ID)
			assert.Equal(t, busID, seat.BusID)
		}
		assert.Equal(t, "VIP-1", created[2].SeatCode)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Bus With Trip Inventory Refuses Replacement", func(t *testing.T) {
		// A scheduled trip's seat_states rows still reference the old
		// seats, so the DELETE trips the foreign key and the whole
		// replacement rolls back without touching the inventory.
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM seats`).
			WithArgs(busID).
			WillReturnError(&pq.Error{Code: "23503", Constraint: "seat_states_seat_id_fkey"})
		mock.ExpectRollback()

		created, err := repo.ReplaceSeatLayout(busID, seats)
		assert.Nil(t, created)

		var inUse *apperrors.LayoutInUseError
		require.ErrorAs(t, err, &inUse)
		assert.Equal(t, busID, inUse.BusID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Bus Is Not Found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM seats`).
			WithArgs(busID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		for range seats {
			mock.ExpectExec(`INSERT INTO seats`).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectExec(`UPDATE buses SET seat_capacity`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		created, err := repo.ReplaceSeatLayout(busID, seats)
		assert.Nil(t, created)

		var notFound *apperrors.NotFoundError
		require.ErrorAs(t, err, &notFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
