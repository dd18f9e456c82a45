package services

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadlink/trip-inventory-backend/internal/apperrors"
	"github.com/roadlink/trip-inventory-backend/internal/database"
	"github.com/roadlink/trip-inventory-backend/internal/models"
)

func TestGenerate(t *testing.T) {
	svc := NewLayoutService(nil, nil, logrus.New())
	bus := &models.Bus{ID: "bus-1", BusType: "sleeper"}

	t.Run("Row Major A B C Order", func(t *testing.T) {
		seats, err := svc.Generate(bus, 7)
		require.NoError(t, err)
		require.Len(t, seats, 7)

		codes := make([]string, len(seats))
		for i, seat := range seats {
			codes[i] = seat.SeatCode
		}
		assert.Equal(t, []string{"A01", "B01", "C01", "A02", "B02", "C02", "A03"}, codes)

		assert.Equal(t, 1, seats[0].GridRow)
		assert.Equal(t, 1, seats[0].GridCol)
		assert.Equal(t, 3, seats[6].GridRow)
		assert.Equal(t, 1, seats[6].GridCol)
	})

	t.Run("Seat Type Defaults To Bus Type", func(t *testing.T) {
		seats, err := svc.Generate(bus, 4)
		require.NoError(t, err)
		for _, seat := range seats {
			assert.Equal(t, "sleeper", seat.SeatType)
			assert.Equal(t, 1, seat.DeckNumber)
		}
	})

	t.Run("Positions Are Unique", func(t *testing.T) {
		seats, err := svc.Generate(bus, 45)
		require.NoError(t, err)
		require.Len(t, seats, 45)

		positions := make(map[string]bool, len(seats))
		for _, seat := range seats {
			key := fmt.Sprintf("%d:%d:%d", seat.DeckNumber, seat.GridRow, seat.GridCol)
			assert.False(t, positions[key], "position %s issued twice", key)
			positions[key] = true
		}
	})

	t.Run("Exact Multiple Of Row Width", func(t *testing.T) {
		seats, err := svc.Generate(bus, 6)
		require.NoError(t, err)
		require.Len(t, seats, 6)
		assert.Equal(t, "C02", seats[5].SeatCode)
	})

	t.Run("Single Seat", func(t *testing.T) {
		seats, err := svc.Generate(bus, 1)
		require.NoError(t, err)
		require.Len(t, seats, 1)
		assert.Equal(t, "A01", seats[0].SeatCode)
	})

	t.Run("Non Positive Capacity Rejected", func(t *testing.T) {
		for _, capacity := range []int{0, -5} {
			seats, err := svc.Generate(bus, capacity)
			assert.Nil(t, seats)

			var invalid *apperrors.InvalidInputError
			require.ErrorAs(t, err, &invalid)
		}
	})
}

func newLayoutService(t *testing.T) (*LayoutService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewLayoutService(
		database.NewBusRepository(sqlxDB),
		database.NewSeatTypeRepository(sqlxDB),
		logrus.New(),
	), mock
}

func busRow(busID, operatorID string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "operator_id", "plate_number", "model", "bus_type", "seat_capacity",
		"created_at", "updated_at",
	}).AddRow(busID, operatorID, "29B-123.45", "Hyundai Universe", "standard", 29, now, now)
}

func TestApplyCustomLayout(t *testing.T) {
	busID := uuid.New().String()
	operatorID := uuid.New().String()

	t.Run("Unknown Seat Type Fails The Whole Batch", func(t *testing.T) {
		svc, mock := newLayoutService(t)

		vip := "vip"
		defs := []models.SeatDefinition{
			{SeatCode: "V01", GridRow: 1, GridCol: 1, SeatType: &vip},
		}

		mock.ExpectQuery(`SELECT (.+) FROM buses`).
			WithArgs(busID).
			WillReturnRows(busRow(busID, operatorID))
		mock.ExpectQuery(`SELECT (.+) FROM seat_types`).
			WithArgs("vip", operatorID).
			WillReturnError(sql.ErrNoRows)

		seats, err := svc.ApplyCustomLayout(busID, defs)
		assert.Nil(t, seats)

		var unknown *apperrors.UnknownSeatTypeError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "vip", unknown.TypeName)
		assert.Equal(t, operatorID, unknown.OperatorID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Codes Rejected Before Database", func(t *testing.T) {
		svc, mock := newLayoutService(t)

		defs := []models.SeatDefinition{
			{SeatCode: "A01", GridRow: 1, GridCol: 1},
			{SeatCode: "A01", GridRow: 2, GridCol: 1},
		}

		seats, err := svc.ApplyCustomLayout(busID, defs)
		assert.Nil(t, seats)

		var invalid *apperrors.InvalidInputError
		require.ErrorAs(t, err, &invalid)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unset Type Falls Back To Bus Type", func(t *testing.T) {
		svc, mock := newLayoutService(t)

		defs := []models.SeatDefinition{
			{SeatCode: "A01", GridRow: 1, GridCol: 1},
			{SeatCode: "A02", GridRow: 2, GridCol: 1},
		}

		mock.ExpectQuery(`SELECT (.+) FROM buses`).
			WithArgs(busID).
			WillReturnRows(busRow(busID, operatorID))
		mock.ExpectQuery(`SELECT (.+) FROM seat_types`).
			WithArgs("standard", operatorID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "operator_id", "name", "description", "surcharge", "created_at", "updated_at",
			}).AddRow(uuid.New().String(), operatorID, "standard", nil, 0.0, time.Now(), time.Now()))

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM seats`).
			WithArgs(busID).
			WillReturnResult(sqlmock.NewResult(0, 29))
		for range defs {
			mock.ExpectExec(`INSERT INTO seats`).
				WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectExec(`UPDATE buses SET seat_capacity`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		seats, err := svc.ApplyCustomLayout(busID, defs)
		require.NoError(t, err)
		require.Len(t, seats, 2)
		for _, seat := range seats {
			assert.Equal(t, "standard", seat.SeatType)
			assert.Equal(t, 1, seat.DeckNumber)
		}

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
