package services

import (
	"errors"
	"time"

	"github.com/roadlink/trip-inventory-backend/internal/apperrors"
	"github.com/roadlink/trip-inventory-backend/internal/database"
	"github.com/roadlink/trip-inventory-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// InventoryService owns the per-trip availability state of every physical
// seat. Seat-state rows come into existence inside the trip creation
// transaction and are removed inside the deletion transaction (see
// TripService); this service covers everything in between: seat map reads
// and the compare-and-swap state transitions bookings build on.
type InventoryService struct {
	tripRepo      *database.TripRepository
	seatStateRepo *database.SeatStateRepository
	logger        *logrus.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	tripRepo *database.TripRepository,
	seatStateRepo *database.SeatStateRepository,
	logger *logrus.Logger,
) *InventoryService {
	return &InventoryService{
		tripRepo:      tripRepo,
		seatStateRepo: seatStateRepo,
		logger:        logger,
	}
}

// GetSeatMap returns every physical seat of the trip's bus annotated with
// the trip-scoped status and the trip's flat price. Grid bounds are the
// maximum row, column and deck observed across seats rather than the
// bus's nominal capacity, so sparse layouts render correctly.
func (s *InventoryService) GetSeatMap(tripID string) (*models.SeatMap, error) {
	trip, err := s.tripRepo.GetByID(tripID)
	if err != nil {
		return nil, err
	}

	seats, err := s.seatStateRepo.GetSeatMapRows(tripID, trip.BusID)
	if err != nil {
		return nil, err
	}

	seatMap := &models.SeatMap{
		TripID:     tripID,
		TotalDecks: 1,
		Seats:      seats,
	}
	for i := range seatMap.Seats {
		seatMap.Seats[i].Price = trip.Price
		if seatMap.Seats[i].GridRow > seatMap.GridRows {
			seatMap.GridRows = seatMap.Seats[i].GridRow
		}
		if seatMap.Seats[i].GridCol > seatMap.GridCols {
			seatMap.GridCols = seatMap.Seats[i].GridCol
		}
		if seatMap.Seats[i].Deck > seatMap.TotalDecks {
			seatMap.TotalDecks = seatMap.Seats[i].Deck
		}
	}

	return seatMap, nil
}

// Transition moves one seat between states under the compare-and-swap
// contract: of two concurrent calls with the same expected prior state,
// exactly one succeeds and the other fails with a state conflict. The
// trip's cached available-seat count moves with transitions into booked
// in the same atomic unit.
func (s *InventoryService) Transition(tripID, seatID string, from, to models.SeatStateValue) (*models.SeatState, error) {
	if !models.CanTransition(from, to) {
		return nil, apperrors.NewInvalidInput("illegal seat transition %s -> %s", from, to)
	}

	state, err := s.seatStateRepo.Transition(tripID, seatID, from, to)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id": tripID,
		"seat_id": seatID,
		"from":    from,
		"to":      to,
	}).Info("Seat transitioned")

	return state, nil
}

// ReleaseExpiredLocks releases seats whose soft reservation has outlived
// the lease, moving them locked -> available through the same
// compare-and-swap contract as any other caller. A lock that was just
// confirmed to booked loses the race cleanly and is skipped. Returns the
// number of seats released.
func (s *InventoryService) ReleaseExpiredLocks(lease time.Duration, limit int) (int, error) {
	cutoff := time.Now().Add(-lease)

	expired, err := s.seatStateRepo.FindExpiredLocks(cutoff, limit)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, state := range expired {
		_, err := s.seatStateRepo.Transition(state.TripID, state.SeatID, models.SeatStateLocked, models.SeatStateAvailable)
		if err != nil {
			var conflict *apperrors.StateConflictError
			if errors.As(err, &conflict) {
				continue
			}
			return released, err
		}
		released++
	}

	if released > 0 {
		s.logger.WithField("released", released).Info("Released expired seat locks")
	}

	return released, nil
}
