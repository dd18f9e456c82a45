package services

import (
	"github.com/roadlink/trip-inventory-backend/internal/apperrors"
	"github.com/roadlink/trip-inventory-backend/internal/database"
	"github.com/roadlink/trip-inventory-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// TripService coordinates the trip lifecycle: conflict-guarded creation
// and update, and deletion with inventory teardown. Each operation is one
// atomic unit: the conflict check, the trip write and the seat-state
// batch commit together inside the repository transaction, so a failure
// partway leaves no partial trip or seat rows behind.
type TripService struct {
	tripRepo   *database.TripRepository
	busRepo    *database.BusRepository
	routeRepo  *database.RouteRepository
	searchRepo *database.SearchRepository
	schedule   *ScheduleService
	logger     *logrus.Logger
}

// NewTripService creates a new TripService
func NewTripService(
	tripRepo *database.TripRepository,
	busRepo *database.BusRepository,
	routeRepo *database.RouteRepository,
	searchRepo *database.SearchRepository,
	schedule *ScheduleService,
	logger *logrus.Logger,
) *TripService {
	return &TripService{
		tripRepo:   tripRepo,
		busRepo:    busRepo,
		routeRepo:  routeRepo,
		searchRepo: searchRepo,
		schedule:   schedule,
		logger:     logger,
	}
}

// Create validates the request, resolves the bus and route references,
// checks the schedule and persists the trip together with one available
// seat-state row per physical seat of the bus.
func (s *TripService) Create(req *models.TripRequest) (*models.Trip, error) {
	return s.create(req, 0)
}

// CreateSeeded behaves like Create but marks roughly prefillRatio of the
// seats booked up front. Only seed and test data use this.
func (s *TripService) CreateSeeded(req *models.TripRequest, prefillRatio float64) (*models.Trip, error) {
	return s.create(req, prefillRatio)
}

func (s *TripService) create(req *models.TripRequest, prefillRatio float64) (*models.Trip, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewInvalidInput("invalid trip request: %v", err)
	}

	bus, err := s.busRepo.GetByID(req.BusID)
	if err != nil {
		return nil, err
	}
	route, err := s.routeRepo.GetByID(req.RouteID)
	if err != nil {
		return nil, err
	}

	// Fast-fail check; the authoritative one runs again inside the
	// creation transaction under the per-bus lock.
	if err := s.schedule.Check(bus.ID, req.DepartureTime, req.ArrivalTime, nil); err != nil {
		return nil, err
	}

	status := models.TripStatusScheduled
	if req.Status != nil {
		status = models.TripStatus(*req.Status)
	}

	trip := &models.Trip{
		OperatorID:     bus.OperatorID,
		RouteID:        route.ID,
		BusID:          bus.ID,
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		Price:          req.Price,
		AvailableSeats: bus.SeatCapacity,
		Status:         status,
	}

	created, err := s.tripRepo.CreateWithInventory(trip, prefillRatio)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id":         created.ID,
		"bus_id":          created.BusID,
		"route_id":        created.RouteID,
		"departure":       created.DepartureTime,
		"available_seats": created.AvailableSeats,
	}).Info("Trip created")

	return created, nil
}

// Update re-runs the conflict check with the trip itself excluded, then
// overwrites the route/bus/schedule/price/status fields. When the bus
// assignment changes, the seat-state rows are regenerated for the new
// bus's layout inside the same transaction so the inventory never
// describes a vehicle the trip no longer uses.
func (s *TripService) Update(tripID string, req *models.TripRequest) (*models.Trip, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewInvalidInput("invalid trip request: %v", err)
	}

	existing, err := s.tripRepo.GetByID(tripID)
	if err != nil {
		return nil, err
	}

	bus, err := s.busRepo.GetByID(req.BusID)
	if err != nil {
		return nil, err
	}
	route, err := s.routeRepo.GetByID(req.RouteID)
	if err != nil {
		return nil, err
	}

	status := existing.Status
	if req.Status != nil {
		status = models.TripStatus(*req.Status)
	}

	trip := &models.Trip{
		ID:             existing.ID,
		OperatorID:     bus.OperatorID,
		RouteID:        route.ID,
		BusID:          bus.ID,
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		Price:          req.Price,
		AvailableSeats: existing.AvailableSeats,
		Status:         status,
	}

	regenerate := bus.ID != existing.BusID

	updated, err := s.tripRepo.UpdateWithInventory(trip, regenerate)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id":           updated.ID,
		"bus_id":            updated.BusID,
		"seats_regenerated": regenerate,
	}).Info("Trip updated")

	return updated, nil
}

// Delete tears down the trip's seat states and removes the trip record in
// one transaction
func (s *TripService) Delete(tripID string) error {
	if err := s.tripRepo.DeleteWithInventory(tripID); err != nil {
		return err
	}

	s.logger.WithField("trip_id", tripID).Info("Trip deleted")
	return nil
}

// GetSummary returns the read-only display view of one trip
func (s *TripService) GetSummary(tripID string) (*models.TripSummary, error) {
	return s.searchRepo.GetTripSummary(tripID)
}
