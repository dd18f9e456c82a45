package services

import (
	"time"

	"github.com/roadlink/trip-inventory-backend/internal/apperrors"
	"github.com/roadlink/trip-inventory-backend/internal/database"
)

// ScheduleService detects scheduling conflicts for a bus. Two half-open
// windows [start, end) conflict when existingStart < proposedEnd and
// existingEnd > proposedStart; cancelled trips never conflict. Degenerate
// intervals (end <= start) are rejected by request validation before they
// reach the detector.
type ScheduleService struct {
	tripRepo *database.TripRepository
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(tripRepo *database.TripRepository) *ScheduleService {
	return &ScheduleService{tripRepo: tripRepo}
}

// HasConflict reports whether any non-cancelled trip for the bus overlaps
// the proposed window. excludeTripID removes a trip from the comparison
// set so an update does not conflict with itself.
func (s *ScheduleService) HasConflict(busID string, start, end time.Time, excludeTripID *string) (bool, error) {
	conflict, err := s.tripRepo.FindConflict(busID, start, end, excludeTripID)
	if err != nil {
		return false, err
	}
	return conflict != nil, nil
}

// Check returns a ScheduleConflictError naming the colliding window when
// the bus is already committed, nil when it is free.
func (s *ScheduleService) Check(busID string, start, end time.Time, excludeTripID *string) error {
	conflict, err := s.tripRepo.FindConflict(busID, start, end, excludeTripID)
	if err != nil {
		return err
	}
	if conflict != nil {
		return &apperrors.ScheduleConflictError{
			BusID:         busID,
			WindowStart:   start,
			WindowEnd:     end,
			ConflictStart: conflict.DepartureTime,
			ConflictEnd:   conflict.ArrivalTime,
		}
	}
	return nil
}
