package services

import (
	"fmt"

	"github.com/roadlink/trip-inventory-backend/internal/apperrors"
	"github.com/roadlink/trip-inventory-backend/internal/database"
	"github.com/roadlink/trip-inventory-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// seatColumns are the fixed column labels of the default grid. Three seats
// per row, single deck; the row index grows until capacity is reached.
var seatColumns = []string{"A", "B", "C"}

// LayoutService generates and replaces a bus's physical seat layout
type LayoutService struct {
	busRepo      *database.BusRepository
	seatTypeRepo *database.SeatTypeRepository
	logger       *logrus.Logger
}

// NewLayoutService creates a new LayoutService
func NewLayoutService(
	busRepo *database.BusRepository,
	seatTypeRepo *database.SeatTypeRepository,
	logger *logrus.Logger,
) *LayoutService {
	return &LayoutService{
		busRepo:      busRepo,
		seatTypeRepo: seatTypeRepo,
		logger:       logger,
	}
}

// Generate produces the deterministic default layout for a bus: seats are
// issued row-major across the fixed columns until capacity seats exist.
// Seat codes are the column label plus the zero-padded row, e.g. A01, B01,
// C01, A02. The seat type defaults to the bus type.
func (s *LayoutService) Generate(bus *models.Bus, capacity int) ([]models.Seat, error) {
	if capacity <= 0 {
		return nil, apperrors.NewInvalidInput("seat capacity must be positive, got %d", capacity)
	}

	seats := make([]models.Seat, 0, capacity)
	perRow := len(seatColumns)
	rows := (capacity + perRow - 1) / perRow

	for row := 1; row <= rows; row++ {
		for colIdx, col := range seatColumns {
			if len(seats) >= capacity {
				break
			}
			seats = append(seats, models.Seat{
				BusID:      bus.ID,
				SeatCode:   fmt.Sprintf("%s%02d", col, row),
				SeatType:   bus.BusType,
				GridRow:    row,
				GridCol:    colIdx + 1,
				DeckNumber: 1,
			})
		}
	}

	return seats, nil
}

// CommitDefaultLayout generates the default layout for the bus's declared
// capacity and stores it, replacing any previous seats.
func (s *LayoutService) CommitDefaultLayout(busID string) ([]models.Seat, error) {
	bus, err := s.busRepo.GetByID(busID)
	if err != nil {
		return nil, err
	}

	seats, err := s.Generate(bus, bus.SeatCapacity)
	if err != nil {
		return nil, err
	}

	created, err := s.busRepo.ReplaceSeatLayout(bus.ID, seats)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"bus_id": bus.ID,
		"seats":  len(created),
	}).Info("Committed default seat layout")

	return created, nil
}

// ApplyCustomLayout replaces the bus's entire seat layout with the
// caller-supplied definitions. Every referenced seat type (including the
// bus-type default for definitions that leave the type unset) must exist
// for the bus's operator. All prior seat rows are removed and the bus's
// declared capacity becomes the definition count; the replacement is
// atomic. A bus whose trips still hold seat state rows refuses the
// replacement, so live booking inventory is never erased.
func (s *LayoutService) ApplyCustomLayout(busID string, defs []models.SeatDefinition) ([]models.Seat, error) {
	req := models.ReplaceSeatMapRequest{Seats: defs}
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewInvalidInput("invalid seat layout: %v", err)
	}

	bus, err := s.busRepo.GetByID(busID)
	if err != nil {
		return nil, err
	}

	// Resolve every distinct type once; unknown types fail the whole batch.
	resolved := make(map[string]bool)
	seats := make([]models.Seat, 0, len(defs))
	for _, def := range defs {
		typeName := bus.BusType
		if def.SeatType != nil && *def.SeatType != "" {
			typeName = *def.SeatType
		}

		if !resolved[typeName] {
			if _, err := s.seatTypeRepo.GetByNameAndOperator(typeName, bus.OperatorID); err != nil {
				return nil, err
			}
			resolved[typeName] = true
		}

		deck := def.Deck
		if deck == 0 {
			deck = 1
		}

		seats = append(seats, models.Seat{
			BusID:      bus.ID,
			SeatCode:   def.SeatCode,
			SeatType:   typeName,
			GridRow:    def.GridRow,
			GridCol:    def.GridCol,
			DeckNumber: deck,
		})
	}

	created, err := s.busRepo.ReplaceSeatLayout(bus.ID, seats)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"bus_id":       bus.ID,
		"seats":        len(created),
		"old_capacity": bus.SeatCapacity,
	}).Info("Replaced seat layout")

	return created, nil
}
