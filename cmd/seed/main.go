package main

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/roadlink/trip-inventory-backend/internal/config"
	"github.com/roadlink/trip-inventory-backend/internal/database"
	"github.com/roadlink/trip-inventory-backend/internal/models"
	"github.com/roadlink/trip-inventory-backend/internal/services"
)

// Roughly this share of seats on each seeded trip starts out booked, so
// search results and seat maps show realistic availability.
const seedPrefillRatio = 0.1

type seedFile struct {
	Operators []seedOperator `json:"operators"`
	Trips     []seedTrip     `json:"trips"`
}

type seedOperator struct {
	Name         string                   `json:"name"`
	ContactEmail string                   `json:"contact_email"`
	ContactPhone string                   `json:"contact_phone"`
	Rating       *float64                 `json:"rating"`
	SeatTypes    []models.SeatTypeRequest `json:"seat_types"`
	Buses        []models.BusRequest      `json:"buses"`
	Routes       []models.RouteRequest    `json:"routes"`
}

type seedTrip struct {
	Operator      string    `json:"operator"`
	Bus           string    `json:"bus"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Price         float64   `json:"price"`
}

func main() {
	fixturePath := flag.String("fixture", "fixtures/seed.json", "path to the seed fixture")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	pg, ok := db.(*database.PostgresDB)
	if !ok {
		logger.Fatal("Failed to cast database connection to PostgresDB")
	}

	raw, err := os.ReadFile(*fixturePath)
	if err != nil {
		logger.Fatalf("Failed to read fixture %s: %v", *fixturePath, err)
	}
	var fixture seedFile
	if err := json.Unmarshal(raw, &fixture); err != nil {
		logger.Fatalf("Failed to parse fixture: %v", err)
	}

	operatorRepo := database.NewOperatorRepository(pg.DB)
	routeRepo := database.NewRouteRepository(pg.DB)
	seatTypeRepo := database.NewSeatTypeRepository(pg.DB)
	busRepo := database.NewBusRepository(pg.DB)
	tripRepo := database.NewTripRepository(pg.DB)
	searchRepo := database.NewSearchRepository(pg.DB)

	layoutSvc := services.NewLayoutService(busRepo, seatTypeRepo, logger)
	scheduleSvc := services.NewScheduleService(tripRepo)
	tripSvc := services.NewTripService(tripRepo, busRepo, routeRepo, searchRepo, scheduleSvc, logger)

	// Fixture entries reference operators by name, buses by plate and
	// routes by origin/destination, so the created ids are kept in maps.
	busIDsByPlate := make(map[string]string)
	routeIDsByPair := make(map[string]string)

	for _, op := range fixture.Operators {
		operator, err := operatorRepo.Create(&models.OperatorRequest{
			Name:         op.Name,
			ContactEmail: op.ContactEmail,
			ContactPhone: op.ContactPhone,
			Rating:       op.Rating,
		})
		if err != nil {
			logger.Fatalf("Failed to create operator %s: %v", op.Name, err)
		}
		logger.WithField("operator_id", operator.ID).Infof("Created operator %s", op.Name)

		for _, st := range op.SeatTypes {
			st.OperatorID = operator.ID
			if _, err := seatTypeRepo.Create(&st); err != nil {
				logger.Fatalf("Failed to create seat type %s: %v", st.Name, err)
			}
		}

		for _, br := range op.Buses {
			br.OperatorID = operator.ID
			bus, err := busRepo.Create(&br)
			if err != nil {
				logger.Fatalf("Failed to create bus %s: %v", br.PlateNumber, err)
			}
			if _, err := layoutSvc.CommitDefaultLayout(bus.ID); err != nil {
				logger.Fatalf("Failed to generate layout for bus %s: %v", br.PlateNumber, err)
			}
			busIDsByPlate[op.Name+"/"+br.PlateNumber] = bus.ID
		}

		for _, rr := range op.Routes {
			rr.OperatorID = operator.ID
			route, err := routeRepo.Create(&rr)
			if err != nil {
				logger.Fatalf("Failed to create route %s-%s: %v", rr.Origin, rr.Destination, err)
			}
			routeIDsByPair[op.Name+"/"+rr.Origin+"/"+rr.Destination] = route.ID
		}
	}

	created := 0
	for _, st := range fixture.Trips {
		busID, ok := busIDsByPlate[st.Operator+"/"+st.Bus]
		if !ok {
			logger.Fatalf("Trip references unknown bus %s of %s", st.Bus, st.Operator)
		}
		routeID, ok := routeIDsByPair[st.Operator+"/"+st.Origin+"/"+st.Destination]
		if !ok {
			logger.Fatalf("Trip references unknown route %s-%s of %s", st.Origin, st.Destination, st.Operator)
		}

		trip, err := tripSvc.CreateSeeded(&models.TripRequest{
			RouteID:       routeID,
			BusID:         busID,
			DepartureTime: st.DepartureTime,
			ArrivalTime:   st.ArrivalTime,
			Price:         st.Price,
		}, seedPrefillRatio)
		if err != nil {
			logger.Fatalf("Failed to create trip %s-%s at %s: %v",
				st.Origin, st.Destination, st.DepartureTime.Format(time.RFC3339), err)
		}

		logger.WithFields(logrus.Fields{
			"trip_id":         trip.ID,
			"available_seats": trip.AvailableSeats,
		}).Infof("Created trip %s-%s", st.Origin, st.Destination)
		created++
	}

	logger.Infof("Seed complete: %d operators, %d trips", len(fixture.Operators), created)
}
