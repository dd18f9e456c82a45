package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roadlink/trip-inventory-backend/internal/config"
	"github.com/roadlink/trip-inventory-backend/internal/database"
	"github.com/roadlink/trip-inventory-backend/internal/handlers"
	"github.com/roadlink/trip-inventory-backend/internal/middleware"
	"github.com/roadlink/trip-inventory-backend/internal/services"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting RoadLink Trip Inventory Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Repositories share the underlying *sqlx.DB
	pg, ok := db.(*database.PostgresDB)
	if !ok {
		logger.Fatal("Failed to cast database connection to PostgresDB")
	}
	operatorRepo := database.NewOperatorRepository(pg.DB)
	routeRepo := database.NewRouteRepository(pg.DB)
	seatTypeRepo := database.NewSeatTypeRepository(pg.DB)
	busRepo := database.NewBusRepository(pg.DB)
	tripRepo := database.NewTripRepository(pg.DB)
	seatStateRepo := database.NewSeatStateRepository(pg.DB)
	searchRepo := database.NewSearchRepository(pg.DB)

	// Initialize services
	layoutSvc := services.NewLayoutService(busRepo, seatTypeRepo, logger)
	scheduleSvc := services.NewScheduleService(tripRepo)
	inventorySvc := services.NewInventoryService(tripRepo, seatStateRepo, logger)
	tripSvc := services.NewTripService(tripRepo, busRepo, routeRepo, searchRepo, scheduleSvc, logger)
	searchSvc := services.NewSearchService(searchRepo)

	// Start the lock expiry sweeper
	lockExpirySvc := services.NewLockExpiryService(inventorySvc, cfg.SeatLock, logger)
	if err := lockExpirySvc.Start(); err != nil {
		logger.Fatalf("Failed to start lock expiry sweeper: %v", err)
	}

	// Initialize handlers
	operatorHandler := handlers.NewOperatorHandler(operatorRepo, logger)
	routeHandler := handlers.NewRouteHandler(routeRepo, operatorRepo, logger)
	seatTypeHandler := handlers.NewSeatTypeHandler(seatTypeRepo, operatorRepo, logger)
	busHandler := handlers.NewBusHandler(busRepo, operatorRepo, layoutSvc, logger)
	tripHandler := handlers.NewTripHandler(tripSvc, searchSvc, inventorySvc, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(middleware.GatewayIdentity())

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public catalog and search routes
		v1.GET("/trips/search", tripHandler.SearchTrips)
		v1.GET("/trips/:tripId", tripHandler.GetTripDetail)
		v1.GET("/trips/:tripId/seats", tripHandler.GetSeatMap)
		v1.GET("/operators", operatorHandler.GetAllOperators)
		v1.GET("/operators/:operatorId", operatorHandler.GetOperatorByID)
		v1.GET("/operators/:operatorId/seat-types", seatTypeHandler.GetSeatTypesByOperator)
		v1.GET("/routes", routeHandler.GetAllRoutes)
		v1.GET("/routes/:routeId", routeHandler.GetRouteByID)
		v1.GET("/buses", busHandler.GetAllBuses)
		v1.GET("/buses/:busId", busHandler.GetBusByID)
		v1.GET("/buses/:busId/seats", busHandler.GetSeats)

		// Seat transitions carry the booking flow and need a caller identity
		v1.POST("/trips/:tripId/seats/:seatId/transition", middleware.RequireIdentity(), tripHandler.TransitionSeat)

		// Management routes (gateway-authenticated)
		protected := v1.Group("")
		protected.Use(middleware.RequireIdentity())
		{
			protected.POST("/trips", tripHandler.CreateTrip)
			protected.PUT("/trips/:tripId", tripHandler.UpdateTrip)
			protected.DELETE("/trips/:tripId", tripHandler.DeleteTrip)

			protected.POST("/operators", operatorHandler.CreateOperator)
			protected.PUT("/operators/:operatorId", operatorHandler.UpdateOperator)
			protected.DELETE("/operators/:operatorId", operatorHandler.DeleteOperator)

			protected.POST("/routes", routeHandler.CreateRoute)
			protected.DELETE("/routes/:routeId", routeHandler.DeleteRoute)

			protected.POST("/seat-types", seatTypeHandler.CreateSeatType)
			protected.DELETE("/seat-types/:seatTypeId", seatTypeHandler.DeleteSeatType)

			protected.POST("/buses", busHandler.CreateBus)
			protected.PUT("/buses/:busId", busHandler.UpdateBus)
			protected.DELETE("/buses/:busId", busHandler.DeleteBus)
			protected.PUT("/buses/:busId/seat-map", busHandler.ReplaceSeatMap)
		}
	}

	// HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.Server.Port,
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	lockExpirySvc.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
		}

		if identity, exists := middleware.GetIdentity(c); exists {
			fields["user_id"] = identity.UserID
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
