package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/roadlink/trip-inventory-backend/internal/config"
)

// Locks are swept in batches so a pathological backlog cannot hold one
// job run open indefinitely.
const lockSweepBatchSize = 500

// LockExpiryService runs the scheduled sweep that returns expired seat
// locks to the available pool. Each release goes through the same guarded
// transition as a user-initiated one, so a lock that was booked between
// the sweep's read and its write is left alone.
type LockExpiryService struct {
	cron      *cron.Cron
	inventory *InventoryService
	cfg       config.SeatLockConfig
	logger    *logrus.Logger
}

// NewLockExpiryService creates a new LockExpiryService
func NewLockExpiryService(inventory *InventoryService, cfg config.SeatLockConfig, logger *logrus.Logger) *LockExpiryService {
	// Seconds precision so short leases can be swept promptly
	c := cron.New(cron.WithSeconds())

	return &LockExpiryService{
		cron:      c,
		inventory: inventory,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start schedules the sweep job and starts the scheduler
func (s *LockExpiryService) Start() error {
	_, err := s.cron.AddFunc(s.cfg.SweepSchedule, s.sweepExpiredLocksJob)
	if err != nil {
		return fmt.Errorf("failed to schedule lock expiry sweep: %w", err)
	}

	s.cron.Start()
	s.logger.WithFields(logrus.Fields{
		"schedule": s.cfg.SweepSchedule,
		"lease":    s.cfg.LeaseDuration.String(),
	}).Info("Lock expiry sweeper started")

	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *LockExpiryService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Lock expiry sweeper stopped")
}

func (s *LockExpiryService) sweepExpiredLocksJob() {
	startTime := time.Now()

	released, err := s.inventory.ReleaseExpiredLocks(s.cfg.LeaseDuration, lockSweepBatchSize)
	if err != nil {
		s.logger.WithError(err).Error("Lock expiry sweep failed")
		return
	}

	if released > 0 {
		s.logger.WithFields(logrus.Fields{
			"released": released,
			"duration": time.Since(startTime).String(),
		}).Info("Expired seat locks released")
	}
}
