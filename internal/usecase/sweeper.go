package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"restaurant-api/internal/data/repository"
	"restaurant-api/pkg/utils"

	"go.uber.org/zap"
)

// SweepResult counts what one sweep removed.
type SweepResult struct {
	ExpiredReservations int64
	ExpiredDiscounts    int64
	ExpiredSessions     int64
	// ReservationsSkipped is set when another instance holds the
	// reservation lock; the other steps still ran.
	ReservationsSkipped bool
	Skipped             bool
}

// Sweeper periodically deletes ended reservations, closes discounts whose
// window passed and purges dead sessions. Runs never overlap: a tick that
// finds the previous run still going is skipped, and across instances the
// reservation delete is guarded by a database advisory lock.
type Sweeper struct {
	repo     *repository.Repository
	clock    utils.Clock
	interval time.Duration
	running  atomic.Bool
	log      *zap.Logger
}

func NewSweeper(repo *repository.Repository, clock utils.Clock, interval time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		repo:     repo,
		clock:    clock,
		interval: interval,
		log:      log.With(zap.String("service", "sweeper")),
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("Sweeper started", zap.Duration("interval", s.interval))
	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Sweeper stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	result, err := s.Sweep(ctx)
	if err != nil {
		s.log.Error("Sweep failed", zap.Error(err))
		return
	}
	if result.Skipped {
		return
	}
	if result.ExpiredReservations+result.ExpiredDiscounts+result.ExpiredSessions > 0 {
		s.log.Info("Sweep finished",
			zap.Int64("reservations", result.ExpiredReservations),
			zap.Int64("discounts", result.ExpiredDiscounts),
			zap.Int64("sessions", result.ExpiredSessions))
	}
}

// Sweep performs one pass. A pass already in progress in this process makes
// the call a no-op with Skipped set. When another instance holds the
// reservation lock only the reservation delete is skipped.
func (s *Sweeper) Sweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	if !s.running.CompareAndSwap(false, true) {
		s.log.Debug("Previous sweep still running, skipping tick")
		result.Skipped = true
		return result, nil
	}
	defer s.running.Store(false)

	now := s.clock.Now()

	deleted, err := s.repo.Reservation.DeleteExpired(ctx, now)
	switch {
	case errors.Is(err, repository.ErrLockNotAcquired):
		s.log.Debug("Another instance is sweeping reservations")
		result.ReservationsSkipped = true
	case err != nil:
		return result, err
	default:
		result.ExpiredReservations = deleted
	}

	cleared, err := s.repo.Dish.ClearExpiredDiscounts(ctx, now)
	if err != nil {
		return result, err
	}
	result.ExpiredDiscounts = cleared

	sessions, err := s.repo.Session.CleanExpiredSessions(ctx)
	if err != nil {
		s.log.Warn("Failed to clean expired sessions", zap.Error(err))
	}
	result.ExpiredSessions = sessions

	return result, nil
}
