package usecase

import (
	"context"
	"testing"
	"time"

	"restaurant-api/internal/data/entity"
	"restaurant-api/internal/data/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func TestSweepRemovesExpiredReservations(t *testing.T) {
	f := newFixture()
	table := f.addTable(4)
	ended := f.addReservation(table, at(9, 0), at(11, 0), entity.ReservationStatusConfirmed)
	endsNow := f.addReservation(table, at(10, 0), at(12, 0), entity.ReservationStatusPending)
	upcoming := f.addReservation(table, at(18, 0), at(20, 0), entity.ReservationStatusPending)
	legacy := &entity.Reservation{
		BaseNoDelete:    entity.NewBaseNoDelete(fixtureNow),
		TableID:         table.ID,
		ReservationDate: at(8, 0),
		Guests:          2,
		Status:          entity.ReservationStatusConfirmed,
	}
	f.mem.reservations[legacy.ID] = legacy

	sweeper := NewSweeper(f.repo, f.clock, time.Minute, zap.NewNop())
	result, err := sweeper.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	if result.ExpiredReservations != 2 {
		t.Fatalf("expired = %d, want 2", result.ExpiredReservations)
	}
	for _, gone := range []*entity.Reservation{ended, endsNow} {
		if _, ok := f.mem.reservations[gone.ID]; ok {
			t.Fatalf("reservation ending %v still present", gone.EndAt)
		}
	}
	for _, kept := range []*entity.Reservation{upcoming, legacy} {
		if _, ok := f.mem.reservations[kept.ID]; !ok {
			t.Fatalf("reservation %s was removed", kept.ID)
		}
	}
}

func TestSweepClearsExpiredDiscounts(t *testing.T) {
	f := newFixture()
	stale := f.addDish("Stale", "10.00")
	if err := stale.ApplyDiscount(decimal.NewFromInt(10), fixtureNow.Add(-25*time.Hour)); err != nil {
		t.Fatalf("ApplyDiscount: %v", err)
	}
	fresh := f.addDish("Fresh", "10.00")
	if err := fresh.ApplyDiscount(decimal.NewFromInt(10), fixtureNow.Add(-time.Hour)); err != nil {
		t.Fatalf("ApplyDiscount: %v", err)
	}
	f.mem.sessionsCleaned = 3

	result, err := NewSweeper(f.repo, f.clock, time.Minute, zap.NewNop()).Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	if result.ExpiredDiscounts != 1 || result.ExpiredSessions != 3 {
		t.Fatalf("result = %+v", result)
	}
	if f.mem.dishes[stale.ID].IsOnDiscount {
		t.Fatalf("expired discount still flagged")
	}
	if !f.mem.dishes[fresh.ID].IsOnDiscount {
		t.Fatalf("active discount was cleared")
	}
}

func TestSweepRunsOtherStepsWhenReservationLockHeld(t *testing.T) {
	f := newFixture()
	f.mem.deleteExpiredErr = repository.ErrLockNotAcquired
	f.mem.sessionsCleaned = 2
	stale := f.addDish("Stale", "10.00")
	if err := stale.ApplyDiscount(decimal.NewFromInt(10), fixtureNow.Add(-48*time.Hour)); err != nil {
		t.Fatalf("ApplyDiscount: %v", err)
	}

	result, err := NewSweeper(f.repo, f.clock, time.Minute, zap.NewNop()).Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if result.Skipped {
		t.Fatalf("pass was skipped entirely")
	}
	if !result.ReservationsSkipped || result.ExpiredReservations != 0 {
		t.Fatalf("result = %+v", result)
	}
	if result.ExpiredDiscounts != 1 || result.ExpiredSessions != 2 {
		t.Fatalf("result = %+v", result)
	}
	if f.mem.dishes[stale.ID].IsOnDiscount {
		t.Fatalf("expired discount still flagged")
	}
}

func TestSweepSkipsWhileRunning(t *testing.T) {
	f := newFixture()
	sweeper := NewSweeper(f.repo, f.clock, time.Minute, zap.NewNop())
	sweeper.running.Store(true)

	result, err := sweeper.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if !result.Skipped {
		t.Fatalf("overlapping sweep was not skipped")
	}
}

func TestSweeperRunStopsOnCancel(t *testing.T) {
	f := newFixture()
	table := f.addTable(4)
	f.addReservation(table, at(9, 0), at(11, 0), entity.ReservationStatusConfirmed)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewSweeper(f.repo, f.clock, time.Hour, zap.NewNop()).Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		f.mem.mu.Lock()
		remaining := len(f.mem.reservations)
		f.mem.mu.Unlock()
		if remaining == 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("initial sweep did not run")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
