package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTable(capacity int) *Table {
	return &Table{
		BaseNoDelete: BaseNoDelete{ID: uuid.New()},
		Name:         "T1",
		Capacity:     capacity,
		Type:         TableTypeFamily,
		Status:       TableStatusAvailable,
		IsActive:     true,
	}
}

func rangedReservation(tableID uuid.UUID, start, end time.Time, status ReservationStatus) *Reservation {
	return &Reservation{
		BaseNoDelete:    BaseNoDelete{ID: uuid.New()},
		TableID:         tableID,
		ReservationDate: start,
		StartAt:         &start,
		EndAt:           &end,
		Guests:          2,
		Status:          status,
	}
}

func TestIsAvailable(t *testing.T) {
	table := newTable(4)
	existing := []*Reservation{
		rangedReservation(table.ID, at(18, 0), at(20, 0), ReservationStatusConfirmed),
	}

	tests := []struct {
		name   string
		window TimeRange
		party  int
		want   bool
	}{
		{"overlapping window", TimeRange{at(19, 0), at(21, 0)}, 2, false},
		{"adjacent window", TimeRange{at(20, 0), at(22, 0)}, 2, true},
		{"party too large", TimeRange{at(12, 0), at(13, 0)}, 6, false},
		{"party equals capacity", TimeRange{at(12, 0), at(13, 0)}, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAvailable(table, tt.window, tt.party, existing); got != tt.want {
				t.Fatalf("IsAvailable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCancelledReservationsDoNotBlock(t *testing.T) {
	table := newTable(4)
	existing := []*Reservation{
		rangedReservation(table.ID, at(18, 0), at(20, 0), ReservationStatusCancelled),
	}

	if !IsAvailable(table, TimeRange{at(18, 0), at(20, 0)}, 2, existing) {
		t.Fatal("cancelled reservation should not block the table")
	}
}

func TestCompletedReservationsStillBlock(t *testing.T) {
	table := newTable(4)
	existing := []*Reservation{
		rangedReservation(table.ID, at(18, 0), at(20, 0), ReservationStatusCompleted),
	}

	if IsAvailable(table, TimeRange{at(19, 0), at(19, 30)}, 2, existing) {
		t.Fatal("completed reservation should still count as occupying the window")
	}
}

func TestLegacyReservationExactInstant(t *testing.T) {
	table := newTable(4)
	legacy := &Reservation{
		BaseNoDelete:    BaseNoDelete{ID: uuid.New()},
		TableID:         table.ID,
		ReservationDate: at(19, 0),
		Status:          ReservationStatusPending,
	}
	existing := []*Reservation{legacy}

	if IsAvailable(table, TimeRange{at(19, 0), at(21, 0)}, 2, existing) {
		t.Fatal("window starting at the legacy instant should conflict")
	}
	if !IsAvailable(table, TimeRange{at(18, 0), at(20, 0)}, 2, existing) {
		t.Fatal("legacy instant only matches an equal window start")
	}
}

func TestInactiveOrMaintenanceTable(t *testing.T) {
	inactive := newTable(4)
	inactive.IsActive = false
	if IsAvailable(inactive, TimeRange{at(12, 0), at(13, 0)}, 2, nil) {
		t.Fatal("inactive table must not be available")
	}

	maintenance := newTable(4)
	maintenance.Status = TableStatusMaintenance
	if reason := Unavailability(maintenance, TimeRange{at(12, 0), at(13, 0)}, 2, nil); reason == "" {
		t.Fatal("table under maintenance must report a reason")
	}
}

func TestReservationsOnOtherTablesIgnored(t *testing.T) {
	table := newTable(4)
	other := rangedReservation(uuid.New(), at(18, 0), at(20, 0), ReservationStatusConfirmed)

	if !IsAvailable(table, TimeRange{at(18, 0), at(20, 0)}, 2, []*Reservation{other}) {
		t.Fatal("reservation on another table should not block")
	}
}

func TestAvailableTablesFilters(t *testing.T) {
	small := newTable(2)
	large := newTable(6)
	busy := newTable(6)
	existing := []*Reservation{
		rangedReservation(busy.ID, at(18, 0), at(20, 0), ReservationStatusPending),
	}

	got := AvailableTables([]*Table{small, large, busy}, TimeRange{at(19, 0), at(20, 0)}, 4, existing)
	if len(got) != 1 || got[0].ID != large.ID {
		t.Fatalf("expected only the large free table, got %d tables", len(got))
	}
}
