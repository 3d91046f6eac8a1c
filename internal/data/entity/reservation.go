package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusCompleted ReservationStatus = "completed"
)

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusCancelled},
	ReservationStatusConfirmed: {ReservationStatusCancelled, ReservationStatusCompleted},
}

func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed,
		ReservationStatusCancelled, ReservationStatusCompleted:
		return true
	}
	return false
}

func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusCancelled || s == ReservationStatusCompleted
}

func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Reservation struct {
	BaseNoDelete
	UserID          uuid.UUID         `db:"user_id"`
	TableID         uuid.UUID         `db:"table_id"`
	ReservationDate time.Time         `db:"reservation_date"`
	StartAt         *time.Time        `db:"start_at"`
	EndAt           *time.Time        `db:"end_at"`
	Guests          int               `db:"guests"`
	Status          ReservationStatus `db:"status"`
	SpecialRequests *string           `db:"special_requests"`
	ContactPhone    *string           `db:"contact_phone"`
	ContactEmail    *string           `db:"contact_email"`
	Notes           *string           `db:"notes"`
}

// Window returns the booked range when both endpoints are recorded.
// Legacy rows only carry ReservationDate and report false.
func (r *Reservation) Window() (TimeRange, bool) {
	if r.StartAt == nil || r.EndAt == nil {
		return TimeRange{}, false
	}
	return TimeRange{Start: *r.StartAt, End: *r.EndAt}, true
}

func (r *Reservation) IsLegacy() bool {
	return r.StartAt == nil && r.EndAt == nil
}

// ConflictsWith applies the overlap rule to a requested window. Cancelled
// reservations never conflict; legacy instants conflict only with a window
// starting at exactly the same instant.
func (r *Reservation) ConflictsWith(window TimeRange) bool {
	if r.Status == ReservationStatusCancelled {
		return false
	}
	if booked, ok := r.Window(); ok {
		return booked.Overlaps(window)
	}
	if r.IsLegacy() {
		return r.ReservationDate.Equal(window.Start)
	}
	return false
}

// IsExpired is true once the end of a ranged reservation has passed.
// Legacy reservations never expire.
func (r *Reservation) IsExpired(now time.Time) bool {
	return r.EndAt != nil && !r.EndAt.After(now)
}

// SortKey mirrors COALESCE(start_at, reservation_date).
func (r *Reservation) SortKey() time.Time {
	if r.StartAt != nil {
		return *r.StartAt
	}
	return r.ReservationDate
}

// TransitionTo is the only path that moves a reservation through its lifecycle.
func (r *Reservation) TransitionTo(next ReservationStatus, now time.Time) error {
	if !next.IsValid() {
		return &TransitionError{Entity: "reservation", From: string(r.Status), To: string(next),
			Reason: "unknown reservation status " + string(next)}
	}
	if !r.Status.CanTransitionTo(next) {
		return &TransitionError{Entity: "reservation", From: string(r.Status), To: string(next)}
	}
	r.Status = next
	r.UpdatedAt = now
	return nil
}

// CustomerCancel is the self-service cancel: legal from pending or confirmed.
func (r *Reservation) CustomerCancel(now time.Time) error {
	switch r.Status {
	case ReservationStatusCancelled:
		return &TransitionError{Entity: "reservation", From: string(r.Status), To: string(ReservationStatusCancelled),
			Reason: "reservation is already cancelled"}
	case ReservationStatusCompleted:
		return &TransitionError{Entity: "reservation", From: string(r.Status), To: string(ReservationStatusCancelled),
			Reason: "cannot cancel a completed reservation"}
	}
	return r.TransitionTo(ReservationStatusCancelled, now)
}

// OverrideStatus lets staff write any known status without the transition table.
// Only used when the staff override is switched on in configuration.
func (r *Reservation) OverrideStatus(next ReservationStatus, now time.Time) error {
	if !next.IsValid() {
		return &TransitionError{Entity: "reservation", From: string(r.Status), To: string(next),
			Reason: "unknown reservation status " + string(next)}
	}
	r.Status = next
	r.UpdatedAt = now
	return nil
}
