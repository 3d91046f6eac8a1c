package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant-api/internal/data/entity"
	"restaurant-api/internal/dto/request"

	"go.uber.org/zap"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 1, 1, hour, minute, 0, 0, time.UTC)
}

func TestCreateReservationWindows(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     *time.Time
		guests  int
		wantErr error
	}{
		{"abutting window", at(20, 0), ptr(at(22, 0)), 2, nil},
		{"overlapping window", at(19, 0), ptr(at(19, 30)), 2, ErrConflict},
		{"window ending at existing start", at(16, 0), ptr(at(18, 0)), 2, nil},
		{"instant inside existing", at(19, 0), nil, 2, ErrConflict},
		{"party larger than table", at(20, 0), ptr(at(21, 0)), 6, ErrConflict},
		{"start in the past", at(11, 0), ptr(at(13, 0)), 2, ErrValidation},
		{"end before start", at(21, 0), ptr(at(20, 0)), 2, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			user := f.addUser(entity.RoleCustomer)
			table := f.addTable(4)
			f.addReservation(table, at(18, 0), at(20, 0), entity.ReservationStatusConfirmed)

			start := tt.start
			_, err := f.svc.Reservation.CreateReservation(context.Background(), user.ID, &request.CreateReservationRequest{
				TableID: table.ID.String(),
				StartAt: &start,
				EndAt:   tt.end,
				Guests:  tt.guests,
			})

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !isKind(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateReservationCancelledDoesNotBlock(t *testing.T) {
	f := newFixture()
	user := f.addUser(entity.RoleCustomer)
	table := f.addTable(4)
	f.addReservation(table, at(18, 0), at(20, 0), entity.ReservationStatusCancelled)

	start, end := at(19, 0), at(19, 30)
	resp, err := f.svc.Reservation.CreateReservation(context.Background(), user.ID, &request.CreateReservationRequest{
		TableID: table.ID.String(),
		StartAt: &start,
		EndAt:   &end,
		Guests:  2,
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if resp.Status != string(entity.ReservationStatusPending) {
		t.Fatalf("status = %s, want pending", resp.Status)
	}
	if resp.TableName != table.Name {
		t.Fatalf("table name = %q, want %q", resp.TableName, table.Name)
	}
}

func TestCreateReservationBannedUser(t *testing.T) {
	f := newFixture()
	user := f.addUser(entity.RoleCustomer)
	user.IsBanned = true
	table := f.addTable(4)

	start := at(20, 0)
	_, err := f.svc.Reservation.CreateReservation(context.Background(), user.ID, &request.CreateReservationRequest{
		TableID: table.ID.String(),
		StartAt: &start,
		Guests:  2,
	})
	if !isKind(err, ErrForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}
	if len(f.mem.reservations) != 0 {
		t.Fatalf("reservation stored for banned user")
	}
}

func TestCreateReservationLegacyInstant(t *testing.T) {
	f := newFixture()
	user := f.addUser(entity.RoleCustomer)
	table := f.addTable(4)

	instant := at(19, 0)
	resp, err := f.svc.Reservation.CreateReservation(context.Background(), user.ID, &request.CreateReservationRequest{
		TableID:         table.ID.String(),
		ReservationDate: &instant,
		Guests:          2,
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	stored := f.mem.reservations[mustParse(t, resp.ID)]
	if !stored.IsLegacy() {
		t.Fatalf("expected legacy reservation, got start=%v end=%v", stored.StartAt, stored.EndAt)
	}
	if !stored.ReservationDate.Equal(instant) {
		t.Fatalf("reservation_date = %v, want %v", stored.ReservationDate, instant)
	}

	// a second booking at the same instant collides, one minute later does not
	_, err = f.svc.Reservation.CreateReservation(context.Background(), user.ID, &request.CreateReservationRequest{
		TableID:         table.ID.String(),
		ReservationDate: &instant,
		Guests:          2,
	})
	if !isKind(err, ErrConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}

	later := instant.Add(time.Minute)
	if _, err := f.svc.Reservation.CreateReservation(context.Background(), user.ID, &request.CreateReservationRequest{
		TableID:         table.ID.String(),
		ReservationDate: &later,
		Guests:          2,
	}); err != nil {
		t.Fatalf("booking one minute later: %v", err)
	}
}

func TestCreateReservationContactFallback(t *testing.T) {
	f := newFixture()
	user := f.addUser(entity.RoleCustomer)
	table := f.addTable(4)

	start := at(20, 0)
	resp, err := f.svc.Reservation.CreateReservation(context.Background(), user.ID, &request.CreateReservationRequest{
		TableID: table.ID.String(),
		StartAt: &start,
		Guests:  2,
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if resp.ContactEmail == nil || *resp.ContactEmail != user.Email {
		t.Fatalf("contact email = %v, want %s", resp.ContactEmail, user.Email)
	}
	if resp.ContactPhone == nil || *resp.ContactPhone != *user.Phone {
		t.Fatalf("contact phone = %v, want %s", resp.ContactPhone, *user.Phone)
	}
}

func TestCancelReservationOwnership(t *testing.T) {
	f := newFixture()
	owner := f.addUser(entity.RoleCustomer)
	other := f.addUser(entity.RoleCustomer)
	table := f.addTable(4)
	res := f.addReservation(table, at(18, 0), at(20, 0), entity.ReservationStatusConfirmed)
	res.UserID = owner.ID

	if _, err := f.svc.Reservation.CancelReservation(context.Background(), other.ID, res.ID.String()); !isKind(err, ErrNotFound) {
		t.Fatalf("err = %v, want not found for other customer", err)
	}

	resp, err := f.svc.Reservation.CancelReservation(context.Background(), owner.ID, res.ID.String())
	if err != nil {
		t.Fatalf("CancelReservation: %v", err)
	}
	if resp.Status != string(entity.ReservationStatusCancelled) {
		t.Fatalf("status = %s, want cancelled", resp.Status)
	}

	if _, err := f.svc.Reservation.CancelReservation(context.Background(), owner.ID, res.ID.String()); !isKind(err, ErrConflict) {
		t.Fatalf("second cancel err = %v, want conflict", err)
	}
}

func TestUpdateReservationStatus(t *testing.T) {
	tests := []struct {
		name     string
		override bool
		from     entity.ReservationStatus
		to       string
		wantErr  error
	}{
		{"confirm pending", false, entity.ReservationStatusPending, "confirmed", nil},
		{"complete confirmed", false, entity.ReservationStatusConfirmed, "completed", nil},
		{"complete pending", false, entity.ReservationStatusPending, "completed", ErrConflict},
		{"revive cancelled", false, entity.ReservationStatusCancelled, "pending", ErrConflict},
		{"revive cancelled with override", true, entity.ReservationStatusCancelled, "pending", nil},
		{"unknown status", false, entity.ReservationStatusPending, "seated", ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.config.Reservation.StaffOverride = tt.override
			svc := NewReservationService(f.repo, f.clock, f.config, zap.NewNop())
			res := f.addReservation(f.addTable(4), at(18, 0), at(20, 0), tt.from)

			notes := "called ahead"
			resp, err := svc.UpdateReservationStatus(context.Background(), res.ID.String(), &request.UpdateReservationStatusRequest{
				Status: tt.to,
				Notes:  &notes,
			})

			if tt.wantErr != nil {
				if !isKind(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if f.mem.reservations[res.ID].Status != tt.from {
					t.Fatalf("stored status changed to %s", f.mem.reservations[res.ID].Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Status != tt.to {
				t.Fatalf("status = %s, want %s", resp.Status, tt.to)
			}
			stored := f.mem.reservations[res.ID]
			if stored.Notes == nil || *stored.Notes != notes {
				t.Fatalf("notes not persisted: %v", stored.Notes)
			}
		})
	}
}

func TestAvailableTables(t *testing.T) {
	f := newFixture()
	busy := f.addTable(4)
	free := f.addTable(4)
	small := f.addTable(2)
	f.addReservation(busy, at(18, 0), at(20, 0), entity.ReservationStatusPending)

	end := at(19, 30)
	resp, err := f.svc.Table.AvailableTables(context.Background(), &request.AvailabilityRequest{
		Start:  at(19, 0),
		End:    &end,
		Guests: 3,
	})
	if err != nil {
		t.Fatalf("AvailableTables: %v", err)
	}
	if len(resp.Tables) != 1 || resp.Tables[0].ID != free.ID.String() {
		t.Fatalf("tables = %+v, want only %s (small table %s excluded)", resp.Tables, free.ID, small.ID)
	}

	ok, err := f.svc.Table.IsAvailable(context.Background(), busy.ID, entity.TimeRange{Start: at(20, 0), End: at(22, 0)}, 2)
	if err != nil || !ok {
		t.Fatalf("IsAvailable after existing end = %v, %v; want true", ok, err)
	}
}

func TestAvailableTablesRejectsPastStart(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
	}{
		{"two days ago", fixtureNow.Add(-48 * time.Hour)},
		{"exactly now", fixtureNow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.addTable(4)

			_, err := f.svc.Table.AvailableTables(context.Background(), &request.AvailabilityRequest{
				Start:  tt.start,
				Guests: 2,
			})
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Fields["start"] == "" {
				t.Fatalf("err = %v, want validation error on start", err)
			}
		})
	}
}
