package request

import "time"

// CreateReservationRequest books a table for [StartAt, EndAt). EndAt defaults
// to StartAt. A request carrying only ReservationDate books a single instant.
type CreateReservationRequest struct {
	TableID         string     `json:"table_id" validate:"required,uuid"`
	ReservationDate *time.Time `json:"reservation_date,omitempty" validate:"required_without=StartAt"`
	StartAt         *time.Time `json:"start_at,omitempty"`
	EndAt           *time.Time `json:"end_at,omitempty"`
	Guests          int        `json:"guests" validate:"required,min=1,max=20"`
	SpecialRequests *string    `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
	ContactPhone    *string    `json:"contact_phone,omitempty" validate:"omitempty,max=20"`
	ContactEmail    *string    `json:"contact_email,omitempty" validate:"omitempty,email,max=255"`
}

type UpdateReservationStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type ReservationListRequest struct {
	PaginatedRequest
	Status *string    `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	Date   *time.Time `json:"date,omitempty"`
}
