package response

import (
	"time"

	"restaurant-api/internal/data/entity"
)

type ReservationResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	TableID         string     `json:"table_id"`
	TableName       string     `json:"table_name,omitempty"`
	ReservationDate time.Time  `json:"reservation_date"`
	StartAt         *time.Time `json:"start_at,omitempty"`
	EndAt           *time.Time `json:"end_at,omitempty"`
	Guests          int        `json:"guests"`
	Status          string     `json:"status"`
	SpecialRequests *string    `json:"special_requests,omitempty"`
	ContactPhone    *string    `json:"contact_phone,omitempty"`
	ContactEmail    *string    `json:"contact_email,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func ReservationToResponse(res *entity.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:              res.ID.String(),
		UserID:          res.UserID.String(),
		TableID:         res.TableID.String(),
		ReservationDate: res.ReservationDate,
		StartAt:         res.StartAt,
		EndAt:           res.EndAt,
		Guests:          res.Guests,
		Status:          string(res.Status),
		SpecialRequests: res.SpecialRequests,
		ContactPhone:    res.ContactPhone,
		ContactEmail:    res.ContactEmail,
		Notes:           res.Notes,
		CreatedAt:       res.CreatedAt,
	}
}
