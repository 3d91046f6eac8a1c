package response

import (
	"time"

	"restaurant-api/internal/data/entity"
)

type TableResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Capacity     int                   `json:"capacity"`
	Type         string                `json:"type"`
	Status       string                `json:"status"`
	Description  *string               `json:"description,omitempty"`
	ImageURL     *string               `json:"image_url,omitempty"`
	IsActive     bool                  `json:"is_active"`
	Reservations []ReservationResponse `json:"reservations,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

func TableToResponse(table *entity.Table) TableResponse {
	return TableResponse{
		ID:          table.ID.String(),
		Name:        table.Name,
		Capacity:    table.Capacity,
		Type:        string(table.Type),
		Status:      string(table.Status),
		Description: table.Description,
		ImageURL:    table.ImageURL,
		IsActive:    table.IsActive,
		CreatedAt:   table.CreatedAt,
	}
}

type AvailableTablesResponse struct {
	Start  time.Time       `json:"start"`
	End    time.Time       `json:"end"`
	Guests int             `json:"guests"`
	Tables []TableResponse `json:"tables"`
}
