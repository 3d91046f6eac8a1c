package request

import "time"

type CreateTableRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Capacity    int     `json:"capacity" validate:"required,min=1,max=50"`
	Type        string  `json:"type" validate:"required,oneof=single double family special custom"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=available occupied reserved maintenance"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type UpdateTableRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Capacity    *int    `json:"capacity,omitempty" validate:"omitempty,min=1,max=50"`
	Type        *string `json:"type,omitempty" validate:"omitempty,oneof=single double family special custom"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=available occupied reserved maintenance"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// AvailabilityRequest asks which tables can seat Guests during [Start, End).
// End defaults to Start.
type AvailabilityRequest struct {
	Start  time.Time  `json:"start" validate:"required"`
	End    *time.Time `json:"end,omitempty" validate:"omitempty,gtfield=Start"`
	Guests int        `json:"guests" validate:"required,min=1,max=20"`
}

type TableListRequest struct {
	PaginatedRequest
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=available occupied reserved maintenance"`
	Type   *string `json:"type,omitempty" validate:"omitempty,oneof=single double family special custom"`
}
