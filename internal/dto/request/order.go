package request

import "time"

type OrderItemRequest struct {
	DishID              string  `json:"dish_id" validate:"required,uuid"`
	Quantity            int     `json:"quantity" validate:"required,min=1,max=10"`
	SpecialInstructions *string `json:"special_instructions,omitempty" validate:"omitempty,max=500"`
}

type CreateOrderRequest struct {
	Type            string             `json:"type" validate:"required,oneof=dine_in takeaway delivery"`
	TableID         *string            `json:"table_id,omitempty" validate:"omitempty,uuid"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,max=50,dive"`
	DeliveryAddress *string            `json:"delivery_address,omitempty" validate:"required_if=Type delivery,omitempty,max=500"`
	ContactPhone    *string            `json:"contact_phone,omitempty" validate:"omitempty,max=20"`
	Notes           *string            `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type UpdateOrderStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=received preparing with_courier out_for_delivery delivered delivery_failed cancelled"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type UpdateOrderItemStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending preparing ready served"`
}

type CancelOrderRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=255"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type OrderListRequest struct {
	PaginatedRequest
	Status *string    `json:"status,omitempty" validate:"omitempty,oneof=received preparing with_courier out_for_delivery delivered delivery_failed cancelled"`
	Type   *string    `json:"type,omitempty" validate:"omitempty,oneof=dine_in takeaway delivery"`
	Date   *time.Time `json:"date,omitempty"`
}
