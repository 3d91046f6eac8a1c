package response

import (
	"time"

	"restaurant-api/internal/data/entity"
)

type OrderItemResponse struct {
	ID                  string  `json:"id"`
	DishID              string  `json:"dish_id"`
	DishName            string  `json:"dish_name"`
	Quantity            int     `json:"quantity"`
	UnitPrice           string  `json:"unit_price"`
	TotalPrice          string  `json:"total_price"`
	SpecialInstructions *string `json:"special_instructions,omitempty"`
	Status              string  `json:"status"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"order_number"`
	UserID          string              `json:"user_id"`
	TableID         *string             `json:"table_id,omitempty"`
	Type            string              `json:"type"`
	Status          string              `json:"status"`
	Subtotal        string              `json:"subtotal"`
	TaxAmount       string              `json:"tax_amount"`
	TotalAmount     string              `json:"total_amount"`
	DeliveryAddress *string             `json:"delivery_address,omitempty"`
	ContactPhone    *string             `json:"contact_phone,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func OrderItemToResponse(item *entity.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:                  item.ID.String(),
		DishID:              item.DishID.String(),
		DishName:            item.DishName,
		Quantity:            item.Quantity,
		UnitPrice:           item.UnitPrice.StringFixed(2),
		TotalPrice:          item.TotalPrice.StringFixed(2),
		SpecialInstructions: item.SpecialInstructions,
		Status:              string(item.Status),
	}
}

func OrderToResponse(order *entity.Order) OrderResponse {
	resp := OrderResponse{
		ID:              order.ID.String(),
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID.String(),
		Type:            string(order.Type),
		Status:          string(order.Status),
		Subtotal:        order.Subtotal.StringFixed(2),
		TaxAmount:       order.TaxAmount.StringFixed(2),
		TotalAmount:     order.TotalAmount.StringFixed(2),
		DeliveryAddress: order.DeliveryAddress,
		ContactPhone:    order.ContactPhone,
		Notes:           order.Notes,
		DeliveredAt:     order.DeliveredAt,
		Items:           make([]OrderItemResponse, 0, len(order.Items)),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
	if order.TableID != nil {
		id := order.TableID.String()
		resp.TableID = &id
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, OrderItemToResponse(item))
	}
	return resp
}

type OrderTrackingResponse struct {
	OrderNumber      string              `json:"order_number"`
	Type             string              `json:"type"`
	Status           string              `json:"status"`
	Items            []OrderItemResponse `json:"items"`
	EstimatedReadyAt *time.Time          `json:"estimated_ready_at,omitempty"`
	DeliveredAt      *time.Time          `json:"delivered_at,omitempty"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

type OrderSummaryResponse struct {
	Date     string           `json:"date"`
	Total    int64            `json:"total_orders"`
	ByStatus map[string]int64 `json:"by_status"`
	Revenue  string           `json:"revenue"`
}

// OrderStatusChangeResponse reports a status update and any ban it caused.
type OrderStatusChangeResponse struct {
	Order      OrderResponse `json:"order"`
	UserBanned bool          `json:"user_banned,omitempty"`
}

type OrderItemStatusChangeResponse struct {
	Item        OrderItemResponse `json:"item"`
	OrderStatus string            `json:"order_status"`
	RolledUp    bool              `json:"order_rolled_up"`
}
