package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderItemStatus string

const (
	OrderItemStatusPending   OrderItemStatus = "pending"
	OrderItemStatusPreparing OrderItemStatus = "preparing"
	OrderItemStatusReady     OrderItemStatus = "ready"
	OrderItemStatusServed    OrderItemStatus = "served"
)

var orderItemRank = map[OrderItemStatus]int{
	OrderItemStatusPending:   0,
	OrderItemStatusPreparing: 1,
	OrderItemStatusReady:     2,
	OrderItemStatusServed:    3,
}

func (s OrderItemStatus) IsValid() bool {
	_, ok := orderItemRank[s]
	return ok
}

type OrderItem struct {
	BaseNoDelete
	OrderID             uuid.UUID       `db:"order_id"`
	DishID              uuid.UUID       `db:"dish_id"`
	DishName            string          `db:"dish_name"`
	Quantity            int             `db:"quantity"`
	UnitPrice           decimal.Decimal `db:"unit_price"`
	TotalPrice          decimal.Decimal `db:"total_price"`
	SpecialInstructions *string         `db:"special_instructions"`
	Status              OrderItemStatus `db:"status"`
}

// NewOrderItem snapshots the dish list price and computes the line total.
// Discounts are advertised on the menu and do not change what is charged.
func NewOrderItem(orderID uuid.UUID, dish *Dish, quantity int, instructions *string, now time.Time) *OrderItem {
	unit := dish.Price
	return &OrderItem{
		BaseNoDelete:        NewBaseNoDelete(now),
		OrderID:             orderID,
		DishID:              dish.ID,
		DishName:            dish.Name,
		Quantity:            quantity,
		UnitPrice:           unit,
		TotalPrice:          unit.Mul(decimal.NewFromInt(int64(quantity))),
		SpecialInstructions: instructions,
		Status:              OrderItemStatusPending,
	}
}

func (i *OrderItem) CanMutate() bool {
	return i.Status != OrderItemStatusServed
}

// TransitionTo only moves forward through pending, preparing, ready, served.
// Skipping ahead is allowed.
func (i *OrderItem) TransitionTo(next OrderItemStatus, now time.Time) error {
	if !next.IsValid() {
		return &TransitionError{Entity: "order item", From: string(i.Status), To: string(next),
			Reason: "unknown order item status " + string(next)}
	}
	if !i.CanMutate() {
		return &TransitionError{Entity: "order item", From: string(i.Status), To: string(next),
			Reason: "order item is already served"}
	}
	if orderItemRank[next] <= orderItemRank[i.Status] {
		return &TransitionError{Entity: "order item", From: string(i.Status), To: string(next)}
	}
	i.Status = next
	i.UpdatedAt = now
	return nil
}
