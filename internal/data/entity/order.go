package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDelivery OrderType = "delivery"
)

func (t OrderType) IsValid() bool {
	return t == OrderTypeDineIn || t == OrderTypeTakeaway || t == OrderTypeDelivery
}

type OrderStatus string

const (
	OrderStatusReceived       OrderStatus = "received"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusWithCourier    OrderStatus = "with_courier"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusDeliveryFailed OrderStatus = "delivery_failed"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusReceived, OrderStatusPreparing, OrderStatusWithCourier,
		OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusDeliveryFailed,
		OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusDeliveryFailed || s == OrderStatusCancelled
}

// ActiveOrderStatuses are the states the kitchen still has work for.
var ActiveOrderStatuses = []OrderStatus{
	OrderStatusReceived,
	OrderStatusPreparing,
	OrderStatusWithCourier,
	OrderStatusOutForDelivery,
}

type Order struct {
	BaseNoDelete
	OrderNumber     string          `db:"order_number"`
	UserID          uuid.UUID       `db:"user_id"`
	TableID         *uuid.UUID      `db:"table_id"`
	Type            OrderType       `db:"type"`
	Status          OrderStatus     `db:"status"`
	Subtotal        decimal.Decimal `db:"subtotal"`
	TaxAmount       decimal.Decimal `db:"tax_amount"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	DeliveryAddress *string         `db:"delivery_address"`
	ContactPhone    *string         `db:"contact_phone"`
	Notes           *string         `db:"notes"`
	DeliveredAt     *time.Time      `db:"delivered_at"`

	Items []*OrderItem `db:"-"`
}

// allowedNext is the staff transition table. Which of with_courier and
// delivered follows preparing depends on the order type.
func (o *Order) allowedNext() []OrderStatus {
	switch o.Status {
	case OrderStatusReceived:
		return []OrderStatus{OrderStatusPreparing, OrderStatusCancelled}
	case OrderStatusPreparing:
		if o.Type == OrderTypeDelivery {
			return []OrderStatus{OrderStatusWithCourier, OrderStatusCancelled}
		}
		return []OrderStatus{OrderStatusDelivered, OrderStatusCancelled}
	case OrderStatusWithCourier:
		return []OrderStatus{OrderStatusOutForDelivery, OrderStatusDeliveryFailed}
	case OrderStatusOutForDelivery:
		return []OrderStatus{OrderStatusDelivered, OrderStatusDeliveryFailed}
	}
	return nil
}

func (o *Order) CanTransitionTo(next OrderStatus) bool {
	return slices.Contains(o.allowedNext(), next)
}

// CanMutate is false once the order reached a terminal state.
func (o *Order) CanMutate() bool {
	return !o.Status.IsTerminal()
}

func (o *Order) IsDelivery() bool {
	return o.Type == OrderTypeDelivery
}

// TransitionTo moves the order one step along the staff table and stamps
// DeliveredAt on delivery.
func (o *Order) TransitionTo(next OrderStatus, now time.Time) error {
	if !next.IsValid() {
		return &TransitionError{Entity: "order", From: string(o.Status), To: string(next),
			Reason: "unknown order status " + string(next)}
	}
	if !o.CanMutate() {
		return &TransitionError{Entity: "order", From: string(o.Status), To: string(next),
			Reason: "order is already " + string(o.Status)}
	}
	if !o.CanTransitionTo(next) {
		return &TransitionError{Entity: "order", From: string(o.Status), To: string(next)}
	}

	o.Status = next
	o.UpdatedAt = now
	if next == OrderStatusDelivered {
		o.DeliveredAt = &now
	}
	return nil
}

// CustomerCancel is allowed only before the kitchen picked the order up.
func (o *Order) CustomerCancel(now time.Time) error {
	if o.Status != OrderStatusReceived {
		return &TransitionError{Entity: "order", From: string(o.Status), To: string(OrderStatusCancelled),
			Reason: "order can only be cancelled while it is received"}
	}
	o.Status = OrderStatusCancelled
	o.UpdatedAt = now
	return nil
}

// StaffCancel is allowed while the order is received or preparing.
func (o *Order) StaffCancel(now time.Time) error {
	if o.Status != OrderStatusReceived && o.Status != OrderStatusPreparing {
		return &TransitionError{Entity: "order", From: string(o.Status), To: string(OrderStatusCancelled),
			Reason: "order can only be cancelled while it is received or preparing"}
	}
	o.Status = OrderStatusCancelled
	o.UpdatedAt = now
	return nil
}

// RollUpTarget is the status an order moves to once every item is served.
func (o *Order) RollUpTarget() OrderStatus {
	if o.IsDelivery() {
		return OrderStatusWithCourier
	}
	return OrderStatusDelivered
}

// RollUp advances the order when all of its items are served. Only orders
// still in the kitchen (received or preparing) are rolled up.
func (o *Order) RollUp(now time.Time) bool {
	if o.Status != OrderStatusReceived && o.Status != OrderStatusPreparing {
		return false
	}
	if len(o.Items) == 0 {
		return false
	}
	for _, item := range o.Items {
		if item.Status != OrderItemStatusServed {
			return false
		}
	}

	o.Status = o.RollUpTarget()
	o.UpdatedAt = now
	if o.Status == OrderStatusDelivered {
		o.DeliveredAt = &now
	}
	return true
}

// ComputeTotals sums the line totals and applies taxRate rounded to cents.
func ComputeTotals(items []*OrderItem, taxRate decimal.Decimal) (subtotal, tax, total decimal.Decimal) {
	subtotal = decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.TotalPrice)
	}
	tax = subtotal.Mul(taxRate).Round(2)
	total = subtotal.Add(tax)
	return subtotal, tax, total
}

// EstimatedReadyAt adds the slowest dish preparation time to the order time.
func (o *Order) EstimatedReadyAt(prepMinutes []int) time.Time {
	longest := 0
	for _, m := range prepMinutes {
		longest = max(longest, m)
	}
	return o.CreatedAt.Add(time.Duration(longest) * time.Minute)
}
