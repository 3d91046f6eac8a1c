package adaptor

import (
	"net/http"

	"restaurant-api/internal/dto/request"
	"restaurant-api/internal/usecase"
	"restaurant-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrderHandler struct {
	service usecase.OrderService
	log     *zap.Logger
}

func NewOrderHandler(service usecase.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log.With(zap.String("handler", "order")),
	}
}

// ==================== CUSTOMER ====================

// CreateOrder handles POST /api/customer/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.service.CreateOrder(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create order")
		return
	}

	utils.ResponseCreated(w, "Order placed successfully", order)
}

// GetMyOrders handles GET /api/customer/orders
func (h *OrderHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	req, ok := orderListFromQuery(w, r)
	if !ok {
		return
	}

	orders, err := h.service.GetMyOrders(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, h.log, err, "get my orders")
		return
	}

	utils.ResponseSuccess(w, "success", orders)
}

// GetMyOrder handles GET /api/customer/orders/{id}
func (h *OrderHandler) GetMyOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	order, err := h.service.GetMyOrder(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get my order")
		return
	}

	utils.ResponseSuccess(w, "success", order)
}

// CancelMyOrder handles POST /api/customer/orders/{id}/cancel
func (h *OrderHandler) CancelMyOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	order, err := h.service.CancelMyOrder(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "cancel my order")
		return
	}

	utils.ResponseSuccess(w, "Order cancelled successfully", order)
}

// TrackOrder handles GET /api/customer/orders/{id}/track
func (h *OrderHandler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	tracking, err := h.service.TrackOrder(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "track order")
		return
	}

	utils.ResponseSuccess(w, "success", tracking)
}

// ==================== CASHIER ====================

// GetOrders handles GET /api/cashier/orders?status=&type=&date=
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	req, ok := orderListFromQuery(w, r)
	if !ok {
		return
	}

	orders, err := h.service.GetOrders(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get orders")
		return
	}

	utils.ResponseSuccess(w, "success", orders)
}

// GetOrder handles GET /api/cashier/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get order")
		return
	}

	utils.ResponseSuccess(w, "success", order)
}

// GetOrdersNeedingAttention handles GET /api/cashier/orders/needing-attention
func (h *OrderHandler) GetOrdersNeedingAttention(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.GetOrdersNeedingAttention(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get orders needing attention")
		return
	}

	utils.ResponseSuccess(w, "success", orders)
}

// GetTodaySummary handles GET /api/cashier/orders/today-summary
func (h *OrderHandler) GetTodaySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetTodaySummary(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get today summary")
		return
	}

	utils.ResponseSuccess(w, "success", summary)
}

// UpdateOrderStatus handles PUT /api/cashier/orders/{id}/status
func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateOrderStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update order status")
		return
	}

	utils.ResponseSuccess(w, "Order status updated successfully", result)
}

// UpdateOrderItemStatus handles PUT /api/cashier/orders/{orderId}/items/{itemId}/status
func (h *OrderHandler) UpdateOrderItemStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateOrderItemStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.UpdateOrderItemStatus(r.Context(), chi.URLParam(r, "orderId"), chi.URLParam(r, "itemId"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update order item status")
		return
	}

	utils.ResponseSuccess(w, "Order item status updated successfully", result)
}

// MarkDelivered handles POST /api/cashier/orders/{id}/delivered
func (h *OrderHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.MarkDelivered(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "mark order delivered")
		return
	}

	utils.ResponseSuccess(w, "Order marked as delivered", order)
}

// CancelOrder handles POST /api/cashier/orders/{id}/cancel. The body is optional.
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	var req request.CancelOrderRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}

	order, err := h.service.CancelOrder(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel order")
		return
	}

	utils.ResponseSuccess(w, "Order cancelled successfully", order)
}

// GetOrdersByTable handles GET /api/cashier/orders/table/{tableId}
func (h *OrderHandler) GetOrdersByTable(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.GetOrdersByTable(r.Context(), chi.URLParam(r, "tableId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get orders by table")
		return
	}

	utils.ResponseSuccess(w, "success", orders)
}

// GetOrdersByUser handles GET /api/cashier/orders/user/{userId}
func (h *OrderHandler) GetOrdersByUser(w http.ResponseWriter, r *http.Request) {
	req := pageFromQuery(r)

	orders, err := h.service.GetOrdersByUser(r.Context(), chi.URLParam(r, "userId"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "get orders by user")
		return
	}

	utils.ResponseSuccess(w, "success", orders)
}

func orderListFromQuery(w http.ResponseWriter, r *http.Request) (*request.OrderListRequest, bool) {
	date, ok := optionalTimeQuery(w, r, "date")
	if !ok {
		return nil, false
	}

	return &request.OrderListRequest{
		PaginatedRequest: pageFromQuery(r),
		Status:           optionalQuery(r, "status"),
		Type:             optionalQuery(r, "type"),
		Date:             date,
	}, true
}
