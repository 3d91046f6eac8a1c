package wire

import (
	"restaurant-api/internal/adaptor"
	"restaurant-api/internal/data/repository"
	"restaurant-api/pkg/middleware"
	"restaurant-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireOrder(
	r chi.Router,
	orderHandler *adaptor.OrderHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	limiter := middleware.NewRateLimiter(config.HTTP.RateLimitRPS, config.HTTP.RateLimitBurst, log)

	// ==================== CUSTOMER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log), customerOnly(log))

		r.With(limiter.Limit).Post("/api/customer/orders", orderHandler.CreateOrder)
		r.Get("/api/customer/orders", orderHandler.GetMyOrders)
		r.Get("/api/customer/orders/{id}", orderHandler.GetMyOrder)
		r.Post("/api/customer/orders/{id}/cancel", orderHandler.CancelMyOrder)
		r.Get("/api/customer/orders/{id}/track", orderHandler.TrackOrder)
	})

	// ==================== CASHIER ROUTES ====================
	r.With(authenticated(repo, log), staffOnly(log)).Route("/api/cashier/orders", func(r chi.Router) {
		r.Get("/", orderHandler.GetOrders) // ?status=&type=&date=&page=
		r.Get("/needing-attention", orderHandler.GetOrdersNeedingAttention)
		r.Get("/today-summary", orderHandler.GetTodaySummary)
		r.Get("/table/{tableId}", orderHandler.GetOrdersByTable)
		r.Get("/user/{userId}", orderHandler.GetOrdersByUser)

		r.Get("/{id}", orderHandler.GetOrder)
		r.Put("/{id}/status", orderHandler.UpdateOrderStatus)
		r.Post("/{id}/delivered", orderHandler.MarkDelivered)
		r.Post("/{id}/cancel", orderHandler.CancelOrder)
		r.Put("/{orderId}/items/{itemId}/status", orderHandler.UpdateOrderItemStatus)
	})
}
