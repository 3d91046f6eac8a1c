package wire

import (
	"restaurant-api/internal/adaptor"
	"restaurant-api/internal/data/repository"
	"restaurant-api/pkg/middleware"
	"restaurant-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReservation(
	r chi.Router,
	reservationHandler *adaptor.ReservationHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	limiter := middleware.NewRateLimiter(config.HTTP.RateLimitRPS, config.HTTP.RateLimitBurst, log)

	// ==================== CUSTOMER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log), customerOnly(log))

		r.With(limiter.Limit).Post("/api/customer/reservations", reservationHandler.CreateReservation)
		r.Get("/api/customer/reservations", reservationHandler.GetMyReservations)
		r.Post("/api/customer/reservations/{id}/cancel", reservationHandler.CancelReservation)
	})

	// ==================== MANAGER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log), staffOnly(log))

		r.Get("/api/manager/reservations", reservationHandler.GetReservations) // ?status=&date=
		r.Put("/api/manager/reservations/{id}/status", reservationHandler.UpdateReservationStatus)
	})
}
