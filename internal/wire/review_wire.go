package wire

import (
	"restaurant-api/internal/adaptor"
	"restaurant-api/internal/data/repository"
	"restaurant-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/menu/dishes/{id}/reviews", reviewHandler.GetDishReviews) // ?page=&per_page=

	// ==================== CUSTOMER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log), customerOnly(log))

		r.Post("/api/customer/reviews", reviewHandler.SubmitReview) // dish_id in body
		r.Post("/api/customer/dishes/{id}/reviews", reviewHandler.SubmitReview)
	})
}
