package wire

import (
	"restaurant-api/internal/adaptor"
	"restaurant-api/internal/data/repository"
	"restaurant-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures the staff user listing
func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	r.With(
		authenticated(repo, log), // Check valid session
		staffOnly(log),           // Check staff role
	).Get("/api/admin/users", userHandler.GetAllUsers) // GET /api/admin/users?page=1&per_page=15
}
