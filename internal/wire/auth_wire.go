package wire

import (
	"restaurant-api/internal/adaptor"
	"restaurant-api/internal/data/repository"
	"restaurant-api/pkg/middleware"
	"restaurant-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	limiter := middleware.NewRateLimiter(config.HTTP.RateLimitRPS, config.HTTP.RateLimitBurst, log)

	// ==================== PUBLIC ROUTES ====================
	// Credential endpoints are rate limited per client IP
	r.With(limiter.Limit).Post("/api/auth/register", authHandler.Register)
	r.With(limiter.Limit).Post("/api/auth/login", authHandler.Login)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log))

		r.Get("/api/auth/me", authHandler.Me)
		r.Post("/api/auth/logout", authHandler.Logout)
	})
}
