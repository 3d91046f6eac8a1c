package wire

import (
	"net/http"
	"strings"

	"restaurant-api/internal/adaptor"
	"restaurant-api/internal/data/entity"
	"restaurant-api/internal/data/repository"
	"restaurant-api/internal/usecase"
	"restaurant-api/pkg/middleware"
	"restaurant-api/pkg/storage"
	"restaurant-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired router and the background sweeper.
type App struct {
	Router  *chi.Mux
	Sweeper *usecase.Sweeper
}

// Wiring builds services, handlers and routes.
func Wiring(
	repo *repository.Repository,
	store *storage.LocalStore,
	clock utils.Clock,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, store, clock, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, store, config, logger)

	return &App{
		Router:  router,
		Sweeper: usecase.NewSweeper(repo, clock, config.Reservation.SweepInterval, logger),
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	store *storage.LocalStore,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.HTTP.AllowedOrigins))

	// Apply routes
	wireAuth(r, handler.Auth, repo, config, logger)
	wireUser(r, handler.User, repo, config, logger)
	wireTable(r, handler.Table, repo, config, logger)
	wireReservation(r, handler.Reservation, repo, config, logger)
	wireMenu(r, handler.Menu, repo, config, logger)
	wireOrder(r, handler.Order, repo, config, logger)
	wireReview(r, handler.Review, repo, config, logger)

	// Uploaded images, unless they are served from another host
	if base := strings.TrimSuffix(config.Storage.BaseURL, "/"); strings.HasPrefix(base, "/") {
		r.Handle(base+"/*", http.StripPrefix(base, http.FileServer(http.Dir(store.Root()))))
	}

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

func authenticated(repo *repository.Repository, log *zap.Logger) func(http.Handler) http.Handler {
	return middleware.AuthSession(repo.Session, repo.User, log)
}

func staffOnly(log *zap.Logger) func(http.Handler) http.Handler {
	roles := make([]string, len(entity.StaffRoles))
	for i, role := range entity.StaffRoles {
		roles[i] = string(role)
	}
	return middleware.RequireRole(log, roles...)
}

func customerOnly(log *zap.Logger) func(http.Handler) http.Handler {
	return middleware.RequireRole(log, string(entity.RoleCustomer))
}
