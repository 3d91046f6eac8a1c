package usecase

import (
	"restaurant-api/internal/data/repository"
	"restaurant-api/pkg/storage"
	"restaurant-api/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth        AuthService
	User        UserService
	Table       TableService
	Reservation ReservationService
	Menu        MenuService
	Order       OrderService
	Review      ReviewService
}

func NewService(
	repo *repository.Repository,
	store storage.ImageStore,
	clock utils.Clock,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:        NewAuthService(repo, clock, config, log),
		User:        NewUserService(repo.User, log),
		Table:       NewTableService(repo, store, clock, log),
		Reservation: NewReservationService(repo, clock, config, log),
		Menu:        NewMenuService(repo, store, clock, log),
		Order:       NewOrderService(repo, clock, config, log),
		Review:      NewReviewService(repo, clock, log),
	}
}
