package repository

import (
	"restaurant-api/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User        UserRepository
	Session     SessionRepository
	Table       TableRepository
	Reservation ReservationRepository
	Category    CategoryRepository
	Dish        DishRepository
	Order       OrderRepository
	Review      ReviewRepository
	Favorite    FavoriteRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:        NewUserRepository(db, log),
		Session:     NewSessionRepository(db, log),
		Table:       NewTableRepository(db, log),
		Reservation: NewReservationRepository(db, log),
		Category:    NewCategoryRepository(db, log),
		Dish:        NewDishRepository(db, log),
		Order:       NewOrderRepository(db, log),
		Review:      NewReviewRepository(db, log),
		Favorite:    NewFavoriteRepository(db, log),
	}
}
