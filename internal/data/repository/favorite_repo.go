package repository

import (
	"context"
	"fmt"

	"restaurant-api/internal/data/entity"
	"restaurant-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type FavoriteRepository interface {
	// Add stores the favorite and reports false when the user already had it.
	Add(ctx context.Context, favorite *entity.DishFavorite) (bool, error)
	// Remove reports false when the dish was not among the user's favorites.
	Remove(ctx context.Context, userID, dishID uuid.UUID) (bool, error)
	// Toggle removes an existing favorite or adds it otherwise, and returns
	// whether the dish is a favorite afterwards.
	Toggle(ctx context.Context, favorite *entity.DishFavorite) (bool, error)
	// FindDishes lists the user's available favorite dishes in menu order.
	FindDishes(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID) ([]*entity.Dish, error)
}

type favoriteRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFavoriteRepository(db database.PgxIface, log *zap.Logger) FavoriteRepository {
	return &favoriteRepository{
		db:  db,
		log: log.With(zap.String("repository", "favorite")),
	}
}

const insertFavorite = `
	INSERT INTO user_dish_favorites (id, user_id, dish_id, created_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (user_id, dish_id) DO NOTHING
`

func (r *favoriteRepository) Add(ctx context.Context, favorite *entity.DishFavorite) (bool, error) {
	result, err := r.db.Exec(ctx, insertFavorite,
		favorite.ID, favorite.UserID, favorite.DishID, favorite.CreatedAt)
	if err != nil {
		r.log.Error("Failed to add favorite",
			zap.Error(err),
			zap.String("user_id", favorite.UserID.String()),
			zap.String("dish_id", favorite.DishID.String()),
		)
		return false, translate(err, "add favorite dish %s", favorite.DishID)
	}
	return result.RowsAffected() == 1, nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, dishID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx,
		`DELETE FROM user_dish_favorites WHERE user_id = $1 AND dish_id = $2`, userID, dishID)
	if err != nil {
		r.log.Error("Failed to remove favorite", zap.Error(err), zap.String("dish_id", dishID.String()))
		return false, fmt.Errorf("remove favorite dish %s: %w", dishID, err)
	}
	return result.RowsAffected() == 1, nil
}

func (r *favoriteRepository) Toggle(ctx context.Context, favorite *entity.DishFavorite) (bool, error) {
	var added bool

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx,
			`DELETE FROM user_dish_favorites WHERE user_id = $1 AND dish_id = $2`,
			favorite.UserID, favorite.DishID)
		if err != nil {
			return fmt.Errorf("delete favorite: %w", err)
		}
		if result.RowsAffected() > 0 {
			return nil
		}

		if _, err := tx.Exec(ctx, insertFavorite,
			favorite.ID, favorite.UserID, favorite.DishID, favorite.CreatedAt); err != nil {
			return translate(err, "insert favorite")
		}
		added = true
		return nil
	})
	if err != nil {
		r.log.Error("Failed to toggle favorite", zap.Error(err), zap.String("dish_id", favorite.DishID.String()))
		return false, err
	}

	return added, nil
}

func (r *favoriteRepository) FindDishes(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID) ([]*entity.Dish, error) {
	f := &queryFilter{}
	f.add("id IN (SELECT dish_id FROM user_dish_favorites WHERE user_id = $%d)", userID)
	f.raw("is_available = TRUE")
	if categoryID != nil {
		f.add("category_id = $%d", *categoryID)
	}

	rows, err := r.db.Query(ctx, `SELECT `+dishColumns+` FROM dishes`+f.where()+` ORDER BY sort_order, name`, f.args...)
	if err != nil {
		r.log.Error("Failed to list favorites", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("list favorites of user %s: %w", userID, err)
	}

	return collectDishes(rows)
}
