package repository

import (
	"context"
	"fmt"

	"restaurant-api/internal/data/entity"
	"restaurant-api/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	// Upsert stores the user's review of a dish, replacing an earlier one.
	// Returns true when a new row was inserted.
	Upsert(ctx context.Context, review *entity.DishReview) (bool, error)
	FindByDishID(ctx context.Context, dishID uuid.UUID, limit, offset int) ([]*entity.DishReview, error)

	// GetDishReviewStats returns the average rating and review count of a dish.
	GetDishReviewStats(ctx context.Context, dishID uuid.UUID) (float64, int64, error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func (r *reviewRepository) Upsert(ctx context.Context, review *entity.DishReview) (bool, error) {
	query := `
		INSERT INTO dish_reviews (id, user_id, dish_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, dish_id)
		DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.db.QueryRow(ctx, query,
		review.ID,
		review.UserID,
		review.DishID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	).Scan(&review.ID, &review.CreatedAt, &inserted)
	if err != nil {
		r.log.Error("Failed to upsert review",
			zap.Error(err),
			zap.String("user_id", review.UserID.String()),
			zap.String("dish_id", review.DishID.String()),
		)
		return false, fmt.Errorf("upsert review for dish %s by user %s: %w",
			review.DishID, review.UserID, err)
	}

	return inserted, nil
}

func (r *reviewRepository) FindByDishID(ctx context.Context, dishID uuid.UUID, limit, offset int) ([]*entity.DishReview, error) {
	query := `
		SELECT dr.id, dr.user_id, dr.dish_id, dr.rating, dr.comment, dr.created_at, dr.updated_at, u.name
		FROM dish_reviews dr
		JOIN users u ON u.id = dr.user_id
		WHERE dr.dish_id = $1
		ORDER BY dr.updated_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, dishID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list dish reviews", zap.Error(err), zap.String("dish_id", dishID.String()))
		return nil, fmt.Errorf("list reviews of dish %s: %w", dishID, err)
	}
	defer rows.Close()

	var reviews []*entity.DishReview
	for rows.Next() {
		var review entity.DishReview
		if err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.DishID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.UserName,
		); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, rows.Err()
}

func (r *reviewRepository) GetDishReviewStats(ctx context.Context, dishID uuid.UUID) (float64, int64, error) {
	var (
		avg   float64
		count int64
	)
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*) FROM dish_reviews WHERE dish_id = $1`, dishID,
	).Scan(&avg, &count)
	if err != nil {
		r.log.Error("Failed to get dish review stats", zap.Error(err), zap.String("dish_id", dishID.String()))
		return 0, 0, fmt.Errorf("review stats of dish %s: %w", dishID, err)
	}

	return avg, count, nil
}
