package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-api/internal/data/entity"
	"restaurant-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type DishFilter struct {
	CategoryID    *uuid.UUID
	Vegetarian    *bool
	Vegan         *bool
	GlutenFree    *bool
	Search        *string
	AvailableOnly bool
}

type DishRepository interface {
	Create(ctx context.Context, dish *entity.Dish) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Dish, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Dish, error)
	FindAll(ctx context.Context, filter DishFilter, limit, offset int) ([]*entity.Dish, error)
	CountAll(ctx context.Context, filter DishFilter) (int64, error)
	Update(ctx context.Context, dish *entity.Dish) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindDiscounted returns every dish flagged as on discount, expired windows included.
	FindDiscounted(ctx context.Context) ([]*entity.Dish, error)
	// ClearExpiredDiscounts resets dishes whose discount window ended before now.
	ClearExpiredDiscounts(ctx context.Context, now time.Time) (int64, error)
	// CountOpenOrderLines counts items of non-terminal orders referencing the dish.
	CountOpenOrderLines(ctx context.Context, id uuid.UUID) (int64, error)

	// FindPopular ranks available dishes by order lines placed since the given time.
	FindPopular(ctx context.Context, since time.Time, limit int) ([]RankedDish, error)
	// FindTopRated ranks reviewed available dishes by average rating.
	FindTopRated(ctx context.Context, limit int) ([]RankedDish, error)
}

// RankedDish is a dish with the figures it was ranked by.
type RankedDish struct {
	Dish          *entity.Dish
	OrderCount    int64
	AverageRating float64
	ReviewCount   int64
}

type dishRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewDishRepository(db database.PgxIface, log *zap.Logger) DishRepository {
	return &dishRepository{
		db:  db,
		log: log.With(zap.String("repository", "dish")),
	}
}

const dishColumns = `id, category_id, name, description, price, image_url, is_vegetarian, is_vegan,
	is_gluten_free, is_available, preparation_time, sort_order, discount_percentage,
	discount_start_at, discount_end_at, is_on_discount, created_at, updated_at`

func dishFields(dish *entity.Dish) []any {
	return []any{
		&dish.ID,
		&dish.CategoryID,
		&dish.Name,
		&dish.Description,
		&dish.Price,
		&dish.ImageURL,
		&dish.IsVegetarian,
		&dish.IsVegan,
		&dish.IsGlutenFree,
		&dish.IsAvailable,
		&dish.PreparationTime,
		&dish.SortOrder,
		&dish.DiscountPercentage,
		&dish.DiscountStartAt,
		&dish.DiscountEndAt,
		&dish.IsOnDiscount,
		&dish.CreatedAt,
		&dish.UpdatedAt,
	}
}

func scanDish(row rowScanner) (*entity.Dish, error) {
	var dish entity.Dish
	if err := row.Scan(dishFields(&dish)...); err != nil {
		return nil, err
	}
	return &dish, nil
}

func collectDishes(rows pgx.Rows) ([]*entity.Dish, error) {
	defer rows.Close()

	var dishes []*entity.Dish
	for rows.Next() {
		dish, err := scanDish(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dish: %w", err)
		}
		dishes = append(dishes, dish)
	}
	return dishes, rows.Err()
}

func (r *dishRepository) Create(ctx context.Context, dish *entity.Dish) error {
	query := `
		INSERT INTO dishes (id, category_id, name, description, price, image_url, is_vegetarian,
		                    is_vegan, is_gluten_free, is_available, preparation_time, sort_order,
		                    created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		dish.ID,
		dish.CategoryID,
		dish.Name,
		dish.Description,
		dish.Price,
		dish.ImageURL,
		dish.IsVegetarian,
		dish.IsVegan,
		dish.IsGlutenFree,
		dish.IsAvailable,
		dish.PreparationTime,
		dish.SortOrder,
		dish.CreatedAt,
		dish.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create dish", zap.Error(err), zap.String("name", dish.Name))
		return translate(err, "create dish %s", dish.Name)
	}

	return nil
}

func (r *dishRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Dish, error) {
	dish, err := scanDish(r.db.QueryRow(ctx, `SELECT `+dishColumns+` FROM dishes WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find dish", zap.Error(err), zap.String("dish_id", id.String()))
		return nil, fmt.Errorf("find dish %s: %w", id, err)
	}
	return dish, nil
}

func (r *dishRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Dish, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, `SELECT `+dishColumns+` FROM dishes WHERE id = ANY($1)`, ids)
	if err != nil {
		r.log.Error("Failed to find dishes by ids", zap.Error(err), zap.Int("count", len(ids)))
		return nil, fmt.Errorf("find dishes: %w", err)
	}

	return collectDishes(rows)
}

func (r *dishRepository) buildFilter(filter DishFilter) *queryFilter {
	f := &queryFilter{}
	if filter.AvailableOnly {
		f.raw("is_available = TRUE")
	}
	if filter.CategoryID != nil {
		f.add("category_id = $%d", *filter.CategoryID)
	}
	if filter.Vegetarian != nil {
		f.add("is_vegetarian = $%d", *filter.Vegetarian)
	}
	if filter.Vegan != nil {
		f.add("is_vegan = $%d", *filter.Vegan)
	}
	if filter.GlutenFree != nil {
		f.add("is_gluten_free = $%d", *filter.GlutenFree)
	}
	if filter.Search != nil && *filter.Search != "" {
		f.add("(name ILIKE $%[1]d OR description ILIKE $%[1]d)", "%"+*filter.Search+"%")
	}
	return f
}

func (r *dishRepository) FindAll(ctx context.Context, filter DishFilter, limit, offset int) ([]*entity.Dish, error) {
	f := r.buildFilter(filter)
	pageClause, args := f.page(limit, offset)
	query := `SELECT ` + dishColumns + ` FROM dishes` + f.where() + ` ORDER BY sort_order, name` + pageClause

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list dishes", zap.Error(err))
		return nil, fmt.Errorf("list dishes: %w", err)
	}

	return collectDishes(rows)
}

func (r *dishRepository) CountAll(ctx context.Context, filter DishFilter) (int64, error) {
	f := r.buildFilter(filter)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM dishes`+f.where(), f.args...).Scan(&count); err != nil {
		r.log.Error("Failed to count dishes", zap.Error(err))
		return 0, fmt.Errorf("count dishes: %w", err)
	}
	return count, nil
}

// Update writes every column including the discount fields.
func (r *dishRepository) Update(ctx context.Context, dish *entity.Dish) error {
	query := `
		UPDATE dishes
		SET category_id = $2, name = $3, description = $4, price = $5, image_url = $6,
		    is_vegetarian = $7, is_vegan = $8, is_gluten_free = $9, is_available = $10,
		    preparation_time = $11, sort_order = $12, discount_percentage = $13,
		    discount_start_at = $14, discount_end_at = $15, is_on_discount = $16, updated_at = $17
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		dish.ID,
		dish.CategoryID,
		dish.Name,
		dish.Description,
		dish.Price,
		dish.ImageURL,
		dish.IsVegetarian,
		dish.IsVegan,
		dish.IsGlutenFree,
		dish.IsAvailable,
		dish.PreparationTime,
		dish.SortOrder,
		dish.DiscountPercentage,
		dish.DiscountStartAt,
		dish.DiscountEndAt,
		dish.IsOnDiscount,
		dish.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update dish", zap.Error(err), zap.String("dish_id", dish.ID.String()))
		return translate(err, "update dish %s", dish.ID)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("dish %s not found", dish.ID)
	}

	return nil
}

func (r *dishRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM dishes WHERE id = $1`, id); err != nil {
		r.log.Error("Failed to delete dish", zap.Error(err), zap.String("dish_id", id.String()))
		return translate(err, "delete dish %s", id)
	}
	return nil
}

func (r *dishRepository) FindDiscounted(ctx context.Context) ([]*entity.Dish, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+dishColumns+` FROM dishes WHERE is_on_discount = TRUE ORDER BY discount_end_at, name`)
	if err != nil {
		r.log.Error("Failed to list discounted dishes", zap.Error(err))
		return nil, fmt.Errorf("list discounted dishes: %w", err)
	}

	return collectDishes(rows)
}

func (r *dishRepository) ClearExpiredDiscounts(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE dishes
		SET is_on_discount = FALSE, discount_percentage = NULL,
		    discount_start_at = NULL, discount_end_at = NULL, updated_at = $1
		WHERE is_on_discount = TRUE AND discount_end_at < $1
	`

	result, err := r.db.Exec(ctx, query, now)
	if err != nil {
		r.log.Error("Failed to clear expired discounts", zap.Error(err))
		return 0, fmt.Errorf("clear expired discounts: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *dishRepository) CountOpenOrderLines(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.dish_id = $1 AND o.status NOT IN ('delivered', 'delivery_failed', 'cancelled')
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("count open order lines of dish %s: %w", id, err)
	}
	return count, nil
}

func (r *dishRepository) FindPopular(ctx context.Context, since time.Time, limit int) ([]RankedDish, error) {
	query := `
		SELECT ` + dishColumns + `, COALESCE(pc.order_count, 0) AS popularity
		FROM dishes
		LEFT JOIN (
			SELECT oi.dish_id, COUNT(*) AS order_count
			FROM order_items oi
			JOIN orders o ON o.id = oi.order_id
			WHERE o.created_at >= $1
			GROUP BY oi.dish_id
		) pc ON pc.dish_id = dishes.id
		WHERE is_available = TRUE
		ORDER BY popularity DESC, sort_order, name
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, since, limit)
	if err != nil {
		r.log.Error("Failed to rank popular dishes", zap.Error(err))
		return nil, fmt.Errorf("rank popular dishes: %w", err)
	}
	defer rows.Close()

	var ranked []RankedDish
	for rows.Next() {
		var (
			dish  entity.Dish
			count int64
		)
		if err := rows.Scan(append(dishFields(&dish), &count)...); err != nil {
			return nil, fmt.Errorf("scan popular dish: %w", err)
		}
		ranked = append(ranked, RankedDish{Dish: &dish, OrderCount: count})
	}
	return ranked, rows.Err()
}

func (r *dishRepository) FindTopRated(ctx context.Context, limit int) ([]RankedDish, error) {
	query := `
		SELECT ` + dishColumns + `, rs.avg_rating, rs.review_count
		FROM dishes
		JOIN (
			SELECT dish_id, AVG(rating)::float8 AS avg_rating, COUNT(*) AS review_count
			FROM dish_reviews
			GROUP BY dish_id
		) rs ON rs.dish_id = dishes.id
		WHERE is_available = TRUE
		ORDER BY rs.avg_rating DESC, rs.review_count DESC, name
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.log.Error("Failed to rank top rated dishes", zap.Error(err))
		return nil, fmt.Errorf("rank top rated dishes: %w", err)
	}
	defer rows.Close()

	var ranked []RankedDish
	for rows.Next() {
		var (
			dish  entity.Dish
			entry RankedDish
		)
		if err := rows.Scan(append(dishFields(&dish), &entry.AverageRating, &entry.ReviewCount)...); err != nil {
			return nil, fmt.Errorf("scan top rated dish: %w", err)
		}
		entry.Dish = &dish
		ranked = append(ranked, entry)
	}
	return ranked, rows.Err()
}
