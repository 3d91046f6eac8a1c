package response

import (
	"time"

	"restaurant-api/internal/data/entity"
)

type CategoryResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description *string        `json:"description,omitempty"`
	ImageURL    *string        `json:"image_url,omitempty"`
	SortOrder   int            `json:"sort_order"`
	IsActive    bool           `json:"is_active"`
	Dishes      []DishResponse `json:"dishes,omitempty"`
}

func CategoryToResponse(category *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID.String(),
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		ImageURL:    category.ImageURL,
		SortOrder:   category.SortOrder,
		IsActive:    category.IsActive,
	}
}

type DishResponse struct {
	ID                 string     `json:"id"`
	CategoryID         string     `json:"category_id"`
	Name               string     `json:"name"`
	Description        *string    `json:"description,omitempty"`
	Price              string     `json:"price"`
	DiscountedPrice    string     `json:"discounted_price"`
	ImageURL           *string    `json:"image_url,omitempty"`
	IsVegetarian       bool       `json:"is_vegetarian"`
	IsVegan            bool       `json:"is_vegan"`
	IsGlutenFree       bool       `json:"is_gluten_free"`
	IsAvailable        bool       `json:"is_available"`
	PreparationTime    *int       `json:"preparation_time,omitempty"`
	SortOrder          int        `json:"sort_order"`
	IsOnDiscount       bool       `json:"is_on_discount"`
	DiscountActive     bool       `json:"discount_active"`
	DiscountPercentage *string    `json:"discount_percentage,omitempty"`
	DiscountStartDate  *time.Time `json:"discount_start_date,omitempty"`
	DiscountEndDate    *time.Time `json:"discount_end_date,omitempty"`
}

// DishToResponse renders prices as seen at now.
func DishToResponse(dish *entity.Dish, now time.Time) DishResponse {
	resp := DishResponse{
		ID:                dish.ID.String(),
		CategoryID:        dish.CategoryID.String(),
		Name:              dish.Name,
		Description:       dish.Description,
		Price:             dish.Price.StringFixed(2),
		DiscountedPrice:   dish.DiscountedPrice(now).StringFixed(2),
		ImageURL:          dish.ImageURL,
		IsVegetarian:      dish.IsVegetarian,
		IsVegan:           dish.IsVegan,
		IsGlutenFree:      dish.IsGlutenFree,
		IsAvailable:       dish.IsAvailable,
		PreparationTime:   dish.PreparationTime,
		SortOrder:         dish.SortOrder,
		IsOnDiscount:      dish.IsOnDiscount,
		DiscountActive:    dish.IsActiveDiscount(now),
		DiscountStartDate: dish.DiscountStartAt,
		DiscountEndDate:   dish.DiscountEndAt,
	}
	if dish.DiscountPercentage.Valid {
		pct := dish.DiscountPercentage.Decimal.StringFixed(2)
		resp.DiscountPercentage = &pct
	}
	return resp
}

type DishDetailResponse struct {
	DishResponse
	Category      *CategoryResponse `json:"category,omitempty"`
	AverageRating float64           `json:"average_rating"`
	ReviewCount   int64             `json:"review_count"`
}

// DiscountResponse is the staff view of a discounted dish.
type DiscountResponse struct {
	DishID             string    `json:"dish_id"`
	Name               string    `json:"name"`
	OriginalPrice      string    `json:"original_price"`
	DiscountedPrice    string    `json:"discounted_price"`
	Savings            string    `json:"savings"`
	DiscountPercentage string    `json:"discount_percentage"`
	StartDate          time.Time `json:"discount_start_date"`
	EndDate            time.Time `json:"discount_end_date"`
	Active             bool      `json:"active"`
}

func DiscountToResponse(dish *entity.Dish, now time.Time) DiscountResponse {
	resp := DiscountResponse{
		DishID:             dish.ID.String(),
		Name:               dish.Name,
		OriginalPrice:      dish.Price.StringFixed(2),
		DiscountedPrice:    dish.DiscountedPrice(now).StringFixed(2),
		Savings:            dish.SavedAmount(now).StringFixed(2),
		DiscountPercentage: dish.DiscountPercentage.Decimal.StringFixed(2),
		Active:             dish.IsActiveDiscount(now),
	}
	if dish.DiscountStartAt != nil {
		resp.StartDate = *dish.DiscountStartAt
	}
	if dish.DiscountEndAt != nil {
		resp.EndDate = *dish.DiscountEndAt
	}
	return resp
}

// FavoriteToggleResponse tells the caller which way a toggle went.
type FavoriteToggleResponse struct {
	DishID      string `json:"dish_id"`
	Action      string `json:"action"`
	IsFavorited bool   `json:"is_favorited"`
}

type PopularDishResponse struct {
	DishResponse
	OrderCount int64 `json:"order_count"`
}

type RecommendedDishResponse struct {
	DishResponse
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}
