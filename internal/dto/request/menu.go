package request

import "github.com/shopspring/decimal"

type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	SortOrder   *int    `json:"sort_order,omitempty" validate:"omitempty,min=0"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type CreateDishRequest struct {
	CategoryID      string          `json:"category_id" validate:"required,uuid"`
	Name            string          `json:"name" validate:"required,max=255"`
	Description     *string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price           decimal.Decimal `json:"price"`
	IsVegetarian    bool            `json:"is_vegetarian"`
	IsVegan         bool            `json:"is_vegan"`
	IsGlutenFree    bool            `json:"is_gluten_free"`
	IsAvailable     *bool           `json:"is_available,omitempty"`
	PreparationTime *int            `json:"preparation_time,omitempty" validate:"omitempty,min=1,max=600"`
	SortOrder       *int            `json:"sort_order,omitempty" validate:"omitempty,min=0"`
}

type UpdateDishRequest struct {
	CategoryID      *string          `json:"category_id,omitempty" validate:"omitempty,uuid"`
	Name            *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description     *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	IsVegetarian    *bool            `json:"is_vegetarian,omitempty"`
	IsVegan         *bool            `json:"is_vegan,omitempty"`
	IsGlutenFree    *bool            `json:"is_gluten_free,omitempty"`
	IsAvailable     *bool            `json:"is_available,omitempty"`
	PreparationTime *int             `json:"preparation_time,omitempty" validate:"omitempty,min=1,max=600"`
	SortOrder       *int             `json:"sort_order,omitempty" validate:"omitempty,min=0"`
}

type DishListRequest struct {
	PaginatedRequest
	CategoryID *string `json:"category_id,omitempty" validate:"omitempty,uuid"`
	Vegetarian *bool   `json:"vegetarian,omitempty"`
	Vegan      *bool   `json:"vegan,omitempty"`
	GlutenFree *bool   `json:"gluten_free,omitempty"`
	Search     *string `json:"search,omitempty" validate:"omitempty,max=100"`
}

type ApplyDiscountRequest struct {
	Percentage decimal.Decimal `json:"discount_percentage"`
}

type FavoriteRequest struct {
	DishID string `json:"dish_id" validate:"required,uuid"`
}
