package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountWindow is how long an applied discount stays active.
const DiscountWindow = 24 * time.Hour

var (
	hundred            = decimal.NewFromInt(100)
	minDiscountPercent = decimal.RequireFromString("0.01")

	ErrDiscountOutOfRange = errors.New("discount percentage must be between 0.01 and 100")
)

type Category struct {
	BaseNoDelete
	Name        string  `db:"name"`
	Slug        string  `db:"slug"`
	Description *string `db:"description"`
	ImageURL    *string `db:"image_url"`
	SortOrder   int     `db:"sort_order"`
	IsActive    bool    `db:"is_active"`
}

type Dish struct {
	BaseNoDelete
	CategoryID         uuid.UUID           `db:"category_id"`
	Name               string              `db:"name"`
	Description        *string             `db:"description"`
	Price              decimal.Decimal     `db:"price"`
	ImageURL           *string             `db:"image_url"`
	IsVegetarian       bool                `db:"is_vegetarian"`
	IsVegan            bool                `db:"is_vegan"`
	IsGlutenFree       bool                `db:"is_gluten_free"`
	IsAvailable        bool                `db:"is_available"`
	PreparationTime    *int                `db:"preparation_time"`
	SortOrder          int                 `db:"sort_order"`
	DiscountPercentage decimal.NullDecimal `db:"discount_percentage"`
	DiscountStartAt    *time.Time          `db:"discount_start_at"`
	DiscountEndAt      *time.Time          `db:"discount_end_at"`
	IsOnDiscount       bool                `db:"is_on_discount"`

	Category *Category `db:"-"`
}

// IsActiveDiscount is true when the flag is set and now lies in the closed
// window [DiscountStartAt, DiscountEndAt].
func (d *Dish) IsActiveDiscount(now time.Time) bool {
	if !d.IsOnDiscount || !d.DiscountPercentage.Valid {
		return false
	}
	if d.DiscountStartAt == nil || d.DiscountEndAt == nil {
		return false
	}
	return !now.Before(*d.DiscountStartAt) && !now.After(*d.DiscountEndAt)
}

// DiscountedPrice is the advertised price at now, rounded to cents.
func (d *Dish) DiscountedPrice(now time.Time) decimal.Decimal {
	if !d.IsActiveDiscount(now) {
		return d.Price
	}

	pct := d.DiscountPercentage.Decimal
	if pct.LessThan(decimal.Zero) {
		pct = decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		pct = hundred
	}

	factor := hundred.Sub(pct).Div(hundred)
	return d.Price.Mul(factor).Round(2)
}

// SavedAmount is the difference between the list price and DiscountedPrice.
func (d *Dish) SavedAmount(now time.Time) decimal.Decimal {
	return d.Price.Sub(d.DiscountedPrice(now))
}

// ApplyDiscount opens a fresh window starting at now.
func (d *Dish) ApplyDiscount(percentage decimal.Decimal, now time.Time) error {
	if percentage.LessThan(minDiscountPercent) || percentage.GreaterThan(hundred) {
		return ErrDiscountOutOfRange
	}

	end := now.Add(DiscountWindow)
	d.DiscountPercentage = decimal.NewNullDecimal(percentage)
	d.DiscountStartAt = &now
	d.DiscountEndAt = &end
	d.IsOnDiscount = true
	d.UpdatedAt = now
	return nil
}

func (d *Dish) RemoveDiscount(now time.Time) {
	d.DiscountPercentage = decimal.NullDecimal{}
	d.DiscountStartAt = nil
	d.DiscountEndAt = nil
	d.IsOnDiscount = false
	d.UpdatedAt = now
}

// DiscountExpired reports a flagged discount whose window already closed.
func (d *Dish) DiscountExpired(now time.Time) bool {
	return d.IsOnDiscount && d.DiscountEndAt != nil && d.DiscountEndAt.Before(now)
}
