package entity

import (
	"github.com/google/uuid"
)

type DishReview struct {
	BaseNoDelete
	UserID  uuid.UUID `db:"user_id"`
	DishID  uuid.UUID `db:"dish_id"`
	Rating  int       `db:"rating"` // 1-5
	Comment *string   `db:"comment"`

	UserName string `db:"-"`
}

// DishFavorite marks a dish a customer saved for later.
type DishFavorite struct {
	BaseSimple
	UserID uuid.UUID `db:"user_id"`
	DishID uuid.UUID `db:"dish_id"`
}
