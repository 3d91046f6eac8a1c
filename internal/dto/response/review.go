package response

import (
	"time"

	"restaurant-api/internal/data/entity"
)

type ReviewResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	DishID    string    `json:"dish_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DishReviewsResponse struct {
	AverageRating float64          `json:"average_rating"`
	TotalReviews  int64            `json:"total_reviews"`
	Reviews       []ReviewResponse `json:"reviews"`
	Pagination    PaginationMeta   `json:"pagination"`
}

func ReviewToResponse(review *entity.DishReview) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID.String(),
		UserID:    review.UserID.String(),
		UserName:  review.UserName,
		DishID:    review.DishID.String(),
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}
