package usecase

import (
	"context"
	"fmt"
	"math"

	"restaurant-api/internal/data/entity"
	"restaurant-api/internal/data/repository"
	"restaurant-api/internal/dto/request"
	"restaurant-api/internal/dto/response"
	"restaurant-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	SubmitReview(ctx context.Context, userID uuid.UUID, dishID string, req *request.CreateReviewRequest) (*response.ReviewResponse, bool, error)
	GetDishReviews(ctx context.Context, dishID string, req *request.PaginatedRequest) (*response.DishReviewsResponse, error)
}

type reviewService struct {
	repo  *repository.Repository
	clock utils.Clock
	log   *zap.Logger
}

func NewReviewService(repo *repository.Repository, clock utils.Clock, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "review")),
	}
}

// SubmitReview stores the customer's review of a dish, replacing any earlier
// one. The boolean reports whether a new review was created.
func (s *reviewService) SubmitReview(ctx context.Context, userID uuid.UUID, dishID string, req *request.CreateReviewRequest) (*response.ReviewResponse, bool, error) {
	if err := validate(req); err != nil {
		return nil, false, err
	}

	dish, err := s.findDish(ctx, dishID)
	if err != nil {
		return nil, false, err
	}

	review := &entity.DishReview{
		BaseNoDelete: entity.NewBaseNoDelete(s.clock.Now()),
		UserID:       userID,
		DishID:       dish.ID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}

	created, err := s.repo.Review.Upsert(ctx, review)
	if err != nil {
		return nil, false, fmt.Errorf("save review: %w", err)
	}

	s.log.Info("Review saved",
		zap.String("review_id", review.ID.String()),
		zap.String("dish_id", dish.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("rating", review.Rating),
		zap.Bool("created", created))

	resp := response.ReviewToResponse(review)
	return &resp, created, nil
}

func (s *reviewService) GetDishReviews(ctx context.Context, dishID string, req *request.PaginatedRequest) (*response.DishReviewsResponse, error) {
	req.Normalize()

	dish, err := s.findDish(ctx, dishID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.repo.Review.FindByDishID(ctx, dish.ID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	avg, total, err := s.repo.Review.GetDishReviewStats(ctx, dish.ID)
	if err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}

	data := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		data[i] = response.ReviewToResponse(review)
	}

	return &response.DishReviewsResponse{
		AverageRating: math.Round(avg*10) / 10,
		TotalReviews:  total,
		Reviews:       data,
		Pagination:    response.NewPaginatedResponse(data, req.Page, req.PerPage, total).Pagination,
	}, nil
}

func (s *reviewService) findDish(ctx context.Context, id string) (*entity.Dish, error) {
	dishID, err := parseID(id, "dish_id")
	if err != nil {
		return nil, err
	}

	dish, err := s.repo.Dish.FindByID(ctx, dishID)
	if err != nil {
		return nil, fmt.Errorf("find dish: %w", err)
	}
	if dish == nil {
		return nil, notFound("dish %s not found", id)
	}
	return dish, nil
}
