package adaptor

import (
	"net/http"

	"restaurant-api/internal/dto/request"
	"restaurant-api/internal/usecase"
	"restaurant-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// SubmitReview handles POST /api/customer/reviews and
// POST /api/customer/dishes/{id}/reviews. Resubmitting replaces the
// caller's earlier review of the same dish.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		DishID string `json:"dish_id"`
		request.CreateReviewRequest
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	dishID := chi.URLParam(r, "id")
	if dishID == "" {
		dishID = req.DishID
	}
	if dishID == "" {
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{"dish_id": "This field is required"})
		return
	}

	review, created, err := h.service.SubmitReview(r.Context(), userID, dishID, &req.CreateReviewRequest)
	if err != nil {
		handleServiceError(w, h.log, err, "submit review")
		return
	}

	if created {
		utils.ResponseCreated(w, "Review submitted successfully", review)
		return
	}
	utils.ResponseSuccess(w, "Review updated successfully", review)
}

// GetDishReviews handles GET /api/menu/dishes/{id}/reviews (public)
func (h *ReviewHandler) GetDishReviews(w http.ResponseWriter, r *http.Request) {
	dishID := chi.URLParam(r, "id")
	req := pageFromQuery(r)

	reviews, err := h.service.GetDishReviews(r.Context(), dishID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "get dish reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}
