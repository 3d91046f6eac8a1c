package adaptor

import (
	"net/http"

	"restaurant-api/internal/dto/request"
	"restaurant-api/internal/usecase"
	"restaurant-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MenuHandler struct {
	service usecase.MenuService
	log     *zap.Logger
}

func NewMenuHandler(service usecase.MenuService, log *zap.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		log:     log.With(zap.String("handler", "menu")),
	}
}

// ==================== PUBLIC ====================

// GetMenu handles GET /api/menu
func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.service.GetMenu(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get menu")
		return
	}

	utils.ResponseSuccess(w, "success", menu)
}

// GetAvailableDishes handles GET /api/menu/dishes and GET /api/customer/dishes
func (h *MenuHandler) GetAvailableDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.service.GetAvailableDishes(r.Context(), dishListFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get available dishes")
		return
	}

	utils.ResponseSuccess(w, "success", dishes)
}

// GetDish handles GET /api/menu/dishes/{id}
func (h *MenuHandler) GetDish(w http.ResponseWriter, r *http.Request) {
	dish, err := h.service.GetDish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get dish")
		return
	}

	utils.ResponseSuccess(w, "success", dish)
}

// GetActiveDiscounts handles GET /api/menu/discounts
func (h *MenuHandler) GetActiveDiscounts(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.service.GetActiveDiscounts(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get active discounts")
		return
	}

	utils.ResponseSuccess(w, "success", dishes)
}

// GetPopularDishes handles GET /api/menu/popular
func (h *MenuHandler) GetPopularDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.service.GetPopularDishes(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get popular dishes")
		return
	}

	utils.ResponseSuccess(w, "success", dishes)
}

// GetHighlights handles GET /api/menu/highlights
func (h *MenuHandler) GetHighlights(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.service.GetHighlights(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get highlights")
		return
	}

	utils.ResponseSuccess(w, "success", dishes)
}

// GetRecommendations handles GET /api/menu/recommendations
func (h *MenuHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.service.GetRecommendations(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get recommendations")
		return
	}

	utils.ResponseSuccess(w, "success", dishes)
}

// GetCategories handles GET /api/menu/categories and GET /api/manager/categories
func (h *MenuHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetCategories(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get categories")
		return
	}

	utils.ResponseSuccess(w, "success", categories)
}

// ==================== FAVORITES ====================

// GetFavorites handles GET /api/customer/favorites?category_id=
func (h *MenuHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	dishes, err := h.service.GetFavorites(r.Context(), userID, optionalQuery(r, "category_id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get favorites")
		return
	}

	utils.ResponseSuccess(w, "success", dishes)
}

// AddFavorite handles POST /api/customer/favorites
func (h *MenuHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.FavoriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.AddFavorite(r.Context(), userID, &req); err != nil {
		handleServiceError(w, h.log, err, "add favorite")
		return
	}

	utils.ResponseCreated(w, "Dish added to favorites successfully", nil)
}

// RemoveFavorite handles DELETE /api/customer/favorites/{dishId}
func (h *MenuHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveFavorite(r.Context(), userID, chi.URLParam(r, "dishId")); err != nil {
		handleServiceError(w, h.log, err, "remove favorite")
		return
	}

	utils.ResponseSuccess(w, "Dish removed from favorites successfully", nil)
}

// ToggleFavorite handles POST /api/customer/favorites/toggle
func (h *MenuHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.FavoriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.ToggleFavorite(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "toggle favorite")
		return
	}

	message := "Dish removed from favorites successfully"
	if result.IsFavorited {
		message = "Dish added to favorites successfully"
	}
	utils.ResponseSuccess(w, message, result)
}

// ==================== CATEGORIES ====================

// CreateCategory handles POST /api/manager/categories
func (h *MenuHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req request.CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.service.CreateCategory(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create category")
		return
	}

	utils.ResponseCreated(w, "Category created successfully", category)
}

// UpdateCategory handles PUT /api/manager/categories/{id}
func (h *MenuHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req request.CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update category")
		return
	}

	utils.ResponseSuccess(w, "Category updated successfully", category)
}

// DeleteCategory handles DELETE /api/manager/categories/{id}
func (h *MenuHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete category")
		return
	}

	utils.ResponseSuccess(w, "Category deleted successfully", nil)
}

// UploadCategoryImage handles POST /api/manager/categories/{id}/image
func (h *MenuHandler) UploadCategoryImage(w http.ResponseWriter, r *http.Request) {
	file, ok := imageUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	category, err := h.service.UploadCategoryImage(r.Context(), chi.URLParam(r, "id"), file)
	if err != nil {
		handleServiceError(w, h.log, err, "upload category image")
		return
	}

	utils.ResponseSuccess(w, "Category image uploaded successfully", category)
}

// ==================== DISHES ====================

// GetDishes handles GET /api/manager/dishes. Unavailable dishes are included.
func (h *MenuHandler) GetDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.service.GetDishes(r.Context(), dishListFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get dishes")
		return
	}

	utils.ResponseSuccess(w, "success", dishes)
}

// CreateDish handles POST /api/manager/dishes
func (h *MenuHandler) CreateDish(w http.ResponseWriter, r *http.Request) {
	var req request.CreateDishRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	dish, err := h.service.CreateDish(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create dish")
		return
	}

	utils.ResponseCreated(w, "Dish created successfully", dish)
}

// UpdateDish handles PUT /api/manager/dishes/{id}
func (h *MenuHandler) UpdateDish(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateDishRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	dish, err := h.service.UpdateDish(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update dish")
		return
	}

	utils.ResponseSuccess(w, "Dish updated successfully", dish)
}

// DeleteDish handles DELETE /api/manager/dishes/{id}
func (h *MenuHandler) DeleteDish(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteDish(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete dish")
		return
	}

	utils.ResponseSuccess(w, "Dish deleted successfully", nil)
}

// UploadDishImage handles POST /api/manager/dishes/{id}/image
func (h *MenuHandler) UploadDishImage(w http.ResponseWriter, r *http.Request) {
	file, ok := imageUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	dish, err := h.service.UploadDishImage(r.Context(), chi.URLParam(r, "id"), file)
	if err != nil {
		handleServiceError(w, h.log, err, "upload dish image")
		return
	}

	utils.ResponseSuccess(w, "Dish image uploaded successfully", dish)
}

// ==================== DISCOUNTS ====================

// ApplyDiscount handles POST /api/manager/dishes/{id}/discount
func (h *MenuHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	var req request.ApplyDiscountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	discount, err := h.service.ApplyDiscount(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "apply discount")
		return
	}

	utils.ResponseSuccess(w, "Discount applied successfully", discount)
}

// RemoveDiscount handles DELETE /api/manager/dishes/{id}/discount
func (h *MenuHandler) RemoveDiscount(w http.ResponseWriter, r *http.Request) {
	dish, err := h.service.RemoveDiscount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "remove discount")
		return
	}

	utils.ResponseSuccess(w, "Discount removed successfully", dish)
}

// GetDiscounts handles GET /api/manager/dishes/discounts
func (h *MenuHandler) GetDiscounts(w http.ResponseWriter, r *http.Request) {
	discounts, err := h.service.GetDiscounts(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get discounts")
		return
	}

	utils.ResponseSuccess(w, "success", discounts)
}

func dishListFromQuery(r *http.Request) *request.DishListRequest {
	return &request.DishListRequest{
		PaginatedRequest: pageFromQuery(r),
		CategoryID:       optionalQuery(r, "category_id"),
		Vegetarian:       optionalBoolQuery(r, "vegetarian"),
		Vegan:            optionalBoolQuery(r, "vegan"),
		GlutenFree:       optionalBoolQuery(r, "gluten_free"),
		Search:           optionalQuery(r, "search"),
	}
}
