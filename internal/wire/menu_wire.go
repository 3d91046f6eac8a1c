package wire

import (
	"restaurant-api/internal/adaptor"
	"restaurant-api/internal/data/repository"
	"restaurant-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireMenu(
	r chi.Router,
	menuHandler *adaptor.MenuHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/menu", menuHandler.GetMenu)
	r.Get("/api/menu/categories", menuHandler.GetCategories)
	r.Get("/api/menu/dishes", menuHandler.GetAvailableDishes)
	r.Get("/api/menu/dishes/{id}", menuHandler.GetDish)
	r.Get("/api/menu/discounts", menuHandler.GetActiveDiscounts)
	r.Get("/api/menu/popular", menuHandler.GetPopularDishes)
	r.Get("/api/menu/highlights", menuHandler.GetHighlights)
	r.Get("/api/menu/recommendations", menuHandler.GetRecommendations)

	// ==================== CUSTOMER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log), customerOnly(log))

		r.Get("/api/customer/dishes", menuHandler.GetAvailableDishes)

		// Favorites
		r.Get("/api/customer/favorites", menuHandler.GetFavorites)
		r.Post("/api/customer/favorites", menuHandler.AddFavorite)
		r.Post("/api/customer/favorites/toggle", menuHandler.ToggleFavorite)
		r.Delete("/api/customer/favorites/{dishId}", menuHandler.RemoveFavorite)
	})

	// ==================== MANAGER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log), staffOnly(log))

		// Categories
		r.Get("/api/manager/categories", menuHandler.GetCategories)
		r.Post("/api/manager/categories", menuHandler.CreateCategory)
		r.Put("/api/manager/categories/{id}", menuHandler.UpdateCategory)
		r.Delete("/api/manager/categories/{id}", menuHandler.DeleteCategory)
		r.Post("/api/manager/categories/{id}/image", menuHandler.UploadCategoryImage)

		// Dishes
		r.Get("/api/manager/dishes", menuHandler.GetDishes)
		r.Post("/api/manager/dishes", menuHandler.CreateDish)
		r.Get("/api/manager/dishes/discounts", menuHandler.GetDiscounts)
		r.Put("/api/manager/dishes/{id}", menuHandler.UpdateDish)
		r.Delete("/api/manager/dishes/{id}", menuHandler.DeleteDish)
		r.Post("/api/manager/dishes/{id}/image", menuHandler.UploadDishImage)

		// Discount windows
		r.Post("/api/manager/dishes/{id}/discount", menuHandler.ApplyDiscount)
		r.Delete("/api/manager/dishes/{id}/discount", menuHandler.RemoveDiscount)
	})
}
