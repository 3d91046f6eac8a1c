package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"restaurant-api/internal/data/entity"
	"restaurant-api/internal/data/repository"
	"restaurant-api/internal/dto/request"
	"restaurant-api/internal/dto/response"
	"restaurant-api/pkg/storage"
	"restaurant-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// menuDishLimit bounds the dishes loaded for the public menu.
	menuDishLimit = 1000

	popularWindow       = 30 * 24 * time.Hour
	popularLimit        = 10
	recommendationLimit = 5
	highlightLimit      = 6
)

type MenuService interface {
	// Public
	GetMenu(ctx context.Context) ([]response.CategoryResponse, error)
	GetAvailableDishes(ctx context.Context, req *request.DishListRequest) (*response.PaginatedResponse[response.DishResponse], error)
	GetDish(ctx context.Context, id string) (*response.DishDetailResponse, error)
	GetActiveDiscounts(ctx context.Context) ([]response.DishResponse, error)
	GetPopularDishes(ctx context.Context) ([]response.PopularDishResponse, error)
	GetHighlights(ctx context.Context) ([]response.DishResponse, error)
	GetRecommendations(ctx context.Context) ([]response.RecommendedDishResponse, error)

	// Customer: favorites
	GetFavorites(ctx context.Context, userID uuid.UUID, categoryID *string) ([]response.DishResponse, error)
	AddFavorite(ctx context.Context, userID uuid.UUID, req *request.FavoriteRequest) error
	RemoveFavorite(ctx context.Context, userID uuid.UUID, dishID string) error
	ToggleFavorite(ctx context.Context, userID uuid.UUID, req *request.FavoriteRequest) (*response.FavoriteToggleResponse, error)

	// Staff: categories
	GetCategories(ctx context.Context) ([]response.CategoryResponse, error)
	CreateCategory(ctx context.Context, req *request.CategoryRequest) (*response.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id string, req *request.CategoryRequest) (*response.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id string) error
	UploadCategoryImage(ctx context.Context, id string, src io.Reader) (*response.CategoryResponse, error)

	// Staff: dishes
	GetDishes(ctx context.Context, req *request.DishListRequest) (*response.PaginatedResponse[response.DishResponse], error)
	CreateDish(ctx context.Context, req *request.CreateDishRequest) (*response.DishResponse, error)
	UpdateDish(ctx context.Context, id string, req *request.UpdateDishRequest) (*response.DishResponse, error)
	DeleteDish(ctx context.Context, id string) error
	UploadDishImage(ctx context.Context, id string, src io.Reader) (*response.DishResponse, error)

	// Staff: discounts
	ApplyDiscount(ctx context.Context, id string, req *request.ApplyDiscountRequest) (*response.DiscountResponse, error)
	RemoveDiscount(ctx context.Context, id string) (*response.DishResponse, error)
	GetDiscounts(ctx context.Context) ([]response.DiscountResponse, error)
}

type menuService struct {
	repo  *repository.Repository
	store storage.ImageStore
	clock utils.Clock
	log   *zap.Logger
}

func NewMenuService(repo *repository.Repository, store storage.ImageStore, clock utils.Clock, log *zap.Logger) MenuService {
	return &menuService{
		repo:  repo,
		store: store,
		clock: clock,
		log:   log.With(zap.String("service", "menu")),
	}
}

// GetMenu lists active categories with their available dishes.
func (s *menuService) GetMenu(ctx context.Context) ([]response.CategoryResponse, error) {
	categories, err := s.repo.Category.FindAll(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	dishes, err := s.repo.Dish.FindAll(ctx, repository.DishFilter{AvailableOnly: true}, menuDishLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}

	now := s.clock.Now()
	byCategory := make(map[uuid.UUID][]response.DishResponse)
	for _, dish := range dishes {
		byCategory[dish.CategoryID] = append(byCategory[dish.CategoryID], response.DishToResponse(dish, now))
	}

	menu := make([]response.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		resp := response.CategoryToResponse(category)
		resp.Dishes = byCategory[category.ID]
		menu = append(menu, resp)
	}
	return menu, nil
}

func (s *menuService) GetAvailableDishes(ctx context.Context, req *request.DishListRequest) (*response.PaginatedResponse[response.DishResponse], error) {
	return s.listDishes(ctx, req, true)
}

func (s *menuService) GetDishes(ctx context.Context, req *request.DishListRequest) (*response.PaginatedResponse[response.DishResponse], error) {
	return s.listDishes(ctx, req, false)
}

func (s *menuService) GetDish(ctx context.Context, id string) (*response.DishDetailResponse, error) {
	dish, err := s.findDish(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &response.DishDetailResponse{DishResponse: response.DishToResponse(dish, s.clock.Now())}

	category, err := s.repo.Category.FindByID(ctx, dish.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if category != nil {
		c := response.CategoryToResponse(category)
		resp.Category = &c
	}

	avg, count, err := s.repo.Review.GetDishReviewStats(ctx, dish.ID)
	if err != nil {
		s.log.Warn("Failed to load review stats", zap.Error(err), zap.String("dish_id", id))
	} else {
		resp.AverageRating = math.Round(avg*10) / 10
		resp.ReviewCount = count
	}

	return resp, nil
}

// GetActiveDiscounts lists dishes whose discount window is open right now.
func (s *menuService) GetActiveDiscounts(ctx context.Context) ([]response.DishResponse, error) {
	dishes, err := s.repo.Dish.FindDiscounted(ctx)
	if err != nil {
		return nil, fmt.Errorf("list discounted dishes: %w", err)
	}

	now := s.clock.Now()
	active := make([]response.DishResponse, 0, len(dishes))
	for _, dish := range dishes {
		if dish.IsAvailable && dish.IsActiveDiscount(now) {
			active = append(active, response.DishToResponse(dish, now))
		}
	}
	return active, nil
}

// GetPopularDishes ranks available dishes by how often they were ordered in
// the last 30 days. Dishes nobody ordered still fill the list after the rest.
func (s *menuService) GetPopularDishes(ctx context.Context) ([]response.PopularDishResponse, error) {
	now := s.clock.Now()
	ranked, err := s.repo.Dish.FindPopular(ctx, now.Add(-popularWindow), popularLimit)
	if err != nil {
		return nil, fmt.Errorf("rank popular dishes: %w", err)
	}

	data := make([]response.PopularDishResponse, len(ranked))
	for i, entry := range ranked {
		data[i] = response.PopularDishResponse{
			DishResponse: response.DishToResponse(entry.Dish, now),
			OrderCount:   entry.OrderCount,
		}
	}
	return data, nil
}

// GetHighlights returns the first available dishes in menu order.
func (s *menuService) GetHighlights(ctx context.Context) ([]response.DishResponse, error) {
	dishes, err := s.repo.Dish.FindAll(ctx, repository.DishFilter{AvailableOnly: true}, highlightLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("list highlights: %w", err)
	}

	now := s.clock.Now()
	data := make([]response.DishResponse, len(dishes))
	for i, dish := range dishes {
		data[i] = response.DishToResponse(dish, now)
	}
	return data, nil
}

// GetRecommendations returns the best rated available dishes. Dishes without
// reviews are never recommended.
func (s *menuService) GetRecommendations(ctx context.Context) ([]response.RecommendedDishResponse, error) {
	ranked, err := s.repo.Dish.FindTopRated(ctx, recommendationLimit)
	if err != nil {
		return nil, fmt.Errorf("rank top rated dishes: %w", err)
	}

	now := s.clock.Now()
	data := make([]response.RecommendedDishResponse, len(ranked))
	for i, entry := range ranked {
		data[i] = response.RecommendedDishResponse{
			DishResponse:  response.DishToResponse(entry.Dish, now),
			AverageRating: math.Round(entry.AverageRating*10) / 10,
			ReviewCount:   entry.ReviewCount,
		}
	}
	return data, nil
}

// ==================== FAVORITES ====================

// GetFavorites lists the customer's favorites that are currently available.
func (s *menuService) GetFavorites(ctx context.Context, userID uuid.UUID, categoryID *string) ([]response.DishResponse, error) {
	var category *uuid.UUID
	if categoryID != nil && *categoryID != "" {
		id, err := parseID(*categoryID, "category_id")
		if err != nil {
			return nil, err
		}
		category = &id
	}

	dishes, err := s.repo.Favorite.FindDishes(ctx, userID, category)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	now := s.clock.Now()
	data := make([]response.DishResponse, len(dishes))
	for i, dish := range dishes {
		data[i] = response.DishToResponse(dish, now)
	}
	return data, nil
}

func (s *menuService) AddFavorite(ctx context.Context, userID uuid.UUID, req *request.FavoriteRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	dish, err := s.findDish(ctx, req.DishID)
	if err != nil {
		return err
	}

	added, err := s.repo.Favorite.Add(ctx, s.newFavorite(userID, dish.ID))
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	if !added {
		return invalidField("dish_id", "Dish is already in your favorites")
	}

	s.log.Info("Favorite added", zap.String("user_id", userID.String()), zap.String("dish_id", dish.ID.String()))
	return nil
}

func (s *menuService) RemoveFavorite(ctx context.Context, userID uuid.UUID, dishID string) error {
	dish, err := s.findDish(ctx, dishID)
	if err != nil {
		return err
	}

	removed, err := s.repo.Favorite.Remove(ctx, userID, dish.ID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	if !removed {
		return invalidField("dish_id", "Dish is not in your favorites")
	}

	s.log.Info("Favorite removed", zap.String("user_id", userID.String()), zap.String("dish_id", dish.ID.String()))
	return nil
}

func (s *menuService) ToggleFavorite(ctx context.Context, userID uuid.UUID, req *request.FavoriteRequest) (*response.FavoriteToggleResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	dish, err := s.findDish(ctx, req.DishID)
	if err != nil {
		return nil, err
	}

	favorited, err := s.repo.Favorite.Toggle(ctx, s.newFavorite(userID, dish.ID))
	if err != nil {
		return nil, fmt.Errorf("toggle favorite: %w", err)
	}

	resp := &response.FavoriteToggleResponse{DishID: dish.ID.String(), Action: "removed", IsFavorited: favorited}
	if favorited {
		resp.Action = "added"
	}
	return resp, nil
}

// ==================== CATEGORIES ====================

func (s *menuService) GetCategories(ctx context.Context) ([]response.CategoryResponse, error) {
	categories, err := s.repo.Category.FindAll(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	data := make([]response.CategoryResponse, len(categories))
	for i, category := range categories {
		data[i] = response.CategoryToResponse(category)
	}
	return data, nil
}

func (s *menuService) CreateCategory(ctx context.Context, req *request.CategoryRequest) (*response.CategoryResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	slug := utils.Slugify(req.Name)
	if slug == "" {
		return nil, invalidField("name", "Must contain letters or digits")
	}

	category := &entity.Category{
		BaseNoDelete: entity.NewBaseNoDelete(s.clock.Now()),
		Name:         req.Name,
		Slug:         slug,
		Description:  req.Description,
		IsActive:     true,
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.repo.Category.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("category %q already exists", slug)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.log.Info("Category created", zap.String("category_id", category.ID.String()), zap.String("slug", slug))

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *menuService) UpdateCategory(ctx context.Context, id string, req *request.CategoryRequest) (*response.CategoryResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	category, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != category.Name {
		category.Name = req.Name
		category.Slug = utils.Slugify(req.Name)
	}
	if req.Description != nil {
		category.Description = req.Description
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.UpdatedAt = s.clock.Now()

	if err := s.repo.Category.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("category %q already exists", category.Slug)
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

// DeleteCategory refuses while dishes still belong to the category.
func (s *menuService) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return err
	}

	dishes, err := s.repo.Category.CountDishes(ctx, category.ID)
	if err != nil {
		return fmt.Errorf("count category dishes: %w", err)
	}
	if dishes > 0 {
		return conflict("category still has %d dishes", dishes)
	}

	if err := s.repo.Category.Delete(ctx, category.ID); err != nil {
		if errors.Is(err, repository.ErrInUse) {
			return conflict("category still has dishes")
		}
		return fmt.Errorf("delete category: %w", err)
	}
	s.dropImage(ctx, category.ImageURL)

	s.log.Info("Category deleted", zap.String("category_id", category.ID.String()))
	return nil
}

func (s *menuService) UploadCategoryImage(ctx context.Context, id string, src io.Reader) (*response.CategoryResponse, error) {
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.saveImage(ctx, "categories", src)
	if err != nil {
		return nil, err
	}

	previous := category.ImageURL
	category.ImageURL = &url
	category.UpdatedAt = s.clock.Now()
	if err := s.repo.Category.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category image: %w", err)
	}
	s.dropImage(ctx, previous)

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

// ==================== DISHES ====================

func (s *menuService) CreateDish(ctx context.Context, req *request.CreateDishRequest) (*response.DishResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, invalidField("price", "Minimum value is 0")
	}

	categoryID, err := s.requireCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	dish := &entity.Dish{
		BaseNoDelete:    entity.NewBaseNoDelete(now),
		CategoryID:      categoryID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price.Round(2),
		IsVegetarian:    req.IsVegetarian,
		IsVegan:         req.IsVegan,
		IsGlutenFree:    req.IsGlutenFree,
		IsAvailable:     true,
		PreparationTime: req.PreparationTime,
	}
	if req.IsAvailable != nil {
		dish.IsAvailable = *req.IsAvailable
	}
	if req.SortOrder != nil {
		dish.SortOrder = *req.SortOrder
	}

	if err := s.repo.Dish.Create(ctx, dish); err != nil {
		return nil, fmt.Errorf("create dish: %w", err)
	}

	s.log.Info("Dish created",
		zap.String("dish_id", dish.ID.String()),
		zap.String("name", dish.Name),
		zap.String("price", dish.Price.StringFixed(2)))

	resp := response.DishToResponse(dish, now)
	return &resp, nil
}

func (s *menuService) UpdateDish(ctx context.Context, id string, req *request.UpdateDishRequest) (*response.DishResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, invalidField("price", "Minimum value is 0")
	}

	dish, err := s.findDish(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if dish.CategoryID, err = s.requireCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}
	if req.Name != nil {
		dish.Name = *req.Name
	}
	if req.Description != nil {
		dish.Description = req.Description
	}
	if req.Price != nil {
		dish.Price = req.Price.Round(2)
	}
	if req.IsVegetarian != nil {
		dish.IsVegetarian = *req.IsVegetarian
	}
	if req.IsVegan != nil {
		dish.IsVegan = *req.IsVegan
	}
	if req.IsGlutenFree != nil {
		dish.IsGlutenFree = *req.IsGlutenFree
	}
	if req.IsAvailable != nil {
		dish.IsAvailable = *req.IsAvailable
	}
	if req.PreparationTime != nil {
		dish.PreparationTime = req.PreparationTime
	}
	if req.SortOrder != nil {
		dish.SortOrder = *req.SortOrder
	}

	now := s.clock.Now()
	dish.UpdatedAt = now
	if err := s.repo.Dish.Update(ctx, dish); err != nil {
		return nil, fmt.Errorf("update dish: %w", err)
	}

	resp := response.DishToResponse(dish, now)
	return &resp, nil
}

// DeleteDish refuses while the dish is part of an order still in progress.
// Dishes that only appear in finished orders stay referenced by their order
// lines and must be marked unavailable instead.
func (s *menuService) DeleteDish(ctx context.Context, id string) error {
	dish, err := s.findDish(ctx, id)
	if err != nil {
		return err
	}

	open, err := s.repo.Dish.CountOpenOrderLines(ctx, dish.ID)
	if err != nil {
		return fmt.Errorf("count open order lines: %w", err)
	}
	if open > 0 {
		return conflict("dish is part of %d active orders", open)
	}

	if err := s.repo.Dish.Delete(ctx, dish.ID); err != nil {
		if errors.Is(err, repository.ErrInUse) {
			return conflict("dish appears in past orders, mark it unavailable instead")
		}
		return fmt.Errorf("delete dish: %w", err)
	}
	s.dropImage(ctx, dish.ImageURL)

	s.log.Info("Dish deleted", zap.String("dish_id", dish.ID.String()))
	return nil
}

func (s *menuService) UploadDishImage(ctx context.Context, id string, src io.Reader) (*response.DishResponse, error) {
	dish, err := s.findDish(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.saveImage(ctx, "dishes", src)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	previous := dish.ImageURL
	dish.ImageURL = &url
	dish.UpdatedAt = now
	if err := s.repo.Dish.Update(ctx, dish); err != nil {
		return nil, fmt.Errorf("update dish image: %w", err)
	}
	s.dropImage(ctx, previous)

	resp := response.DishToResponse(dish, now)
	return &resp, nil
}

// ==================== DISCOUNTS ====================

// ApplyDiscount always opens a one day window starting now.
func (s *menuService) ApplyDiscount(ctx context.Context, id string, req *request.ApplyDiscountRequest) (*response.DiscountResponse, error) {
	dish, err := s.findDish(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := dish.ApplyDiscount(req.Percentage, now); err != nil {
		if errors.Is(err, entity.ErrDiscountOutOfRange) {
			return nil, invalidField("discount_percentage", "Must be between 0.01 and 100")
		}
		return nil, err
	}

	if err := s.repo.Dish.Update(ctx, dish); err != nil {
		return nil, fmt.Errorf("apply discount: %w", err)
	}

	s.log.Info("Discount applied",
		zap.String("dish_id", dish.ID.String()),
		zap.String("percentage", req.Percentage.String()),
		zap.Timep("ends_at", dish.DiscountEndAt))

	resp := response.DiscountToResponse(dish, now)
	return &resp, nil
}

func (s *menuService) RemoveDiscount(ctx context.Context, id string) (*response.DishResponse, error) {
	dish, err := s.findDish(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	dish.RemoveDiscount(now)
	if err := s.repo.Dish.Update(ctx, dish); err != nil {
		return nil, fmt.Errorf("remove discount: %w", err)
	}

	s.log.Info("Discount removed", zap.String("dish_id", dish.ID.String()))

	resp := response.DishToResponse(dish, now)
	return &resp, nil
}

// GetDiscounts lists every flagged dish, including windows that already closed
// but were not swept yet.
func (s *menuService) GetDiscounts(ctx context.Context) ([]response.DiscountResponse, error) {
	dishes, err := s.repo.Dish.FindDiscounted(ctx)
	if err != nil {
		return nil, fmt.Errorf("list discounted dishes: %w", err)
	}

	now := s.clock.Now()
	data := make([]response.DiscountResponse, len(dishes))
	for i, dish := range dishes {
		data[i] = response.DiscountToResponse(dish, now)
	}
	return data, nil
}

// ==================== HELPER METHODS ====================

func (s *menuService) listDishes(ctx context.Context, req *request.DishListRequest, availableOnly bool) (*response.PaginatedResponse[response.DishResponse], error) {
	req.Normalize()
	if err := validate(req); err != nil {
		return nil, err
	}

	filter := repository.DishFilter{
		Vegetarian:    req.Vegetarian,
		Vegan:         req.Vegan,
		GlutenFree:    req.GlutenFree,
		Search:        req.Search,
		AvailableOnly: availableOnly,
	}
	if req.CategoryID != nil {
		categoryID, err := parseID(*req.CategoryID, "category_id")
		if err != nil {
			return nil, err
		}
		filter.CategoryID = &categoryID
	}

	dishes, err := s.repo.Dish.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}

	total, err := s.repo.Dish.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count dishes: %w", err)
	}

	now := s.clock.Now()
	data := make([]response.DishResponse, len(dishes))
	for i, dish := range dishes {
		data[i] = response.DishToResponse(dish, now)
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *menuService) findDish(ctx context.Context, id string) (*entity.Dish, error) {
	dishID, err := parseID(id, "id")
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

func (s *menuService) findCategory(ctx context.Context, id string) (*entity.Category, error) {
	categoryID, err := parseID(id, "id")
	if err != nil {
		return nil, err
	}

	category, err := s.repo.Category.FindByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return nil, notFound("category %s not found", id)
	}
	return category, nil
}

func (s *menuService) newFavorite(userID, dishID uuid.UUID) *entity.DishFavorite {
	return &entity.DishFavorite{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: s.clock.Now()},
		UserID:     userID,
		DishID:     dishID,
	}
}

// requireCategory resolves a category id supplied in a dish payload.
func (s *menuService) requireCategory(ctx context.Context, id string) (uuid.UUID, error) {
	categoryID, err := parseID(id, "category_id")
	if err != nil {
		return uuid.Nil, err
	}

	category, err := s.repo.Category.FindByID(ctx, categoryID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return uuid.Nil, invalidField("category_id", "Category does not exist")
	}
	return category.ID, nil
}

func (s *menuService) saveImage(ctx context.Context, folder string, src io.Reader) (string, error) {
	url, err := s.store.SaveImage(ctx, folder, src)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImage) {
			return "", invalidField("image", "Must be a valid image")
		}
		s.log.Error("Failed to store image", zap.Error(err), zap.String("folder", folder))
		return "", fmt.Errorf("store image: %w", err)
	}
	return url, nil
}

func (s *menuService) dropImage(ctx context.Context, url *string) {
	if url == nil {
		return
	}
	if err := s.store.Delete(ctx, *url); err != nil {
		s.log.Warn("Failed to delete image", zap.Error(err), zap.String("url", *url))
	}
}
