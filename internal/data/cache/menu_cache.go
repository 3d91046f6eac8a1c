package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"restaurant-api/internal/data/entity"
	"restaurant-api/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	notFoundMarker      = "notfound"
	notFoundTTL         = time.Minute
	categoriesAllKey    = "categories:all"
	categoriesActiveKey = "categories:active"
)

func dishKey(id uuid.UUID) string {
	return fmt.Sprintf("dish:%s", id)
}

// readThrough returns the cached value at key or loads, stores and returns it.
// A nil result from load is cached as a short-lived not-found marker. Cache
// errors never fail the call.
func readThrough[T any](ctx context.Context, store Store, log *zap.Logger, key string, ttl time.Duration,
	load func() (*T, error)) (*T, error) {

	data, err := store.Get(ctx, key)
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, nil
		}
		var value T
		if err := json.Unmarshal(data, &value); err == nil {
			return &value, nil
		}
		log.Warn("Failed to decode cached value, reloading", zap.String("key", key), zap.Error(err))
	case errors.Is(err, ErrMiss):
	default:
		log.Warn("Cache read failed, continuing with database", zap.String("key", key), zap.Error(err))
	}

	value, err := load()
	if err != nil {
		return nil, err
	}

	if value == nil {
		if err := store.Set(ctx, key, []byte(notFoundMarker), notFoundTTL); err != nil {
			log.Warn("Failed to cache not-found marker", zap.String("key", key), zap.Error(err))
		}
		return nil, nil
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		log.Warn("Failed to encode value for cache", zap.String("key", key), zap.Error(err))
		return value, nil
	}
	if err := store.Set(ctx, key, encoded, ttl); err != nil {
		log.Warn("Failed to write cache", zap.String("key", key), zap.Error(err))
	}

	return value, nil
}

func invalidate(ctx context.Context, store Store, log *zap.Logger, keys ...string) {
	if err := store.Del(ctx, keys...); err != nil {
		log.Warn("Failed to invalidate cache", zap.Strings("keys", keys), zap.Error(err))
	}
}

// CachedDishRepository serves dish lookups by id from the cache and drops
// entries on every write.
type CachedDishRepository struct {
	repository.DishRepository
	store Store
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedDishRepository(realRepo repository.DishRepository, store Store, ttl time.Duration, log *zap.Logger) *CachedDishRepository {
	return &CachedDishRepository{
		DishRepository: realRepo,
		store:          store,
		ttl:            ttl,
		log:            log.With(zap.String("cache", "dish")),
	}
}

func (c *CachedDishRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Dish, error) {
	return readThrough(ctx, c.store, c.log, dishKey(id), c.ttl, func() (*entity.Dish, error) {
		return c.DishRepository.FindByID(ctx, id)
	})
}

func (c *CachedDishRepository) Create(ctx context.Context, dish *entity.Dish) error {
	if err := c.DishRepository.Create(ctx, dish); err != nil {
		return err
	}
	invalidate(ctx, c.store, c.log, dishKey(dish.ID))
	return nil
}

func (c *CachedDishRepository) Update(ctx context.Context, dish *entity.Dish) error {
	err := c.DishRepository.Update(ctx, dish)
	invalidate(ctx, c.store, c.log, dishKey(dish.ID))
	return err
}

func (c *CachedDishRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := c.DishRepository.Delete(ctx, id)
	invalidate(ctx, c.store, c.log, dishKey(id))
	return err
}

func (c *CachedDishRepository) ClearExpiredDiscounts(ctx context.Context, now time.Time) (int64, error) {
	flagged, err := c.DishRepository.FindDiscounted(ctx)
	if err != nil {
		return 0, err
	}

	cleared, err := c.DishRepository.ClearExpiredDiscounts(ctx, now)
	if err != nil || cleared == 0 {
		return cleared, err
	}

	var keys []string
	for _, dish := range flagged {
		if dish.DiscountExpired(now) {
			keys = append(keys, dishKey(dish.ID))
		}
	}
	if len(keys) > 0 {
		invalidate(ctx, c.store, c.log, keys...)
	}
	return cleared, nil
}

// CachedCategoryRepository caches the category listings used by the menu.
type CachedCategoryRepository struct {
	repository.CategoryRepository
	store Store
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedCategoryRepository(realRepo repository.CategoryRepository, store Store, ttl time.Duration, log *zap.Logger) *CachedCategoryRepository {
	return &CachedCategoryRepository{
		CategoryRepository: realRepo,
		store:              store,
		ttl:                ttl,
		log:                log.With(zap.String("cache", "category")),
	}
}

func (c *CachedCategoryRepository) FindAll(ctx context.Context, activeOnly bool) ([]*entity.Category, error) {
	key := categoriesAllKey
	if activeOnly {
		key = categoriesActiveKey
	}

	list, err := readThrough(ctx, c.store, c.log, key, c.ttl, func() (*[]*entity.Category, error) {
		categories, err := c.CategoryRepository.FindAll(ctx, activeOnly)
		if err != nil {
			return nil, err
		}
		if categories == nil {
			categories = []*entity.Category{}
		}
		return &categories, nil
	})
	if err != nil || list == nil {
		return nil, err
	}
	return *list, nil
}

func (c *CachedCategoryRepository) flush(ctx context.Context) {
	invalidate(ctx, c.store, c.log, categoriesAllKey, categoriesActiveKey)
}

func (c *CachedCategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	err := c.CategoryRepository.Create(ctx, category)
	c.flush(ctx)
	return err
}

func (c *CachedCategoryRepository) Update(ctx context.Context, category *entity.Category) error {
	err := c.CategoryRepository.Update(ctx, category)
	c.flush(ctx)
	return err
}

func (c *CachedCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := c.CategoryRepository.Delete(ctx, id)
	c.flush(ctx)
	return err
}
