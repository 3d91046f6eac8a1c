package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"restaurant-api/internal/data/entity"
	"restaurant-api/internal/data/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type memoryStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	failGet bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, errors.New("connection refused")
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return v, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type countingDishRepo struct {
	repository.DishRepository
	dishes map[uuid.UUID]*entity.Dish
	finds  int
}

func (r *countingDishRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Dish, error) {
	r.finds++
	dish, ok := r.dishes[id]
	if !ok {
		return nil, nil
	}
	copied := *dish
	return &copied, nil
}

func (r *countingDishRepo) Update(_ context.Context, dish *entity.Dish) error {
	copied := *dish
	r.dishes[dish.ID] = &copied
	return nil
}

func TestCachedDishReadThrough(t *testing.T) {
	dish := &entity.Dish{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}, Name: "Ramen", Price: decimal.RequireFromString("12.50")}
	backing := &countingDishRepo{dishes: map[uuid.UUID]*entity.Dish{dish.ID: dish}}
	cached := NewCachedDishRepository(backing, newMemoryStore(), time.Minute, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := cached.FindByID(ctx, dish.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got == nil || got.Name != "Ramen" || !got.Price.Equal(dish.Price) {
			t.Fatalf("unexpected dish: %+v", got)
		}
	}

	if backing.finds != 1 {
		t.Fatalf("expected 1 database read, got %d", backing.finds)
	}
}

func TestCachedDishInvalidatedOnUpdate(t *testing.T) {
	dish := &entity.Dish{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}, Name: "Ramen", Price: decimal.NewFromInt(12)}
	backing := &countingDishRepo{dishes: map[uuid.UUID]*entity.Dish{dish.ID: dish}}
	cached := NewCachedDishRepository(backing, newMemoryStore(), time.Minute, zap.NewNop())
	ctx := context.Background()

	if _, err := cached.FindByID(ctx, dish.ID); err != nil {
		t.Fatal(err)
	}

	updated := *dish
	updated.Price = decimal.NewFromInt(15)
	if err := cached.Update(ctx, &updated); err != nil {
		t.Fatal(err)
	}

	got, err := cached.FindByID(ctx, dish.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Price.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("stale price after update: %s", got.Price)
	}
}

func TestCachedDishNotFoundMarker(t *testing.T) {
	backing := &countingDishRepo{dishes: map[uuid.UUID]*entity.Dish{}}
	cached := NewCachedDishRepository(backing, newMemoryStore(), time.Minute, zap.NewNop())
	id := uuid.New()

	for i := 0; i < 2; i++ {
		got, err := cached.FindByID(context.Background(), id)
		if err != nil || got != nil {
			t.Fatalf("expected nil, nil; got %v, %v", got, err)
		}
	}
	if backing.finds != 1 {
		t.Fatalf("not-found should be cached, got %d reads", backing.finds)
	}
}

func TestCachedDishFallsBackWhenStoreFails(t *testing.T) {
	dish := &entity.Dish{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}, Name: "Udon"}
	backing := &countingDishRepo{dishes: map[uuid.UUID]*entity.Dish{dish.ID: dish}}
	store := newMemoryStore()
	store.failGet = true
	cached := NewCachedDishRepository(backing, store, time.Minute, zap.NewNop())

	got, err := cached.FindByID(context.Background(), dish.ID)
	if err != nil || got == nil || got.Name != "Udon" {
		t.Fatalf("expected database fallback, got %v, %v", got, err)
	}
}
