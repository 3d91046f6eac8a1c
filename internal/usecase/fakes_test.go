package usecase

import (
	"context"
	"errors"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"restaurant-api/internal/data/entity"
	"restaurant-api/internal/data/repository"
	"restaurant-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// memory is an in-memory backing for every repository interface the services use.
type memory struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*entity.User
	sessions     map[string]*entity.Session
	tables       map[uuid.UUID]*entity.Table
	reservations map[uuid.UUID]*entity.Reservation
	categories   map[uuid.UUID]*entity.Category
	dishes       map[uuid.UUID]*entity.Dish
	orders       map[uuid.UUID]*entity.Order
	reviews      map[uuid.UUID]*entity.DishReview
	favorites    map[uuid.UUID]map[uuid.UUID]bool

	// createOrderErr is returned once by the next order Create.
	createOrderErr error
	// deleteExpiredErr is returned by reservation DeleteExpired when set.
	deleteExpiredErr error
	sessionsCleaned  int64
}

func newMemory() *memory {
	return &memory{
		users:        map[uuid.UUID]*entity.User{},
		sessions:     map[string]*entity.Session{},
		tables:       map[uuid.UUID]*entity.Table{},
		reservations: map[uuid.UUID]*entity.Reservation{},
		categories:   map[uuid.UUID]*entity.Category{},
		dishes:       map[uuid.UUID]*entity.Dish{},
		orders:       map[uuid.UUID]*entity.Order{},
		reviews:      map[uuid.UUID]*entity.DishReview{},
		favorites:    map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (m *memory) repository() *repository.Repository {
	return &repository.Repository{
		User:        &fakeUserRepo{m},
		Session:     &fakeSessionRepo{m},
		Table:       &fakeTableRepo{m},
		Reservation: &fakeReservationRepo{m},
		Category:    &fakeCategoryRepo{m},
		Dish:        &fakeDishRepo{m},
		Order:       &fakeOrderRepo{m},
		Review:      &fakeReviewRepo{m},
		Favorite:    &fakeFavoriteRepo{m},
	}
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	return items[offset:min(len(items), offset+limit)]
}

// ==================== users & sessions ====================

type fakeUserRepo struct{ m *memory }

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	r.m.users[user.ID] = clone(user)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if u, ok := r.m.users[id]; ok {
		return clone(u), nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if strings.EqualFold(u.Email, email) {
			return clone(u), nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.User
	for _, u := range r.m.users {
		out = append(out, clone(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return page(out, limit, offset), nil
}

func (r *fakeUserRepo) CountAll(_ context.Context) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.m.users)), nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.users[user.ID] = clone(user)
	return nil
}

type fakeSessionRepo struct{ m *memory }

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.sessions[session.Token.String()] = clone(session)
	return nil
}

func (r *fakeSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if s, ok := r.m.sessions[token]; ok && s.RevokedAt == nil {
		return clone(s), nil
	}
	return nil, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, token string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if s, ok := r.m.sessions[token]; ok {
		now := time.Now()
		s.RevokedAt = &now
	}
	return nil
}

func (r *fakeSessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	return nil
}

func (r *fakeSessionRepo) CleanExpiredSessions(_ context.Context) (int64, error) {
	return r.m.sessionsCleaned, nil
}

// ==================== tables & reservations ====================

type fakeTableRepo struct{ m *memory }

func (r *fakeTableRepo) Create(_ context.Context, table *entity.Table) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.tables[table.ID] = clone(table)
	return nil
}

func (r *fakeTableRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Table, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if t, ok := r.m.tables[id]; ok {
		return clone(t), nil
	}
	return nil, nil
}

func (r *fakeTableRepo) filtered(filter repository.TableFilter) []*entity.Table {
	var out []*entity.Table
	for _, t := range r.m.tables {
		if filter.Status != nil && string(t.Status) != *filter.Status {
			continue
		}
		if filter.Type != nil && string(t.Type) != *filter.Type {
			continue
		}
		if filter.ActiveOnly && !t.IsActive {
			continue
		}
		out = append(out, clone(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *fakeTableRepo) FindAll(_ context.Context, filter repository.TableFilter, limit, offset int) ([]*entity.Table, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return page(r.filtered(filter), limit, offset), nil
}

func (r *fakeTableRepo) CountAll(_ context.Context, filter repository.TableFilter) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.filtered(filter))), nil
}

func (r *fakeTableRepo) Update(_ context.Context, table *entity.Table) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.tables[table.ID] = clone(table)
	return nil
}

func (r *fakeTableRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.tables, id)
	return nil
}

func (r *fakeTableRepo) FindBookable(_ context.Context, partySize int) ([]*entity.Table, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Table
	for _, t := range r.m.tables {
		if t.IsActive && t.Status == entity.TableStatusAvailable && t.Capacity >= partySize {
			out = append(out, clone(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeReservationRepo struct{ m *memory }

func (r *fakeReservationRepo) conflicting(tableIDs []uuid.UUID, window entity.TimeRange) []*entity.Reservation {
	var out []*entity.Reservation
	for _, res := range r.m.reservations {
		if slices.Contains(tableIDs, res.TableID) && res.ConflictsWith(window) {
			out = append(out, clone(res))
		}
	}
	return out
}

// Create mirrors the locked re-check of the real repository.
func (r *fakeReservationRepo) Create(_ context.Context, reservation *entity.Reservation) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	window, ok := reservation.Window()
	if !ok {
		window = entity.InstantRange(reservation.ReservationDate)
	}
	if len(r.conflicting([]uuid.UUID{reservation.TableID}, window)) > 0 {
		return repository.ErrReservationOverlap
	}
	r.m.reservations[reservation.ID] = clone(reservation)
	return nil
}

func (r *fakeReservationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Reservation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if res, ok := r.m.reservations[id]; ok {
		return clone(res), nil
	}
	return nil, nil
}

func (r *fakeReservationRepo) filtered(filter repository.ReservationFilter, newestFirst bool) []*entity.Reservation {
	var out []*entity.Reservation
	for _, res := range r.m.reservations {
		if filter.UserID != nil && res.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && string(res.Status) != *filter.Status {
			continue
		}
		out = append(out, clone(res))
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].SortKey().After(out[j].SortKey())
		}
		return out[i].SortKey().Before(out[j].SortKey())
	})
	return out
}

func (r *fakeReservationRepo) FindAll(_ context.Context, filter repository.ReservationFilter, newestFirst bool, limit, offset int) ([]*entity.Reservation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return page(r.filtered(filter, newestFirst), limit, offset), nil
}

func (r *fakeReservationRepo) CountAll(_ context.Context, filter repository.ReservationFilter) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.filtered(filter, false))), nil
}

func (r *fakeReservationRepo) FindConflicting(_ context.Context, tableIDs []uuid.UUID, window entity.TimeRange) ([]*entity.Reservation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.conflicting(tableIDs, window), nil
}

func (r *fakeReservationRepo) FindUpcoming(_ context.Context, tableIDs []uuid.UUID, now time.Time) ([]*entity.Reservation, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Reservation
	for _, res := range r.m.reservations {
		if !slices.Contains(tableIDs, res.TableID) || res.Status == entity.ReservationStatusCancelled {
			continue
		}
		if res.EndAt != nil && !res.EndAt.After(now) {
			continue
		}
		out = append(out, clone(res))
	}
	return out, nil
}

func (r *fakeReservationRepo) CountActiveByTable(_ context.Context, tableID uuid.UUID) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, res := range r.m.reservations {
		if res.TableID == tableID &&
			(res.Status == entity.ReservationStatusPending || res.Status == entity.ReservationStatusConfirmed) {
			n++
		}
	}
	return n, nil
}

func (r *fakeReservationRepo) UpdateStatus(_ context.Context, reservation *entity.Reservation, from entity.ReservationStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.reservations[reservation.ID]
	if !ok || stored.Status != from {
		return repository.ErrStaleState
	}
	r.m.reservations[reservation.ID] = clone(reservation)
	return nil
}

func (r *fakeReservationRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.deleteExpiredErr != nil {
		return 0, r.m.deleteExpiredErr
	}
	var n int64
	for id, res := range r.m.reservations {
		if res.IsExpired(now) {
			delete(r.m.reservations, id)
			n++
		}
	}
	return n, nil
}

// ==================== menu ====================

type fakeCategoryRepo struct{ m *memory }

func (r *fakeCategoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range r.m.categories {
		if c.Slug == category.Slug {
			return repository.ErrDuplicate
		}
	}
	r.m.categories[category.ID] = clone(category)
	return nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if c, ok := r.m.categories[id]; ok {
		return clone(c), nil
	}
	return nil, nil
}

func (r *fakeCategoryRepo) FindBySlug(_ context.Context, slug string) (*entity.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range r.m.categories {
		if c.Slug == slug {
			return clone(c), nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) FindAll(_ context.Context, activeOnly bool) ([]*entity.Category, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Category
	for _, c := range r.m.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, clone(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *entity.Category) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.categories[category.ID] = clone(category)
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.categories, id)
	return nil
}

func (r *fakeCategoryRepo) CountDishes(_ context.Context, id uuid.UUID) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, d := range r.m.dishes {
		if d.CategoryID == id {
			n++
		}
	}
	return n, nil
}

type fakeDishRepo struct{ m *memory }

func (r *fakeDishRepo) Create(_ context.Context, dish *entity.Dish) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.dishes[dish.ID] = clone(dish)
	return nil
}

func (r *fakeDishRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Dish, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if d, ok := r.m.dishes[id]; ok {
		return clone(d), nil
	}
	return nil, nil
}

func (r *fakeDishRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.Dish, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Dish
	for _, d := range r.m.dishes {
		if slices.Contains(ids, d.ID) {
			out = append(out, clone(d))
		}
	}
	return out, nil
}

func (r *fakeDishRepo) filtered(filter repository.DishFilter) []*entity.Dish {
	var out []*entity.Dish
	for _, d := range r.m.dishes {
		if filter.AvailableOnly && !d.IsAvailable {
			continue
		}
		if filter.CategoryID != nil && d.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.Vegetarian != nil && d.IsVegetarian != *filter.Vegetarian {
			continue
		}
		if filter.Search != nil && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(*filter.Search)) {
			continue
		}
		out = append(out, clone(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *fakeDishRepo) FindAll(_ context.Context, filter repository.DishFilter, limit, offset int) ([]*entity.Dish, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return page(r.filtered(filter), limit, offset), nil
}

func (r *fakeDishRepo) CountAll(_ context.Context, filter repository.DishFilter) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.filtered(filter))), nil
}

func (r *fakeDishRepo) Update(_ context.Context, dish *entity.Dish) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.dishes[dish.ID] = clone(dish)
	return nil
}

func (r *fakeDishRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, o := range r.m.orders {
		for _, item := range o.Items {
			if item.DishID == id {
				return repository.ErrInUse
			}
		}
	}
	delete(r.m.dishes, id)
	return nil
}

func (r *fakeDishRepo) FindDiscounted(_ context.Context) ([]*entity.Dish, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Dish
	for _, d := range r.m.dishes {
		if d.IsOnDiscount {
			out = append(out, clone(d))
		}
	}
	return out, nil
}

func (r *fakeDishRepo) ClearExpiredDiscounts(_ context.Context, now time.Time) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, d := range r.m.dishes {
		if d.DiscountExpired(now) {
			d.RemoveDiscount(now)
			n++
		}
	}
	return n, nil
}

func (r *fakeDishRepo) CountOpenOrderLines(_ context.Context, id uuid.UUID) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, o := range r.m.orders {
		if o.Status.IsTerminal() {
			continue
		}
		for _, item := range o.Items {
			if item.DishID == id {
				n++
			}
		}
	}
	return n, nil
}

// FindPopular counts order lines of orders created at or after since.
func (r *fakeDishRepo) FindPopular(_ context.Context, since time.Time, limit int) ([]repository.RankedDish, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	counts := map[uuid.UUID]int64{}
	for _, o := range r.m.orders {
		if o.CreatedAt.Before(since) {
			continue
		}
		for _, item := range o.Items {
			counts[item.DishID]++
		}
	}
	var out []repository.RankedDish
	for _, d := range r.m.dishes {
		if d.IsAvailable {
			out = append(out, repository.RankedDish{Dish: clone(d), OrderCount: counts[d.ID]})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderCount != out[j].OrderCount {
			return out[i].OrderCount > out[j].OrderCount
		}
		return out[i].Dish.Name < out[j].Dish.Name
	})
	return out[:min(len(out), limit)], nil
}

func (r *fakeDishRepo) FindTopRated(_ context.Context, limit int) ([]repository.RankedDish, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	sums := map[uuid.UUID]int64{}
	counts := map[uuid.UUID]int64{}
	for _, review := range r.m.reviews {
		sums[review.DishID] += int64(review.Rating)
		counts[review.DishID]++
	}
	var out []repository.RankedDish
	for id, n := range counts {
		d, ok := r.m.dishes[id]
		if !ok || !d.IsAvailable {
			continue
		}
		out = append(out, repository.RankedDish{
			Dish:          clone(d),
			AverageRating: float64(sums[id]) / float64(n),
			ReviewCount:   n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageRating != out[j].AverageRating {
			return out[i].AverageRating > out[j].AverageRating
		}
		return out[i].Dish.Name < out[j].Dish.Name
	})
	return out[:min(len(out), limit)], nil
}

// ==================== favorites ====================

type fakeFavoriteRepo struct{ m *memory }

func (r *fakeFavoriteRepo) Add(_ context.Context, favorite *entity.DishFavorite) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.add(favorite.UserID, favorite.DishID), nil
}

func (r *fakeFavoriteRepo) add(userID, dishID uuid.UUID) bool {
	if r.m.favorites[userID] == nil {
		r.m.favorites[userID] = map[uuid.UUID]bool{}
	}
	if r.m.favorites[userID][dishID] {
		return false
	}
	r.m.favorites[userID][dishID] = true
	return true
}

func (r *fakeFavoriteRepo) Remove(_ context.Context, userID, dishID uuid.UUID) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if !r.m.favorites[userID][dishID] {
		return false, nil
	}
	delete(r.m.favorites[userID], dishID)
	return true, nil
}

func (r *fakeFavoriteRepo) Toggle(_ context.Context, favorite *entity.DishFavorite) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.favorites[favorite.UserID][favorite.DishID] {
		delete(r.m.favorites[favorite.UserID], favorite.DishID)
		return false, nil
	}
	return r.add(favorite.UserID, favorite.DishID), nil
}

func (r *fakeFavoriteRepo) FindDishes(_ context.Context, userID uuid.UUID, categoryID *uuid.UUID) ([]*entity.Dish, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Dish
	for dishID := range r.m.favorites[userID] {
		d, ok := r.m.dishes[dishID]
		if !ok || !d.IsAvailable {
			continue
		}
		if categoryID != nil && d.CategoryID != *categoryID {
			continue
		}
		out = append(out, clone(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ==================== orders ====================

type fakeOrderRepo struct{ m *memory }

func cloneOrder(o *entity.Order) *entity.Order {
	c := clone(o)
	c.Items = make([]*entity.OrderItem, len(o.Items))
	for i, item := range o.Items {
		c.Items[i] = clone(item)
	}
	return c
}

// Create checks dish availability like the transactional insert.
func (r *fakeOrderRepo) Create(_ context.Context, order *entity.Order) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.createOrderErr; err != nil {
		r.m.createOrderErr = nil
		return err
	}
	for _, item := range order.Items {
		d, ok := r.m.dishes[item.DishID]
		if !ok || !d.IsAvailable {
			return repository.ErrDishUnavailable
		}
	}
	r.m.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if o, ok := r.m.orders[id]; ok {
		return cloneOrder(o), nil
	}
	return nil, nil
}

func (r *fakeOrderRepo) FindByNumber(_ context.Context, number string) (*entity.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, o := range r.m.orders {
		if o.OrderNumber == number {
			return cloneOrder(o), nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) filtered(filter repository.OrderFilter) []*entity.Order {
	var out []*entity.Order
	for _, o := range r.m.orders {
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		if filter.TableID != nil && (o.TableID == nil || *o.TableID != *filter.TableID) {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, o.Status) {
			continue
		}
		if filter.Type != nil && string(o.Type) != *filter.Type {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeOrderRepo) FindAll(_ context.Context, filter repository.OrderFilter, limit, offset int) ([]*entity.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return page(r.filtered(filter), limit, offset), nil
}

func (r *fakeOrderRepo) CountAll(_ context.Context, filter repository.OrderFilter) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return int64(len(r.filtered(filter))), nil
}

func (r *fakeOrderRepo) FindItem(_ context.Context, orderID, itemID uuid.UUID) (*entity.OrderItem, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.orders[orderID]
	if !ok {
		return nil, nil
	}
	for _, item := range o.Items {
		if item.ID == itemID {
			return clone(item), nil
		}
	}
	return nil, nil
}

// UpdateStatus applies the compare-and-set and the failed delivery rule.
func (r *fakeOrderRepo) UpdateStatus(_ context.Context, order *entity.Order, from entity.OrderStatus, banThreshold int) (*repository.FailedDeliveryOutcome, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.orders[order.ID]
	if !ok || stored.Status != from {
		return nil, repository.ErrStaleState
	}
	stored.Status = order.Status
	stored.Notes = order.Notes
	stored.DeliveredAt = order.DeliveredAt
	stored.UpdatedAt = order.UpdatedAt

	if order.Status != entity.OrderStatusDeliveryFailed || from == entity.OrderStatusDeliveryFailed {
		return nil, nil
	}
	user := r.m.users[order.UserID]
	newly := user.RecordFailedDelivery(banThreshold, order.UpdatedAt)
	return &repository.FailedDeliveryOutcome{
		UserID:           user.ID,
		FailedDeliveries: user.FailedDeliveriesCount,
		IsBanned:         user.IsBanned,
		BannedAt:         user.BannedAt,
		NewlyBanned:      newly,
	}, nil
}

func (r *fakeOrderRepo) UpdateItemStatus(_ context.Context, item *entity.OrderItem, from entity.OrderItemStatus) (*entity.Order, bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	order, ok := r.m.orders[item.OrderID]
	if !ok || !order.CanMutate() {
		return nil, false, repository.ErrStaleState
	}
	idx := slices.IndexFunc(order.Items, func(i *entity.OrderItem) bool { return i.ID == item.ID })
	if idx < 0 || order.Items[idx].Status != from {
		return nil, false, repository.ErrStaleState
	}
	order.Items[idx] = clone(item)

	rolled := item.Status == entity.OrderItemStatusServed && order.RollUp(item.UpdatedAt)
	return cloneOrder(order), rolled, nil
}

func (r *fakeOrderRepo) Summary(_ context.Context, from, to time.Time) (*repository.OrderSummary, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	summary := &repository.OrderSummary{ByStatus: map[entity.OrderStatus]int64{}, Revenue: decimal.Zero}
	for _, o := range r.m.orders {
		if o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		summary.Total++
		summary.ByStatus[o.Status]++
		if o.Status == entity.OrderStatusDelivered {
			summary.Revenue = summary.Revenue.Add(o.TotalAmount)
		}
	}
	return summary, nil
}

// ==================== reviews ====================

type fakeReviewRepo struct{ m *memory }

func (r *fakeReviewRepo) Upsert(_ context.Context, review *entity.DishReview) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.reviews {
		if existing.UserID == review.UserID && existing.DishID == review.DishID {
			review.ID = existing.ID
			review.CreatedAt = existing.CreatedAt
			r.m.reviews[existing.ID] = clone(review)
			return false, nil
		}
	}
	r.m.reviews[review.ID] = clone(review)
	return true, nil
}

func (r *fakeReviewRepo) FindByDishID(_ context.Context, dishID uuid.UUID, limit, offset int) ([]*entity.DishReview, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.DishReview
	for _, review := range r.m.reviews {
		if review.DishID == dishID {
			out = append(out, clone(review))
		}
	}
	return page(out, limit, offset), nil
}

func (r *fakeReviewRepo) GetDishReviewStats(_ context.Context, dishID uuid.UUID) (float64, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var sum, n int64
	for _, review := range r.m.reviews {
		if review.DishID == dishID {
			sum += int64(review.Rating)
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), n, nil
}

// ==================== collaborators ====================

type fakeImageStore struct {
	saved   []string
	deleted []string
	err     error
}

func (s *fakeImageStore) SaveImage(_ context.Context, folder string, src io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if _, err := io.ReadAll(src); err != nil {
		return "", err
	}
	url := "/uploads/" + folder + "/" + uuid.NewString() + ".jpg"
	s.saved = append(s.saved, url)
	return url, nil
}

func (s *fakeImageStore) Delete(_ context.Context, url string) error {
	s.deleted = append(s.deleted, url)
	return nil
}

// fixture bundles the services over one in-memory store with a fixed clock.
type fixture struct {
	mem    *memory
	repo   *repository.Repository
	clock  *utils.FixedClock
	config *utils.Config
	store  *fakeImageStore
	svc    *Service
}

var fixtureNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	mem := newMemory()
	repo := mem.repository()
	clock := &utils.FixedClock{T: fixtureNow}
	config := &utils.Config{
		Session: utils.SessionConfig{ExpiryHours: 24},
		Order:   utils.OrderConfig{TaxRate: 0.10, BanThreshold: 2},
	}
	store := &fakeImageStore{}

	return &fixture{
		mem:    mem,
		repo:   repo,
		clock:  clock,
		config: config,
		store:  store,
		svc:    NewService(repo, store, clock, config, zap.NewNop()),
	}
}

func (f *fixture) addUser(roles ...entity.UserRole) *entity.User {
	phone := "+15550100"
	user := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: fixtureNow, UpdatedAt: fixtureNow},
		Name:     "Test User",
		Email:    uuid.NewString()[:8] + "@example.com",
		Phone:    &phone,
		Roles:    entity.RoleStrings(roles...),
		IsActive: true,
	}
	f.mem.users[user.ID] = user
	return user
}

func (f *fixture) addTable(capacity int) *entity.Table {
	table := &entity.Table{
		BaseNoDelete: entity.NewBaseNoDelete(fixtureNow),
		Name:         "T" + uuid.NewString()[:4],
		Capacity:     capacity,
		Type:         entity.TableTypeFamily,
		Status:       entity.TableStatusAvailable,
		IsActive:     true,
	}
	f.mem.tables[table.ID] = table
	return table
}

func (f *fixture) addReservation(table *entity.Table, start, end time.Time, status entity.ReservationStatus) *entity.Reservation {
	res := &entity.Reservation{
		BaseNoDelete:    entity.NewBaseNoDelete(fixtureNow),
		UserID:          uuid.New(),
		TableID:         table.ID,
		ReservationDate: start,
		StartAt:         &start,
		EndAt:           &end,
		Guests:          2,
		Status:          status,
	}
	f.mem.reservations[res.ID] = res
	return res
}

func (f *fixture) addDish(name, price string) *entity.Dish {
	dish := &entity.Dish{
		BaseNoDelete: entity.NewBaseNoDelete(fixtureNow),
		CategoryID:   uuid.New(),
		Name:         name,
		Price:        decimal.RequireFromString(price),
		IsAvailable:  true,
	}
	f.mem.dishes[dish.ID] = dish
	return dish
}

func ptr[T any](v T) *T { return &v }

func mustParse(t *testing.T, id string) uuid.UUID {
	t.Helper()
	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("parse id %q: %v", id, err)
	}
	return parsed
}

func isKind(err, kind error) bool { return errors.Is(err, kind) }
