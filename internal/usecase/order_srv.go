package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"restaurant-api/internal/data/entity"
	"restaurant-api/internal/data/repository"
	"restaurant-api/internal/dto/request"
	"restaurant-api/internal/dto/response"
	"restaurant-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// orderNumberAttempts bounds retries on an order number collision.
	orderNumberAttempts = 3
	// staffListLimit bounds the unpaginated staff order lists.
	staffListLimit = 200
)

type OrderService interface {
	// Customer
	CreateOrder(ctx context.Context, userID uuid.UUID, req *request.CreateOrderRequest) (*response.OrderResponse, error)
	GetMyOrders(ctx context.Context, userID uuid.UUID, req *request.OrderListRequest) (*response.PaginatedResponse[response.OrderResponse], error)
	GetMyOrder(ctx context.Context, userID uuid.UUID, id string) (*response.OrderResponse, error)
	CancelMyOrder(ctx context.Context, userID uuid.UUID, id string) (*response.OrderResponse, error)
	TrackOrder(ctx context.Context, userID uuid.UUID, id string) (*response.OrderTrackingResponse, error)

	// Staff
	GetOrders(ctx context.Context, req *request.OrderListRequest) (*response.PaginatedResponse[response.OrderResponse], error)
	GetOrder(ctx context.Context, id string) (*response.OrderResponse, error)
	GetOrdersNeedingAttention(ctx context.Context) ([]response.OrderResponse, error)
	GetTodaySummary(ctx context.Context) (*response.OrderSummaryResponse, error)
	UpdateOrderStatus(ctx context.Context, id string, req *request.UpdateOrderStatusRequest) (*response.OrderStatusChangeResponse, error)
	UpdateOrderItemStatus(ctx context.Context, orderID, itemID string, req *request.UpdateOrderItemStatusRequest) (*response.OrderItemStatusChangeResponse, error)
	MarkDelivered(ctx context.Context, id string) (*response.OrderResponse, error)
	CancelOrder(ctx context.Context, id string, req *request.CancelOrderRequest) (*response.OrderResponse, error)
	GetOrdersByTable(ctx context.Context, tableID string) ([]response.OrderResponse, error)
	GetOrdersByUser(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error)
}

type orderService struct {
	repo         *repository.Repository
	clock        utils.Clock
	taxRate      decimal.Decimal
	banThreshold int
	log          *zap.Logger
}

func NewOrderService(repo *repository.Repository, clock utils.Clock, config *utils.Config, log *zap.Logger) OrderService {
	return &orderService{
		repo:         repo,
		clock:        clock,
		taxRate:      decimal.NewFromFloat(config.Order.TaxRate),
		banThreshold: config.Order.BanThreshold,
		log:          log.With(zap.String("service", "order")),
	}
}

// ==================== CUSTOMER ====================

// CreateOrder prices the cart from the current menu and stores the order with
// all of its items, or nothing at all.
func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, req *request.CreateOrderRequest) (*response.OrderResponse, error) {
	// 1. Validate input
	if err := validate(req); err != nil {
		s.log.Warn("Create order validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Banned customers cannot order
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
	}
	if user.IsBanned {
		s.log.Warn("Banned user tried to order", zap.String("user_id", userID.String()))
		return nil, forbidden("your account is banned from creating orders due to repeated delivery failures")
	}

	// 3. Optional table
	var tableID *uuid.UUID
	if req.TableID != nil {
		id, err := parseID(*req.TableID, "table_id")
		if err != nil {
			return nil, err
		}
		table, err := s.repo.Table.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("find table: %w", err)
		}
		if table == nil {
			return nil, invalidField("table_id", "Table does not exist")
		}
		tableID = &table.ID
	}

	// 4. Resolve every dish, the whole cart is rejected on the first bad line
	dishIDs := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		id, err := parseID(item.DishID, fmt.Sprintf("items[%d].dish_id", i))
		if err != nil {
			return nil, err
		}
		dishIDs[i] = id
	}

	dishes, err := s.repo.Dish.FindByIDs(ctx, dishIDs)
	if err != nil {
		return nil, fmt.Errorf("find dishes: %w", err)
	}
	byID := make(map[uuid.UUID]*entity.Dish, len(dishes))
	for _, dish := range dishes {
		byID[dish.ID] = dish
	}

	now := s.clock.Now()
	order := &entity.Order{
		BaseNoDelete:    entity.NewBaseNoDelete(now),
		UserID:          user.ID,
		TableID:         tableID,
		Type:            entity.OrderType(req.Type),
		Status:          entity.OrderStatusReceived,
		DeliveryAddress: req.DeliveryAddress,
		ContactPhone:    req.ContactPhone,
		Notes:           req.Notes,
	}
	if order.ContactPhone == nil {
		order.ContactPhone = user.Phone
	}

	for i, item := range req.Items {
		dish, ok := byID[dishIDs[i]]
		if !ok {
			return nil, invalidField(fmt.Sprintf("items[%d].dish_id", i), "Dish does not exist")
		}
		if !dish.IsAvailable {
			return nil, conflict("dish %q is not available", dish.Name)
		}
		order.Items = append(order.Items,
			entity.NewOrderItem(order.ID, dish, item.Quantity, item.SpecialInstructions, now))
	}

	// 5. Price the order
	order.Subtotal, order.TaxAmount, order.TotalAmount = entity.ComputeTotals(order.Items, s.taxRate)

	// 6. Persist atomically, a colliding order number is regenerated
	for attempt := 1; ; attempt++ {
		order.OrderNumber = utils.GenerateOrderNumber(now)
		err = s.repo.Order.Create(ctx, order)
		if !errors.Is(err, repository.ErrDuplicate) || attempt == orderNumberAttempts {
			break
		}
		s.log.Debug("Order number collision, retrying", zap.String("order_number", order.OrderNumber))
	}
	if err != nil {
		if errors.Is(err, repository.ErrDishUnavailable) {
			return nil, conflict("some selected dishes are no longer available")
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.log.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", user.ID.String()),
		zap.String("type", string(order.Type)),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.TotalAmount.StringFixed(2)))

	resp := response.OrderToResponse(order)
	return &resp, nil
}

func (s *orderService) GetMyOrders(ctx context.Context, userID uuid.UUID, req *request.OrderListRequest) (*response.PaginatedResponse[response.OrderResponse], error) {
	req.Normalize()
	if err := validate(req); err != nil {
		return nil, err
	}

	filter := listFilter(req)
	filter.UserID = &userID
	return s.list(ctx, filter, &req.PaginatedRequest)
}

func (s *orderService) GetMyOrder(ctx context.Context, userID uuid.UUID, id string) (*response.OrderResponse, error) {
	order, err := s.findOwnedOrder(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	resp := response.OrderToResponse(order)
	return &resp, nil
}

// CancelMyOrder is only possible before the kitchen starts on the order.
func (s *orderService) CancelMyOrder(ctx context.Context, userID uuid.UUID, id string) (*response.OrderResponse, error) {
	order, err := s.findOwnedOrder(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if err := order.CustomerCancel(s.clock.Now()); err != nil {
		return nil, transitionFailed(err)
	}

	if _, err := s.save(ctx, order, from); err != nil {
		return nil, err
	}

	s.log.Info("Order cancelled by customer",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()))

	resp := response.OrderToResponse(order)
	return &resp, nil
}

func (s *orderService) TrackOrder(ctx context.Context, userID uuid.UUID, id string) (*response.OrderTrackingResponse, error) {
	order, err := s.findOwnedOrder(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	resp := &response.OrderTrackingResponse{
		OrderNumber: order.OrderNumber,
		Type:        string(order.Type),
		Status:      string(order.Status),
		Items:       make([]response.OrderItemResponse, len(order.Items)),
		DeliveredAt: order.DeliveredAt,
		UpdatedAt:   order.UpdatedAt,
	}
	for i, item := range order.Items {
		resp.Items[i] = response.OrderItemToResponse(item)
	}

	if order.Status == entity.OrderStatusReceived || order.Status == entity.OrderStatusPreparing {
		ready, err := s.estimateReady(ctx, order)
		if err != nil {
			s.log.Warn("Failed to estimate ready time", zap.Error(err), zap.String("order_id", id))
		} else {
			resp.EstimatedReadyAt = &ready
		}
	}

	return resp, nil
}

// ==================== STAFF ====================

func (s *orderService) GetOrders(ctx context.Context, req *request.OrderListRequest) (*response.PaginatedResponse[response.OrderResponse], error) {
	req.Normalize()
	if err := validate(req); err != nil {
		return nil, err
	}

	return s.list(ctx, listFilter(req), &req.PaginatedRequest)
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*response.OrderResponse, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := response.OrderToResponse(order)
	return &resp, nil
}

// GetOrdersNeedingAttention lists open orders, oldest first.
func (s *orderService) GetOrdersNeedingAttention(ctx context.Context) ([]response.OrderResponse, error) {
	orders, err := s.repo.Order.FindAll(ctx,
		repository.OrderFilter{Statuses: entity.ActiveOrderStatuses}, staffListLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("list open orders: %w", err)
	}

	slices.Reverse(orders)
	return toOrderResponses(orders), nil
}

func (s *orderService) GetTodaySummary(ctx context.Context) (*response.OrderSummaryResponse, error) {
	now := s.clock.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	summary, err := s.repo.Order.Summary(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("summarize orders: %w", err)
	}

	resp := &response.OrderSummaryResponse{
		Date:     from.Format(time.DateOnly),
		Total:    summary.Total,
		ByStatus: make(map[string]int64),
		Revenue:  summary.Revenue.StringFixed(2),
	}
	for _, status := range []entity.OrderStatus{
		entity.OrderStatusReceived,
		entity.OrderStatusPreparing,
		entity.OrderStatusWithCourier,
		entity.OrderStatusOutForDelivery,
		entity.OrderStatusDelivered,
		entity.OrderStatusDeliveryFailed,
		entity.OrderStatusCancelled,
	} {
		resp.ByStatus[string(status)] = summary.ByStatus[status]
	}

	return resp, nil
}

// UpdateOrderStatus applies a staff transition. Entering delivery_failed
// records the failure on the customer and may ban them.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id string, req *request.UpdateOrderStatusRequest) (*response.OrderStatusChangeResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	from := order.Status
	next := entity.OrderStatus(req.Status)
	now := s.clock.Now()

	if next == entity.OrderStatusCancelled {
		err = order.StaffCancel(now)
	} else {
		err = order.TransitionTo(next, now)
	}
	if err != nil {
		return nil, transitionFailed(err)
	}
	if req.Notes != nil {
		order.Notes = req.Notes
	}

	outcome, err := s.save(ctx, order, from)
	if err != nil {
		return nil, err
	}

	s.log.Info("Order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(order.Status)))

	resp := &response.OrderStatusChangeResponse{Order: response.OrderToResponse(order)}
	if outcome != nil {
		s.log.Info("Failed delivery recorded",
			zap.String("user_id", outcome.UserID.String()),
			zap.Int("failed_deliveries", outcome.FailedDeliveries),
			zap.Bool("banned", outcome.IsBanned))
		if outcome.NewlyBanned {
			s.log.Info("User banned after repeated failed deliveries",
				zap.String("user_id", outcome.UserID.String()),
				zap.Timep("banned_at", outcome.BannedAt))
			resp.UserBanned = true
		}
	}

	return resp, nil
}

// UpdateOrderItemStatus moves one line forward. Serving the last line rolls
// the order up to with_courier or delivered.
func (s *orderService) UpdateOrderItemStatus(ctx context.Context, orderID, itemID string, req *request.UpdateOrderItemStatusRequest) (*response.OrderItemStatusChangeResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanMutate() {
		return nil, conflict("order is already %s", order.Status)
	}

	itemUUID, err := parseID(itemID, "item_id")
	if err != nil {
		return nil, err
	}
	item, err := s.repo.Order.FindItem(ctx, order.ID, itemUUID)
	if err != nil {
		return nil, fmt.Errorf("find order item: %w", err)
	}
	if item == nil {
		return nil, notFound("item %s not found in order %s", itemID, orderID)
	}

	from := item.Status
	if err := item.TransitionTo(entity.OrderItemStatus(req.Status), s.clock.Now()); err != nil {
		return nil, transitionFailed(err)
	}

	updated, rolledUp, err := s.repo.Order.UpdateItemStatus(ctx, item, from)
	if err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, conflict("order or item was changed by someone else, please retry")
		}
		return nil, fmt.Errorf("update order item: %w", err)
	}

	s.log.Info("Order item status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("item_id", item.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(item.Status)))
	if rolledUp {
		s.log.Info("Order rolled up",
			zap.String("order_id", order.ID.String()),
			zap.String("status", string(updated.Status)))
	}

	return &response.OrderItemStatusChangeResponse{
		Item:        response.OrderItemToResponse(item),
		OrderStatus: string(updated.Status),
		RolledUp:    rolledUp,
	}, nil
}

// MarkDelivered closes an order that is out for delivery.
func (s *orderService) MarkDelivered(ctx context.Context, id string) (*response.OrderResponse, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.OrderStatusOutForDelivery {
		return nil, conflict("order must be out for delivery before marking as delivered")
	}

	from := order.Status
	if err := order.TransitionTo(entity.OrderStatusDelivered, s.clock.Now()); err != nil {
		return nil, transitionFailed(err)
	}
	if _, err := s.save(ctx, order, from); err != nil {
		return nil, err
	}

	s.log.Info("Order delivered", zap.String("order_id", order.ID.String()))

	resp := response.OrderToResponse(order)
	return &resp, nil
}

// CancelOrder is the staff cancel. Notes are appended to the order notes.
func (s *orderService) CancelOrder(ctx context.Context, id string, req *request.CancelOrderRequest) (*response.OrderResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if err := order.StaffCancel(s.clock.Now()); err != nil {
		return nil, transitionFailed(err)
	}
	order.Notes = appendNote(order.Notes, "Cancellation Reason", req.Reason)
	order.Notes = appendNote(order.Notes, "Cancellation Notes", req.Notes)

	if _, err := s.save(ctx, order, from); err != nil {
		return nil, err
	}

	s.log.Info("Order cancelled by staff",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(from)))

	resp := response.OrderToResponse(order)
	return &resp, nil
}

// GetOrdersByTable lists the orders a table is still waiting on.
func (s *orderService) GetOrdersByTable(ctx context.Context, tableID string) ([]response.OrderResponse, error) {
	id, err := parseID(tableID, "table_id")
	if err != nil {
		return nil, err
	}

	filter := repository.OrderFilter{
		TableID:  &id,
		Statuses: []entity.OrderStatus{entity.OrderStatusReceived, entity.OrderStatusPreparing},
	}
	orders, err := s.repo.Order.FindAll(ctx, filter, staffListLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("list table orders: %w", err)
	}

	return toOrderResponses(orders), nil
}

func (s *orderService) GetOrdersByUser(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error) {
	id, err := parseID(userID, "user_id")
	if err != nil {
		return nil, err
	}
	req.Normalize()

	return s.list(ctx, repository.OrderFilter{UserID: &id}, req)
}

// ==================== HELPER METHODS ====================

// save writes the status change with a compare-and-set on from.
func (s *orderService) save(ctx context.Context, order *entity.Order, from entity.OrderStatus) (*repository.FailedDeliveryOutcome, error) {
	outcome, err := s.repo.Order.UpdateStatus(ctx, order, from, s.banThreshold)
	if err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, conflict("order was changed by someone else, please retry")
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return outcome, nil
}

func (s *orderService) list(ctx context.Context, filter repository.OrderFilter, page *request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error) {
	orders, err := s.repo.Order.FindAll(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	total, err := s.repo.Order.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	return response.NewPaginatedResponse(toOrderResponses(orders), page.Page, page.PerPage, total), nil
}

// findOrder accepts either the order id or its order number.
func (s *orderService) findOrder(ctx context.Context, ref string) (*entity.Order, error) {
	var (
		order *entity.Order
		err   error
	)
	if orderID, parseErr := uuid.Parse(ref); parseErr == nil {
		order, err = s.repo.Order.FindByID(ctx, orderID)
	} else if strings.HasPrefix(ref, utils.OrderNumberPrefix) {
		order, err = s.repo.Order.FindByNumber(ctx, ref)
	} else {
		return nil, invalidField("id", "Must be a valid UUID or order number")
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order == nil {
		return nil, notFound("order %s not found", ref)
	}
	return order, nil
}

// findOwnedOrder hides orders of other customers behind not found.
func (s *orderService) findOwnedOrder(ctx context.Context, userID uuid.UUID, id string) (*entity.Order, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, notFound("order %s not found", id)
	}
	return order, nil
}

func (s *orderService) estimateReady(ctx context.Context, order *entity.Order) (time.Time, error) {
	ids := make([]uuid.UUID, len(order.Items))
	for i, item := range order.Items {
		ids[i] = item.DishID
	}

	dishes, err := s.repo.Dish.FindByIDs(ctx, ids)
	if err != nil {
		return time.Time{}, err
	}

	minutes := make([]int, 0, len(dishes))
	for _, dish := range dishes {
		if dish.PreparationTime != nil {
			minutes = append(minutes, *dish.PreparationTime)
		}
	}
	return order.EstimatedReadyAt(minutes), nil
}

func listFilter(req *request.OrderListRequest) repository.OrderFilter {
	filter := repository.OrderFilter{Type: req.Type}
	if req.Status != nil {
		filter.Statuses = []entity.OrderStatus{entity.OrderStatus(*req.Status)}
	}
	if req.Date != nil {
		from := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, req.Date.Location())
		to := from.AddDate(0, 0, 1)
		filter.From, filter.To = &from, &to
	}
	return filter
}

func toOrderResponses(orders []*entity.Order) []response.OrderResponse {
	data := make([]response.OrderResponse, len(orders))
	for i, order := range orders {
		data[i] = response.OrderToResponse(order)
	}
	return data
}

func appendNote(notes *string, label string, text *string) *string {
	if text == nil || strings.TrimSpace(*text) == "" {
		return notes
	}
	line := label + ": " + *text
	if notes != nil && *notes != "" {
		line = *notes + "\n" + line
	}
	return &line
}
