package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-api/internal/data/entity"
	"restaurant-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderFilter struct {
	UserID   *uuid.UUID
	TableID  *uuid.UUID
	Statuses []entity.OrderStatus
	Type     *string
	From     *time.Time
	To       *time.Time
}

// FailedDeliveryOutcome is the user state after a failed delivery was recorded.
type FailedDeliveryOutcome struct {
	UserID           uuid.UUID
	FailedDeliveries int
	IsBanned         bool
	BannedAt         *time.Time
	NewlyBanned      bool
}

type OrderSummary struct {
	Total    int64
	ByStatus map[entity.OrderStatus]int64
	Revenue  decimal.Decimal
}

type OrderRepository interface {
	// Create persists the order and all of its items in one transaction after
	// re-checking that every dish is available. Returns ErrDishUnavailable or
	// ErrDuplicate (order number collision) without writing anything.
	Create(ctx context.Context, order *entity.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	FindByNumber(ctx context.Context, number string) (*entity.Order, error)
	FindAll(ctx context.Context, filter OrderFilter, limit, offset int) ([]*entity.Order, error)
	CountAll(ctx context.Context, filter OrderFilter) (int64, error)
	FindItem(ctx context.Context, orderID, itemID uuid.UUID) (*entity.OrderItem, error)

	// UpdateStatus writes the order status, notes and delivered_at if the row
	// is still in from. Entering delivery_failed also records the failure on
	// the owning user in the same transaction and returns the outcome.
	UpdateStatus(ctx context.Context, order *entity.Order, from entity.OrderStatus, banThreshold int) (*FailedDeliveryOutcome, error)
	// UpdateItemStatus writes the item status if it is still in from and rolls
	// the parent order up when every item is served. Returns the parent order.
	UpdateItemStatus(ctx context.Context, item *entity.OrderItem, from entity.OrderItemStatus) (*entity.Order, bool, error)

	Summary(ctx context.Context, from, to time.Time) (*OrderSummary, error)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type orderRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOrderRepository(db database.PgxIface, log *zap.Logger) OrderRepository {
	return &orderRepository{
		db:  db,
		log: log.With(zap.String("repository", "order")),
	}
}

const orderColumns = `id, order_number, user_id, table_id, type, status, subtotal, tax_amount, total_amount,
	delivery_address, contact_phone, notes, delivered_at, created_at, updated_at`

const orderItemColumns = `id, order_id, dish_id, dish_name, quantity, unit_price, total_price,
	special_instructions, status, created_at, updated_at`

func scanOrder(row rowScanner) (*entity.Order, error) {
	var order entity.Order
	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.UserID,
		&order.TableID,
		&order.Type,
		&order.Status,
		&order.Subtotal,
		&order.TaxAmount,
		&order.TotalAmount,
		&order.DeliveryAddress,
		&order.ContactPhone,
		&order.Notes,
		&order.DeliveredAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func scanOrderItem(row rowScanner) (*entity.OrderItem, error) {
	var item entity.OrderItem
	err := row.Scan(
		&item.ID,
		&item.OrderID,
		&item.DishID,
		&item.DishName,
		&item.Quantity,
		&item.UnitPrice,
		&item.TotalPrice,
		&item.SpecialInstructions,
		&item.Status,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	dishIDs := make([]uuid.UUID, 0, len(order.Items))
	seen := make(map[uuid.UUID]bool, len(order.Items))
	for _, item := range order.Items {
		if !seen[item.DishID] {
			seen[item.DishID] = true
			dishIDs = append(dishIDs, item.DishID)
		}
	}

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var available int
		err := tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM (
				SELECT id FROM dishes WHERE id = ANY($1) AND is_available = TRUE FOR SHARE
			) d`, dishIDs,
		).Scan(&available)
		if err != nil {
			return fmt.Errorf("check dish availability: %w", err)
		}
		if available != len(dishIDs) {
			return ErrDishUnavailable
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO orders (id, order_number, user_id, table_id, type, status, subtotal, tax_amount,
			                    total_amount, delivery_address, contact_phone, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			order.ID,
			order.OrderNumber,
			order.UserID,
			order.TableID,
			order.Type,
			order.Status,
			order.Subtotal,
			order.TaxAmount,
			order.TotalAmount,
			order.DeliveryAddress,
			order.ContactPhone,
			order.Notes,
			order.CreatedAt,
			order.UpdatedAt,
		)
		if err != nil {
			return translate(err, "insert order %s", order.OrderNumber)
		}

		batch := &pgx.Batch{}
		for _, item := range order.Items {
			batch.Queue(`
				INSERT INTO order_items (id, order_id, dish_id, dish_name, quantity, unit_price, total_price,
				                         special_instructions, status, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				item.ID,
				order.ID,
				item.DishID,
				item.DishName,
				item.Quantity,
				item.UnitPrice,
				item.TotalPrice,
				item.SpecialInstructions,
				item.Status,
				item.CreatedAt,
				item.UpdatedAt,
			)
		}

		results := tx.SendBatch(ctx, batch)
		for range order.Items {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return translate(err, "insert items of order %s", order.OrderNumber)
			}
		}
		return results.Close()
	})

	if err != nil && !errors.Is(err, ErrDishUnavailable) && !errors.Is(err, ErrDuplicate) {
		r.log.Error("Failed to create order",
			zap.Error(err),
			zap.String("order_number", order.OrderNumber),
			zap.String("user_id", order.UserID.String()),
		)
	}
	return err
}

// itemsOf loads the items of the given orders keyed by order id.
func (r *orderRepository) itemsOf(ctx context.Context, q querier, orderIDs []uuid.UUID) (map[uuid.UUID][]*entity.OrderItem, error) {
	items := make(map[uuid.UUID][]*entity.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return items, nil
	}

	rows, err := q.Query(ctx,
		`SELECT `+orderItemColumns+` FROM order_items WHERE order_id = ANY($1) ORDER BY created_at, id`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	return items, rows.Err()
}

func (r *orderRepository) findOne(ctx context.Context, where string, arg any) (*entity.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE `+where, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find order", zap.Error(err), zap.Any("key", arg))
		return nil, fmt.Errorf("find order %v: %w", arg, err)
	}

	items, err := r.itemsOf(ctx, r.db, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]

	return order, nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *orderRepository) FindByNumber(ctx context.Context, number string) (*entity.Order, error) {
	return r.findOne(ctx, "order_number = $1", number)
}

func (r *orderRepository) buildFilter(filter OrderFilter) *queryFilter {
	f := &queryFilter{}
	if filter.UserID != nil {
		f.add("user_id = $%d", *filter.UserID)
	}
	if filter.TableID != nil {
		f.add("table_id = $%d", *filter.TableID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		f.add("status = ANY($%d)", statuses)
	}
	if filter.Type != nil && *filter.Type != "" {
		f.add("type = $%d", *filter.Type)
	}
	if filter.From != nil {
		f.add("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		f.add("created_at < $%d", *filter.To)
	}
	return f
}

func (r *orderRepository) FindAll(ctx context.Context, filter OrderFilter, limit, offset int) ([]*entity.Order, error) {
	f := r.buildFilter(filter)
	pageClause, args := f.page(limit, offset)
	query := `SELECT ` + orderColumns + ` FROM orders` + f.where() + ` ORDER BY created_at DESC` + pageClause

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list orders", zap.Error(err))
		return nil, fmt.Errorf("list orders: %w", err)
	}

	var orders []*entity.Order
	var ids []uuid.UUID
	func() {
		defer rows.Close()
		for rows.Next() {
			var order *entity.Order
			if order, err = scanOrder(rows); err != nil {
				return
			}
			orders = append(orders, order)
			ids = append(ids, order.ID)
		}
		err = rows.Err()
	}()
	if err != nil {
		return nil, fmt.Errorf("scan orders: %w", err)
	}

	items, err := r.itemsOf(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for _, order := range orders {
		order.Items = items[order.ID]
	}

	return orders, nil
}

func (r *orderRepository) CountAll(ctx context.Context, filter OrderFilter) (int64, error) {
	f := r.buildFilter(filter)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+f.where(), f.args...).Scan(&count); err != nil {
		r.log.Error("Failed to count orders", zap.Error(err))
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

func (r *orderRepository) FindItem(ctx context.Context, orderID, itemID uuid.UUID) (*entity.OrderItem, error) {
	item, err := scanOrderItem(r.db.QueryRow(ctx,
		`SELECT `+orderItemColumns+` FROM order_items WHERE id = $1 AND order_id = $2`, itemID, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find order item", zap.Error(err), zap.String("item_id", itemID.String()))
		return nil, fmt.Errorf("find order item %s: %w", itemID, err)
	}
	return item, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, order *entity.Order, from entity.OrderStatus, banThreshold int) (*FailedDeliveryOutcome, error) {
	var outcome *FailedDeliveryOutcome

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `
			UPDATE orders
			SET status = $3, notes = $4, delivered_at = $5, updated_at = $6
			WHERE id = $1 AND status = $2`,
			order.ID, from, order.Status, order.Notes, order.DeliveredAt, order.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update order %s status: %w", order.ID, err)
		}
		if result.RowsAffected() == 0 {
			return ErrStaleState
		}

		if order.Status == entity.OrderStatusDeliveryFailed && from != entity.OrderStatusDeliveryFailed {
			outcome, err = recordFailedDelivery(ctx, tx, order.UserID, banThreshold, order.UpdatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrStaleState) {
			r.log.Error("Failed to update order status",
				zap.Error(err),
				zap.String("order_id", order.ID.String()),
				zap.String("to", string(order.Status)),
			)
		}
		return nil, err
	}

	return outcome, nil
}

// recordFailedDelivery increments the counter and applies the ban threshold in
// a single statement so concurrent failures for one user serialize on the row.
func recordFailedDelivery(ctx context.Context, tx pgx.Tx, userID uuid.UUID, threshold int, now time.Time) (*FailedDeliveryOutcome, error) {
	outcome := &FailedDeliveryOutcome{UserID: userID}

	err := tx.QueryRow(ctx, `
		UPDATE users
		SET failed_deliveries_count = failed_deliveries_count + 1,
		    is_banned = is_banned OR failed_deliveries_count + 1 >= $2,
		    banned_at = CASE
		        WHEN banned_at IS NULL AND failed_deliveries_count + 1 >= $2 THEN $3
		        ELSE banned_at
		    END,
		    updated_at = $3
		WHERE id = $1
		RETURNING failed_deliveries_count, is_banned, banned_at`,
		userID, threshold, now,
	).Scan(&outcome.FailedDeliveries, &outcome.IsBanned, &outcome.BannedAt)
	if err != nil {
		return nil, fmt.Errorf("record failed delivery for user %s: %w", userID, err)
	}

	outcome.NewlyBanned = bannedNow(outcome, now)

	return outcome, nil
}

// bannedNow reports whether the outcome's ban was written at now. banned_at is
// only set on the first ban and postgres keeps microseconds, so a stored value
// equal to now truncated to the microsecond means this statement banned the user.
func bannedNow(outcome *FailedDeliveryOutcome, now time.Time) bool {
	if !outcome.IsBanned || outcome.BannedAt == nil {
		return false
	}
	return outcome.BannedAt.Equal(now.Truncate(time.Microsecond))
}

func (r *orderRepository) UpdateItemStatus(ctx context.Context, item *entity.OrderItem, from entity.OrderItemStatus) (*entity.Order, bool, error) {
	var (
		order    *entity.Order
		rolledUp bool
	)

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		order, err = scanOrder(tx.QueryRow(ctx,
			`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, item.OrderID))
		if err != nil {
			return fmt.Errorf("lock order %s: %w", item.OrderID, err)
		}
		if !order.CanMutate() {
			return ErrStaleState
		}

		result, err := tx.Exec(ctx, `
			UPDATE order_items SET status = $4, updated_at = $5
			WHERE id = $1 AND order_id = $2 AND status = $3`,
			item.ID, item.OrderID, from, item.Status, item.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update order item %s: %w", item.ID, err)
		}
		if result.RowsAffected() == 0 {
			return ErrStaleState
		}

		items, err := r.itemsOf(ctx, tx, []uuid.UUID{order.ID})
		if err != nil {
			return err
		}
		order.Items = items[order.ID]

		previous := order.Status
		if item.Status != entity.OrderItemStatusServed || !order.RollUp(item.UpdatedAt) {
			return nil
		}

		_, err = tx.Exec(ctx, `
			UPDATE orders SET status = $3, delivered_at = $4, updated_at = $5
			WHERE id = $1 AND status = $2`,
			order.ID, previous, order.Status, order.DeliveredAt, order.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("roll up order %s: %w", order.ID, err)
		}
		rolledUp = true
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrStaleState) {
			r.log.Error("Failed to update order item status",
				zap.Error(err),
				zap.String("item_id", item.ID.String()),
			)
		}
		return nil, false, err
	}

	return order, rolledUp, nil
}

func (r *orderRepository) Summary(ctx context.Context, from, to time.Time) (*OrderSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY status`, from, to)
	if err != nil {
		r.log.Error("Failed to summarize orders", zap.Error(err))
		return nil, fmt.Errorf("summarize orders: %w", err)
	}
	defer rows.Close()

	summary := &OrderSummary{ByStatus: make(map[entity.OrderStatus]int64), Revenue: decimal.Zero}
	for rows.Next() {
		var (
			status entity.OrderStatus
			count  int64
			amount decimal.Decimal
		)
		if err := rows.Scan(&status, &count, &amount); err != nil {
			return nil, fmt.Errorf("scan order summary: %w", err)
		}
		summary.ByStatus[status] = count
		summary.Total += count
		if status == entity.OrderStatusDelivered {
			summary.Revenue = summary.Revenue.Add(amount)
		}
	}

	return summary, rows.Err()
}
