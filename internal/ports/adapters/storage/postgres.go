package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"

	customerrors "github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/custom_errors"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/models"
)

const pgUniqueViolation = "23505"

var orderColumns = []string{
	"id", "order_number", "user_id", "status",
	"subtotal", "shipping_cost", "total",
	"gateway_order_id", "gateway_payment_id", "gateway_signature",
	"delivery_name", "delivery_phone", "delivery_email", "delivery_address",
	"delivery_city", "delivery_state", "delivery_zip",
	"tracking_number", "created_at", "updated_at",
}

// Querier is the slice of pgxpool.Pool the adapter runs on; tests
// substitute it with a fake
type Querier interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// OrdersStoragePostgres is the postgres implementation of ports.OrderStorage,
// ports.ProductStorage and ports.UserStorage
type OrdersStoragePostgres struct {
	pool Querier
}

// NewOrdersStoragePostgres creates a new *OrdersStoragePostgres with given DB pool
func NewOrdersStoragePostgres(pool Querier) *OrdersStoragePostgres {
	return &OrdersStoragePostgres{
		pool: pool,
	}
}

// SaveOrder saves the order and its items in one transaction, so a failed
// item insert never leaves an order row without its lines.
// The error result is named: the deferred commit writes into it, so a
// commit failure reaches the caller.
func (o *OrdersStoragePostgres) SaveOrder(ctx context.Context, order models.Order) (err error) {
	transaction, err := o.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("couldn't start transaction: %w", err)
	}

	defer func() {
		if err != nil {
			rollbackErr := transaction.Rollback(ctx)
			if rollbackErr != nil {
				err = fmt.Errorf("error rolling back transaction: %w. caused after this error: %w",
					rollbackErr, err)
			}
			return
		}
		err = transaction.Commit(ctx)
	}()

	err = insertOrder(ctx, transaction, &order)
	if err != nil {
		return fmt.Errorf("couldn't save order: %w", err)
	}

	err = insertItems(ctx, transaction, order.ID, order.Items)
	if err != nil {
		return fmt.Errorf("couldn't save order items: %w", err)
	}

	// check defer for more possible errors
	return err
}

func insertOrder(ctx context.Context, transaction pgx.Tx, order *models.Order) error {
	sql, args, err := squirrel.
		Insert("storefront.orders").
		Columns(
			"id", "order_number", "user_id", "status",
			"subtotal", "shipping_cost", "total",
			"gateway_order_id",
			"delivery_name", "delivery_phone", "delivery_email", "delivery_address",
			"delivery_city", "delivery_state", "delivery_zip",
		).
		Values(
			order.ID, order.OrderNumber, nullable(order.UserID), order.Status,
			order.Subtotal, order.ShippingCost, order.Total,
			order.GatewayOrderID,
			order.Delivery.Name, order.Delivery.Phone, order.Delivery.Email, order.Delivery.Address,
			order.Delivery.City, order.Delivery.State, order.Delivery.Zip,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("couldn't build an SQL query: %w", err)
	}

	var result pgconn.CommandTag
	result, err = transaction.Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return customerrors.ErrDuplicateOrderNumber
		}
		return fmt.Errorf("couldn't exec save order query: %w", err)
	}
	if result.RowsAffected() != 1 {
		return fmt.Errorf("couldn't save order, rows affected: %d, expected: 1", result.RowsAffected())
	}
	return nil
}

func insertItems(ctx context.Context, transaction pgx.Tx, orderID string, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	builder := squirrel.
		Insert("storefront.order_items").
		Columns("order_id", "product_id", "product_name", "price", "size", "quantity", "line_total").
		PlaceholderFormat(squirrel.Dollar)

	for _, item := range items {
		builder = builder.Values(
			orderID, nullable(item.ProductID), item.ProductName,
			item.Price, item.Size, item.Quantity, item.LineTotal,
		)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("couldn't build items query: %w", err)
	}

	_, err = transaction.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("couldn't exec save items query: %w", err)
	}
	return nil
}

// GetOrderByGatewayOrderID gathers all data about the order linked to the
// given gateway-side order id if any.
//
// Querying for order and its items is parallel
func (o *OrdersStoragePostgres) GetOrderByGatewayOrderID(ctx context.Context, gatewayOrderID string) (models.Order, error) {
	return o.getOrderWithItems(ctx, squirrel.Eq{"gateway_order_id": gatewayOrderID})
}

// GetOrderByNumber finds the order by its human-readable order number
func (o *OrdersStoragePostgres) GetOrderByNumber(ctx context.Context, orderNumber string) (models.Order, error) {
	return o.getOrderWithItems(ctx, squirrel.Eq{"order_number": orderNumber})
}

func (o *OrdersStoragePostgres) getOrderWithItems(ctx context.Context, where squirrel.Eq) (models.Order, error) {
	var order models.Order
	var items []models.OrderItem

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		order, err = o.getOrderBase(egCtx, where)
		if err != nil {
			return fmt.Errorf("error trying to get order itself: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		var err error
		items, err = o.getOrderItems(egCtx, where)
		if err != nil {
			return fmt.Errorf("error trying to get order items: %w", err)
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return models.Order{}, err
	}

	order.Items = items
	return order, nil
}

func (o *OrdersStoragePostgres) getOrderBase(ctx context.Context, where squirrel.Eq) (models.Order, error) {
	sql, args, err := squirrel.Select(orderColumns...).
		From("storefront.orders").
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.Order{}, fmt.Errorf("couldn't build an SQL query: %w", err)
	}

	order, err := scanOrder(o.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, customerrors.ErrOrderNotFound
		}
		return models.Order{}, fmt.Errorf("error mapping query result fields: %w", err)
	}

	return order, nil
}

// getOrderItems joins through orders so the same where-clause works for
// both gateway_order_id and order_number lookups
func (o *OrdersStoragePostgres) getOrderItems(ctx context.Context, where squirrel.Eq) ([]models.OrderItem, error) {
	prefixed := squirrel.Eq{}
	for k, v := range where {
		prefixed["o."+k] = v
	}

	sql, args, err := squirrel.Select(
		"i.order_id", "i.product_id", "i.product_name", "i.price", "i.size", "i.quantity", "i.line_total",
	).
		From("storefront.order_items i").
		Join("storefront.orders o ON o.id = i.order_id").
		Where(prefixed).
		OrderBy("i.id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("couldn't build items query: %w", err)
	}

	rows, err := o.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("couldn't query items: %w", err)
	}
	defer rows.Close()

	var items = make([]models.OrderItem, 0)
	for rows.Next() {
		var item models.OrderItem
		var productID *string
		err = rows.Scan(
			&item.OrderID, &productID, &item.ProductName,
			&item.Price, &item.Size, &item.Quantity, &item.LineTotal,
		)
		if err != nil {
			return nil, fmt.Errorf("couldn't scan item: %w", err)
		}
		if productID != nil {
			item.ProductID = *productID
		}
		items = append(items, item)
	}

	return items, nil
}

// ConfirmOrder is the single atomic confirmation point both the client
// verify path and the webhook path converge on.
//
// The update predicate matches status=pending only, so two racing callers
// can never both transition the order and a later lifecycle stage is never
// regressed back to confirmed. RowsAffected tells whose call won.
func (o *OrdersStoragePostgres) ConfirmOrder(ctx context.Context, gatewayOrderID, gatewayPaymentID, gatewaySignature string) (models.Order, bool, error) {
	sql, args, err := squirrel.
		Update("storefront.orders").
		Set("status", models.StatusConfirmed).
		Set("gateway_payment_id", gatewayPaymentID).
		Set("gateway_signature", gatewaySignature).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{
			"gateway_order_id": gatewayOrderID,
			"status":           models.StatusPending,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.Order{}, false, fmt.Errorf("couldn't build an SQL query: %w", err)
	}

	result, err := o.pool.Exec(ctx, sql, args...)
	if err != nil {
		return models.Order{}, false, fmt.Errorf("couldn't exec confirm order query: %w", err)
	}

	transitioned := result.RowsAffected() == 1

	// 0 rows means either the order doesn't exist or it was already past
	// pending; the re-read tells the two apart
	order, err := o.GetOrderByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return models.Order{}, false, err
	}

	return order, transitioned, nil
}

// ListOrders gets a few orders (limited by limit param) with biggest created_at
func (o *OrdersStoragePostgres) ListOrders(ctx context.Context, limit int) ([]models.Order, error) {
	sql, args, err := squirrel.Select(orderColumns...).
		From("storefront.orders").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("couldn't build an SQL query: %w", err)
	}

	rows, err := o.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("couldn't query last orders: %w", err)
	}
	defer rows.Close()

	var orders = make([]models.Order, 0)
	for rows.Next() {
		order, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("couldn't scan order: %w", scanErr)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// UpdateOrderStatus is the admin back-office path for later lifecycle
// stages. The predicate excludes pending as a target and never rewrites
// payment fields.
func (o *OrdersStoragePostgres) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus, trackingNumber string) (models.Order, error) {
	if !status.Valid() || status == models.StatusPending {
		return models.Order{}, customerrors.ErrInvalidTransition
	}

	builder := squirrel.
		Update("storefront.orders").
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": orderID}).
		PlaceholderFormat(squirrel.Dollar)
	if trackingNumber != "" {
		builder = builder.Set("tracking_number", trackingNumber)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return models.Order{}, fmt.Errorf("couldn't build an SQL query: %w", err)
	}

	result, err := o.pool.Exec(ctx, sql, args...)
	if err != nil {
		return models.Order{}, fmt.Errorf("couldn't exec update status query: %w", err)
	}
	if result.RowsAffected() != 1 {
		return models.Order{}, customerrors.ErrOrderNotFound
	}

	return o.getOrderBase(ctx, squirrel.Eq{"id": orderID})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (models.Order, error) {
	var order models.Order
	var userID, paymentID, sig, email, state, tracking *string

	err := row.Scan(
		&order.ID, &order.OrderNumber, &userID, &order.Status,
		&order.Subtotal, &order.ShippingCost, &order.Total,
		&order.GatewayOrderID, &paymentID, &sig,
		&order.Delivery.Name, &order.Delivery.Phone, &email, &order.Delivery.Address,
		&order.Delivery.City, &state, &order.Delivery.Zip,
		&tracking, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return models.Order{}, err
	}

	order.UserID = deref(userID)
	order.GatewayPaymentID = deref(paymentID)
	order.GatewaySignature = deref(sig)
	order.Delivery.Email = deref(email)
	order.Delivery.State = deref(state)
	order.TrackingNumber = deref(tracking)

	return order, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nullable maps an empty string to NULL for optional uuid/text columns
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
