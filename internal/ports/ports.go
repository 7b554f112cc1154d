package ports

import (
	"context"

	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/models"
)

// OrderStorage port describes the persistent orders storage, e.g. postgres
type OrderStorage interface {
	// SaveOrder persists the order row and its items as one unit; a failure
	// on any item insert rolls the whole order back
	SaveOrder(ctx context.Context, order models.Order) error

	GetOrderByGatewayOrderID(ctx context.Context, gatewayOrderID string) (models.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (models.Order, error)

	// ConfirmOrder moves the order to confirmed with a single conditional
	// update matching only status=pending. The bool result tells whether
	// *this* call performed the transition; an already-confirmed (or later)
	// order returns the current row with false and no error.
	ConfirmOrder(ctx context.Context, gatewayOrderID, gatewayPaymentID, gatewaySignature string) (models.Order, bool, error)

	ListOrders(ctx context.Context, limit int) ([]models.Order, error)

	// UpdateOrderStatus is the admin-only path for post-confirmation
	// lifecycle stages; it must never move an order back to pending
	UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus, trackingNumber string) (models.Order, error)
}

// ProductStorage port describes the catalog slice the order flow needs
type ProductStorage interface {
	GetProductsByIDs(ctx context.Context, ids []string) (map[string]models.Product, error)
	GetProductByID(ctx context.Context, id string) (models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpsertProduct(ctx context.Context, product models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// UserStorage port describes customer profiles keyed by phone number
type UserStorage interface {
	// UpsertUserByPhone finds or creates the profile for the phone number;
	// when found, the latest contact values overwrite the stored ones
	UpsertUserByPhone(ctx context.Context, user models.User) (models.User, error)
}

// GatewayClient port wraps "create order" calls to the external payment
// processor. amountMinor is in the gateway's minor-unit convention (paise).
type GatewayClient interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (string, error)
}

// RateLimiter port bounds request rate per client key with a fixed window.
// Might be implemented with different storages (e.g. in-memory, redis).
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
