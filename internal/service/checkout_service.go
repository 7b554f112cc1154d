package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	customerrors "github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/custom_errors"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/models"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/ports"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/validators"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/pkg/logger"
)

const maxOrderNumberAttempts = 3

// CheckoutService builds a pending order with re-priced line items, opens
// the gateway-side order and persists both
type CheckoutService struct {
	orders   ports.OrderStorage
	products ports.ProductStorage
	users    ports.UserStorage
	gateway  ports.GatewayClient

	shippingCost int64
	currency     string
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	orders ports.OrderStorage,
	products ports.ProductStorage,
	users ports.UserStorage,
	gateway ports.GatewayClient,
	shippingCost int64,
	currency string,
) *CheckoutService {
	return &CheckoutService{
		orders:       orders,
		products:     products,
		users:        users,
		gateway:      gateway,
		shippingCost: shippingCost,
		currency:     currency,
	}
}

// CreateOrder implements checkout:
//
// every line is re-priced from the product store (a client-supplied price
// never reaches persisted totals), the gateway order is created first so a
// gateway failure leaves no orphaned local order, then the customer profile
// is upserted by phone and the order with its items is saved as one unit
func (s *CheckoutService) CreateOrder(ctx context.Context, req models.CheckoutRequest) (models.GatewayOrderHandle, error) {
	if err := validators.ValidateCheckout(req); err != nil {
		return models.GatewayOrderHandle{}, fmt.Errorf("%w: %w", customerrors.ErrValidation, err)
	}

	currency := req.Currency
	if currency == "" {
		currency = s.currency
	}

	// step 1. re-price from the authoritative product store; unknown
	// product ids are dropped from pricing
	ids := make([]string, 0, len(req.Items))
	for _, line := range req.Items {
		ids = append(ids, line.ProductID)
	}
	priced, err := s.products.GetProductsByIDs(ctx, ids)
	if err != nil {
		return models.GatewayOrderHandle{}, fmt.Errorf("error pricing cart: %w", err)
	}

	var subtotal int64
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		product, ok := priced[line.ProductID]
		if !ok {
			logger.GetOrCreateLoggerFromCtx(ctx).Warn(ctx, "dropping unknown product from cart",
				zap.String("product_id", line.ProductID))
			continue
		}
		lineTotal := product.Price * int64(line.Quantity)
		subtotal += lineTotal
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Price:       product.Price,
			Size:        line.Size,
			Quantity:    line.Quantity,
			LineTotal:   lineTotal,
		})
	}
	if len(items) == 0 {
		return models.GatewayOrderHandle{}, customerrors.ErrEmptyCart
	}

	total := subtotal + s.shippingCost
	orderID := uuid.NewString()
	orderNumber := newOrderNumber(time.Now())

	// step 2. gateway order before any local write; amount in the
	// gateway's minor units. The receipt is the order row id, not the
	// order number: a number can be regenerated on a collision below,
	// the id cannot, so the gateway-side receipt never diverges.
	gatewayOrderID, err := s.gateway.CreateOrder(ctx, total*100, currency, orderID, req.Notes)
	if err != nil {
		logger.GetOrCreateLoggerFromCtx(ctx).Error(ctx, "gateway order creation failed", zap.Error(err))
		return models.GatewayOrderHandle{}, fmt.Errorf("error creating gateway order: %w", err)
	}

	// step 3. find-or-create customer by phone, last submitted values win
	user, err := s.users.UpsertUserByPhone(ctx, models.User{
		ID:       uuid.NewString(),
		Phone:    req.Customer.Phone,
		FullName: req.Customer.FullName,
		Email:    req.Customer.Email,
		Address:  req.Customer.Address,
		City:     req.Customer.City,
		State:    req.Customer.State,
		ZipCode:  req.Customer.ZipCode,
	})
	if err != nil {
		return models.GatewayOrderHandle{}, fmt.Errorf("error upserting customer: %w", err)
	}

	order := models.Order{
		ID:             orderID,
		OrderNumber:    orderNumber,
		UserID:         user.ID,
		Status:         models.StatusPending,
		Subtotal:       subtotal,
		ShippingCost:   s.shippingCost,
		Total:          total,
		GatewayOrderID: gatewayOrderID,
		Delivery: models.Delivery{
			Name:    req.Customer.FullName,
			Phone:   req.Customer.Phone,
			Email:   req.Customer.Email,
			Address: req.Customer.Address,
			City:    req.Customer.City,
			State:   req.Customer.State,
			Zip:     req.Customer.ZipCode,
		},
		Items: items,
	}

	// step 4. persist; the date+suffix number scheme can collide under
	// concurrent creation, retry with a fresh suffix on conflict
	for attempt := 1; ; attempt++ {
		err = s.orders.SaveOrder(ctx, order)
		if err == nil {
			break
		}
		if errors.Is(err, customerrors.ErrDuplicateOrderNumber) && attempt < maxOrderNumberAttempts {
			order.OrderNumber = newOrderNumber(time.Now())
			continue
		}
		logger.GetOrCreateLoggerFromCtx(ctx).Error(ctx, "error saving order",
			zap.String("gateway_order_id", gatewayOrderID), zap.Error(err))
		return models.GatewayOrderHandle{}, fmt.Errorf("error saving order: %w", err)
	}

	logger.GetOrCreateLoggerFromCtx(ctx).Info(ctx, "created pending order",
		zap.String("order_number", order.OrderNumber),
		zap.String("gateway_order_id", gatewayOrderID),
		zap.Int64("total", total))

	return models.GatewayOrderHandle{
		GatewayOrderID: gatewayOrderID,
		Amount:         total * 100,
		Currency:       currency,
		Receipt:        orderID,
		DBOrderID:      order.ID,
	}, nil
}

const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// newOrderNumber derives a human-readable number: date plus a short random
// suffix. Display and search only, uniqueness is enforced by the store.
func newOrderNumber(now time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(orderNumberAlphabet))))
		if err != nil {
			// crypto/rand failing is not recoverable at this level
			panic(fmt.Sprintf("order number generation: %v", err))
		}
		suffix[i] = orderNumberAlphabet[n.Int64()]
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), string(suffix))
}
