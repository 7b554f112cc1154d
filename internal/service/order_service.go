package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/models"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/ports"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/pkg/logger"
)

// OrderService serves order tracking lookups and the admin back-office
// operations on orders
type OrderService struct {
	storage ports.OrderStorage
}

func NewOrderService(storage ports.OrderStorage) *OrderService {
	return &OrderService{
		storage: storage,
	}
}

// GetOrderByNumber finds an order for the tracking page
func (s *OrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (models.Order, error) {
	return s.storage.GetOrderByNumber(ctx, orderNumber)
}

// ListOrders gets a list of last <=limit orders from storage (admin)
func (s *OrderService) ListOrders(ctx context.Context, limit int) ([]models.Order, error) {
	result, err := s.storage.ListOrders(ctx, limit)
	if err != nil {
		logger.GetOrCreateLoggerFromCtx(ctx).Error(ctx, "error listing orders",
			zap.Int("limit", limit), zap.Error(err))
		return nil, fmt.Errorf("error listing orders: %w", err)
	}
	return result, nil
}

// UpdateOrderStatus moves an order to a later lifecycle stage and
// optionally attaches a tracking number. Exclusively an admin operation;
// the storage rejects any move back to pending.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus, trackingNumber string) (models.Order, error) {
	order, err := s.storage.UpdateOrderStatus(ctx, orderID, status, trackingNumber)
	if err != nil {
		return models.Order{}, err
	}

	logger.GetOrCreateLoggerFromCtx(ctx).Info(ctx, "updated order status",
		zap.String("order_id", orderID),
		zap.String("status", string(status)))

	return order, nil
}
