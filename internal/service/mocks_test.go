package service

import (
	"context"
	"sync"

	customerrors "github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/custom_errors"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/models"
)

// MockOrderStorage implements ports.OrderStorage for testing. ConfirmOrder
// keeps the real adapter's atomic semantics (transition only from pending,
// exactly one winner) behind a mutex so race tests are meaningful.
type MockOrderStorage struct {
	mu     sync.Mutex
	Orders map[string]*models.Order // keyed by gateway order id

	SaveErr      error
	SaveErrTimes int // how many Save calls fail before succeeding, 0 = always (when SaveErr set)
	ConfirmErr   error

	SaveCalls       int
	TransitionCount int
}

func NewMockOrderStorage() *MockOrderStorage {
	return &MockOrderStorage{Orders: make(map[string]*models.Order)}
}

func (m *MockOrderStorage) SaveOrder(_ context.Context, order models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls++
	if m.SaveErr != nil {
		if m.SaveErrTimes == 0 || m.SaveCalls <= m.SaveErrTimes {
			return m.SaveErr
		}
	}
	saved := order
	m.Orders[order.GatewayOrderID] = &saved
	return nil
}

func (m *MockOrderStorage) GetOrderByGatewayOrderID(_ context.Context, gatewayOrderID string) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.Orders[gatewayOrderID]
	if !ok {
		return models.Order{}, customerrors.ErrOrderNotFound
	}
	return *order, nil
}

func (m *MockOrderStorage) GetOrderByNumber(_ context.Context, orderNumber string) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, order := range m.Orders {
		if order.OrderNumber == orderNumber {
			return *order, nil
		}
	}
	return models.Order{}, customerrors.ErrOrderNotFound
}

func (m *MockOrderStorage) ConfirmOrder(_ context.Context, gatewayOrderID, gatewayPaymentID, gatewaySignature string) (models.Order, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ConfirmErr != nil {
		return models.Order{}, false, m.ConfirmErr
	}

	order, ok := m.Orders[gatewayOrderID]
	if !ok {
		return models.Order{}, false, customerrors.ErrOrderNotFound
	}

	if order.Status != models.StatusPending {
		return *order, false, nil
	}

	order.Status = models.StatusConfirmed
	order.GatewayPaymentID = gatewayPaymentID
	order.GatewaySignature = gatewaySignature
	m.TransitionCount++

	return *order, true, nil
}

func (m *MockOrderStorage) ListOrders(_ context.Context, limit int) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := make([]models.Order, 0, len(m.Orders))
	for _, order := range m.Orders {
		if len(orders) == limit {
			break
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func (m *MockOrderStorage) UpdateOrderStatus(_ context.Context, orderID string, status models.OrderStatus, trackingNumber string) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !status.Valid() || status == models.StatusPending {
		return models.Order{}, customerrors.ErrInvalidTransition
	}
	for _, order := range m.Orders {
		if order.ID == orderID {
			order.Status = status
			if trackingNumber != "" {
				order.TrackingNumber = trackingNumber
			}
			return *order, nil
		}
	}
	return models.Order{}, customerrors.ErrOrderNotFound
}

// MockProductStorage implements ports.ProductStorage for testing
type MockProductStorage struct {
	Products map[string]models.Product
	Err      error
}

func (m *MockProductStorage) GetProductsByIDs(_ context.Context, ids []string) (map[string]models.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	found := make(map[string]models.Product)
	for _, id := range ids {
		if p, ok := m.Products[id]; ok {
			found[id] = p
		}
	}
	return found, nil
}

func (m *MockProductStorage) GetProductByID(_ context.Context, id string) (models.Product, error) {
	if p, ok := m.Products[id]; ok {
		return p, nil
	}
	return models.Product{}, customerrors.ErrProductNotFound
}

func (m *MockProductStorage) ListProducts(_ context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0, len(m.Products))
	for _, p := range m.Products {
		products = append(products, p)
	}
	return products, nil
}

func (m *MockProductStorage) UpsertProduct(_ context.Context, product models.Product) (models.Product, error) {
	if m.Products == nil {
		m.Products = make(map[string]models.Product)
	}
	m.Products[product.ID] = product
	return product, nil
}

func (m *MockProductStorage) DeleteProduct(_ context.Context, id string) error {
	if _, ok := m.Products[id]; !ok {
		return customerrors.ErrProductNotFound
	}
	delete(m.Products, id)
	return nil
}

// MockUserStorage implements ports.UserStorage for testing
type MockUserStorage struct {
	Upserted *models.User
	Err      error
}

func (m *MockUserStorage) UpsertUserByPhone(_ context.Context, user models.User) (models.User, error) {
	if m.Err != nil {
		return models.User{}, m.Err
	}
	m.Upserted = &user
	return user, nil
}

// MockGateway implements ports.GatewayClient for testing
type MockGateway struct {
	OrderID string
	Err     error

	GotAmount   int64
	GotCurrency string
	GotReceipt  string
	Calls       int
}

func (m *MockGateway) CreateOrder(_ context.Context, amountMinor int64, currency, receipt string, _ map[string]string) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	m.GotAmount = amountMinor
	m.GotCurrency = currency
	m.GotReceipt = receipt
	return m.OrderID, nil
}
