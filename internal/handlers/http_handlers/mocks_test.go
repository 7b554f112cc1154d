package http_handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/config"
	customerrors "github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/custom_errors"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/models"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/ports/adapters/ratelimit"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/service"
)

const (
	testKeySecret     = "test_key_secret"
	testWebhookSecret = "test_webhook_secret"
	testAdminPassword = "test_admin_password"
	testJWTSecret     = "test_jwt_secret"
	testShippingCost  = int64(99)
)

// mockStorage implements ports.OrderStorage, ports.ProductStorage and
// ports.UserStorage in memory, keeping the real adapter's confirm-once
// semantics
type mockStorage struct {
	mu       sync.Mutex
	Orders   map[string]*models.Order // keyed by gateway order id
	Products map[string]models.Product

	ConfirmErr error
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		Orders:   make(map[string]*models.Order),
		Products: make(map[string]models.Product),
	}
}

func (m *mockStorage) SaveOrder(_ context.Context, order models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := order
	m.Orders[order.GatewayOrderID] = &saved
	return nil
}

func (m *mockStorage) GetOrderByGatewayOrderID(_ context.Context, gatewayOrderID string) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.Orders[gatewayOrderID]
	if !ok {
		return models.Order{}, customerrors.ErrOrderNotFound
	}
	return *order, nil
}

func (m *mockStorage) GetOrderByNumber(_ context.Context, orderNumber string) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, order := range m.Orders {
		if order.OrderNumber == orderNumber {
			return *order, nil
		}
	}
	return models.Order{}, customerrors.ErrOrderNotFound
}

func (m *mockStorage) ConfirmOrder(_ context.Context, gatewayOrderID, gatewayPaymentID, gatewaySignature string) (models.Order, bool, error) {
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
	return *order, true, nil
}

func (m *mockStorage) ListOrders(_ context.Context, limit int) ([]models.Order, error) {
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

func (m *mockStorage) UpdateOrderStatus(_ context.Context, orderID string, status models.OrderStatus, trackingNumber string) (models.Order, error) {
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

func (m *mockStorage) GetProductsByIDs(_ context.Context, ids []string) (map[string]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := make(map[string]models.Product)
	for _, id := range ids {
		if p, ok := m.Products[id]; ok && p.Active {
			found[id] = p
		}
	}
	return found, nil
}

func (m *mockStorage) GetProductByID(_ context.Context, id string) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.Products[id]; ok {
		return p, nil
	}
	return models.Product{}, customerrors.ErrProductNotFound
}

func (m *mockStorage) ListProducts(_ context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	products := make([]models.Product, 0, len(m.Products))
	for _, p := range m.Products {
		products = append(products, p)
	}
	return products, nil
}

func (m *mockStorage) UpsertProduct(_ context.Context, product models.Product) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Products[product.ID] = product
	return product, nil
}

func (m *mockStorage) DeleteProduct(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Products[id]; !ok {
		return customerrors.ErrProductNotFound
	}
	delete(m.Products, id)
	return nil
}

func (m *mockStorage) UpsertUserByPhone(_ context.Context, user models.User) (models.User, error) {
	return user, nil
}

// mockGateway implements ports.GatewayClient
type mockGateway struct {
	OrderID string
	Err     error

	GotAmount int64
	Calls     int
}

func (m *mockGateway) CreateOrder(_ context.Context, amountMinor int64, _, _ string, _ map[string]string) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	m.GotAmount = amountMinor
	return m.OrderID, nil
}

// testEnv wires the full router over in-memory fakes, so tests exercise
// routing, middlewares and handlers together
type testEnv struct {
	router  http.Handler
	storage *mockStorage
	gateway *mockGateway
}

func newTestEnv(rateLimit int) *testEnv {
	storage := newMockStorage()
	gw := &mockGateway{OrderID: "order_test123"}

	adminCfg := config.AdminConfig{
		Username:  "admin",
		Password:  testAdminPassword,
		JWTSecret: testJWTSecret,
		TokenTTL:  time.Hour,
	}

	router := NewRouter(
		NewPaymentHandler(
			service.NewCheckoutService(storage, storage, storage, gw, testShippingCost, "INR"),
			service.NewPaymentService(storage, testKeySecret, testWebhookSecret),
		),
		NewStorefrontHandler(
			service.NewCatalogService(storage),
			service.NewOrderService(storage),
		),
		NewAdminHandler(
			service.NewOrderService(storage),
			service.NewCatalogService(storage),
			adminCfg,
		),
		ratelimit.NewInMemoryLimiter(rateLimit, time.Minute),
		adminCfg,
	)

	return &testEnv{router: router, storage: storage, gateway: gw}
}

func (e *testEnv) seedProduct(id, name string, price int64) {
	e.storage.Products[id] = models.Product{
		ID: id, Name: name, Price: price, Sizes: []string{"S", "M", "L"}, Active: true,
	}
}

func (e *testEnv) seedPendingOrder(gatewayOrderID string) *models.Order {
	order := &models.Order{
		ID:             "db-" + gatewayOrderID,
		OrderNumber:    "ORD-20260830-TEST01",
		Status:         models.StatusPending,
		Subtotal:       4999,
		ShippingCost:   testShippingCost,
		Total:          5098,
		GatewayOrderID: gatewayOrderID,
		Items: []models.OrderItem{
			{ProductID: "prod-1", ProductName: "Silk Saree", Price: 4999, Size: "M", Quantity: 1, LineTotal: 4999},
		},
	}
	e.storage.Orders[gatewayOrderID] = order
	return order
}

// envelope mirrors the response shape of every endpoint
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any, header http.Header) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && json.Valid(rec.Body.Bytes()) {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func hmacHex(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func paymentSignature(gatewayOrderID, gatewayPaymentID string) string {
	return hmacHex(testKeySecret, []byte(gatewayOrderID+"|"+gatewayPaymentID))
}

func capturedWebhookBody(gatewayOrderID, paymentID string) []byte {
	return []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"` +
		paymentID + `","order_id":"` + gatewayOrderID + `"}}}}`)
}

func validCheckoutBody() createOrderRequestDTO {
	return createOrderRequestDTO{
		Items: []cartLineDTO{{ID: "prod-1", Quantity: 1, Size: "M"}},
		Customer: customerDTO{
			Phone:    "+919876543210",
			FullName: "Asha Rao",
			Email:    "asha@example.com",
			Address:  "12 MG Road",
			City:     "Bengaluru",
			State:    "KA",
			ZipCode:  "560001",
		},
	}
}
