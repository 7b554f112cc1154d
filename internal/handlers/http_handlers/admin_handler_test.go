package http_handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/models"
)

func adminLogin(t *testing.T, env *testEnv) http.Header {
	t.Helper()

	rec, respEnv := env.do(t, http.MethodPost, "/api/admin/login",
		loginRequestDTO{Username: "admin", Password: testAdminPassword}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponseDTO
	require.NoError(t, json.Unmarshal(respEnv.Data, &resp))
	require.NotEmpty(t, resp.Token)

	return http.Header{"Authorization": []string{"Bearer " + resp.Token}}
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(100)

	rec, _ := env.do(t, http.MethodPost, "/api/admin/login",
		loginRequestDTO{Username: "admin", Password: "guess"}, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestEnv(100)

	t.Run("no token", func(t *testing.T) {
		rec, _ := env.do(t, http.MethodGet, "/api/admin/orders", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		header := http.Header{"Authorization": []string{"Bearer not.a.jwt"}}
		rec, _ := env.do(t, http.MethodGet, "/api/admin/orders", nil, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAdminListOrders(t *testing.T) {
	env := newTestEnv(100)
	env.seedPendingOrder("order_abc")
	auth := adminLogin(t, env)

	rec, respEnv := env.do(t, http.MethodGet, "/api/admin/orders", nil, auth)

	require.Equal(t, http.StatusOK, rec.Code)
	var orders []orderDTO
	require.NoError(t, json.Unmarshal(respEnv.Data, &orders))
	assert.Len(t, orders, 1)
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	env := newTestEnv(100)
	seeded := env.seedPendingOrder("order_abc")
	seeded.Status = models.StatusConfirmed
	auth := adminLogin(t, env)

	rec, respEnv := env.do(t, http.MethodPut, "/api/admin/orders/"+seeded.ID+"/status",
		updateStatusRequestDTO{Status: "shipped", TrackingNumber: "AWB77"}, auth)

	require.Equal(t, http.StatusOK, rec.Code)
	var order orderDTO
	require.NoError(t, json.Unmarshal(respEnv.Data, &order))
	assert.Equal(t, "shipped", order.Status)
	assert.Equal(t, "AWB77", order.TrackingNumber)
}

func TestAdminUpdateOrderStatusRejectsPending(t *testing.T) {
	env := newTestEnv(100)
	seeded := env.seedPendingOrder("order_abc")
	seeded.Status = models.StatusConfirmed
	auth := adminLogin(t, env)

	rec, _ := env.do(t, http.MethodPut, "/api/admin/orders/"+seeded.ID+"/status",
		updateStatusRequestDTO{Status: "pending"}, auth)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.StatusConfirmed, env.storage.Orders["order_abc"].Status)
}

func TestAdminUpdateUnknownOrder(t *testing.T) {
	env := newTestEnv(100)
	auth := adminLogin(t, env)

	rec, _ := env.do(t, http.MethodPut, "/api/admin/orders/ghost/status",
		updateStatusRequestDTO{Status: "shipped"}, auth)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminSaveProduct(t *testing.T) {
	env := newTestEnv(100)
	auth := adminLogin(t, env)

	rec, respEnv := env.do(t, http.MethodPost, "/api/admin/products",
		upsertProductRequestDTO{Name: "Linen Dress", Price: 2499, Sizes: []string{"S", "M"}}, auth)

	require.Equal(t, http.StatusOK, rec.Code)
	var product productDTO
	require.NoError(t, json.Unmarshal(respEnv.Data, &product))
	assert.NotEmpty(t, product.ID)
	assert.True(t, product.Active, "a new product defaults to active")

	// the saved product is immediately visible on the public catalog
	rec, _ = env.do(t, http.MethodGet, "/api/products/"+product.ID, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminSaveProductValidation(t *testing.T) {
	env := newTestEnv(100)
	auth := adminLogin(t, env)

	rec, _ := env.do(t, http.MethodPost, "/api/admin/products",
		upsertProductRequestDTO{Name: "", Price: 100}, auth)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminDeleteProduct(t *testing.T) {
	env := newTestEnv(100)
	env.seedProduct("prod-1", "Silk Saree", 4999)
	auth := adminLogin(t, env)

	rec, _ := env.do(t, http.MethodDelete, "/api/admin/products/prod-1", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodDelete, "/api/admin/products/prod-1", nil, auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
