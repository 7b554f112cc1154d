package http_handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/config"
	customerrors "github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/custom_errors"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/models"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/service"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/pkg/logger"
)

const adminOrdersLimit = 100

// AdminHandler is the back-office API: login, order management and product
// management. Every route except login sits behind AdminAuthMiddleware.
type AdminHandler struct {
	orders  *service.OrderService
	catalog *service.CatalogService
	cfg     config.AdminConfig
}

func NewAdminHandler(orders *service.OrderService, catalog *service.CatalogService, cfg config.AdminConfig) *AdminHandler {
	return &AdminHandler{
		orders:  orders,
		catalog: catalog,
		cfg:     cfg,
	}
}

type loginRequestDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponseDTO struct {
	Token string `json:"token"`
}

// POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cfg.Password == "" || h.cfg.JWTSecret == "" {
		logger.GetOrCreateLoggerFromCtx(ctx).Error(ctx, "admin credentials not configured (ADMIN_PASSWORD / ADMIN_JWT_SECRET)")
		respondError(w, http.StatusInternalServerError, "admin login unavailable")
		return
	}

	var req loginRequestDTO
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.Password)) == 1
	if !userOK || !passOK {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	claims := jwt.MapClaims{
		"sub": h.cfg.Username,
		"exp": time.Now().Add(h.cfg.TokenTTL).Unix(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		logger.GetOrCreateLoggerFromCtx(ctx).Error(ctx, "token signing failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	respondData(w, http.StatusOK, loginResponseDTO{Token: token})
}

// GET /api/admin/orders
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orders, err := h.orders.ListOrders(ctx, adminOrdersLimit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not list orders")
		return
	}

	dtos := make([]orderDTO, 0, len(orders))
	for _, order := range orders {
		dtos = append(dtos, toOrderDTO(order))
	}
	respondData(w, http.StatusOK, dtos)
}

type updateStatusRequestDTO struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
}

// PUT /api/admin/orders/{id}/status
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateStatusRequestDTO
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	order, err := h.orders.UpdateOrderStatus(ctx, chi.URLParam(r, "id"),
		models.OrderStatus(req.Status), req.TrackingNumber)
	if err != nil {
		switch {
		case errors.Is(err, customerrors.ErrInvalidTransition):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, customerrors.ErrOrderNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		default:
			logger.GetOrCreateLoggerFromCtx(ctx).Error(ctx, "update order status failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "could not update order")
		}
		return
	}

	respondData(w, http.StatusOK, toOrderDTO(order))
}

type upsertProductRequestDTO struct {
	ID     string   `json:"id,omitempty"`
	Name   string   `json:"name"`
	Price  int64    `json:"price"`
	Sizes  []string `json:"sizes"`
	Active *bool    `json:"active,omitempty"`
}

// POST /api/admin/products
func (h *AdminHandler) SaveProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req upsertProductRequestDTO
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" || req.Price < 0 {
		respondError(w, http.StatusBadRequest, "name is required and price must be non-negative")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	product, err := h.catalog.SaveProduct(ctx, models.Product{
		ID:     req.ID,
		Name:   req.Name,
		Price:  req.Price,
		Sizes:  req.Sizes,
		Active: active,
	})
	if err != nil {
		logger.GetOrCreateLoggerFromCtx(ctx).Error(ctx, "save product failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not save product")
		return
	}

	respondData(w, http.StatusOK, toProductDTO(product))
}

// DELETE /api/admin/products/{id}
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := h.catalog.DeleteProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, customerrors.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		logger.GetOrCreateLoggerFromCtx(ctx).Error(ctx, "delete product failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not delete product")
		return
	}

	respondMessage(w, http.StatusOK, "product deleted")
}
