package http_handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	customerrors "github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/custom_errors"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/models"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/service"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/pkg/logger"
)

// StorefrontHandler serves the public read endpoints: catalog and order
// tracking
type StorefrontHandler struct {
	catalog *service.CatalogService
	orders  *service.OrderService
}

func NewStorefrontHandler(catalog *service.CatalogService, orders *service.OrderService) *StorefrontHandler {
	return &StorefrontHandler{
		catalog: catalog,
		orders:  orders,
	}
}

type productDTO struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Price  int64    `json:"price"`
	Sizes  []string `json:"sizes"`
	Active bool     `json:"active"`
}

func toProductDTO(p models.Product) productDTO {
	return productDTO{
		ID:     p.ID,
		Name:   p.Name,
		Price:  p.Price,
		Sizes:  p.Sizes,
		Active: p.Active,
	}
}

// GET /api/products
func (h *StorefrontHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		logger.GetOrCreateLoggerFromCtx(ctx).Error(ctx, "list products failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not list products")
		return
	}

	dtos := make([]productDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, toProductDTO(p))
	}
	respondData(w, http.StatusOK, dtos)
}

// GET /api/products/{id}
func (h *StorefrontHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	product, err := h.catalog.GetProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, customerrors.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		logger.GetOrCreateLoggerFromCtx(ctx).Error(ctx, "get product failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not get product")
		return
	}

	respondData(w, http.StatusOK, toProductDTO(product))
}

type orderItemDTO struct {
	ProductID   string `json:"productId,omitempty"`
	ProductName string `json:"productName"`
	Price       int64  `json:"price"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
	LineTotal   int64  `json:"lineTotal"`
}

type orderDTO struct {
	ID             string         `json:"id"`
	OrderNumber    string         `json:"orderNumber"`
	Status         string         `json:"status"`
	Subtotal       int64          `json:"subtotal"`
	ShippingCost   int64          `json:"shippingCost"`
	Total          int64          `json:"total"`
	TrackingNumber string         `json:"trackingNumber,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	Items          []orderItemDTO `json:"items"`
}

func toOrderDTO(order models.Order) orderDTO {
	items := make([]orderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Size:        item.Size,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		})
	}
	return orderDTO{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		Status:         string(order.Status),
		Subtotal:       order.Subtotal,
		ShippingCost:   order.ShippingCost,
		Total:          order.Total,
		TrackingNumber: order.TrackingNumber,
		CreatedAt:      order.CreatedAt,
		Items:          items,
	}
}

// GET /api/orders/{number} — the tracking page lookup
func (h *StorefrontHandler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	order, err := h.orders.GetOrderByNumber(ctx, chi.URLParam(r, "number"))
	if err != nil {
		if errors.Is(err, customerrors.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		logger.GetOrCreateLoggerFromCtx(ctx).Error(ctx, "track order failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not look up order")
		return
	}

	respondData(w, http.StatusOK, toOrderDTO(order))
}
