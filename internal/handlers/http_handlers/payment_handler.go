package http_handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	customerrors "github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/custom_errors"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/models"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/service"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/validators"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/pkg/logger"
)

const webhookSignatureHeader = "X-Razorpay-Signature"

// maxBodySize bounds request bodies; webhook events and carts are small
const maxBodySize = 1 << 20

// PaymentHandler wraps the checkout and payment services behind the three
// payment endpoints
type PaymentHandler struct {
	checkout *service.CheckoutService
	payments *service.PaymentService
}

func NewPaymentHandler(checkout *service.CheckoutService, payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		checkout: checkout,
		payments: payments,
	}
}

type cartLineDTO struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Size     string `json:"size"`
	// a client may send a price; it is deliberately never read
	Price int64 `json:"price,omitempty"`
}

type customerDTO struct {
	Phone    string `json:"phone"`
	FullName string `json:"fullName"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state,omitempty"`
	ZipCode  string `json:"zipCode"`
}

type createOrderRequestDTO struct {
	Items    []cartLineDTO     `json:"items"`
	Customer customerDTO       `json:"customer"`
	Currency string            `json:"currency,omitempty"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type createOrderResponseDTO struct {
	OrderID   string `json:"orderId"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	DBOrderID string `json:"dbOrderId"`
}

// POST /api/payment/create-order
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createOrderRequestDTO
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	lines := make([]models.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, models.CartLine{
			ProductID: item.ID,
			Quantity:  item.Quantity,
			Size:      item.Size,
		})
	}

	handle, err := h.checkout.CreateOrder(ctx, models.CheckoutRequest{
		Items: lines,
		Customer: models.CustomerInfo{
			Phone:    req.Customer.Phone,
			FullName: req.Customer.FullName,
			Email:    req.Customer.Email,
			Address:  req.Customer.Address,
			City:     req.Customer.City,
			State:    req.Customer.State,
			ZipCode:  req.Customer.ZipCode,
		},
		Currency: req.Currency,
		Notes:    req.Notes,
	})
	if err != nil {
		recordOrderOperation("create", false)
		switch {
		case errors.Is(err, customerrors.ErrValidation), errors.Is(err, customerrors.ErrEmptyCart):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			logger.GetOrCreateLoggerFromCtx(ctx).Error(ctx, "create order failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "could not create order")
		}
		return
	}

	recordOrderOperation("create", true)
	respondData(w, http.StatusOK, createOrderResponseDTO{
		OrderID:   handle.GatewayOrderID,
		Amount:    handle.Amount,
		Currency:  handle.Currency,
		Receipt:   handle.Receipt,
		DBOrderID: handle.DBOrderID,
	})
}

type verifyRequestDTO struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type verifyResponseDTO struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Total     int64  `json:"total"`
	Status    string `json:"status"`
}

// POST /api/payment/verify
//
// this is the user-visible success confirmation: the storefront shows its
// success screen only after this returns success
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req verifyRequestDTO
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validators.ValidateVerifyRequest(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.payments.VerifyPayment(ctx, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		recordOrderOperation("verify", false)
		switch {
		case errors.Is(err, customerrors.ErrInvalidSignature):
			respondError(w, http.StatusBadRequest, "invalid payment signature")
		default:
			// includes order-not-found: by the time verify is called the
			// order must exist, so the caller gets a server failure
			logger.GetOrCreateLoggerFromCtx(ctx).Error(ctx, "payment verification failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "could not verify payment")
		}
		return
	}

	recordOrderOperation("verify", true)
	respondData(w, http.StatusOK, verifyResponseDTO{
		OrderID:   order.GatewayOrderID,
		PaymentID: order.GatewayPaymentID,
		Total:     order.Total,
		Status:    string(models.StatusConfirmed),
	})
}

// POST /api/payment/webhook
//
// the authoritative confirmation path; a 500 here is intentional and tells
// the gateway to retry later
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sig := r.Header.Get(webhookSignatureHeader)
	if sig == "" {
		respondError(w, http.StatusBadRequest, "missing signature header")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	outcome, err := h.payments.HandleWebhook(ctx, body, sig)
	if err != nil {
		switch {
		case errors.Is(err, customerrors.ErrInvalidSignature), errors.Is(err, customerrors.ErrGatewayNotConfigured):
			respondError(w, http.StatusBadRequest, "invalid webhook signature")
		default:
			logger.GetOrCreateLoggerFromCtx(ctx).Error(ctx, "webhook processing failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "could not process webhook")
		}
		return
	}

	if outcome.Transitioned {
		recordOrderOperation("webhook_confirm", true)
	}
	respondMessage(w, http.StatusOK, outcome.Message)
}
