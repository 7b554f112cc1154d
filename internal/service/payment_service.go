package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	customerrors "github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/custom_errors"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/models"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/ports"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/signature"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/pkg/logger"
)

// the gateway emits two distinct event names that both mean the payment
// went through
const (
	eventPaymentCaptured = "payment.captured"
	eventOrderPaid       = "order.paid"
)

// PaymentService contains both confirmation paths: the client-side verify
// call and the server-to-server webhook. Both converge on the same atomic
// ConfirmOrder update, so racing notifications stay idempotent.
type PaymentService struct {
	orders ports.OrderStorage

	// the two HMAC secrets are distinct: keySecret signs the client
	// callback, webhookSecret signs webhook bodies
	keySecret     string
	webhookSecret string
}

func NewPaymentService(orders ports.OrderStorage, keySecret, webhookSecret string) *PaymentService {
	return &PaymentService{
		orders:        orders,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

// VerifyPayment handles the values the payment widget returns after a
// successful charge. A bad signature is a client error and never touches
// the order; a valid signature for an unknown order is a server failure,
// because by this point the order must exist.
func (s *PaymentService) VerifyPayment(ctx context.Context, gatewayOrderID, gatewayPaymentID, sig string) (models.Order, error) {
	if s.keySecret == "" {
		logger.GetOrCreateLoggerFromCtx(ctx).Error(ctx, "missing gateway key secret (RAZORPAY_KEY_SECRET)")
		return models.Order{}, customerrors.ErrGatewayNotConfigured
	}

	if !signature.VerifyPayment(gatewayOrderID, gatewayPaymentID, sig, s.keySecret) {
		return models.Order{}, customerrors.ErrInvalidSignature
	}

	order, transitioned, err := s.orders.ConfirmOrder(ctx, gatewayOrderID, gatewayPaymentID, sig)
	if err != nil {
		return models.Order{}, fmt.Errorf("error confirming order: %w", err)
	}

	if transitioned {
		logger.GetOrCreateLoggerFromCtx(ctx).Info(ctx, "order confirmed via client verify",
			zap.String("order_number", order.OrderNumber),
			zap.String("gateway_payment_id", gatewayPaymentID))
	}

	return order, nil
}

// WebhookOutcome is what the webhook endpoint answers with on a 200
type WebhookOutcome struct {
	Message string
	// Transitioned is true only for the call that actually moved the
	// order to confirmed; first-confirmation side effects key off it
	Transitioned bool
}

// webhookEvent is the gateway event envelope; only the fields the
// dispatcher needs are mapped
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity struct {
				ID string `json:"id"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

// HandleWebhook verifies the signature over the exact raw body bytes and
// idempotently confirms the order for payment-success events.
//
// Everything that is malformed but harmless gets acknowledged so the
// gateway stops retrying; only a storage failure propagates as an error,
// which the endpoint turns into the one intentionally retryable 500.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, sig string) (WebhookOutcome, error) {
	log := logger.GetOrCreateLoggerFromCtx(ctx)

	if s.webhookSecret == "" {
		log.Error(ctx, "missing webhook secret (RAZORPAY_WEBHOOK_SECRET)")
		return WebhookOutcome{}, customerrors.ErrGatewayNotConfigured
	}

	// raw bytes, never the re-serialized JSON: re-serialization can change
	// byte content and invalidate the signature
	if !signature.VerifyWebhook(body, sig, s.webhookSecret) {
		return WebhookOutcome{}, customerrors.ErrInvalidSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Warn(ctx, "unparseable webhook body after valid signature", zap.Error(err))
		return WebhookOutcome{Message: "Event ignored"}, nil
	}

	if event.Event != eventPaymentCaptured && event.Event != eventOrderPaid {
		return WebhookOutcome{Message: "Event ignored"}, nil
	}

	gatewayOrderID := event.Payload.Payment.Entity.OrderID
	if gatewayOrderID == "" {
		gatewayOrderID = event.Payload.Order.Entity.ID
	}
	if gatewayOrderID == "" {
		log.Warn(ctx, "payment event without an order id", zap.String("event", event.Event))
		return WebhookOutcome{Message: "Event ignored"}, nil
	}

	order, transitioned, err := s.orders.ConfirmOrder(ctx, gatewayOrderID, event.Payload.Payment.Entity.ID, sig)
	if err != nil {
		if errors.Is(err, customerrors.ErrOrderNotFound) {
			// not our order; never 5xx here or the gateway retries forever
			log.Warn(ctx, "webhook for unknown order", zap.String("gateway_order_id", gatewayOrderID))
			return WebhookOutcome{Message: "Order not found"}, nil
		}
		return WebhookOutcome{}, fmt.Errorf("error confirming order from webhook: %w", err)
	}

	if !transitioned {
		return WebhookOutcome{Message: "Order already confirmed"}, nil
	}

	log.Info(ctx, "order confirmed via webhook",
		zap.String("order_number", order.OrderNumber),
		zap.String("event", event.Event))

	return WebhookOutcome{Message: "Order confirmed", Transitioned: true}, nil
}
