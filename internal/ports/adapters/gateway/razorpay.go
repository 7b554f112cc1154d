package gateway

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	customerrors "github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/custom_errors"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/ports"
)

// RazorpayGateway implements ports.GatewayClient on the Razorpay SDK
type RazorpayGateway struct {
	client *razorpay.Client
}

// NewRazorpayGateway creates the gateway adapter. Missing credentials are
// legal here: the error surfaces on the first CreateOrder call instead,
// so the service boots without the gateway configured.
func NewRazorpayGateway(keyID, keySecret string) ports.GatewayClient {
	if keyID == "" || keySecret == "" {
		return &RazorpayGateway{}
	}
	return &RazorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
	}
}

// CreateOrder creates a gateway-side order for the given amount in minor
// units and returns its id
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (string, error) {
	if g.client == nil {
		return "", customerrors.ErrGatewayNotConfigured
	}

	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		noteData := make(map[string]interface{}, len(notes))
		for k, v := range notes {
			noteData[k] = v
		}
		data["notes"] = noteData
	}

	// the SDK has no context-aware variant; timeouts are the SDK defaults
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("gateway create order failed: %w", err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("gateway create order returned no id")
	}

	return id, nil
}
