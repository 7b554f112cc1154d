package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// The gateway signs two different canonical messages with two different
// secrets: the checkout callback signs "{order_id}|{payment_id}" with the
// API key secret, the webhook signs the raw request body with the webhook
// secret. Keeping both call sites on the raw inputs matters: re-serializing
// parsed JSON can change byte content and invalidate the webhook signature.

// VerifyPayment checks the signature the payment widget returns after a
// successful charge
func VerifyPayment(gatewayOrderID, gatewayPaymentID, signature, secret string) bool {
	return verify([]byte(gatewayOrderID+"|"+gatewayPaymentID), signature, secret)
}

// VerifyWebhook checks the signature header of a webhook delivery against
// the exact raw body bytes
func VerifyWebhook(body []byte, signature, secret string) bool {
	return verify(body, signature, secret)
}

func verify(message []byte, candidate, secret string) bool {
	if candidate == "" || secret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	expected := mac.Sum(nil)

	got, err := hex.DecodeString(candidate)
	if err != nil {
		return false
	}

	return hmac.Equal(expected, got)
}
