package validators

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/models"
)

// MaxQuantityPerLine caps a single cart line; anything above it is a
// client error rather than a silently propagated absurd value
const MaxQuantityPerLine = 50

func ValidateCheckout(req models.CheckoutRequest) error {
	if err := validateItems(req.Items); err != nil {
		return err
	}
	if err := validateCustomer(req.Customer); err != nil {
		return fmt.Errorf("customer validation failed: %w", err)
	}
	return nil
}

func validateItems(items []models.CartLine) error {
	if len(items) == 0 {
		return fmt.Errorf("at least one item is required")
	}

	for i, item := range items {
		if err := validateItem(item); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

func validateItem(item models.CartLine) error {
	if strings.TrimSpace(item.ProductID) == "" {
		return fmt.Errorf("id is required")
	}
	if item.Quantity < 1 {
		return fmt.Errorf("quantity must be positive")
	}
	if item.Quantity > MaxQuantityPerLine {
		return fmt.Errorf("quantity must not exceed %d", MaxQuantityPerLine)
	}
	if strings.TrimSpace(item.Size) == "" {
		return fmt.Errorf("size is required")
	}
	return nil
}

func validateCustomer(c models.CustomerInfo) error {
	if strings.TrimSpace(c.Phone) == "" {
		return fmt.Errorf("phone is required")
	}
	if strings.TrimSpace(c.FullName) == "" {
		return fmt.Errorf("fullName is required")
	}
	if strings.TrimSpace(c.Address) == "" {
		return fmt.Errorf("address is required")
	}
	if strings.TrimSpace(c.City) == "" {
		return fmt.Errorf("city is required")
	}
	if strings.TrimSpace(c.ZipCode) == "" {
		return fmt.Errorf("zipCode is required")
	}
	if c.Email != "" && !isValidEmail(c.Email) {
		return fmt.Errorf("email has invalid format")
	}
	return nil
}

// ValidateVerifyRequest checks the three values the payment widget returns
func ValidateVerifyRequest(gatewayOrderID, gatewayPaymentID, sig string) error {
	if strings.TrimSpace(gatewayOrderID) == "" {
		return fmt.Errorf("razorpay_order_id is required")
	}
	if strings.TrimSpace(gatewayPaymentID) == "" {
		return fmt.Errorf("razorpay_payment_id is required")
	}
	if strings.TrimSpace(sig) == "" {
		return fmt.Errorf("razorpay_signature is required")
	}
	return nil
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
