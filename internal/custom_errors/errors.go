package customerrors

import "errors"

// ErrOrderNotFound describes an error when the storage
// was successfully checked but no order with given data was found
var ErrOrderNotFound = errors.New("order not found")

// ErrProductNotFound is returned when a product id resolves to nothing
var ErrProductNotFound = errors.New("product not found")

// ErrInvalidSignature is returned when an HMAC check over a payment
// callback or webhook body fails; callers must reject the request
var ErrInvalidSignature = errors.New("invalid signature")

// ErrEmptyCart is returned when no cart line survives re-pricing
var ErrEmptyCart = errors.New("no purchasable items in cart")

// ErrValidation wraps field-level validation failures so handlers can map
// them to 400 without knowing the field
var ErrValidation = errors.New("validation failed")

// ErrGatewayNotConfigured is returned when gateway credentials or the
// webhook secret are missing; detected at call time, not startup
var ErrGatewayNotConfigured = errors.New("payment gateway is not configured")

// ErrInvalidTransition is returned when an admin status update would
// move an order backward to pending
var ErrInvalidTransition = errors.New("invalid order status transition")

// ErrDuplicateOrderNumber is returned by the storage when the generated
// order number collides with an existing one; the caller retries with a
// fresh suffix
var ErrDuplicateOrderNumber = errors.New("order number already exists")
