package models

import (
	"time"
)

// OrderStatus is the lifecycle state of an order. Only StatusPending precedes
// payment; every other status implies the payment was confirmed at least once.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Confirmed reports whether s implies payment was confirmed at least once
func (s OrderStatus) Confirmed() bool {
	return s.Valid() && s != StatusPending
}

type Order struct {
	ID          string
	OrderNumber string
	UserID      string
	Status      OrderStatus

	// whole currency units, no fractions in this system
	Subtotal     int64
	ShippingCost int64
	Total        int64

	// gateway linkage: order id is set at creation and immutable,
	// payment id and signature are set on confirmation
	GatewayOrderID   string
	GatewayPaymentID string
	GatewaySignature string

	Delivery       Delivery
	TrackingNumber string

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []OrderItem
}

// Delivery is a snapshot of the customer contact taken at order creation,
// not a live reference to the user row
type Delivery struct {
	Name    string
	Phone   string
	Email   string
	Address string
	City    string
	State   string
	Zip     string
}

// OrderItem is created once with the order and never mutated after.
// ProductID may be empty when the product was deleted later.
type OrderItem struct {
	OrderID     string
	ProductID   string
	ProductName string
	Price       int64
	Size        string
	Quantity    int
	LineTotal   int64
}

type Product struct {
	ID        string
	Name      string
	Price     int64
	Sizes     []string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// User is a customer profile keyed by phone number
type User struct {
	ID        string
	Phone     string
	FullName  string
	Email     string
	Address   string
	City      string
	State     string
	ZipCode   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartLine is one line of the client cart payload. Any client-supplied
// price never participates in pricing: lines are re-priced from the
// product store.
type CartLine struct {
	ProductID string
	Quantity  int
	Size      string
}

// CustomerInfo is the contact/address bundle submitted with checkout
type CustomerInfo struct {
	Phone    string
	FullName string
	Email    string
	Address  string
	City     string
	State    string
	ZipCode  string
}

// CheckoutRequest is the service-level input of order creation
type CheckoutRequest struct {
	Items    []CartLine
	Customer CustomerInfo
	Currency string
	Notes    map[string]string
}

// GatewayOrderHandle is what the checkout returns for the payment widget
type GatewayOrderHandle struct {
	GatewayOrderID string
	Amount         int64 // gateway minor units (paise)
	Currency       string
	Receipt        string
	DBOrderID      string
}
