package domain

import "time"

type CartItemStatus string

const (
	CartItemStatusHeld    CartItemStatus = "HELD"
	CartItemStatusOrdered CartItemStatus = "ORDERED"
	CartItemStatusRemoved CartItemStatus = "REMOVED"
	CartItemStatusExpired CartItemStatus = "EXPIRED"
)

type ProductType string

const ProductTypeTransfer ProductType = "transfer"

// CartItem is a finished booking handed over to the cart.
type CartItem struct {
	ID          int64
	Token       string
	SessionID   string
	ProductType ProductType
	Payload     []byte
	TotalPrice  float64
	Currency    string
	ContactName string
	Phone       string
	Status      CartItemStatus
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
