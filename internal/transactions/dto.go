package transactions

import (
	"github.com/ardiansetya/kasirpoint-backend/internal/cart"
	"github.com/google/uuid"
)

// CheckoutRequest settles the active user's cart.
type CheckoutRequest struct {
	PaymentMethod string   `json:"payment_method" validate:"required,oneof=cash qris"`
	CashReceived  *int64   `json:"cash_received,omitempty" validate:"omitempty,gte=0"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
}

// CheckoutInput is the service-level input assembled by the controller:
// the request body plus the authenticated user and their cart lines.
type CheckoutInput struct {
	UserID  uuid.UUID
	Lines   []cart.Line
	Request CheckoutRequest
}

// HistoryFilter pages one user's past transactions.
type HistoryFilter struct {
	UserID uuid.UUID
	Page   int
	Limit  int
}
