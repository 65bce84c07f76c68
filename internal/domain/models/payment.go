package models

import (
	"time"

	"rentalweb/internal/domain"
)

// Payment is a payment attempt as reported by the rental API.
type Payment struct {
	ID        string               `json:"id"`
	BookingID string               `json:"bookingId"`
	Status    domain.PaymentStatus `json:"status"`
	Amount    float64              `json:"amount"`
	Currency  string               `json:"currency"`
	Gateway   domain.Gateway       `json:"gateway"`
	Reference string               `json:"reference"`
	PaidAt    *time.Time           `json:"paidAt,omitempty"`
}

// Checkout is where the customer must be redirected to complete payment.
type Checkout struct {
	Gateway     domain.Gateway
	BookingID   string
	Reference   string
	RedirectURL string
}
