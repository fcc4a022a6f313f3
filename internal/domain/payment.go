package domain

import (
	"context"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment is one payment attempt against a booking. A booking can accumulate
// several attempts; only a completed one confirms it.
type Payment struct {
	ID                int
	BookingID         string
	Amount            Amount
	Currency          string
	Status            PaymentStatus
	CheckoutSessionID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	UpdateStatusByCheckoutSession(ctx context.Context, checkoutSessionID string, status PaymentStatus) error
}
