package domain

import "github.com/stripe/stripe-go/v82"

// PaymentProvider starts a checkout for a pending booking. The provider's
// asynchronous success/failure signals are delivered back through the
// gateway webhook and consumed by the booking lifecycle.
type PaymentProvider interface {
	CreateCheckoutSession(user *User, booking *Booking) (*stripe.CheckoutSession, error)
}
