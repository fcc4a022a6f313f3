// Package payment adapts the external payment gateway. Capture and
// settlement stay on the gateway's side; this service only starts checkouts
// and consumes the success/failure signals the gateway sends back.
package payment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Vashishth06/BookMyShow/internal/domain"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

type StripePaymentProvider struct {
	failureUrl string
	successUrl string
}

func NewStripePaymentProvider(failureUrl, successUrl string) *StripePaymentProvider {
	return &StripePaymentProvider{
		failureUrl: failureUrl,
		successUrl: successUrl,
	}
}

func (s *StripePaymentProvider) CreateCheckoutSession(
	user *domain.User,
	booking *domain.Booking) (*stripe.CheckoutSession, error) {

	// One line item for the whole booking: the engine fixed the total at
	// reservation time and the charge must match it to the paisa.
	seatLabels := make([]string, len(booking.Seats))
	for i, seat := range booking.Seats {
		seatLabels[i] = fmt.Sprintf("R%dC%d (%s)", seat.Row, seat.Col, seat.Category)
	}

	lineItem := &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(string(stripe.CurrencyINR)),
			UnitAmount: stripe.Int64(int64(booking.TotalPrice)),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name:        stripe.String(fmt.Sprintf("Movie tickets - show %d", booking.ShowID)),
				Description: stripe.String("Seats: " + strings.Join(seatLabels, ", ")),
			},
		},
		Quantity: stripe.Int64(1),
	}

	params := &stripe.CheckoutSessionParams{
		LineItems:  []*stripe.CheckoutSessionLineItemParams{lineItem},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successUrl),
		CancelURL:  stripe.String(s.failureUrl),
		Metadata: map[string]string{
			"booking_id": booking.ID,
			"user_id":    strconv.Itoa(user.ID),
		},
		CustomerEmail:     &user.Email,
		ClientReferenceID: stripe.String(booking.ID),
	}

	return session.New(params)
}
