package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Vashishth06/BookMyShow/api"
	"github.com/Vashishth06/BookMyShow/internal/domain"
	"github.com/Vashishth06/BookMyShow/internal/mocks"
	"github.com/Vashishth06/BookMyShow/internal/payment"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/stripe/stripe-go/v82"
)

type PaymentTestSuite struct {
	BookingsTestSuite
	createdPayments      []domain.Payment
	paymentStatusUpdates []domain.PaymentStatus
}

func TestPaymentSuite(t *testing.T) {
	suite.Run(t, new(PaymentTestSuite))
}

func (s *PaymentTestSuite) SetupTest() {
	s.BookingsTestSuite.SetupTest()
	s.createdPayments = nil
	s.paymentStatusUpdates = nil

	s.app.paymentRepo = &mocks.MockPaymentRepo{
		CreateFunc: func(ctx context.Context, p *domain.Payment) error {
			s.createdPayments = append(s.createdPayments, *p)
			return nil
		},
		UpdateStatusByCheckoutSessionFunc: func(ctx context.Context, checkoutSessionID string, status domain.PaymentStatus) error {
			s.paymentStatusUpdates = append(s.paymentStatusUpdates, status)
			return nil
		},
	}
	s.app.paymentProvider = &payment.MockPaymentProvider{
		CreateCheckoutSessionFunc: func(user *domain.User, booking *domain.Booking) (*stripe.CheckoutSession, error) {
			return &stripe.CheckoutSession{
				ID:                "cs_test_123",
				URL:               "https://checkout.stripe.test/cs_test_123",
				ClientReferenceID: booking.ID,
			}, nil
		},
	}
}

func (s *PaymentTestSuite) TestCreateCheckoutSessionHandler() {
	created := s.createBooking(42, []int{1, 3})

	w, r := executeRequest(s.T(), http.MethodPost, fmt.Sprintf("/bookings/%s/checkout", created.Id), nil)
	s.app.Routes().ServeHTTP(w, r)

	s.Require().Equal(http.StatusOK, w.Code)

	var resp api.CheckoutSessionResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
	s.Equal("https://checkout.stripe.test/cs_test_123", resp.RedirectUrl)

	s.Require().Len(s.createdPayments, 1)
	s.Equal(created.Id, s.createdPayments[0].BookingID)
	s.Equal(domain.PaymentStatusPending, s.createdPayments[0].Status)
	s.Equal("cs_test_123", s.createdPayments[0].CheckoutSessionID)
}

func (s *PaymentTestSuite) TestCreateCheckoutSessionHandler_UnknownBooking() {
	w, r := executeRequest(s.T(), http.MethodPost, "/bookings/11111111-2222-3333-4444-555555555555/checkout", nil)
	s.app.Routes().ServeHTTP(w, r)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *PaymentTestSuite) TestCreateCheckoutSessionHandler_CancelledBookingConflicts() {
	created := s.createBooking(42, []int{1})

	_, err := s.app.lifecycle.Cancel(context.Background(), created.Id)
	s.Require().NoError(err)

	w, r := executeRequest(s.T(), http.MethodPost, fmt.Sprintf("/bookings/%s/checkout", created.Id), nil)
	s.app.Routes().ServeHTTP(w, r)

	s.Equal(http.StatusConflict, w.Code)
	s.Empty(s.createdPayments)
}

// checkoutCompletedEvent builds the payload the gateway delivers when a
// checkout session finishes, referencing the given booking.
func checkoutCompletedEvent(t *testing.T, bookingId string) stripe.Event {
	t.Helper()

	raw, err := json.Marshal(map[string]string{
		"id":                  "cs_test_123",
		"client_reference_id": bookingId,
	})
	require.NoError(t, err)

	return stripe.Event{
		ID:   "evt_test_1",
		Type: "checkout.session.completed",
		Data: &stripe.EventData{Raw: raw},
	}
}

func (s *PaymentTestSuite) TestHandleCheckoutCompleted_ConfirmsPendingBooking() {
	created := s.createBooking(42, []int{1, 2})

	r := httptest.NewRequest(http.MethodPost, "/webhook", nil)
	err := s.app.handleCheckoutCompleted(r, checkoutCompletedEvent(s.T(), created.Id))
	s.Require().NoError(err)

	booking, err := s.app.bookingRepo.GetById(context.Background(), created.Id)
	s.Require().NoError(err)
	s.Equal(domain.BookingStatusConfirmed, booking.Status)
	s.Equal([]domain.PaymentStatus{domain.PaymentStatusCompleted}, s.paymentStatusUpdates)
}

// A completed payment can arrive after the sweeper already expired the
// booking. The delivery must be acknowledged, not failed, or the gateway
// retries it forever.
func (s *PaymentTestSuite) TestHandleCheckoutCompleted_AcknowledgesExpiredBooking() {
	created := s.createBooking(42, []int{1})

	s.Require().NoError(s.app.lifecycle.Expire(context.Background(), created.Id))

	r := httptest.NewRequest(http.MethodPost, "/webhook", nil)
	err := s.app.handleCheckoutCompleted(r, checkoutCompletedEvent(s.T(), created.Id))
	s.NoError(err)

	// The booking stays EXPIRED; the charge is flagged for a refund instead
	// of resurrecting the hold.
	booking, err := s.app.bookingRepo.GetById(context.Background(), created.Id)
	s.Require().NoError(err)
	s.Equal(domain.BookingStatusExpired, booking.Status)
}

func (s *PaymentTestSuite) TestStripeWebhookHandler_RejectsBadSignature() {
	w, r := executeRequest(s.T(), http.MethodPost, "/webhook", map[string]string{"type": "checkout.session.completed"})
	r.Header.Set("Stripe-Signature", "t=1,v1=forged")
	s.app.Routes().ServeHTTP(w, r)

	s.Equal(http.StatusBadRequest, w.Code)
}
