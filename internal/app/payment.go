package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Vashishth06/BookMyShow/api"
	"github.com/Vashishth06/BookMyShow/internal/domain"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const maxWebhookBodyBytes = 65536

// CreateCheckoutSessionHandler starts a payment for a pending booking. The
// gateway enforces a minimum session lifetime longer than the seat hold, so a
// session can outlive the hold; the webhook handler deals with payments that
// land after the booking was swept.
func (app *Application) CreateCheckoutSessionHandler(w http.ResponseWriter, r *http.Request) {
	bookingId, err := app.readBookingIdParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking, err := app.bookingRepo.GetById(r.Context(), bookingId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if booking.Status != domain.BookingStatusPending {
		app.editConflictResponseWithErr(
			w,
			r,
			fmt.Errorf("booking %s is %s, only pending bookings can be paid", booking.ID, booking.Status),
		)
		return
	}

	user, err := app.userRepo.GetById(r.Context(), booking.UserID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	checkoutSession, err := app.paymentProvider.CreateCheckoutSession(user, booking)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	payment := domain.Payment{
		BookingID:         booking.ID,
		Amount:            booking.TotalPrice,
		Currency:          "INR",
		Status:            domain.PaymentStatusPending,
		CheckoutSessionID: checkoutSession.ID,
	}

	err = app.paymentRepo.Create(r.Context(), &payment)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.CheckoutSessionResponse{
		RedirectUrl: checkoutSession.URL,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// StripeWebhookHandler consumes the gateway's asynchronous payment signals
// and drives the booking lifecycle from them. Stripe retries deliveries, so
// every branch tolerates being applied more than once.
func (app *Application) StripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), app.config.Stripe.WebhookSecret)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("webhook signature verification failed: %w", err))
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		err = app.handleCheckoutCompleted(r, event)
	case "checkout.session.expired", "checkout.session.async_payment_failed":
		err = app.handleCheckoutFailed(r, event)
	default:
		app.logger.Info("ignoring webhook event", "type", event.Type)
	}

	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (app *Application) handleCheckoutCompleted(r *http.Request, event stripe.Event) error {
	session, err := parseCheckoutSession(event)
	if err != nil {
		return err
	}

	err = app.paymentRepo.UpdateStatusByCheckoutSession(r.Context(), session.ID, domain.PaymentStatusCompleted)
	if err != nil {
		return err
	}

	booking, err := app.lifecycle.Confirm(r.Context(), session.ClientReferenceID)
	if err != nil {
		// The sweeper may have expired the booking before the payment signal
		// arrived. Acknowledging the delivery stops the gateway from retrying
		// a confirmation that can never succeed; the captured charge now
		// needs a refund.
		if errors.Is(err, domain.ErrInvalidTransition) {
			app.logger.Error("payment completed for a booking that is no longer pending, refund required",
				"bookingId", session.ClientReferenceID,
				"checkoutSessionId", session.ID,
				"error", err,
			)
			return nil
		}
		return fmt.Errorf("confirming booking %s: %w", session.ClientReferenceID, err)
	}

	app.logger.Info("booking confirmed by payment", "bookingId", booking.ID, "checkoutSessionId", session.ID)

	return nil
}

func (app *Application) handleCheckoutFailed(r *http.Request, event stripe.Event) error {
	session, err := parseCheckoutSession(event)
	if err != nil {
		return err
	}

	err = app.paymentRepo.UpdateStatusByCheckoutSession(r.Context(), session.ID, domain.PaymentStatusFailed)
	if err != nil {
		return err
	}

	_, err = app.lifecycle.Cancel(r.Context(), session.ClientReferenceID)
	if err != nil {
		// The expiry sweeper may have beaten the webhook to it.
		if errors.Is(err, domain.ErrInvalidTransition) {
			app.logger.Info("booking already finalized, skipping cancel", "bookingId", session.ClientReferenceID)
			return nil
		}
		return fmt.Errorf("cancelling booking %s: %w", session.ClientReferenceID, err)
	}

	app.logger.Info("booking cancelled by failed payment", "bookingId", session.ClientReferenceID, "checkoutSessionId", session.ID)

	return nil
}

func parseCheckoutSession(event stripe.Event) (*stripe.CheckoutSession, error) {
	var session stripe.CheckoutSession

	err := json.Unmarshal(event.Data.Raw, &session)
	if err != nil {
		return nil, fmt.Errorf("parsing checkout session from event %s: %w", event.ID, err)
	}

	if session.ClientReferenceID == "" {
		return nil, fmt.Errorf("event %s has no booking reference", event.ID)
	}

	return &session, nil
}
