package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
)

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(app.requestLogger)
	r.Use(app.recoverPanic)
	r.Use(otelchi.Middleware("seat-reservation-api", otelchi.WithChiRoutes(r)))

	r.Get("/healthcheck", app.GetHealth)

	r.Route("/shows/{showId}/bookings", func(r chi.Router) {
		r.Post("/", app.CreateBookingHandler)
	})

	r.Route("/bookings/{bookingId}", func(r chi.Router) {
		r.Get("/", app.GetBookingHandler)
		r.Post("/cancel", app.CancelBookingHandler)
		r.Post("/checkout", app.CreateCheckoutSessionHandler)
	})

	r.Route("/users/{userId}/bookings", func(r chi.Router) {
		r.Get("/", app.GetBookingsOfUserHandler)
	})

	r.Route("/webhook", func(r chi.Router) {
		r.Post("/", app.StripeWebhookHandler)
	})

	return r
}
