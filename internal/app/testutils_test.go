package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Vashishth06/BookMyShow/api"
	"github.com/Vashishth06/BookMyShow/internal/booking"
	"github.com/Vashishth06/BookMyShow/internal/ledger"
	"github.com/Vashishth06/BookMyShow/internal/pricing"
	"github.com/Vashishth06/BookMyShow/internal/repository"
	"github.com/Vashishth06/BookMyShow/internal/validator"
)

func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		config:    Config{Env: "test"},
		validator: validator.NewValidator(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(app)
	}

	// The coordinator, lifecycle and sweeper sit on top of whatever repos
	// and ledger the options installed.
	if app.seatLedger == nil {
		app.seatLedger = ledger.NewMemoryLedger()
	}
	if app.bookingRepo == nil {
		app.bookingRepo = repository.NewMemoryBookingRepository()
	}

	priceEngine := pricing.NewEngine(app.priceRepo)
	app.coordinator = booking.NewCoordinator(app.userRepo, app.showRepo, app.seatLedger, priceEngine, app.bookingRepo, app.config.HoldDuration, app.logger)
	app.lifecycle = booking.NewLifecycle(app.bookingRepo, app.seatLedger, app.logger)

	return app
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantErrMessage string) {
	t.Helper()

	if wantStatus >= 200 && wantStatus < 300 {
		return
	}

	switch wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if wantErrMessage != "" && errorResp.Message != wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, wantErrMessage)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
