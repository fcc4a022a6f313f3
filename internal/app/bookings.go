package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Vashishth06/BookMyShow/api"
	"github.com/Vashishth06/BookMyShow/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

func (app *Application) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	showId, err := app.readIntParam(r, "showId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req api.CreateBookingRequest
	err = app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	booking, err := app.coordinator.Reserve(r.Context(), req.UserID, showId, req.SeatIDs)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownRequester),
			errors.Is(err, domain.ErrUnknownShow),
			errors.Is(err, domain.ErrInvalidSeat):
			app.notFoundResponseWithErr(w, r, err)
		case errors.Is(err, domain.ErrEmptySelection):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, domain.ErrSeatUnavailable):
			app.editConflictResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/bookings/%s", booking.ID))

	err = app.writeJSON(w, http.StatusCreated, toBookingResponse(booking), headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookingHandler(w http.ResponseWriter, r *http.Request) {
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

	err = app.writeJSON(w, http.StatusOK, toBookingResponse(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingId, err := app.readBookingIdParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking, err := app.lifecycle.Cancel(r.Context(), bookingId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrInvalidTransition):
			app.editConflictResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, toBookingResponse(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookingsOfUserHandler(w http.ResponseWriter, r *http.Request) {
	userId, err := app.readIntParam(r, "userId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	pagination := domain.Pagination{
		Page:     readQueryInt(r, "page", DefaultPage),
		PageSize: readQueryInt(r, "pageSize", DefaultPageSize),
	}

	err = app.validator.Struct(pagination)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	summaries, metadata, err := app.bookingRepo.GetSummariesByUserId(r.Context(), userId, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.UserBookingsResponse{
		Bookings: toBookingSummaries(summaries),
		Metadata: toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) readBookingIdParam(r *http.Request) (string, error) {
	bookingId, err := app.readStringParam(r, "bookingId")
	if err != nil {
		return "", err
	}

	_, err = uuid.Parse(bookingId)
	if err != nil {
		return "", errors.New("invalid bookingId parameter")
	}

	return bookingId, nil
}

func toBookingResponse(booking *domain.Booking) api.BookingResponse {
	seats := make([]api.BookingSeat, len(booking.Seats))
	for i, seat := range booking.Seats {
		seats[i] = api.BookingSeat{
			SeatID:   seat.SeatID,
			Row:      seat.Row,
			Column:   seat.Col,
			Category: string(seat.Category),
			Status:   string(seat.Status),
		}
	}

	resp := api.BookingResponse{
		Id:         booking.ID,
		UserId:     booking.UserID,
		ShowId:     booking.ShowID,
		Status:     string(booking.Status),
		Seats:      seats,
		TotalPrice: formatAmount(booking.TotalPrice),
		CreatedAt:  booking.CreatedAt,
	}

	if booking.Status == domain.BookingStatusPending {
		expiresAt := booking.ExpiresAt
		resp.ExpiresAt = &expiresAt
	}

	return resp
}

func toBookingSummaries(summaries []domain.BookingSummary) []api.BookingSummary {
	bookingSummaries := make([]api.BookingSummary, len(summaries))

	for i, v := range summaries {
		bookingSummaries[i] = api.BookingSummary{
			Id:         v.BookingID,
			MovieTitle: v.MovieTitle,
			ShowTime:   v.ShowTime,
			Status:     string(v.Status),
			TotalPrice: formatAmount(v.TotalPrice),
			CreatedAt:  v.CreatedAt,
		}
	}

	return bookingSummaries
}

func toApiMetadata(metadata *domain.Metadata) api.Metadata {
	if metadata == nil {
		return api.Metadata{}
	}

	return api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}

// formatAmount renders minor currency units as a fixed two decimal string.
func formatAmount(amount domain.Amount) string {
	return decimal.New(int64(amount), -2).StringFixed(2)
}
