// Package api defines the request and response shapes of the HTTP surface.
package api

import "time"

type CreateBookingRequest struct {
	UserID  int   `json:"userId" validate:"required,gt=0"`
	SeatIDs []int `json:"seatIdList" validate:"required,min=1,max=10,dive,gt=0"`
}

type BookingSeat struct {
	SeatID   int    `json:"seatId"`
	Row      int    `json:"row"`
	Column   int    `json:"column"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

type BookingResponse struct {
	Id         string        `json:"id"`
	UserId     int           `json:"userId"`
	ShowId     int           `json:"showId"`
	Status     string        `json:"status"`
	Seats      []BookingSeat `json:"seats"`
	TotalPrice string        `json:"totalPrice"`
	CreatedAt  time.Time     `json:"createdAt"`
	ExpiresAt  *time.Time    `json:"expiresAt,omitempty"`
}

type BookingSummary struct {
	Id         string    `json:"id"`
	MovieTitle string    `json:"movieTitle"`
	ShowTime   time.Time `json:"showTime"`
	Status     string    `json:"status"`
	TotalPrice string    `json:"totalPrice"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type UserBookingsResponse struct {
	Bookings []BookingSummary `json:"bookings"`
	Metadata Metadata         `json:"metadata"`
}

type CheckoutSessionResponse struct {
	RedirectUrl string `json:"redirectUrl"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
}
