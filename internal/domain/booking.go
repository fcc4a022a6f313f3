package domain

import (
	"context"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusExpired   BookingStatus = "EXPIRED"
)

// Terminal reports whether the status permits no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusConfirmed || s == BookingStatusCancelled || s == BookingStatusExpired
}

// Booking ties a requester, a show and the held seats together. The seat set
// and the price are fixed at creation time; only the status moves, and it
// moves monotonically: PENDING -> {CONFIRMED, CANCELLED, EXPIRED}.
type Booking struct {
	ID         string
	UserID     int
	ShowID     int
	Seats      []ShowSeat
	Status     BookingStatus
	TotalPrice Amount
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// NewBooking materializes a PENDING booking over seats already held under
// the given id. The id doubles as the ledger holder tag, which is why the
// caller mints it before acquisition.
func NewBooking(id string, userID, showID int, seats []ShowSeat, total Amount, holdFor time.Duration) Booking {
	now := time.Now()

	return Booking{
		ID:         id,
		UserID:     userID,
		ShowID:     showID,
		Seats:      seats,
		Status:     BookingStatusPending,
		TotalPrice: total,
		CreatedAt:  now,
		ExpiresAt:  now.Add(holdFor),
	}
}

func (b *Booking) SeatIDs() []int {
	ids := make([]int, len(b.Seats))
	for i, seat := range b.Seats {
		ids[i] = seat.SeatID
	}

	return ids
}

// BookingSummary is the listing projection for a user's booking history.
type BookingSummary struct {
	BookingID  string
	MovieTitle string
	ShowTime   time.Time
	Status     BookingStatus
	TotalPrice Amount
	CreatedAt  time.Time
}

// BookingRepository persists bookings. UpdateStatus is a compare-and-swap:
// it moves the booking from exactly the given status to the new one and
// reports whether the swap happened. Terminal transitions race (confirm vs
// expiry sweep); the CAS decides the single winner.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	GetById(ctx context.Context, id string) (*Booking, error)
	UpdateStatus(ctx context.Context, id string, from, to BookingStatus) (bool, error)
	GetExpired(ctx context.Context, now time.Time, limit int) ([]Booking, error)
	GetSummariesByUserId(ctx context.Context, userID int, pagination Pagination) ([]BookingSummary, *Metadata, error)
}
