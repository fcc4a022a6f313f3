// Package booking orchestrates the reservation flow: the coordinator turns a
// validated request into held seats and a PENDING booking, the lifecycle owns
// the booking state machine, and the sweeper expires stale holds.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/Vashishth06/BookMyShow/internal/domain"
	"github.com/google/uuid"
)

// Pricer computes the total charge for the held seats of one show.
type Pricer interface {
	Price(ctx context.Context, showID int, seats []domain.ShowSeat) (domain.Amount, error)
}

type Coordinator struct {
	users    domain.UserRepository
	shows    domain.ShowRepository
	ledger   domain.SeatLedger
	pricer   Pricer
	bookings domain.BookingRepository
	holdFor  time.Duration
	logger   *slog.Logger
}

func NewCoordinator(
	users domain.UserRepository,
	shows domain.ShowRepository,
	ledger domain.SeatLedger,
	pricer Pricer,
	bookings domain.BookingRepository,
	holdFor time.Duration,
	logger *slog.Logger) *Coordinator {

	return &Coordinator{
		users:    users,
		shows:    shows,
		ledger:   ledger,
		pricer:   pricer,
		bookings: bookings,
		holdFor:  holdFor,
		logger:   logger,
	}
}

// Reserve is the single entry point of a booking attempt. It validates the
// requester and show, acquires the seats atomically and materializes a priced
// PENDING booking. ErrSeatUnavailable is the expected outcome under
// contention, not a fault; the caller picks different seats or gives up.
// Once seats are held, any later failure releases them before returning, so
// an aborted reservation never strands seats in HELD.
func (c *Coordinator) Reserve(ctx context.Context, userID, showID int, seatIDs []int) (*domain.Booking, error) {
	user, err := c.users.GetById(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", domain.ErrUnknownRequester, userID)
		}

		return nil, err
	}

	show, err := c.shows.GetById(ctx, showID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: show %d", domain.ErrUnknownShow, showID)
		}

		return nil, err
	}

	seatIDs = dedupeSeatIDs(seatIDs)
	if len(seatIDs) == 0 {
		return nil, domain.ErrEmptySelection
	}

	bookingID := uuid.New().String()

	held, err := c.ledger.TryAcquire(ctx, show.ID, seatIDs, bookingID)
	if err != nil {
		return nil, err
	}

	total, err := c.pricer.Price(ctx, show.ID, held)
	if err != nil {
		// A fully-held-then-aborted reservation is an implicit cancellation.
		c.releaseAfterFailure(ctx, show.ID, seatIDs, bookingID)
		return nil, err
	}

	booking := domain.NewBooking(bookingID, user.ID, show.ID, held, total, c.holdFor)

	err = c.bookings.Create(ctx, &booking)
	if err != nil {
		c.releaseAfterFailure(ctx, show.ID, seatIDs, bookingID)
		return nil, err
	}

	c.logger.Info("booking created",
		"booking_id", booking.ID,
		"show_id", show.ID,
		"seats", len(held),
		"total_price", int64(total),
	)

	return &booking, nil
}

func (c *Coordinator) releaseAfterFailure(ctx context.Context, showID int, seatIDs []int, holder string) {
	err := c.ledger.Release(ctx, showID, seatIDs, holder)
	if err != nil {
		c.logger.Error("failed to release seats of aborted reservation",
			"booking_id", holder,
			"show_id", showID,
			"error", err,
		)
	}
}

func dedupeSeatIDs(seatIDs []int) []int {
	sorted := slices.Clone(seatIDs)
	slices.Sort(sorted)

	return slices.Compact(sorted)
}
