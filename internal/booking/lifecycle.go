package booking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Vashishth06/BookMyShow/internal/domain"
)

// Lifecycle owns the booking state machine. Every terminal transition is a
// compare-and-swap on the PENDING status: the swap decides a single winner
// among racing confirm/cancel/expire attempts, and only the winner touches
// seat status, so seats are finalized or released exactly once. A winner
// whose seat mutation fails undoes its swap, keeping the booking PENDING
// until some transition completes both halves.
type Lifecycle struct {
	bookings domain.BookingRepository
	ledger   domain.SeatLedger
	logger   *slog.Logger
}

func NewLifecycle(bookings domain.BookingRepository, ledger domain.SeatLedger, logger *slog.Logger) *Lifecycle {
	return &Lifecycle{
		bookings: bookings,
		ledger:   ledger,
		logger:   logger,
	}
}

// Confirm moves a PENDING booking to CONFIRMED on a payment-success signal
// and finalizes its seats HELD -> OCCUPIED. Repeated confirmation of an
// already CONFIRMED booking is a no-op.
func (lc *Lifecycle) Confirm(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return lc.transition(ctx, bookingID, domain.BookingStatusConfirmed, lc.ledger.Finalize)
}

// Cancel moves a PENDING booking to CANCELLED on requester cancellation or a
// terminal payment failure, returning its seats to AVAILABLE.
func (lc *Lifecycle) Cancel(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return lc.transition(ctx, bookingID, domain.BookingStatusCancelled, lc.ledger.Release)
}

// Expire moves a PENDING booking past its hold deadline to EXPIRED and
// releases its seats. Losing the race against a confirmation or cancellation
// is not an error: the booking reached a terminal state either way and the
// winner already performed the seat mutation.
func (lc *Lifecycle) Expire(ctx context.Context, bookingID string) error {
	booking, err := lc.bookings.GetById(ctx, bookingID)
	if err != nil {
		return err
	}

	swapped, err := lc.bookings.UpdateStatus(ctx, bookingID, domain.BookingStatusPending, domain.BookingStatusExpired)
	if err != nil {
		return err
	}

	if !swapped {
		return nil
	}

	err = lc.ledger.Release(ctx, booking.ShowID, booking.SeatIDs(), booking.ID)
	if err != nil {
		lc.logger.Error("failed to release seats of expired booking", "booking_id", booking.ID, "error", err)

		// Back to PENDING so the next sweep retries the release.
		lc.rollbackStatus(ctx, booking.ID, domain.BookingStatusExpired)

		return err
	}

	lc.logger.Info("booking expired", "booking_id", booking.ID, "show_id", booking.ShowID)

	return nil
}

type seatMutation func(ctx context.Context, showID int, seatIDs []int, holder string) error

// rollbackStatus undoes a won status swap whose seat mutation failed. If the
// rollback itself fails the booking is terminal with its seats still HELD,
// which only an operator can repair, so that is logged at full volume.
func (lc *Lifecycle) rollbackStatus(ctx context.Context, bookingID string, from domain.BookingStatus) {
	swapped, err := lc.bookings.UpdateStatus(ctx, bookingID, from, domain.BookingStatusPending)
	if err != nil || !swapped {
		lc.logger.Error("failed to roll back booking status after seat mutation failure",
			"booking_id", bookingID,
			"from_status", from,
			"error", err,
		)
	}
}

func (lc *Lifecycle) transition(
	ctx context.Context,
	bookingID string,
	to domain.BookingStatus,
	mutateSeats seatMutation) (*domain.Booking, error) {

	booking, err := lc.bookings.GetById(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	swapped, err := lc.bookings.UpdateStatus(ctx, bookingID, domain.BookingStatusPending, to)
	if err != nil {
		return nil, err
	}

	if !swapped {
		current, err := lc.bookings.GetById(ctx, bookingID)
		if err != nil {
			return nil, err
		}

		// Repeating a transition the booking already made is harmless; any
		// other terminal state means the caller lost a benign race or is
		// misusing the lifecycle.
		if current.Status == to {
			return current, nil
		}

		return nil, fmt.Errorf("%w: booking %s is %s", domain.ErrInvalidTransition, bookingID, current.Status)
	}

	err = mutateSeats(ctx, booking.ShowID, booking.SeatIDs(), booking.ID)
	if err != nil {
		lc.logger.Error("seat mutation failed after booking transition",
			"booking_id", booking.ID,
			"target_status", to,
			"error", err,
		)

		// A terminal booking whose seats were never finalized or released
		// would strand the hold forever: nothing scans terminal bookings, so
		// no one would retry the mutation. The swap is undone and the booking
		// stays PENDING until both halves succeed.
		lc.rollbackStatus(ctx, booking.ID, to)

		return nil, err
	}

	booking.Status = to
	for i := range booking.Seats {
		switch to {
		case domain.BookingStatusConfirmed:
			booking.Seats[i].Status = domain.SeatStatusOccupied
		default:
			booking.Seats[i].Status = domain.SeatStatusAvailable
			booking.Seats[i].HeldBy = ""
		}
	}

	lc.logger.Info("booking transitioned", "booking_id", booking.ID, "status", to)

	return booking, nil
}
