package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/Vashishth06/BookMyShow/internal/domain"
)

const sweepBatchSize = 100

// Sweeper is the time-driven side of hold expiry: it periodically scans for
// PENDING bookings past their deadline and drives them to EXPIRED through
// the same lifecycle path as an explicit cancellation. It is safe to run
// concurrently with confirmations; the lifecycle CAS picks the winner.
type Sweeper struct {
	bookings  domain.BookingRepository
	lifecycle *Lifecycle
	interval  time.Duration
	logger    *slog.Logger
}

func NewSweeper(bookings domain.BookingRepository, lifecycle *Lifecycle, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		bookings:  bookings,
		lifecycle: lifecycle,
		interval:  interval,
		logger:    logger,
	}
}

// Run blocks, sweeping on every tick until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("hold expiry sweeper started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("hold expiry sweeper stopped")
			return
		case <-ticker.C:
			expired, err := s.Sweep(ctx)
			if err != nil {
				s.logger.Error("hold expiry sweep failed", "error", err)
			} else if expired > 0 {
				s.logger.Info("hold expiry sweep finished", "expired", expired)
			}
		}
	}
}

// Sweep expires every overdue PENDING booking it can find and reports how
// many transitions it won.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	overdue, err := s.bookings.GetExpired(ctx, time.Now(), sweepBatchSize)
	if err != nil {
		return 0, err
	}

	expired := 0

	for _, booking := range overdue {
		err := s.lifecycle.Expire(ctx, booking.ID)
		if err != nil {
			s.logger.Error("failed to expire booking", "booking_id", booking.ID, "error", err)
			continue
		}

		expired++
	}

	return expired, nil
}
