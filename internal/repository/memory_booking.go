package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Vashishth06/BookMyShow/internal/domain"
)

// MemoryBookingRepository is the in-process BookingRepository. Status updates
// go through the same compare-and-swap contract as the Postgres version, so
// the lifecycle's race behavior is identical across backends.
type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]domain.Booking
}

func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{
		bookings: make(map[string]domain.Booking),
	}
}

func (m *MemoryBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bookings[booking.ID]; exists {
		return domain.ErrEditConflict
	}

	stored := *booking
	stored.Seats = slices.Clone(booking.Seats)
	m.bookings[booking.ID] = stored

	return nil
}

func (m *MemoryBookingRepository) GetById(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	booking, ok := m.bookings[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	booking.Seats = slices.Clone(booking.Seats)

	return &booking, nil
}

func (m *MemoryBookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	booking, ok := m.bookings[id]
	if !ok {
		return false, domain.ErrRecordNotFound
	}

	if booking.Status != from {
		return false, nil
	}

	booking.Status = to
	m.bookings[id] = booking

	return true, nil
}

func (m *MemoryBookingRepository) GetExpired(ctx context.Context, now time.Time, limit int) ([]domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	expired := make([]domain.Booking, 0)

	for _, booking := range m.bookings {
		if booking.Status == domain.BookingStatusPending && !booking.ExpiresAt.After(now) {
			expired = append(expired, booking)

			if len(expired) == limit {
				break
			}
		}
	}

	return expired, nil
}

func (m *MemoryBookingRepository) GetSummariesByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]domain.BookingSummary, 0)

	for _, booking := range m.bookings {
		if booking.UserID != userID {
			continue
		}

		all = append(all, domain.BookingSummary{
			BookingID:  booking.ID,
			ShowTime:   booking.CreatedAt,
			Status:     booking.Status,
			TotalPrice: booking.TotalPrice,
			CreatedAt:  booking.CreatedAt,
		})
	}

	slices.SortFunc(all, func(a, b domain.BookingSummary) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	metadata := domain.NewMetadata(len(all), pagination.Page, pagination.PageSize)

	start := min(pagination.Offset(), len(all))
	end := min(start+pagination.Limit(), len(all))

	return all[start:end], metadata, nil
}
