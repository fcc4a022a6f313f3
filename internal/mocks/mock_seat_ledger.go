package mocks

import (
	"context"

	"github.com/Vashishth06/BookMyShow/internal/domain"
)

type MockSeatLedger struct {
	domain.SeatLedger
	TryAcquireFunc func(ctx context.Context, showID int, seatIDs []int, holder string) ([]domain.ShowSeat, error)
	ReleaseFunc    func(ctx context.Context, showID int, seatIDs []int, holder string) error
	FinalizeFunc   func(ctx context.Context, showID int, seatIDs []int, holder string) error
}

func (m *MockSeatLedger) TryAcquire(ctx context.Context, showID int, seatIDs []int, holder string) ([]domain.ShowSeat, error) {
	return m.TryAcquireFunc(ctx, showID, seatIDs, holder)
}

func (m *MockSeatLedger) Release(ctx context.Context, showID int, seatIDs []int, holder string) error {
	return m.ReleaseFunc(ctx, showID, seatIDs, holder)
}

func (m *MockSeatLedger) Finalize(ctx context.Context, showID int, seatIDs []int, holder string) error {
	return m.FinalizeFunc(ctx, showID, seatIDs, holder)
}
