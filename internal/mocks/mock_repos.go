package mocks

import (
	"context"
	"time"

	"github.com/Vashishth06/BookMyShow/internal/domain"
)

type MockUserRepo struct {
	domain.UserRepository
	GetByIdFunc func(ctx context.Context, id int) (*domain.User, error)
}

func (m *MockUserRepo) GetById(ctx context.Context, id int) (*domain.User, error) {
	return m.GetByIdFunc(ctx, id)
}

type MockShowRepo struct {
	domain.ShowRepository
	GetByIdFunc      func(ctx context.Context, id int) (*domain.Show, error)
	GetShowIdsFunc   func(ctx context.Context) ([]int, error)
	GetShowSeatsFunc func(ctx context.Context, showID int) ([]domain.ShowSeat, error)
}

func (m *MockShowRepo) GetById(ctx context.Context, id int) (*domain.Show, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockShowRepo) GetShowIds(ctx context.Context) ([]int, error) {
	return m.GetShowIdsFunc(ctx)
}

func (m *MockShowRepo) GetShowSeats(ctx context.Context, showID int) ([]domain.ShowSeat, error) {
	return m.GetShowSeatsFunc(ctx, showID)
}

type MockPriceRepo struct {
	domain.PriceRepository
	GetPricesByShowFunc func(ctx context.Context, showID int) (map[domain.SeatCategory]domain.Amount, error)
}

func (m *MockPriceRepo) GetPricesByShow(ctx context.Context, showID int) (map[domain.SeatCategory]domain.Amount, error) {
	return m.GetPricesByShowFunc(ctx, showID)
}

type MockBookingRepo struct {
	domain.BookingRepository
	CreateFunc              func(ctx context.Context, booking *domain.Booking) error
	GetByIdFunc             func(ctx context.Context, id string) (*domain.Booking, error)
	UpdateStatusFunc        func(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error)
	GetExpiredFunc          func(ctx context.Context, now time.Time, limit int) ([]domain.Booking, error)
	GetSummariesByUserIdFunc func(ctx context.Context, userID int, pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error)
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	return m.CreateFunc(ctx, booking)
}

func (m *MockBookingRepo) GetById(ctx context.Context, id string) (*domain.Booking, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockBookingRepo) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error) {
	return m.UpdateStatusFunc(ctx, id, from, to)
}

func (m *MockBookingRepo) GetExpired(ctx context.Context, now time.Time, limit int) ([]domain.Booking, error) {
	return m.GetExpiredFunc(ctx, now, limit)
}

func (m *MockBookingRepo) GetSummariesByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	return m.GetSummariesByUserIdFunc(ctx, userID, pagination)
}

type MockPaymentRepo struct {
	domain.PaymentRepository
	CreateFunc                        func(ctx context.Context, payment *domain.Payment) error
	UpdateStatusByCheckoutSessionFunc func(ctx context.Context, checkoutSessionID string, status domain.PaymentStatus) error
}

func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	return m.CreateFunc(ctx, payment)
}

func (m *MockPaymentRepo) UpdateStatusByCheckoutSession(
	ctx context.Context,
	checkoutSessionID string,
	status domain.PaymentStatus) error {

	return m.UpdateStatusByCheckoutSessionFunc(ctx, checkoutSessionID, status)
}
