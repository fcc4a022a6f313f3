package integration_test

import (
	"log/slog"
	"os"

	"github.com/Vashishth06/BookMyShow/internal/app"
	"github.com/Vashishth06/BookMyShow/internal/booking"
	"github.com/Vashishth06/BookMyShow/internal/ledger"
	"github.com/Vashishth06/BookMyShow/internal/payment"
	"github.com/Vashishth06/BookMyShow/internal/repository"
	appvalidator "github.com/Vashishth06/BookMyShow/internal/validator"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TestApp struct {
	App             *app.Application
	Logger          *slog.Logger
	DB              *pgxpool.Pool
	BookingRepo     *repository.PostgresBookingRepository
	Ledger          *ledger.PostgresLedger
	Lifecycle       *booking.Lifecycle
	PaymentProvider *payment.MockPaymentProvider
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	validator := appvalidator.NewValidator()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewPostgresUserRepository(db)
	showRepo := repository.NewPostgresShowRepository(db)
	priceRepo := repository.NewPostgresPriceRepository(db)
	bookingRepo := repository.NewPostgresBookingRepository(db)
	paymentRepo := repository.NewPostgresPaymentRepository(db)

	seatLedger := ledger.NewPostgresLedger(db)

	paymentProvider := payment.NewMockPaymentProvider()

	application := app.NewApp(
		cfg,
		logger,
		db,
		validator,
		userRepo,
		showRepo,
		priceRepo,
		bookingRepo,
		paymentRepo,
		seatLedger,
		paymentProvider,
	)

	return &TestApp{
		App:             application,
		Logger:          logger,
		DB:              db,
		BookingRepo:     bookingRepo,
		Ledger:          seatLedger,
		Lifecycle:       booking.NewLifecycle(bookingRepo, seatLedger, logger),
		PaymentProvider: paymentProvider,
	}, nil
}
