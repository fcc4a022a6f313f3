package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vashishth06/BookMyShow/internal/booking"
	"github.com/Vashishth06/BookMyShow/internal/domain"
	"github.com/Vashishth06/BookMyShow/internal/ledger"
	"github.com/Vashishth06/BookMyShow/internal/payment"
	"github.com/Vashishth06/BookMyShow/internal/pricing"
	"github.com/Vashishth06/BookMyShow/internal/repository"
	appvalidator "github.com/Vashishth06/BookMyShow/internal/validator"
	"github.com/Vashishth06/BookMyShow/internal/vcs"
	"github.com/exaring/otelpgx"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v82"
)

var (
	version = vcs.Version()
)

type Application struct {
	config    Config
	logger    *slog.Logger
	db        *pgxpool.Pool
	validator *validator.Validate

	userRepo    domain.UserRepository
	showRepo    domain.ShowRepository
	priceRepo   domain.PriceRepository
	bookingRepo domain.BookingRepository
	paymentRepo domain.PaymentRepository

	seatLedger  domain.SeatLedger
	coordinator *booking.Coordinator
	lifecycle   *booking.Lifecycle
	sweeper     *booking.Sweeper

	paymentProvider domain.PaymentProvider
}

type Config struct {
	Port   int
	Env    string
	DB     DBConfig
	Redis  RedisConfig
	Ledger LedgerConfig
	Stripe StripeConfig

	HoldDuration  time.Duration
	SweepInterval time.Duration

	OtelCollectorUrl string
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

// LedgerConfig selects the SeatLedger implementation. The postgres ledger
// works directly on the show_seats table; the redis and memory ledgers are
// warmed from the catalog at startup.
type LedgerConfig struct {
	Backend string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessUrl    string
	FailureUrl    string
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis URL (required when ledger-backend is redis)")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.Ledger.Backend, "ledger-backend", "postgres", "Seat ledger backend (postgres|redis|memory)")

	flag.DurationVar(&cfg.HoldDuration, "hold-duration", 10*time.Minute, "How long a pending booking holds its seats")
	flag.DurationVar(&cfg.SweepInterval, "sweep-interval", 30*time.Second, "How often expired holds are swept")

	flag.StringVar(&cfg.Stripe.SecretKey, "stripe-key", "", "Stripe secret key")
	flag.StringVar(&cfg.Stripe.WebhookSecret, "stripe-webhook-secret", "", "Stripe webhook secret")
	flag.StringVar(&cfg.Stripe.SuccessUrl, "stripe-success-url", "https://example.com/success.html", "Stripe payment success page")
	flag.StringVar(&cfg.Stripe.FailureUrl, "stripe-failure-url", "https://example.com/failure.html", "Stripe payment failure page")

	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector URL")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	stripe.Key = cfg.Stripe.SecretKey

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	validator := appvalidator.NewValidator()

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	userRepo := repository.NewPostgresUserRepository(db)
	showRepo := repository.NewPostgresShowRepository(db)
	priceRepo := repository.NewPostgresPriceRepository(db)
	bookingRepo := repository.NewPostgresBookingRepository(db)
	paymentRepo := repository.NewPostgresPaymentRepository(db)

	seatLedger, closeLedger, err := NewSeatLedger(cfg, showRepo, db)
	if err != nil {
		return err
	}
	if closeLedger != nil {
		defer closeLedger()
	}

	stripeProvider := payment.NewStripePaymentProvider(cfg.Stripe.FailureUrl, cfg.Stripe.SuccessUrl)

	app := NewApp(
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
		stripeProvider,
	)

	return app.run()
}

// NewApp assembles the engine on top of already constructed dependencies.
// The coordinator, lifecycle and sweeper are internal wiring, so they are
// built here rather than injected.
func NewApp(
	cfg Config,
	logger *slog.Logger,
	db *pgxpool.Pool,
	validator *validator.Validate,
	userRepo domain.UserRepository,
	showRepo domain.ShowRepository,
	priceRepo domain.PriceRepository,
	bookingRepo domain.BookingRepository,
	paymentRepo domain.PaymentRepository,
	seatLedger domain.SeatLedger,
	paymentProvider domain.PaymentProvider,
) *Application {

	priceEngine := pricing.NewEngine(priceRepo)
	coordinator := booking.NewCoordinator(userRepo, showRepo, seatLedger, priceEngine, bookingRepo, cfg.HoldDuration, logger)
	lifecycle := booking.NewLifecycle(bookingRepo, seatLedger, logger)
	sweeper := booking.NewSweeper(bookingRepo, lifecycle, cfg.SweepInterval, logger)

	return &Application{
		config:          cfg,
		logger:          logger,
		db:              db,
		validator:       validator,
		userRepo:        userRepo,
		showRepo:        showRepo,
		priceRepo:       priceRepo,
		bookingRepo:     bookingRepo,
		paymentRepo:     paymentRepo,
		seatLedger:      seatLedger,
		coordinator:     coordinator,
		lifecycle:       lifecycle,
		sweeper:         sweeper,
		paymentProvider: paymentProvider,
	}
}

// NewSeatLedger builds the configured ledger backend. The returned close
// function is non-nil only for backends that own their own connection.
func NewSeatLedger(cfg Config, showRepo domain.ShowRepository, db *pgxpool.Pool) (domain.SeatLedger, func(), error) {
	switch cfg.Ledger.Backend {
	case "", "postgres":
		return ledger.NewPostgresLedger(db), nil, nil

	case "memory":
		memLedger := ledger.NewMemoryLedger()

		err := warmMemoryLedger(memLedger, showRepo)
		if err != nil {
			return nil, nil, err
		}

		return memLedger, nil, nil

	case "redis":
		client, err := NewRedisClient(cfg)
		if err != nil {
			return nil, nil, err
		}

		redisLedger := ledger.NewRedisLedger(client)

		err = warmRedisLedger(redisLedger, showRepo)
		if err != nil {
			client.Close()
			return nil, nil, err
		}

		return redisLedger, func() { client.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}
}

func warmMemoryLedger(memLedger *ledger.MemoryLedger, showRepo domain.ShowRepository) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	showIDs, err := showRepo.GetShowIds(ctx)
	if err != nil {
		return err
	}

	for _, showID := range showIDs {
		seats, err := showRepo.GetShowSeats(ctx, showID)
		if err != nil {
			return err
		}

		memLedger.Load(seats)
	}

	return nil
}

func warmRedisLedger(redisLedger *ledger.RedisLedger, showRepo domain.ShowRepository) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	showIDs, err := showRepo.GetShowIds(ctx)
	if err != nil {
		return err
	}

	for _, showID := range showIDs {
		seats, err := showRepo.GetShowSeats(ctx, showID)
		if err != nil {
			return err
		}

		physical := make([]domain.Seat, len(seats))
		for i, seat := range seats {
			physical[i] = domain.Seat{ID: seat.SeatID, Row: seat.Row, Col: seat.Col, Category: seat.Category}
		}

		err = redisLedger.AddShow(ctx, showID, physical)
		if err != nil {
			return err
		}
	}

	return nil
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
	shutdownTelemetry, err := app.initTelemetry()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go app.sweeper.Run(sweepCtx)

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		stopSweeper()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownTelemetry(ctx)

		shutdownError <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env, "ledger", app.config.Ledger.Backend)

	err = srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		stopSweeper()
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}
