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

	"github.com/exaring/otelpgx"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaksia/easybook/internal/booking"
	"github.com/jaksia/easybook/internal/chat"
	"github.com/jaksia/easybook/internal/domain"
	"github.com/jaksia/easybook/internal/mailer"
	"github.com/jaksia/easybook/internal/payment"
	"github.com/jaksia/easybook/internal/repository"
	"github.com/jaksia/easybook/internal/reservation"
	appvalidator "github.com/jaksia/easybook/internal/validator"
	"github.com/jaksia/easybook/internal/vcs"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

var (
	version = vcs.Version()
)

type Config struct {
	Port             int
	Env              string
	OtelCollectorUrl string
	DB               DBConfig
	Redis            RedisConfig
	SMTP             SMTPConfig
	Razorpay         RazorpayConfig
	GeminiAPIKey     string
	SeatHoldTTL      time.Duration
	SeatLockTimeout  time.Duration
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

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	Currency  string
}

type Application struct {
	config    Config
	logger    *slog.Logger
	db        *pgxpool.Pool
	redis     redis.UniversalClient
	validator *validator.Validate
	mailer    mailer.Mailer
	upgrader  websocket.Upgrader

	movieRepo   domain.MovieRepository
	theaterRepo domain.TheaterRepository
	showRepo    domain.ShowRepository
	seatRepo    domain.SeatRepository
	orderRepo   domain.PaymentOrderRepository
	bookingRepo domain.BookingRepository

	engine       domain.ReservationEngine
	orchestrator *booking.Orchestrator
	assistant    *chat.Assistant
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.SMTP.Host, "smtp-host", "sandbox.smtp.mailtrap.io", "SMTP host")
	flag.IntVar(&cfg.SMTP.Port, "smtp-port", 2525, "SMTP port")
	flag.StringVar(&cfg.SMTP.Username, "smtp-username", "", "SMTP username")
	flag.StringVar(&cfg.SMTP.Password, "smtp-password", "", "SMTP password")
	flag.StringVar(&cfg.SMTP.Sender, "smtp-sender", "EasyBook <no-reply@easybook.example.com>", "SMTP sender")

	flag.StringVar(&cfg.Razorpay.KeyID, "razorpay-key-id", "", "Razorpay key id")
	flag.StringVar(&cfg.Razorpay.KeySecret, "razorpay-key-secret", "", "Razorpay key secret")
	flag.StringVar(&cfg.Razorpay.Currency, "razorpay-currency", "INR", "Razorpay order currency")

	flag.StringVar(&cfg.GeminiAPIKey, "gemini-api-key", "", "Gemini API key for the chat assistant")
	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector URL")

	flag.DurationVar(&cfg.SeatHoldTTL, "seat-hold-ttl", 8*time.Minute, "How long selected seats are held while payment is pending")
	flag.DurationVar(&cfg.SeatLockTimeout, "seat-lock-timeout", reservation.DefaultLockTimeout, "Row lock acquisition timeout for seat commits")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	textHandler := slog.NewTextHandler(os.Stdout, nil)
	logger := slog.New(textHandler)

	shutdownTelemetry, err := InitTelemetry(cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		logger = slog.New(NewMultiHandler(textHandler, otelslog.NewHandler("easybook")))
	}

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := NewRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	var gateway domain.PaymentGateway
	if cfg.Razorpay.KeyID != "" {
		gateway = payment.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.Currency)
	} else {
		logger.Warn("no razorpay credentials configured, using the mock payment gateway")
		gateway = payment.NewMockGateway()
	}

	generator := chat.NewGeminiGenerator(cfg.GeminiAPIKey)
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender)

	app := New(cfg, logger, db, redisClient, gateway, generator, smtpMailer)

	return app.serve()
}

// New wires the application from its external dependencies. Everything
// downstream of the database pool and the redis client is constructed here.
func New(
	cfg Config,
	logger *slog.Logger,
	db *pgxpool.Pool,
	redisClient redis.UniversalClient,
	gateway domain.PaymentGateway,
	generator domain.AnswerGenerator,
	appMailer mailer.Mailer) *Application {

	movieRepo := repository.NewPostgresMovieRepository(db)
	theaterRepo := repository.NewPostgresTheaterRepository(db)
	showRepo := repository.NewPostgresShowRepository(db)
	seatRepo := repository.NewPostgresSeatRepository(db)
	orderRepo := repository.NewPostgresPaymentOrderRepository(db)
	bookingRepo := repository.NewPostgresBookingRepository(db)

	engine := reservation.NewPostgresEngine(db, cfg.SeatLockTimeout)

	app := &Application{
		config:      cfg,
		logger:      logger,
		db:          db,
		redis:       redisClient,
		validator:   appvalidator.NewValidator(),
		mailer:      appMailer,
		movieRepo:   movieRepo,
		theaterRepo: theaterRepo,
		showRepo:    showRepo,
		seatRepo:    seatRepo,
		orderRepo:   orderRepo,
		bookingRepo: bookingRepo,
		engine:      engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	app.orchestrator = booking.NewOrchestrator(gateway, engine, showRepo, seatRepo, orderRepo, bookingRepo, logger)
	app.assistant = chat.NewAssistant(movieRepo, showRepo, theaterRepo, generator, logger)

	return app
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, err
	}

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

func (app *Application) serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}
