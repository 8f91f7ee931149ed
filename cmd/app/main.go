package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/skybook/api"
	"github.com/Domenick1991/skybook/config"
	"github.com/Domenick1991/skybook/internal/bootstrap"
	"github.com/Domenick1991/skybook/internal/cache"
	"github.com/Domenick1991/skybook/internal/kafka"
	"github.com/Domenick1991/skybook/internal/logger"
	"github.com/Domenick1991/skybook/internal/repository"
	"github.com/Domenick1991/skybook/internal/service/auth"
	"github.com/Domenick1991/skybook/internal/service/booking"
	"github.com/Domenick1991/skybook/internal/service/flights"
	"github.com/Domenick1991/skybook/internal/service/reports"
	"github.com/Domenick1991/skybook/internal/service/wizard"
	"github.com/Domenick1991/skybook/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		zl.Fatal("connect postgres", zap.String("db", cfg.Database.Redacted()), zap.Error(err))
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool); err != nil {
		zl.Fatal("migrate schema", zap.Error(err))
	}

	rdb := cache.NewClient(cfg.Redis)
	defer rdb.Close()
	redisCache := cache.NewRedisCache(rdb, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)
	sessions := session.NewRedisStore(rdb, time.Duration(cfg.HTTP.SessionTTLMinutes)*time.Minute)

	loc, err := time.LoadLocation(cfg.Search.Timezone)
	if err != nil {
		zl.Fatal("load timezone", zap.Error(err))
	}

	flightRepo := repository.NewFlightRepository(pool)
	flightService := flights.NewFlightService(
		flightRepo,
		flights.WithCache(redisCache),
		flights.WithDemoFallback(cfg.Search.DemoFallback),
		flights.WithLocation(loc),
		flights.WithLogger(zl.Named("flights")),
	)

	bookingOpts := []booking.BookingServiceOption{
		booking.WithMaxBaggage(cfg.Booking.MaxBaggage),
		booking.WithFlights(flightRepo),
		booking.WithLogger(zl.Named("booking")),
	}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, zl.Named("kafka"))
		defer producer.Close()
		bookingOpts = append(bookingOpts,
			booking.WithProducer(producer, cfg.Kafka.BookingEventsTopic, cfg.Kafka.NotificationsTopic))
	} else {
		zl.Warn("kafka brokers not configured, booking events are not published")
	}
	bookingService := booking.NewBookingService(repository.NewBookingRepository(pool), bookingOpts...)

	wz := wizard.New(flightService, bookingService, wizard.Pricing{
		DefaultPriceCents:         cfg.Booking.DefaultPriceCents,
		BusinessMultiplierPercent: cfg.Booking.BusinessMultiplierPercent,
		DefaultBaggage:            cfg.Booking.DefaultBaggage,
	},
		wizard.WithSeatHolds(redisCache, time.Duration(cfg.Booking.HoldTTLMinutes)*time.Minute),
		wizard.WithLogger(zl.Named("wizard")),
	)

	router := api.NewRouter(api.Deps{
		Flights:  flightService,
		Wizard:   wz,
		Bookings: bookingService,
		Reports:  reports.NewReportService(repository.NewReportRepository(pool), zl.Named("reports")),
		Auth:     auth.NewAuthService(repository.NewPassengerRepository(pool), zl.Named("auth")),
		Store:    sessions,
		Sessions: api.SessionConfig{
			Cookie: cfg.HTTP.SessionCookie,
			TTL:    time.Duration(cfg.HTTP.SessionTTLMinutes) * time.Minute,
			Secure: cfg.HTTP.SecureCookies,
		},
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		SwaggerDir:     cfg.HTTP.SwaggerDir,
		RequestTimeout: cfg.HTTP.RequestTimeout(),
		RatePerSecond:  cfg.HTTP.RateLimitPerSecond,
		RateBurst:      cfg.HTTP.RateLimitBurst,
		Log:            zl,
	})

	if err := bootstrap.Run(ctx, cfg.HTTP, router, zl); err != nil {
		zl.Fatal("server error", zap.Error(err))
	}
}
