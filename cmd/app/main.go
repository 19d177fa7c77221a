package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DebarghyaSikder/FlightBookingApp-Project2/config"
	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/bootstrap"
	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/cache"
	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/inventory"
	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/kafka"
	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/pnr"
	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/repository"
	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/service/booking"
	"github.com/DebarghyaSikder/FlightBookingApp-Project2/internal/service/flights"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	searchCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.SearchCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	seatInventory := inventory.NewManager(flightRepo, inventory.WithAttempts(cfg.Booking.ReserveAttempts))

	flightService := flights.NewFlightService(flightRepo, searchCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		seatInventory,
		pnr.NewGenerator(),
		producer,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithStoreTimeout(time.Duration(cfg.Booking.StoreTimeoutSeconds)*time.Second),
	)

	if err := bootstrap.Run(ctx, cfg, flightService, bookingService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
