package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/morozova-art/lagunare/api"
	"github.com/morozova-art/lagunare/config"
	"github.com/morozova-art/lagunare/internal/bootstrap"
	"github.com/morozova-art/lagunare/internal/cache"
	"github.com/morozova-art/lagunare/internal/kafka"
	"github.com/morozova-art/lagunare/internal/repository"
	"github.com/morozova-art/lagunare/internal/service/calendars"
	"github.com/morozova-art/lagunare/internal/service/listings"
	"github.com/morozova-art/lagunare/internal/service/trips"
	"github.com/robfig/cron/v3"
)

func main() {
	godotenv.Load()

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

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Listings.CacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	listingRepo := repository.NewListingRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)

	listingService := listings.NewListingService(listingRepo, redisCache)
	tripService := trips.NewTripService(
		listingService,
		producer,
		cfg.Kafka.TripRequestsTopic,
		time.Duration(cfg.Trips.SessionTTLMinutes)*time.Minute,
		trips.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	calendarService := calendars.NewCalendarService(listingService, availabilityRepo, producer, cfg.Kafka.CalendarTopic)

	sweeper := cron.New()
	sweepSpec := cfg.Trips.SweepCronSpec
	if sweepSpec == "" {
		sweepSpec = "@every 10m"
	}
	if _, err := sweeper.AddFunc(sweepSpec, func() {
		expired := tripService.ExpireIdleSessions(ctx)
		if len(expired) > 0 {
			log.Printf("expired %d idle trip sessions", len(expired))
		}
	}); err != nil {
		log.Fatalf("schedule session sweep: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	listingHandler := api.NewListingHandler(listingService)
	tripHandler := api.NewTripHandler(tripService)
	calendarHandler := api.NewCalendarHandler(calendarService)

	if err := bootstrap.Run(ctx, cfg, listingHandler, tripHandler, calendarHandler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
