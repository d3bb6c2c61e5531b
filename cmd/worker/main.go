package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/morozova-art/lagunare/config"
	"github.com/morozova-art/lagunare/internal/cache"
	"github.com/morozova-art/lagunare/internal/email"
	"github.com/morozova-art/lagunare/internal/kafka"
	"github.com/robfig/cron/v3"
	kafkaGo "github.com/segmentio/kafka-go"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Listings.CacheTTLSeconds)*time.Second)
	emailSender := email.NewSender(cfg.Email)

	notifications := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer notifications.Close()

	go func() {
		if err := notifications.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.TripRequestEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode trip request event: %v", err)
				return nil
			}
			if err := emailSender.SendTripRequest(ctx, event); err != nil {
				log.Printf("notify %s about %s: %v", event.Email, event.Reference, err)
			}
			return nil
		}); err != nil {
			log.Printf("notifications consumer stopped: %v", err)
		}
	}()

	// Calendar changes committed by operators invalidate the cached
	// catalog so stale availability does not linger.
	calendarChanges := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.CalendarTopic)
	defer calendarChanges.Close()

	go func() {
		if err := calendarChanges.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.CalendarEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode calendar event: %v", err)
				return nil
			}
			if err := redisCache.InvalidateListings(ctx); err != nil {
				log.Printf("invalidate listings cache: %v", err)
			} else {
				log.Printf("listing %d calendar %s for %d dates, cache invalidated", event.ListingID, event.Type, len(event.Dates))
			}
			if err := emailSender.SendCalendarNotice(ctx, event); err != nil {
				log.Printf("notify ops about listing %d: %v", event.ListingID, err)
			}
			return nil
		}); err != nil {
			log.Printf("calendar consumer stopped: %v", err)
		}
	}()

	refresher := cron.New()
	if _, err := refresher.AddFunc("@hourly", func() {
		if err := redisCache.InvalidateListings(ctx); err != nil {
			log.Printf("scheduled cache refresh: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule cache refresh: %v", err)
	}
	refresher.Start()
	defer refresher.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	log.Printf("received signal %v, shutting down", s)
}
