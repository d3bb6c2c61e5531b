package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// TripRequestEvent is published when a visitor submits a composed trip.
// It carries the per-leg breakdown and totals frozen at submission time.
type TripRequestEvent struct {
	Type              string    `json:"type"`
	Reference         string    `json:"reference"`
	Email             string    `json:"email"`
	Location          string    `json:"location"`
	StayListingID     int64     `json:"stay_listing_id,omitempty"`
	CheckIn           string    `json:"check_in,omitempty"`
	CheckOut          string    `json:"check_out,omitempty"`
	StayNights        int       `json:"stay_nights"`
	StayTotalCents    int64     `json:"stay_total_cents"`
	VehicleListingID  int64     `json:"vehicle_listing_id,omitempty"`
	Pickup            string    `json:"pickup,omitempty"`
	Dropoff           string    `json:"dropoff,omitempty"`
	VehicleDays       int       `json:"vehicle_days"`
	VehicleTotalCents int64     `json:"vehicle_total_cents"`
	TripTotalCents    int64     `json:"trip_total_cents"`
	SubmittedAt       time.Time `json:"submitted_at"`
}

// CalendarEvent is published after a block or unblock commit succeeds.
type CalendarEvent struct {
	Type      string    `json:"type"`
	ListingID int64     `json:"listing_id"`
	Dates     []string  `json:"dates"`
	AppliedAt time.Time `json:"applied_at"`
}

type Producer struct {
	brokers []string
	writer  *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Producer{
		brokers: brokers,
		writer:  writer,
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

func (p *Producer) PublishWithRetry(ctx context.Context, topic, key string, payload interface{}, maxRetries int) error {
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		err := p.Publish(ctx, topic, key, payload)
		if err == nil {
			return nil
		}

		lastErr = err
		log.Printf("publish attempt %d failed: %v", i+1, err)

		if i < maxRetries-1 {
			time.Sleep(time.Duration(i+1) * 500 * time.Millisecond)
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
