package email

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/morozova-art/lagunare/config"
	"github.com/morozova-art/lagunare/internal/kafka"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender delivers trip-request notifications through SendGrid. With no
// API key configured it degrades to logging nothing and returning an
// error, so the worker can decide what to do.
type Sender struct {
	cfg    config.EmailConfig
	apiKey string
}

func NewSender(cfg config.EmailConfig) *Sender {
	return &Sender{cfg: cfg, apiKey: os.Getenv("SENDGRID_API_KEY")}
}

func (s *Sender) SendTripRequest(ctx context.Context, event kafka.TripRequestEvent) error {
	if s.apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not set")
	}

	subject := fmt.Sprintf("Trip request received (ref %s)", event.Reference)
	body := fmt.Sprintf(
		"Thank you for your request.\n\n"+
			"Reference: %s\n"+
			"Destination: %s\n",
		event.Reference, event.Location,
	)
	if event.StayListingID != 0 {
		body += fmt.Sprintf("Stay: %s to %s (%d nights, %d)\n", event.CheckIn, event.CheckOut, event.StayNights, event.StayTotalCents)
	}
	if event.VehicleListingID != 0 {
		body += fmt.Sprintf("Vehicle: %s to %s (%d days, %d)\n", event.Pickup, event.Dropoff, event.VehicleDays, event.VehicleTotalCents)
	}
	body += fmt.Sprintf("\nTotal: %d\n\nOur concierge team will confirm availability shortly.", event.TripTotalCents)

	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromAddress)
	to := mail.NewEmail("", event.Email)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	return s.send(message)
}

// SendCalendarNotice tells the ops inbox about a committed availability
// change. Skipped silently when no ops address is configured.
func (s *Sender) SendCalendarNotice(ctx context.Context, event kafka.CalendarEvent) error {
	if s.cfg.OpsAddress == "" {
		return nil
	}
	if s.apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not set")
	}

	subject := fmt.Sprintf("Listing %d: %d dates %s", event.ListingID, len(event.Dates), actionWord(event.Type))
	body := fmt.Sprintf("Listing %d had %d dates %s at %s:\n%s\n",
		event.ListingID, len(event.Dates), actionWord(event.Type),
		event.AppliedAt.Format("2006-01-02 15:04"), strings.Join(event.Dates, ", "))

	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromAddress)
	to := mail.NewEmail("Operations", s.cfg.OpsAddress)
	return s.send(mail.NewSingleEmail(from, subject, to, body, ""))
}

func (s *Sender) send(message *mail.SGMailV3) error {
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("send via sendgrid: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

func actionWord(eventType string) string {
	if eventType == "calendar_unblocked" {
		return "unblocked"
	}
	return "blocked"
}
