package calendars

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/morozova-art/lagunare/internal/availability"
	"github.com/morozova-art/lagunare/internal/domain"
	"github.com/morozova-art/lagunare/internal/kafka"
	"github.com/morozova-art/lagunare/internal/repository"
)

type CalendarUseCase interface {
	Open(ctx context.Context, listingID int64) (*availability.Calendar, error)
	Apply(ctx context.Context, listingID int64, mode availability.Mode, dates []string) ([]string, error)
}

type ListingSource interface {
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// CalendarService builds an independent availability engine per open,
// seeded from a fresh repository read, and runs the engine's two-phase
// commit against the repository.
type CalendarService struct {
	listings      ListingSource
	repo          repository.AvailabilityRepository
	producer      Producer
	calendarTopic string
	now           func() time.Time
}

type CalendarServiceOption func(*CalendarService)

func WithClock(now func() time.Time) CalendarServiceOption {
	return func(s *CalendarService) {
		s.now = now
	}
}

func NewCalendarService(listings ListingSource, repo repository.AvailabilityRepository, producer Producer, calendarTopic string, opts ...CalendarServiceOption) *CalendarService {
	service := &CalendarService{
		listings:      listings,
		repo:          repo,
		producer:      producer,
		calendarTopic: calendarTopic,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *CalendarService) Open(ctx context.Context, listingID int64) (*availability.Calendar, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	blocked, err := s.repo.BlockedDates(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("load blocked dates: %w", err)
	}

	return availability.NewCalendar(listingID, blocked,
		availability.WithReadOnly(listing.ReadOnlyCalendar),
		availability.WithSyncMeta(listing.SyncStatus, listing.LastSyncedAt),
		availability.WithClock(s.now),
	), nil
}

// Apply replays the client's selection against a freshly opened engine
// (mode switch, then one toggle per date, ineligible dates dropping out
// silently) and commits whatever survived. The repository write is
// awaited; the calendar-change event after it is best effort.
func (s *CalendarService) Apply(ctx context.Context, listingID int64, mode availability.Mode, dates []string) ([]string, error) {
	cal, err := s.Open(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !cal.SetMode(mode) {
		return nil, fmt.Errorf("mode %q not available for listing %d", mode, listingID)
	}
	for _, d := range dates {
		day, err := time.ParseInLocation(domain.DateKey, d, time.Local)
		if err != nil {
			continue
		}
		cal.Toggle(day)
	}

	applied, err := cal.Apply(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	if len(applied) > 0 {
		s.publishChange(ctx, listingID, mode, applied)
	}
	return applied, nil
}

func (s *CalendarService) publishChange(ctx context.Context, listingID int64, mode availability.Mode, dates []string) {
	if s.producer == nil || s.calendarTopic == "" {
		return
	}
	eventType := "calendar_blocked"
	if mode == availability.ModeUnblock {
		eventType = "calendar_unblocked"
	}
	event := kafka.CalendarEvent{
		Type:      eventType,
		ListingID: listingID,
		Dates:     dates,
		AppliedAt: s.now(),
	}
	if err := s.producer.Publish(ctx, s.calendarTopic, fmt.Sprintf("listing-%d", listingID), event); err != nil {
		log.Printf("WARNING: failed to publish %s event for listing %d: %v", eventType, listingID, err)
	}
}

var _ CalendarUseCase = (*CalendarService)(nil)
