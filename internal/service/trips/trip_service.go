package trips

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/morozova-art/lagunare/internal/domain"
	"github.com/morozova-art/lagunare/internal/kafka"
	"github.com/morozova-art/lagunare/internal/trip"
)

var (
	ErrSessionNotFound = errors.New("trip session not found")
	ErrEmptyTrip       = errors.New("trip has no selections")
)

type TripUseCase interface {
	StartSession(ctx context.Context) string
	SetStay(ctx context.Context, sessionID string, listingID *int64) (trip.Quote, error)
	SetStayDates(ctx context.Context, sessionID string, r domain.DateRange) (trip.Quote, error)
	SetVehicle(ctx context.Context, sessionID string, listingID *int64) (trip.Quote, error)
	SetVehicleDates(ctx context.Context, sessionID string, r domain.DateRange) (trip.Quote, error)
	RemoveVehicle(ctx context.Context, sessionID string) (trip.Quote, error)
	ClearTrip(ctx context.Context, sessionID string) error
	Quote(ctx context.Context, sessionID string) (trip.Quote, error)
	SubmitRequest(ctx context.Context, sessionID, email string) (*SubmitResult, error)
	ExpireIdleSessions(ctx context.Context) []string
}

type ListingSource interface {
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// SubmitResult is handed back after a trip request goes out: the
// reference the visitor can quote and the totals frozen at submission.
type SubmitResult struct {
	Reference string
	Quote     trip.Quote
}

type session struct {
	trip       *trip.Trip
	lastActive time.Time
}

// TripService keeps one live composer per visitor session. The composer
// itself is single-threaded by design; the mutex only serializes the
// concurrent HTTP requests that reach it.
type TripService struct {
	listings           ListingSource
	producer           Producer
	requestsTopic      string
	notificationsTopic string
	sessionTTL         time.Duration

	mu       sync.Mutex
	sessions map[string]*session

	now func() time.Time
}

type TripServiceOption func(*TripService)

func WithNotificationsTopic(topic string) TripServiceOption {
	return func(s *TripService) {
		s.notificationsTopic = topic
	}
}

func WithClock(now func() time.Time) TripServiceOption {
	return func(s *TripService) {
		s.now = now
	}
}

func NewTripService(listings ListingSource, producer Producer, requestsTopic string, sessionTTL time.Duration, opts ...TripServiceOption) *TripService {
	service := &TripService{
		listings:      listings,
		producer:      producer,
		requestsTopic: requestsTopic,
		sessionTTL:    sessionTTL,
		sessions:      make(map[string]*session),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *TripService) StartSession(ctx context.Context) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &session{trip: trip.New(), lastActive: s.now()}
	s.mu.Unlock()
	return id
}

func (s *TripService) SetStay(ctx context.Context, sessionID string, listingID *int64) (trip.Quote, error) {
	listing, err := s.resolveListing(ctx, listingID)
	if err != nil {
		return trip.Quote{}, err
	}
	return s.mutate(sessionID, func(t *trip.Trip) {
		t.SetStay(listing)
	})
}

func (s *TripService) SetStayDates(ctx context.Context, sessionID string, r domain.DateRange) (trip.Quote, error) {
	return s.mutate(sessionID, func(t *trip.Trip) {
		t.SetStayDates(r)
	})
}

func (s *TripService) SetVehicle(ctx context.Context, sessionID string, listingID *int64) (trip.Quote, error) {
	listing, err := s.resolveListing(ctx, listingID)
	if err != nil {
		return trip.Quote{}, err
	}
	return s.mutate(sessionID, func(t *trip.Trip) {
		t.SetVehicle(listing)
	})
}

func (s *TripService) SetVehicleDates(ctx context.Context, sessionID string, r domain.DateRange) (trip.Quote, error) {
	return s.mutate(sessionID, func(t *trip.Trip) {
		t.SetVehicleDates(r)
	})
}

func (s *TripService) RemoveVehicle(ctx context.Context, sessionID string) (trip.Quote, error) {
	return s.mutate(sessionID, func(t *trip.Trip) {
		t.RemoveVehicle()
	})
}

func (s *TripService) ClearTrip(ctx context.Context, sessionID string) error {
	_, err := s.mutate(sessionID, func(t *trip.Trip) {
		t.Clear()
	})
	return err
}

func (s *TripService) Quote(ctx context.Context, sessionID string) (trip.Quote, error) {
	return s.mutate(sessionID, nil)
}

// SubmitRequest freezes the current quote, publishes the trip request and
// drops the session. The event is awaited; a publish failure keeps the
// session alive so the visitor can retry.
func (s *TripService) SubmitRequest(ctx context.Context, sessionID, email string) (*SubmitResult, error) {
	if email == "" {
		return nil, errors.New("email is required")
	}

	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if sess.trip.Stay == nil && sess.trip.Vehicle == nil {
		s.mu.Unlock()
		return nil, ErrEmptyTrip
	}
	quote := sess.trip.Quote()
	event := buildEvent(sess.trip, email, s.now())
	s.mu.Unlock()

	if err := s.publish(ctx, event); err != nil {
		return nil, fmt.Errorf("submit trip request: %w", err)
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	return &SubmitResult{Reference: event.Reference, Quote: quote}, nil
}

// ExpireIdleSessions drops sessions with no activity inside the TTL and
// returns their IDs. The worker runs it on a schedule.
func (s *TripService) ExpireIdleSessions(ctx context.Context) []string {
	deadline := s.now().Add(-s.sessionTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []string
	for id, sess := range s.sessions {
		if sess.lastActive.Before(deadline) {
			delete(s.sessions, id)
			expired = append(expired, id)
		}
	}
	return expired
}

func (s *TripService) mutate(sessionID string, fn func(*trip.Trip)) (trip.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return trip.Quote{}, ErrSessionNotFound
	}
	if fn != nil {
		fn(sess.trip)
	}
	sess.lastActive = s.now()
	return sess.trip.Quote(), nil
}

func (s *TripService) resolveListing(ctx context.Context, listingID *int64) (*domain.Listing, error) {
	if listingID == nil {
		return nil, nil
	}
	return s.listings.GetByID(ctx, *listingID)
}

func (s *TripService) publish(ctx context.Context, event kafka.TripRequestEvent) error {
	if s.producer == nil || s.requestsTopic == "" {
		return nil
	}
	if err := s.producer.Publish(ctx, s.requestsTopic, event.Reference, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, event.Reference, event)
	}
	return nil
}

func buildEvent(t *trip.Trip, email string, submittedAt time.Time) kafka.TripRequestEvent {
	event := kafka.TripRequestEvent{
		Type:              "trip_requested",
		Reference:         uuid.NewString(),
		Email:             email,
		Location:          t.Location,
		StayNights:        t.StayNights(),
		StayTotalCents:    t.StayTotalCents(),
		VehicleDays:       t.VehicleDays(),
		VehicleTotalCents: t.VehicleTotalCents(),
		TripTotalCents:    t.TripTotalCents(),
		SubmittedAt:       submittedAt,
	}
	if t.Stay != nil {
		event.StayListingID = t.Stay.ID
		event.CheckIn = formatDate(t.CheckIn)
		event.CheckOut = formatDate(t.CheckOut)
	}
	if t.Vehicle != nil {
		event.VehicleListingID = t.Vehicle.ID
		event.Pickup = formatDate(t.Pickup)
		event.Dropoff = formatDate(t.Dropoff)
	}
	return event
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(domain.DateKey)
}

var _ TripUseCase = (*TripService)(nil)
