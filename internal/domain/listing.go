package domain

import "time"

type ListingKind string

const (
	ListingKindVilla ListingKind = "villa"
	ListingKindCar   ListingKind = "car"
	ListingKindYacht ListingKind = "yacht"
)

// SyncStatus describes the state of the external calendar feed for a
// listing. Display only; the core never acts on it.
type SyncStatus string

const (
	SyncStatusNA    SyncStatus = "n/a"
	SyncStatusOK    SyncStatus = "ok"
	SyncStatusStale SyncStatus = "stale"
	SyncStatusError SyncStatus = "error"
)

type Listing struct {
	ID       int64
	Kind     ListingKind
	Name     string
	City     string
	// PriceCents is per night for villas, per day for cars and yachts.
	PriceCents int64
	Currency   string
	// ReadOnlyCalendar marks listings whose availability is owned by an
	// external channel manager; their calendars cannot be edited here.
	ReadOnlyCalendar bool
	SyncStatus       SyncStatus
	LastSyncedAt     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
