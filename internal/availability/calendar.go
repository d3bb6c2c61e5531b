package availability

import (
	"context"
	"time"

	"github.com/morozova-art/lagunare/internal/domain"
)

// Mode is the calendar's interaction state. view renders only; block and
// unblock stage dates for the matching store call.
type Mode string

const (
	ModeView    Mode = "view"
	ModeBlock   Mode = "block"
	ModeUnblock Mode = "unblock"
)

// Store persists committed availability changes. Implementations must be
// idempotent; dates arrive as yyyy-MM-dd keys in click order.
type Store interface {
	BlockDates(ctx context.Context, listingID int64, dates []string) error
	UnblockDates(ctx context.Context, listingID int64, dates []string) error
}

// Calendar is the per-listing availability engine. Every Open gets an
// independent instance seeded from a fresh read; instances are never
// shared between listings or sessions.
type Calendar struct {
	ListingID    int64
	ReadOnly     bool
	SyncStatus   domain.SyncStatus
	LastSyncedAt *time.Time

	mode     Mode
	blocked  map[string]struct{}
	selected map[string]struct{}
	// staged keeps the click order for the commit payload.
	staged []string

	visible time.Time
	now     func() time.Time
}

type Option func(*Calendar)

func WithReadOnly(ro bool) Option {
	return func(c *Calendar) { c.ReadOnly = ro }
}

func WithSyncMeta(status domain.SyncStatus, lastSyncedAt *time.Time) Option {
	return func(c *Calendar) {
		c.SyncStatus = status
		c.LastSyncedAt = lastSyncedAt
	}
}

// WithClock overrides the source of "today". Tests use it to pin the past
// cutoff.
func WithClock(now func() time.Time) Option {
	return func(c *Calendar) { c.now = now }
}

func NewCalendar(listingID int64, blockedDates []string, opts ...Option) *Calendar {
	c := &Calendar{
		ListingID:  listingID,
		SyncStatus: domain.SyncStatusNA,
		mode:       ModeView,
		blocked:    make(map[string]struct{}, len(blockedDates)),
		selected:   make(map[string]struct{}),
		now:        time.Now,
	}
	for _, d := range blockedDates {
		c.blocked[d] = struct{}{}
	}
	for _, opt := range opts {
		opt(c)
	}
	today := c.today()
	c.visible = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	return c
}

func (c *Calendar) Mode() Mode {
	return c.mode
}

// SetMode switches the interaction mode. Leaving block or unblock always
// drops the staged selection. Read-only calendars can only be in view;
// the attempt is a no-op, not an error.
func (c *Calendar) SetMode(m Mode) bool {
	if m != ModeView && m != ModeBlock && m != ModeUnblock {
		return false
	}
	if c.ReadOnly && m != ModeView {
		return false
	}
	if m == c.mode {
		return true
	}
	c.mode = m
	c.clearSelection()
	return true
}

func (c *Calendar) IsBlocked(date time.Time) bool {
	_, ok := c.blocked[keyOf(date)]
	return ok
}

func (c *Calendar) IsPast(date time.Time) bool {
	return domain.DateOnly(date).Before(c.today())
}

// Selectable reports whether a click on date would land in the selection
// under the current mode.
func (c *Calendar) Selectable(date time.Time) bool {
	if c.IsPast(date) {
		return false
	}
	switch c.mode {
	case ModeBlock:
		return !c.IsBlocked(date)
	case ModeUnblock:
		return c.IsBlocked(date)
	default:
		return false
	}
}

// Toggle adds an eligible date to the selection, or removes it if already
// staged. Clicks on ineligible dates do nothing and return false.
func (c *Calendar) Toggle(date time.Time) bool {
	if !c.Selectable(date) {
		return false
	}
	key := keyOf(date)
	if _, ok := c.selected[key]; ok {
		delete(c.selected, key)
		for i, k := range c.staged {
			if k == key {
				c.staged = append(c.staged[:i], c.staged[i+1:]...)
				break
			}
		}
		return true
	}
	c.selected[key] = struct{}{}
	c.staged = append(c.staged, key)
	return true
}

// Staged returns the dates queued for the next Apply, in click order.
func (c *Calendar) Staged() []string {
	out := make([]string, len(c.staged))
	copy(out, c.staged)
	return out
}

func (c *Calendar) ClearSelection() {
	c.clearSelection()
}

// Apply commits the staged selection through the store. The call is
// awaited: only on success does the calendar fold the change into its
// blocked set, clear the selection and return to view. On failure the
// staged state survives so the operator can retry. An empty selection is
// a no-op.
func (c *Calendar) Apply(ctx context.Context, store Store) ([]string, error) {
	if len(c.staged) == 0 {
		return nil, nil
	}
	dates := c.Staged()
	action := c.mode

	switch action {
	case ModeBlock:
		if err := store.BlockDates(ctx, c.ListingID, dates); err != nil {
			return nil, err
		}
		for _, d := range dates {
			c.blocked[d] = struct{}{}
		}
	case ModeUnblock:
		if err := store.UnblockDates(ctx, c.ListingID, dates); err != nil {
			return nil, err
		}
		for _, d := range dates {
			delete(c.blocked, d)
		}
	default:
		return nil, nil
	}

	c.clearSelection()
	c.mode = ModeView
	return dates, nil
}

// BlockedDates returns the current blocked set as sorted yyyy-MM-dd keys.
func (c *Calendar) BlockedDates() []string {
	return sortedKeys(c.blocked)
}

func (c *Calendar) clearSelection() {
	c.selected = make(map[string]struct{})
	c.staged = nil
}

func (c *Calendar) today() time.Time {
	return domain.DateOnly(c.now())
}

func keyOf(date time.Time) string {
	return domain.DateOnly(date).Format(domain.DateKey)
}
