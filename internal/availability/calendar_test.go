package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/morozova-art/lagunare/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) BlockDates(ctx context.Context, listingID int64, dates []string) error {
	args := m.Called(ctx, listingID, dates)
	return args.Error(0)
}

func (m *MockStore) UnblockDates(ctx context.Context, listingID int64, dates []string) error {
	args := m.Called(ctx, listingID, dates)
	return args.Error(0)
}

// fixedClock pins "today" to 2024-07-01 for all tests.
func fixedClock() time.Time {
	return time.Date(2024, 7, 1, 10, 30, 0, 0, time.Local)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestCalendar_OpensInViewMode(t *testing.T) {
	cal := NewCalendar(7, nil, WithClock(fixedClock))
	assert.Equal(t, ModeView, cal.Mode())
	assert.Empty(t, cal.Staged())
}

func TestCalendar_ViewMode_NothingSelectable(t *testing.T) {
	cal := NewCalendar(7, []string{"2024-07-04"}, WithClock(fixedClock))

	assert.False(t, cal.Selectable(day(2024, 7, 4)))
	assert.False(t, cal.Selectable(day(2024, 7, 10)))
	assert.False(t, cal.Toggle(day(2024, 7, 10)))
	assert.Empty(t, cal.Staged())
}

func TestCalendar_BlockMode_Eligibility(t *testing.T) {
	cal := NewCalendar(7, []string{"2024-07-04"}, WithClock(fixedClock))
	assert.True(t, cal.SetMode(ModeBlock))

	// free future date is selectable, already-blocked is not
	assert.True(t, cal.Selectable(day(2024, 7, 10)))
	assert.False(t, cal.Selectable(day(2024, 7, 4)))
	// past dates never
	assert.False(t, cal.Selectable(day(2024, 6, 30)))
	// today counts as selectable: only strictly-before is past
	assert.True(t, cal.Selectable(day(2024, 7, 1)))
}

func TestCalendar_UnblockMode_Eligibility(t *testing.T) {
	cal := NewCalendar(7, []string{"2024-07-04", "2024-06-20"}, WithClock(fixedClock))
	assert.True(t, cal.SetMode(ModeUnblock))

	assert.True(t, cal.Selectable(day(2024, 7, 4)))
	assert.False(t, cal.Selectable(day(2024, 7, 10)))
	// blocked but past stays untouchable
	assert.False(t, cal.Selectable(day(2024, 6, 20)))
}

func TestCalendar_Toggle_AddsAndRemoves(t *testing.T) {
	cal := NewCalendar(7, nil, WithClock(fixedClock))
	cal.SetMode(ModeBlock)

	assert.True(t, cal.Toggle(day(2024, 7, 10)))
	assert.True(t, cal.Toggle(day(2024, 7, 12)))
	assert.Equal(t, []string{"2024-07-10", "2024-07-12"}, cal.Staged())

	// second click removes
	assert.True(t, cal.Toggle(day(2024, 7, 10)))
	assert.Equal(t, []string{"2024-07-12"}, cal.Staged())
}

func TestCalendar_Toggle_IneligibleIsNoop(t *testing.T) {
	cal := NewCalendar(7, []string{"2024-07-04"}, WithClock(fixedClock))
	cal.SetMode(ModeBlock)

	assert.False(t, cal.Toggle(day(2024, 6, 15)))
	assert.False(t, cal.Toggle(day(2024, 7, 4)))
	assert.Empty(t, cal.Staged())
}

func TestCalendar_ModeSwitch_ClearsSelection(t *testing.T) {
	cal := NewCalendar(7, []string{"2024-07-04"}, WithClock(fixedClock))
	cal.SetMode(ModeBlock)
	cal.Toggle(day(2024, 7, 10))
	assert.NotEmpty(t, cal.Staged())

	cal.SetMode(ModeUnblock)
	assert.Empty(t, cal.Staged())

	cal.Toggle(day(2024, 7, 4))
	assert.NotEmpty(t, cal.Staged())

	cal.SetMode(ModeView)
	assert.Empty(t, cal.Staged())
}

func TestCalendar_SetMode_SameModeKeepsSelection(t *testing.T) {
	cal := NewCalendar(7, nil, WithClock(fixedClock))
	cal.SetMode(ModeBlock)
	cal.Toggle(day(2024, 7, 10))

	assert.True(t, cal.SetMode(ModeBlock))
	assert.Equal(t, []string{"2024-07-10"}, cal.Staged())
}

func TestCalendar_ReadOnly_OnlyViewReachable(t *testing.T) {
	cal := NewCalendar(7, []string{"2024-07-04"}, WithClock(fixedClock), WithReadOnly(true))

	assert.False(t, cal.SetMode(ModeBlock))
	assert.False(t, cal.SetMode(ModeUnblock))
	assert.Equal(t, ModeView, cal.Mode())
	assert.True(t, cal.SetMode(ModeView))
}

func TestCalendar_Apply_Unblock(t *testing.T) {
	store := &MockStore{}
	ctx := context.Background()

	cal := NewCalendar(7, []string{"2024-07-04"}, WithClock(fixedClock))
	cal.SetMode(ModeUnblock)

	assert.True(t, cal.Toggle(day(2024, 7, 4)))
	// not blocked, so a no-op in unblock mode
	assert.False(t, cal.Toggle(day(2024, 7, 5)))

	store.On("UnblockDates", ctx, int64(7), []string{"2024-07-04"}).Return(nil).Once()

	applied, err := cal.Apply(ctx, store)
	assert.NoError(t, err)
	assert.Equal(t, []string{"2024-07-04"}, applied)
	assert.Equal(t, ModeView, cal.Mode())
	assert.Empty(t, cal.Staged())
	assert.Empty(t, cal.BlockedDates())

	store.AssertExpectations(t)
}

func TestCalendar_Apply_Block(t *testing.T) {
	store := &MockStore{}
	ctx := context.Background()

	cal := NewCalendar(7, nil, WithClock(fixedClock))
	cal.SetMode(ModeBlock)
	cal.Toggle(day(2024, 7, 12))
	cal.Toggle(day(2024, 7, 10))

	store.On("BlockDates", ctx, int64(7), []string{"2024-07-12", "2024-07-10"}).Return(nil).Once()

	applied, err := cal.Apply(ctx, store)
	assert.NoError(t, err)
	// click order preserved in the commit payload
	assert.Equal(t, []string{"2024-07-12", "2024-07-10"}, applied)
	// local set folds the change in, sorted for rendering
	assert.Equal(t, []string{"2024-07-10", "2024-07-12"}, cal.BlockedDates())
	assert.Equal(t, ModeView, cal.Mode())

	store.AssertExpectations(t)
}

func TestCalendar_Apply_EmptySelectionIsNoop(t *testing.T) {
	store := &MockStore{}
	cal := NewCalendar(7, nil, WithClock(fixedClock))
	cal.SetMode(ModeBlock)

	applied, err := cal.Apply(context.Background(), store)
	assert.NoError(t, err)
	assert.Nil(t, applied)
	assert.Equal(t, ModeBlock, cal.Mode())
	store.AssertNotCalled(t, "BlockDates", mock.Anything, mock.Anything, mock.Anything)
}

func TestCalendar_Apply_StoreFailureKeepsStagedState(t *testing.T) {
	store := &MockStore{}
	ctx := context.Background()

	cal := NewCalendar(7, nil, WithClock(fixedClock))
	cal.SetMode(ModeBlock)
	cal.Toggle(day(2024, 7, 10))

	store.On("BlockDates", ctx, int64(7), []string{"2024-07-10"}).Return(errors.New("connection reset")).Once()

	applied, err := cal.Apply(ctx, store)
	assert.Error(t, err)
	assert.Nil(t, applied)
	// nothing committed locally either; the operator can retry
	assert.Equal(t, ModeBlock, cal.Mode())
	assert.Equal(t, []string{"2024-07-10"}, cal.Staged())
	assert.Empty(t, cal.BlockedDates())
}

func TestCalendar_MonthNavigation_DoesNotTouchState(t *testing.T) {
	cal := NewCalendar(7, []string{"2024-07-04"}, WithClock(fixedClock))
	cal.SetMode(ModeBlock)
	cal.Toggle(day(2024, 8, 10))

	assert.Equal(t, time.July, cal.VisibleMonth().Month())
	cal.NextMonth()
	cal.NextMonth()
	cal.PrevMonth()
	assert.Equal(t, time.August, cal.VisibleMonth().Month())

	assert.Equal(t, ModeBlock, cal.Mode())
	assert.Equal(t, []string{"2024-08-10"}, cal.Staged())
	assert.Equal(t, []string{"2024-07-04"}, cal.BlockedDates())
}

func TestCalendar_Grid_LegendStates(t *testing.T) {
	cal := NewCalendar(7, []string{"2024-07-04"}, WithClock(fixedClock))
	cal.SetMode(ModeBlock)
	cal.Toggle(day(2024, 7, 10))

	grid := cal.Grid()
	assert.Equal(t, 2024, grid.Year)
	assert.Equal(t, time.July, grid.Month)
	assert.Len(t, grid.Days, 31)

	byKey := make(map[string]DayCell, len(grid.Days))
	for _, d := range grid.Days {
		byKey[d.Key] = d
	}

	assert.Equal(t, DayBlocked, byKey["2024-07-04"].State)
	assert.False(t, byKey["2024-07-04"].Selectable)

	assert.Equal(t, DayAvailable, byKey["2024-07-10"].State)
	assert.True(t, byKey["2024-07-10"].Selected)
	assert.True(t, byKey["2024-07-10"].Selectable)

	assert.Equal(t, DayAvailable, byKey["2024-07-02"].State)
	assert.False(t, byKey["2024-07-02"].Selected)
}

func TestCalendar_Grid_PastMonth(t *testing.T) {
	cal := NewCalendar(7, nil, WithClock(fixedClock))
	cal.SetMode(ModeBlock)

	grid := cal.MonthGrid(2024, time.June)
	assert.Len(t, grid.Days, 30)
	for _, d := range grid.Days {
		assert.Equal(t, DayPast, d.State)
		assert.False(t, d.Selectable)
	}
}

func TestCalendar_SyncMetaIsDisplayOnly(t *testing.T) {
	synced := time.Date(2024, 6, 30, 8, 0, 0, 0, time.Local)
	cal := NewCalendar(7, nil, WithClock(fixedClock), WithSyncMeta(domain.SyncStatusStale, &synced))

	assert.Equal(t, domain.SyncStatusStale, cal.SyncStatus)
	assert.Equal(t, &synced, cal.LastSyncedAt)
	// stale sync never disables editing on its own
	assert.True(t, cal.SetMode(ModeBlock))
}
