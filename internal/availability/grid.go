package availability

import (
	"sort"
	"time"
)

// DayState is the legend bucket a cell renders with.
type DayState string

const (
	DayPast      DayState = "past"
	DayBlocked   DayState = "blocked"
	DayAvailable DayState = "available"
)

type DayCell struct {
	Date       time.Time
	Key        string
	State      DayState
	Selected   bool
	Selectable bool
}

type MonthGrid struct {
	Year  int
	Month time.Month
	Days  []DayCell
}

// VisibleMonth is the first day of the month the calendar is showing.
func (c *Calendar) VisibleMonth() time.Time {
	return c.visible
}

// NextMonth and PrevMonth move the view. Navigation is orthogonal to the
// state machine: mode, blocked set and selection are untouched.
func (c *Calendar) NextMonth() {
	c.visible = c.visible.AddDate(0, 1, 0)
}

func (c *Calendar) PrevMonth() {
	c.visible = c.visible.AddDate(0, -1, 0)
}

// Grid renders the visible month: one cell per day with its legend state
// and, under the current mode, whether a click would do anything.
func (c *Calendar) Grid() MonthGrid {
	return c.MonthGrid(c.visible.Year(), c.visible.Month())
}

func (c *Calendar) MonthGrid(year int, month time.Month) MonthGrid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, c.today().Location())
	grid := MonthGrid{Year: year, Month: month}

	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		key := keyOf(d)
		state := DayAvailable
		switch {
		case c.IsPast(d):
			state = DayPast
		case c.IsBlocked(d):
			state = DayBlocked
		}
		_, selected := c.selected[key]
		grid.Days = append(grid.Days, DayCell{
			Date:       d,
			Key:        key,
			State:      state,
			Selected:   selected,
			Selectable: c.Selectable(d),
		})
	}
	return grid
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
