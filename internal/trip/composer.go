package trip

import (
	"time"

	"github.com/morozova-art/lagunare/internal/domain"
)

// Trip is the composed selection for one visitor session: an optional stay
// leg and an optional vehicle leg, each with its own date range. All
// mutations are total functions; malformed ranges are clamped, never
// rejected. Derived money values are recomputed on every read.
type Trip struct {
	Stay     *domain.Listing
	CheckIn  *time.Time
	CheckOut *time.Time

	Vehicle *domain.Listing
	Pickup  *time.Time
	Dropoff *time.Time

	Location string
}

func New() *Trip {
	return &Trip{}
}

// SetStay replaces the stay selection and retags the trip location.
// Existing vehicle dates are left alone.
func (t *Trip) SetStay(listing *domain.Listing) {
	t.Stay = listing
	if listing != nil {
		t.Location = listing.City
	} else {
		t.Location = ""
	}
}

// SetStayDates replaces the stay range and repairs any vehicle range that
// the new stay no longer covers. Each vehicle endpoint is clamped
// individually: pickup first, dropoff second, then an ordering check that
// resets both if pickup overtook dropoff. The order matters when the old
// and new ranges barely overlap.
func (t *Trip) SetStayDates(r domain.DateRange) {
	t.CheckIn = copyDate(r.Start)
	t.CheckOut = copyDate(r.End)
	t.repairVehicleRange()
}

func (t *Trip) repairVehicleRange() {
	if t.Vehicle == nil || t.CheckIn == nil || t.CheckOut == nil {
		return
	}
	checkIn := domain.DateOnly(*t.CheckIn)
	checkOut := domain.DateOnly(*t.CheckOut)

	if t.Pickup != nil {
		p := domain.DateOnly(*t.Pickup)
		if p.Before(checkIn) || p.After(checkOut) {
			t.Pickup = copyDate(&checkIn)
		}
	}
	if t.Dropoff != nil {
		d := domain.DateOnly(*t.Dropoff)
		if d.After(checkOut) || d.Before(checkIn) {
			t.Dropoff = copyDate(&checkOut)
		}
	}
	if t.Pickup != nil && t.Dropoff != nil && t.Pickup.After(*t.Dropoff) {
		t.Pickup = copyDate(&checkIn)
		t.Dropoff = copyDate(&checkOut)
	}
}

// SetVehicle attaches or clears the vehicle leg. Attaching defaults the
// rental window to the current stay window (nil/nil when no stay is
// selected yet); clearing drops the dates with it.
func (t *Trip) SetVehicle(listing *domain.Listing) {
	t.Vehicle = listing
	if listing == nil {
		t.Pickup = nil
		t.Dropoff = nil
		return
	}
	t.Pickup = copyDate(t.CheckIn)
	t.Dropoff = copyDate(t.CheckOut)
}

// SetVehicleDates replaces the vehicle range as given. It is not
// re-validated against the stay range; the stay-driven default and the
// repair in SetStayDates are the only places the two ranges are coupled.
func (t *Trip) SetVehicleDates(r domain.DateRange) {
	t.Pickup = copyDate(r.Start)
	t.Dropoff = copyDate(r.End)
}

func (t *Trip) RemoveVehicle() {
	t.SetVehicle(nil)
}

// Clear resets the trip to its empty initial state.
func (t *Trip) Clear() {
	*t = Trip{}
}

func (t *Trip) StayNights() int {
	return domain.WholeDays(t.CheckIn, t.CheckOut)
}

func (t *Trip) VehicleDays() int {
	if t.Vehicle == nil {
		return 0
	}
	return domain.WholeDays(t.Pickup, t.Dropoff)
}

func (t *Trip) StayTotalCents() int64 {
	if t.Stay == nil {
		return 0
	}
	return t.Stay.PriceCents * int64(t.StayNights())
}

func (t *Trip) VehicleTotalCents() int64 {
	if t.Vehicle == nil {
		return 0
	}
	return t.Vehicle.PriceCents * int64(t.VehicleDays())
}

func (t *Trip) TripTotalCents() int64 {
	return t.StayTotalCents() + t.VehicleTotalCents()
}

func copyDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := domain.DateOnly(*t)
	return &d
}
