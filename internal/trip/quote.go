package trip

import (
	"time"

	"github.com/morozova-art/lagunare/internal/domain"
)

// LegQuote is the priced breakdown for one sub-booking.
type LegQuote struct {
	ListingID  int64
	Name       string
	Kind       domain.ListingKind
	Start      *time.Time
	End        *time.Time
	Units      int
	PriceCents int64
	TotalCents int64
	Currency   string
}

// Quote is a point-in-time snapshot of the trip's derived pricing, built
// fresh from current state on every call.
type Quote struct {
	Location       string
	Stay           *LegQuote
	Vehicle        *LegQuote
	TripTotalCents int64
}

func (t *Trip) Quote() Quote {
	q := Quote{
		Location:       t.Location,
		TripTotalCents: t.TripTotalCents(),
	}
	if t.Stay != nil {
		q.Stay = &LegQuote{
			ListingID:  t.Stay.ID,
			Name:       t.Stay.Name,
			Kind:       t.Stay.Kind,
			Start:      copyDate(t.CheckIn),
			End:        copyDate(t.CheckOut),
			Units:      t.StayNights(),
			PriceCents: t.Stay.PriceCents,
			TotalCents: t.StayTotalCents(),
			Currency:   t.Stay.Currency,
		}
	}
	if t.Vehicle != nil {
		q.Vehicle = &LegQuote{
			ListingID:  t.Vehicle.ID,
			Name:       t.Vehicle.Name,
			Kind:       t.Vehicle.Kind,
			Start:      copyDate(t.Pickup),
			End:        copyDate(t.Dropoff),
			Units:      t.VehicleDays(),
			PriceCents: t.Vehicle.PriceCents,
			TotalCents: t.VehicleTotalCents(),
			Currency:   t.Vehicle.Currency,
		}
	}
	return q
}
