package trip

import (
	"testing"
	"time"

	"github.com/morozova-art/lagunare/internal/domain"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &t
}

func villa(price int64) *domain.Listing {
	return &domain.Listing{ID: 1, Kind: domain.ListingKindVilla, Name: "Villa Serena", City: "Portofino", PriceCents: price, Currency: "EUR"}
}

func car(price int64) *domain.Listing {
	return &domain.Listing{ID: 2, Kind: domain.ListingKindCar, Name: "GT Cabrio", City: "Portofino", PriceCents: price, Currency: "EUR"}
}

func TestTrip_StayNights(t *testing.T) {
	trip := New()
	trip.SetStay(villa(1000))

	trip.SetStayDates(domain.DateRange{Start: date(2024, 6, 1), End: date(2024, 6, 5)})
	assert.Equal(t, 4, trip.StayNights())

	// one endpoint missing
	trip.SetStayDates(domain.DateRange{Start: date(2024, 6, 1)})
	assert.Equal(t, 0, trip.StayNights())

	// inverted range clamps to zero, never negative
	trip.SetStayDates(domain.DateRange{Start: date(2024, 6, 5), End: date(2024, 6, 1)})
	assert.Equal(t, 0, trip.StayNights())
	assert.Equal(t, int64(0), trip.StayTotalCents())
}

func TestTrip_StayNights_IgnoresTimeOfDay(t *testing.T) {
	trip := New()
	checkIn := time.Date(2024, 6, 1, 23, 30, 0, 0, time.Local)
	checkOut := time.Date(2024, 6, 5, 1, 15, 0, 0, time.Local)

	trip.SetStayDates(domain.DateRange{Start: &checkIn, End: &checkOut})
	assert.Equal(t, 4, trip.StayNights())
}

func TestTrip_Totals(t *testing.T) {
	trip := New()

	trip.SetStay(villa(1000))
	trip.SetStayDates(domain.DateRange{Start: date(2024, 6, 1), End: date(2024, 6, 5)})
	assert.Equal(t, int64(4000), trip.StayTotalCents())
	assert.Equal(t, int64(0), trip.VehicleTotalCents())
	assert.Equal(t, int64(4000), trip.TripTotalCents())

	// vehicle defaults its window to the stay window
	trip.SetVehicle(car(200))
	assert.Equal(t, "2024-06-01", trip.Pickup.Format(domain.DateKey))
	assert.Equal(t, "2024-06-05", trip.Dropoff.Format(domain.DateKey))
	assert.Equal(t, 4, trip.VehicleDays())
	assert.Equal(t, int64(800), trip.VehicleTotalCents())
	assert.Equal(t, int64(4800), trip.TripTotalCents())
}

func TestTrip_TotalIsAlwaysSumOfLegs(t *testing.T) {
	trip := New()
	assert.Equal(t, int64(0), trip.TripTotalCents())

	// dates without a listing price to zero
	trip.SetStayDates(domain.DateRange{Start: date(2024, 6, 1), End: date(2024, 6, 5)})
	assert.Equal(t, int64(0), trip.StayTotalCents())
	assert.Equal(t, trip.StayTotalCents()+trip.VehicleTotalCents(), trip.TripTotalCents())

	trip.SetStay(villa(1000))
	trip.SetVehicle(car(200))
	assert.Equal(t, trip.StayTotalCents()+trip.VehicleTotalCents(), trip.TripTotalCents())
}

func TestTrip_SetStay_UpdatesLocation(t *testing.T) {
	trip := New()
	trip.SetStay(villa(1000))
	assert.Equal(t, "Portofino", trip.Location)

	trip.SetStay(nil)
	assert.Equal(t, "", trip.Location)
}

func TestTrip_SetStayDates_ClampsVehicleWindow(t *testing.T) {
	trip := New()
	trip.SetStay(villa(1000))
	trip.SetStayDates(domain.DateRange{Start: date(2024, 6, 1), End: date(2024, 6, 5)})
	trip.SetVehicle(car(200))

	// shrinking the stay pulls both vehicle endpoints inside it
	trip.SetStayDates(domain.DateRange{Start: date(2024, 6, 3), End: date(2024, 6, 4)})
	assert.Equal(t, "2024-06-03", trip.Pickup.Format(domain.DateKey))
	assert.Equal(t, "2024-06-04", trip.Dropoff.Format(domain.DateKey))
}

func TestTrip_SetStayDates_ClampsEachEndpointIndividually(t *testing.T) {
	trip := New()
	trip.SetStay(villa(1000))
	trip.SetStayDates(domain.DateRange{Start: date(2024, 6, 1), End: date(2024, 6, 10)})
	trip.SetVehicle(car(200))
	trip.SetVehicleDates(domain.DateRange{Start: date(2024, 6, 2), End: date(2024, 6, 9)})

	// only the dropoff falls out of the new stay
	trip.SetStayDates(domain.DateRange{Start: date(2024, 6, 1), End: date(2024, 6, 7)})
	assert.Equal(t, "2024-06-02", trip.Pickup.Format(domain.DateKey))
	assert.Equal(t, "2024-06-07", trip.Dropoff.Format(domain.DateKey))

	// only the pickup falls out
	trip.SetStayDates(domain.DateRange{Start: date(2024, 6, 4), End: date(2024, 6, 7)})
	assert.Equal(t, "2024-06-04", trip.Pickup.Format(domain.DateKey))
	assert.Equal(t, "2024-06-07", trip.Dropoff.Format(domain.DateKey))
}

func TestTrip_SetStayDates_VehicleAlwaysInsideAfterRepair(t *testing.T) {
	ranges := []struct{ pickup, dropoff, newIn, newOut int }{
		{2, 4, 5, 8},
		{8, 9, 1, 5},
		{4, 10, 1, 3},
		{1, 2, 3, 9},
		{5, 6, 5, 6},
	}
	for _, r := range ranges {
		trip := New()
		trip.SetStay(villa(1000))
		trip.SetStayDates(domain.DateRange{Start: date(2024, 6, 1), End: date(2024, 6, 30)})
		trip.SetVehicle(car(200))
		trip.SetVehicleDates(domain.DateRange{Start: date(2024, 6, r.pickup), End: date(2024, 6, r.dropoff)})

		trip.SetStayDates(domain.DateRange{Start: date(2024, 6, r.newIn), End: date(2024, 6, r.newOut)})

		assert.False(t, trip.Pickup.Before(*trip.CheckIn), "pickup %v before check-in %v", trip.Pickup, trip.CheckIn)
		assert.False(t, trip.Dropoff.After(*trip.CheckOut), "dropoff %v after check-out %v", trip.Dropoff, trip.CheckOut)
		assert.False(t, trip.Pickup.After(*trip.Dropoff), "pickup %v after dropoff %v", trip.Pickup, trip.Dropoff)
	}
}

func TestTrip_SetStayDates_NoVehicleNoRepair(t *testing.T) {
	trip := New()
	trip.SetStay(villa(1000))
	trip.SetStayDates(domain.DateRange{Start: date(2024, 6, 3), End: date(2024, 6, 4)})
	assert.Nil(t, trip.Pickup)
	assert.Nil(t, trip.Dropoff)
}

func TestTrip_SetVehicleDates_NotValidatedAgainstStay(t *testing.T) {
	trip := New()
	trip.SetStay(villa(1000))
	trip.SetStayDates(domain.DateRange{Start: date(2024, 6, 1), End: date(2024, 6, 5)})
	trip.SetVehicle(car(200))

	// direct assignment is taken as given, outside the stay or not
	trip.SetVehicleDates(domain.DateRange{Start: date(2024, 6, 10), End: date(2024, 6, 12)})
	assert.Equal(t, "2024-06-10", trip.Pickup.Format(domain.DateKey))
	assert.Equal(t, "2024-06-12", trip.Dropoff.Format(domain.DateKey))
	assert.Equal(t, 2, trip.VehicleDays())
}

func TestTrip_SetVehicle_WithoutStay(t *testing.T) {
	trip := New()
	trip.SetVehicle(car(200))
	assert.Nil(t, trip.Pickup)
	assert.Nil(t, trip.Dropoff)
	assert.Equal(t, 0, trip.VehicleDays())
	assert.Equal(t, int64(0), trip.VehicleTotalCents())
}

func TestTrip_RemoveVehicle(t *testing.T) {
	trip := New()
	trip.SetStay(villa(1000))
	trip.SetStayDates(domain.DateRange{Start: date(2024, 6, 1), End: date(2024, 6, 5)})
	trip.SetVehicle(car(200))

	trip.RemoveVehicle()
	assert.Nil(t, trip.Vehicle)
	assert.Nil(t, trip.Pickup)
	assert.Nil(t, trip.Dropoff)
	assert.Equal(t, int64(4000), trip.TripTotalCents())
}

func TestTrip_Clear(t *testing.T) {
	trip := New()
	trip.SetStay(villa(1000))
	trip.SetStayDates(domain.DateRange{Start: date(2024, 6, 1), End: date(2024, 6, 5)})
	trip.SetVehicle(car(200))

	trip.Clear()
	assert.Equal(t, Trip{}, *trip)
	assert.Equal(t, int64(0), trip.TripTotalCents())
}

func TestTrip_Quote_Snapshot(t *testing.T) {
	trip := New()
	trip.SetStay(villa(1000))
	trip.SetStayDates(domain.DateRange{Start: date(2024, 6, 1), End: date(2024, 6, 5)})
	trip.SetVehicle(car(200))

	q := trip.Quote()
	assert.Equal(t, "Portofino", q.Location)
	assert.Equal(t, int64(4800), q.TripTotalCents)
	assert.Equal(t, 4, q.Stay.Units)
	assert.Equal(t, int64(4000), q.Stay.TotalCents)
	assert.Equal(t, 4, q.Vehicle.Units)
	assert.Equal(t, int64(800), q.Vehicle.TotalCents)

	// quote is a snapshot; later mutations produce a fresh one
	trip.RemoveVehicle()
	assert.NotNil(t, q.Vehicle)
	assert.Nil(t, trip.Quote().Vehicle)
	assert.Equal(t, int64(4000), trip.Quote().TripTotalCents)
}
