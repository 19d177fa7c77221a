package domain

import "time"

type TripType string

const (
	TripTypeOneWay    TripType = "ONE_WAY"
	TripTypeRoundTrip TripType = "ROUND_TRIP"
)

func (t TripType) Valid() bool {
	return t == TripTypeOneWay || t == TripTypeRoundTrip
}

type Flight struct {
	ID                  string
	AirlineName         string
	AirlineLogoURL      string
	FromPlace           string
	ToPlace             string
	DepartureDate       time.Time // date only, midnight UTC
	DepartureTime       string    // "15:04"
	ArrivalTime         string    // "15:04"
	RoundTripAvailable  bool
	OneWayPriceCents    int64
	RoundTripPriceCents int64 // 0 unless RoundTripAvailable
	TotalSeats          int
	AvailableSeats      int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// DepartureInstant combines the departure date and the "HH:MM" departure
// time into a single instant. Bookings snapshot this value so later flight
// edits cannot move an existing booking's cancellation window.
func (f Flight) DepartureInstant() time.Time {
	t, err := time.Parse("15:04", f.DepartureTime)
	if err != nil {
		return f.DepartureDate
	}
	return time.Date(
		f.DepartureDate.Year(), f.DepartureDate.Month(), f.DepartureDate.Day(),
		t.Hour(), t.Minute(), 0, 0, time.UTC,
	)
}
