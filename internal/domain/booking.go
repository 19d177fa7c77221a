package domain

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "BOOKED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type MealType string

const (
	MealTypeVeg    MealType = "VEG"
	MealTypeNonVeg MealType = "NON_VEG"
)

func (m MealType) Valid() bool {
	return m == MealTypeVeg || m == MealTypeNonVeg
}

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

type Passenger struct {
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
	Age    int    `json:"age"`
}

type Booking struct {
	PNR              string
	FlightID         string
	UserName         string
	UserEmail        string
	Seats            int
	Passengers       []Passenger
	SeatNumbers      []string
	MealType         MealType
	Status           BookingStatus
	BookedAt         time.Time
	CancelledAt      *time.Time // set iff Status is CANCELLED
	JourneyDate      time.Time
	JourneyDeparture time.Time // departure instant snapshotted at booking time
}

// OwnedBy reports whether email matches the booking owner, case-insensitively.
func (b Booking) OwnedBy(email string) bool {
	return strings.EqualFold(b.UserEmail, email)
}
