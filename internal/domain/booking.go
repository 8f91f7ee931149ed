package domain

import (
	"fmt"
	"strings"
	"time"
)

type FareClass string

const (
	FareClassEconomy  FareClass = "economy"
	FareClassBusiness FareClass = "business"
)

func ParseFareClass(s string) (FareClass, error) {
	switch FareClass(strings.ToLower(strings.TrimSpace(s))) {
	case "", FareClassEconomy:
		return FareClassEconomy, nil
	case FareClassBusiness:
		return FareClassBusiness, nil
	default:
		return "", ValidationError{Field: "fare_class", Msg: "must be economy or business"}
	}
}

// BookingKey is the natural key of a booking. BookedAt has microsecond precision.
type BookingKey struct {
	FlightNo     string
	PassengerSSN string
	BookedAt     time.Time
}

type Booking struct {
	ID           string
	FlightNo     string
	PassengerSSN string
	BookedAt     time.Time
	SeatNo       string
	PriceCents   int64
	BaggageCount int
	FareClass    FareClass
}

func (b Booking) Key() BookingKey {
	return BookingKey{FlightNo: b.FlightNo, PassengerSSN: b.PassengerSSN, BookedAt: b.BookedAt}
}

// BookingPatch carries only the fields to change; nil fields are left untouched.
type BookingPatch struct {
	SeatNo       *string
	PriceCents   *int64
	BaggageCount *int
}

func (p BookingPatch) IsEmpty() bool {
	return p.SeatNo == nil && p.PriceCents == nil && p.BaggageCount == nil
}

// Trip is a booking as shown on the passenger's trip list.
type Trip struct {
	Booking       Booking
	DepartureTime time.Time
	LandingTime   time.Time
	Gate          string
	FromCity      string
	ToCity        string
	AirplaneModel string
}

type Confirmation struct {
	Code          string
	BookingID     string
	FlightNo      string
	PassengerName string
	Email         string
	SeatNo        string
	FareClass     FareClass
	PriceCents    int64
	BaggageCount  int
	BookedAt      time.Time
	DepartureTime time.Time
	Gate          string
}

// ConfirmationCode is a cosmetic PNR derived from flight number and the
// passenger id's last four characters.
func ConfirmationCode(flightNo, ssn string) string {
	tail := []rune(ssn)
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	return fmt.Sprintf("PNR%s%s", strings.ToUpper(flightNo), string(tail))
}
