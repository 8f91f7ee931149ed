// Package session holds the per-browser booking wizard state and its Redis
// backed store.
package session

import (
	"time"

	"github.com/Domenick1991/skybook/internal/domain"
)

type Step int

const (
	StepNoFlightSelected Step = iota
	StepFlightSelected
	StepPassengerEntered
	StepSeatSelected
	StepConfirmed
)

func (s Step) String() string {
	switch s {
	case StepFlightSelected:
		return "flight_selected"
	case StepPassengerEntered:
		return "passenger_entered"
	case StepSeatSelected:
		return "seat_selected"
	case StepConfirmed:
		return "confirmed"
	default:
		return "no_flight_selected"
	}
}

// FlightSnapshot is what the wizard remembers about the chosen flight so later
// steps can render a summary without another query.
type FlightSnapshot struct {
	FlightNo       string    `json:"flight_no"`
	FromCity       string    `json:"from_city"`
	ToCity         string    `json:"to_city"`
	DepartureTime  time.Time `json:"departure_time"`
	LandingTime    time.Time `json:"landing_time"`
	Gate           string    `json:"gate"`
	Model          string    `json:"model"`
	Capacity       int       `json:"capacity"`
	BasePriceCents int64     `json:"base_price_cents"`
	Demo           bool      `json:"demo,omitempty"`
}

func SnapshotOf(f domain.Flight) FlightSnapshot {
	return FlightSnapshot{
		FlightNo:       f.FlightNo,
		FromCity:       f.FromCity,
		ToCity:         f.ToCity,
		DepartureTime:  f.DepartureTime,
		LandingTime:    f.LandingTime,
		Gate:           f.Gate,
		Model:          f.Airplane.Model,
		Capacity:       f.Airplane.Capacity,
		BasePriceCents: f.BasePriceCents,
	}
}

// PassengerForm keeps the submitted form values as entered.
type PassengerForm struct {
	SSN         string `json:"ssn" form:"ssn" validate:"required,max=32"`
	FirstName   string `json:"first_name" form:"first_name" validate:"required,max=64"`
	LastName    string `json:"last_name" form:"last_name" validate:"required,max=64"`
	Email       string `json:"email" form:"email" validate:"required,email"`
	Phone       string `json:"phone" form:"phone" validate:"required,max=32"`
	Gender      string `json:"gender" form:"gender" validate:"omitempty,oneof=M F U"`
	DateOfBirth string `json:"date_of_birth" form:"date_of_birth" validate:"required,datetime=2006-01-02"`
}

type SearchSnapshot struct {
	From    string           `json:"from"`
	To      string           `json:"to"`
	Date    string           `json:"date"`
	Flights []FlightSnapshot `json:"flights"`
	Demo    bool             `json:"demo"`
}

type Account struct {
	SSN   string `json:"ssn"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Flash struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

type State struct {
	ID string `json:"-"`

	Search    *SearchSnapshot  `json:"search,omitempty"`
	Flight    *FlightSnapshot  `json:"flight,omitempty"`
	Passenger *PassengerForm   `json:"passenger,omitempty"`
	Seat      string           `json:"seat,omitempty"`
	FareClass domain.FareClass `json:"fare_class,omitempty"`

	LastConfirmation *domain.Confirmation `json:"last_confirmation,omitempty"`
	Account          *Account             `json:"account,omitempty"`
	Flashes          []Flash              `json:"flashes,omitempty"`

	// HoldOwner keeps seat holds placed before a rotation addressable.
	HoldOwner string `json:"hold_owner,omitempty"`
}

func New(id string) *State {
	return &State{ID: id}
}

// Owner identifies this session's seat holds.
func (s *State) Owner() string {
	if s.HoldOwner != "" {
		return s.HoldOwner
	}
	return s.ID
}

// Rotate moves the state to a new id. Seat holds stay with the first owner.
func (s *State) Rotate(id string) {
	if s.HoldOwner == "" {
		s.HoldOwner = s.ID
	}
	s.ID = id
}

// Step derives the wizard position from the fields present. A later field
// without its prerequisites does not count.
func (s *State) Step() Step {
	switch {
	case s.Flight == nil:
		return StepNoFlightSelected
	case s.Passenger == nil:
		return StepFlightSelected
	case s.Seat == "":
		return StepPassengerEntered
	default:
		return StepSeatSelected
	}
}

// ClearWizard drops the in-progress booking. Search results, account and
// the last confirmation stay.
func (s *State) ClearWizard() {
	s.Flight = nil
	s.Passenger = nil
	s.Seat = ""
	s.FareClass = ""
}

func (s *State) AddFlash(level, text string) {
	s.Flashes = append(s.Flashes, Flash{Level: level, Text: text})
}

// TakeFlashes returns pending messages and forgets them.
func (s *State) TakeFlashes() []Flash {
	out := s.Flashes
	s.Flashes = nil
	return out
}
