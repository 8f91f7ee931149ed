package domain

import "time"

const GenderUnknown = "U"

// Passenger is created lazily on first booking and never updated afterwards.
type Passenger struct {
	SSN         string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Gender      string
	DateOfBirth time.Time
}

func (p Passenger) FullName() string {
	return p.FirstName + " " + p.LastName
}
