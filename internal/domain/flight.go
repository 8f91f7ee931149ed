package domain

import "time"

type Airplane struct {
	RegNo    string
	Model    string
	Capacity int
}

type Flight struct {
	FlightNo       string
	FromCity       string
	ToCity         string
	DepartureTime  time.Time
	LandingTime    time.Time
	Gate           string
	Airplane       Airplane
	BasePriceCents int64
}
