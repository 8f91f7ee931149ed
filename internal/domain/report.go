package domain

import "time"

type FlightLoad struct {
	FlightNo     string
	Passengers   int
	FirstBooking time.Time
	LastBooking  time.Time
}

type LargeAircraftFlight struct {
	FlightNo string
	Model    string
	Capacity int
}

type GateBaggage struct {
	Gate      string
	TotalBags int
}

type Reports struct {
	TopFlights      []FlightLoad
	CapacityOverAvg []LargeAircraftFlight
	BagsByGate      []GateBaggage
}
