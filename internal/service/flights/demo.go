package flights

import (
	"strings"
	"time"

	"github.com/Domenick1991/skybook/internal/domain"
)

const demoPrefix = "DEMO"

func IsDemo(flightNo string) bool {
	return strings.HasPrefix(strings.ToUpper(flightNo), demoPrefix)
}

// demoFlights is the fixed placeholder list shown when a search has no real
// results. Times are placed on day so the list reads naturally.
func demoFlights(day time.Time) []domain.Flight {
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }
	return []domain.Flight{
		{
			FlightNo: demoPrefix + "101", FromCity: "Oslo", ToCity: "Rome",
			DepartureTime: at(7, 30), LandingTime: at(11, 5), Gate: "A1",
			Airplane: domain.Airplane{RegNo: "DEMO-1", Model: "Airbus A320", Capacity: 180},
		},
		{
			FlightNo: demoPrefix + "202", FromCity: "Rome", ToCity: "Madrid",
			DepartureTime: at(12, 15), LandingTime: at(14, 50), Gate: "B4",
			Airplane: domain.Airplane{RegNo: "DEMO-2", Model: "Boeing 737-800", Capacity: 189},
		},
		{
			FlightNo: demoPrefix + "303", FromCity: "Madrid", ToCity: "Oslo",
			DepartureTime: at(18, 40), LandingTime: at(22, 55), Gate: "C2",
			Airplane: domain.Airplane{RegNo: "DEMO-3", Model: "Embraer E195", Capacity: 120},
		},
	}
}
