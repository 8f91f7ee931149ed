package api

import (
	"time"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/service/wizard"
	"github.com/Domenick1991/skybook/internal/session"
	"github.com/Domenick1991/skybook/internal/ticket"
)

type flightView struct {
	FlightNo      string `json:"flight_no"`
	From          string `json:"from"`
	To            string `json:"to"`
	DepartureTime string `json:"departure_time"`
	LandingTime   string `json:"landing_time"`
	Gate          string `json:"gate"`
	Model         string `json:"model"`
	Capacity      int    `json:"capacity,omitempty"`
}

func flightViewOf(f session.FlightSnapshot) flightView {
	return flightView{
		FlightNo:      f.FlightNo,
		From:          f.FromCity,
		To:            f.ToCity,
		DepartureTime: formatTime(f.DepartureTime),
		LandingTime:   formatTime(f.LandingTime),
		Gate:          f.Gate,
		Model:         f.Model,
		Capacity:      f.Capacity,
	}
}

type searchView struct {
	Query   queryView    `json:"query"`
	Demo    bool         `json:"demo"`
	Flights []flightView `json:"flights"`
}

func searchViewOf(s *session.SearchSnapshot) searchView {
	v := searchView{
		Query:   queryView{From: s.From, To: s.To, Date: s.Date},
		Demo:    s.Demo,
		Flights: make([]flightView, 0, len(s.Flights)),
	}
	for _, f := range s.Flights {
		v.Flights = append(v.Flights, flightViewOf(f))
	}
	return v
}

type queryView struct {
	From string `json:"from"`
	To   string `json:"to"`
	Date string `json:"date"`
}

type seatMapView struct {
	Flight    flightView `json:"flight"`
	Available []string   `json:"available"`
	Taken     []string   `json:"taken"`
	Selected  string     `json:"selected,omitempty"`
	FareClass string     `json:"fare_class"`
}

type summaryView struct {
	Flight       flightView            `json:"flight"`
	Passenger    session.PassengerForm `json:"passenger"`
	Seat         string                `json:"seat"`
	FareClass    string                `json:"fare_class"`
	Price        string                `json:"price"`
	BaggageCount int                   `json:"baggage_count"`
}

func summaryViewOf(s *wizard.Summary) summaryView {
	return summaryView{
		Flight:       flightViewOf(s.Flight),
		Passenger:    s.Passenger,
		Seat:         s.Seat,
		FareClass:    string(s.FareClass),
		Price:        ticket.FormatPrice(s.PriceCents),
		BaggageCount: s.BaggageCount,
	}
}

type confirmationView struct {
	Code          string `json:"code"`
	FlightNo      string `json:"flight_no"`
	PassengerName string `json:"passenger_name"`
	SeatNo        string `json:"seat_no"`
	FareClass     string `json:"fare_class"`
	Price         string `json:"price"`
	BaggageCount  int    `json:"baggage_count"`
	DepartureTime string `json:"departure_time"`
	Gate          string `json:"gate"`
	TicketURL     string `json:"ticket_url"`
}

func confirmationViewOf(c *domain.Confirmation) confirmationView {
	return confirmationView{
		Code:          c.Code,
		FlightNo:      c.FlightNo,
		PassengerName: c.PassengerName,
		SeatNo:        c.SeatNo,
		FareClass:     string(c.FareClass),
		Price:         ticket.FormatPrice(c.PriceCents),
		BaggageCount:  c.BaggageCount,
		DepartureTime: formatTime(c.DepartureTime),
		Gate:          c.Gate,
		TicketURL:     "/confirmation/ticket.pdf",
	}
}

// tripView carries booked_at at full precision; the update and delete forms
// send it back as part of the booking key.
type tripView struct {
	FlightNo      string `json:"flight_no"`
	BookedAt      string `json:"booked_at"`
	SeatNo        string `json:"seat_no"`
	FareClass     string `json:"fare_class"`
	PriceCents    int64  `json:"price_cents"`
	Price         string `json:"price"`
	BaggageCount  int    `json:"baggage_count"`
	From          string `json:"from"`
	To            string `json:"to"`
	DepartureTime string `json:"departure_time"`
	LandingTime   string `json:"landing_time"`
	Gate          string `json:"gate"`
	Model         string `json:"model"`
}

func tripViewOf(t domain.Trip) tripView {
	return tripView{
		FlightNo:      t.Booking.FlightNo,
		BookedAt:      t.Booking.BookedAt.UTC().Format(time.RFC3339Nano),
		SeatNo:        t.Booking.SeatNo,
		FareClass:     string(t.Booking.FareClass),
		PriceCents:    t.Booking.PriceCents,
		Price:         ticket.FormatPrice(t.Booking.PriceCents),
		BaggageCount:  t.Booking.BaggageCount,
		From:          t.FromCity,
		To:            t.ToCity,
		DepartureTime: formatTime(t.DepartureTime),
		LandingTime:   formatTime(t.LandingTime),
		Gate:          t.Gate,
		Model:         t.AirplaneModel,
	}
}

type accountView struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func accountViewOf(a *session.Account) *accountView {
	if a == nil {
		return nil
	}
	return &accountView{Email: a.Email, Name: a.Name}
}

func messages(st *session.State) []string {
	flashes := st.TakeFlashes()
	out := make([]string, 0, len(flashes))
	for _, f := range flashes {
		out = append(out, f.Text)
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
