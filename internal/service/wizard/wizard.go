// Package wizard drives the multi-step booking flow over a session.State:
// flight, passenger, seat and fare class, then the booking transaction.
package wizard

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/service/booking"
	"github.com/Domenick1991/skybook/internal/service/flights"
	"github.com/Domenick1991/skybook/internal/session"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type FlightFinder interface {
	GetByNumber(ctx context.Context, flightNo string) (*domain.Flight, error)
}

type Booker interface {
	Confirm(ctx context.Context, input booking.ConfirmInput) (*domain.Confirmation, error)
	OccupiedSeats(ctx context.Context, flightNo string) ([]string, error)
}

type SeatHolder interface {
	HoldSeat(ctx context.Context, flightNo, seat, owner string, ttl time.Duration) (bool, error)
	ReleaseSeat(ctx context.Context, flightNo, seat, owner string) error
	HeldSeats(ctx context.Context, flightNo string, seats []string, owner string) (map[string]bool, error)
}

type Pricing struct {
	DefaultPriceCents         int64
	BusinessMultiplierPercent int64
	DefaultBaggage            int
}

// Price returns the ticket price for a flight snapshot and fare class.
func (p Pricing) Price(f session.FlightSnapshot, fc domain.FareClass) int64 {
	price := f.BasePriceCents
	if price <= 0 {
		price = p.DefaultPriceCents
	}
	if fc == domain.FareClassBusiness {
		price = price * p.BusinessMultiplierPercent / 100
	}
	return price
}

type SeatMap struct {
	FlightNo  string
	Capacity  int
	Available []string
	Taken     []string
	Selected  string
	FareClass domain.FareClass
}

type Summary struct {
	Flight       session.FlightSnapshot
	Passenger    session.PassengerForm
	Seat         string
	FareClass    domain.FareClass
	PriceCents   int64
	BaggageCount int
}

type Wizard struct {
	flights  FlightFinder
	bookings Booker
	holds    SeatHolder
	holdTTL  time.Duration
	pricing  Pricing
	validate *validator.Validate
	now      func() time.Time
	log      *zap.Logger
}

type Option func(*Wizard)

func WithSeatHolds(h SeatHolder, ttl time.Duration) Option {
	return func(w *Wizard) {
		w.holds = h
		w.holdTTL = ttl
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(w *Wizard) {
		if l != nil {
			w.log = l
		}
	}
}

func New(flights FlightFinder, bookings Booker, pricing Pricing, opts ...Option) *Wizard {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})

	w := &Wizard{
		flights:  flights,
		bookings: bookings,
		pricing:  pricing,
		validate: v,
		now:      time.Now,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SelectFlight stores the chosen flight. An empty flightNo takes the first
// result of the last search (earliest departure, then flight number).
// Choosing a flight restarts the wizard.
func (w *Wizard) SelectFlight(ctx context.Context, st *session.State, flightNo string) error {
	flightNo = strings.TrimSpace(flightNo)
	if flightNo == "" {
		if st.Search == nil || len(st.Search.Flights) == 0 {
			return domain.ValidationError{Field: "flight_no", Msg: "search for a flight first"}
		}
		if st.Search.Demo {
			return domain.ValidationError{Field: "flight_no", Msg: "sample flights cannot be booked"}
		}
		flightNo = st.Search.Flights[0].FlightNo
	}
	if flights.IsDemo(flightNo) {
		return domain.ValidationError{Field: "flight_no", Msg: "sample flights cannot be booked"}
	}

	f, err := w.flights.GetByNumber(ctx, flightNo)
	if err != nil {
		return err
	}

	w.Reset(ctx, st)
	snap := session.SnapshotOf(*f)
	st.Flight = &snap
	return nil
}

func (w *Wizard) PassengerForm(st *session.State) (*session.FlightSnapshot, *session.PassengerForm, error) {
	if err := needStep(st, session.StepFlightSelected); err != nil {
		return nil, nil, err
	}
	form := session.PassengerForm{}
	if st.Passenger != nil {
		form = *st.Passenger
	}
	return st.Flight, &form, nil
}

// EnterPassenger validates and stores the passenger form. Gender is optional
// and defaults to U.
func (w *Wizard) EnterPassenger(_ context.Context, st *session.State, form session.PassengerForm) error {
	if err := needStep(st, session.StepFlightSelected); err != nil {
		return err
	}

	form = normalizeForm(form)
	if err := w.validate.Struct(form); err != nil {
		return fieldError(err)
	}
	dob, _ := time.Parse(dateLayout, form.DateOfBirth)
	if !dob.Before(w.now()) {
		return domain.ValidationError{Field: "date_of_birth", Msg: "must be in the past"}
	}

	st.Passenger = &form
	return nil
}

// SeatMap lists the seats still free: not booked and not held by another
// session. Seats are advisory here; the booking transaction is the final
// check.
func (w *Wizard) SeatMap(ctx context.Context, st *session.State) (*SeatMap, error) {
	if err := needStep(st, session.StepPassengerEntered); err != nil {
		return nil, err
	}

	occupied, err := w.bookings.OccupiedSeats(ctx, st.Flight.FlightNo)
	if err != nil {
		return nil, err
	}

	labels := domain.SeatLabels(st.Flight.Capacity)
	free := make([]string, 0, len(labels))
	for _, seat := range labels {
		if !slices.Contains(occupied, seat) {
			free = append(free, seat)
		}
	}

	taken := slices.Clone(occupied)
	if w.holds != nil {
		held, err := w.holds.HeldSeats(ctx, st.Flight.FlightNo, free, st.Owner())
		if err != nil {
			w.log.Warn("seat holds unavailable", zap.String("flight_no", st.Flight.FlightNo), zap.Error(err))
		} else if len(held) > 0 {
			free = slices.DeleteFunc(free, func(seat string) bool {
				if held[seat] {
					taken = append(taken, seat)
					return true
				}
				return false
			})
		}
	}

	return &SeatMap{
		FlightNo:  st.Flight.FlightNo,
		Capacity:  st.Flight.Capacity,
		Available: free,
		Taken:     taken,
		Selected:  st.Seat,
		FareClass: fareClassOf(st),
	}, nil
}

// SelectSeat records seat and fare class and holds the seat for this session.
// An empty seat is rejected and the session stays where it is.
func (w *Wizard) SelectSeat(ctx context.Context, st *session.State, seat, fareClass string) error {
	if err := needStep(st, session.StepPassengerEntered); err != nil {
		return err
	}

	seat = domain.NormalizeSeat(seat)
	if seat == "" {
		return domain.ValidationError{Field: "seat", Msg: "please select a seat"}
	}
	if !domain.SeatWithin(seat, st.Flight.Capacity) {
		return domain.ValidationError{Field: "seat", Msg: "no such seat on this flight"}
	}
	fc, err := domain.ParseFareClass(fareClass)
	if err != nil {
		return err
	}

	occupied, err := w.bookings.OccupiedSeats(ctx, st.Flight.FlightNo)
	if err != nil {
		return err
	}
	if slices.Contains(occupied, seat) {
		return domain.ConflictError{Resource: "seat", Msg: "already booked on this flight"}
	}

	if w.holds != nil {
		ok, err := w.holds.HoldSeat(ctx, st.Flight.FlightNo, seat, st.Owner(), w.holdTTL)
		switch {
		case err != nil:
			w.log.Warn("seat hold failed", zap.String("flight_no", st.Flight.FlightNo), zap.Error(err))
		case !ok:
			return domain.ConflictError{Resource: "seat", Msg: "being booked by another passenger"}
		}
		if st.Seat != "" && st.Seat != seat {
			w.release(ctx, st)
		}
	}

	st.Seat = seat
	st.FareClass = fc
	return nil
}

func (w *Wizard) Summary(st *session.State) (*Summary, error) {
	if err := needStep(st, session.StepSeatSelected); err != nil {
		return nil, err
	}
	return &Summary{
		Flight:       *st.Flight,
		Passenger:    *st.Passenger,
		Seat:         st.Seat,
		FareClass:    fareClassOf(st),
		PriceCents:   w.pricing.Price(*st.Flight, fareClassOf(st)),
		BaggageCount: w.pricing.DefaultBaggage,
	}, nil
}

// Confirm runs the booking transaction for the collected state. On success
// the wizard is cleared and the confirmation and account are remembered.
// Conflicts also clear the wizard since the attempt was made; validation and
// availability failures keep it so the visitor can retry.
func (w *Wizard) Confirm(ctx context.Context, st *session.State) (*domain.Confirmation, error) {
	sum, err := w.Summary(st)
	if err != nil {
		return nil, err
	}

	passenger, err := toPassenger(sum.Passenger)
	if err != nil {
		return nil, err
	}

	conf, err := w.bookings.Confirm(ctx, booking.ConfirmInput{
		Passenger:     passenger,
		FlightNo:      sum.Flight.FlightNo,
		SeatNo:        sum.Seat,
		FareClass:     sum.FareClass,
		PriceCents:    sum.PriceCents,
		BaggageCount:  sum.BaggageCount,
		DepartureTime: sum.Flight.DepartureTime,
		Gate:          sum.Flight.Gate,
	})
	if err != nil {
		if domain.IsConflict(err) {
			w.Reset(ctx, st)
		}
		return nil, err
	}

	w.Reset(ctx, st)
	st.LastConfirmation = conf
	st.Account = &session.Account{SSN: passenger.SSN, Email: passenger.Email, Name: passenger.FullName()}
	return conf, nil
}

// Reset abandons the in-progress booking and releases this session's hold.
func (w *Wizard) Reset(ctx context.Context, st *session.State) {
	w.release(ctx, st)
	st.ClearWizard()
}

func (w *Wizard) release(ctx context.Context, st *session.State) {
	if w.holds == nil || st.Flight == nil || st.Seat == "" {
		return
	}
	if err := w.holds.ReleaseSeat(ctx, st.Flight.FlightNo, st.Seat, st.Owner()); err != nil {
		w.log.Warn("seat release failed", zap.String("flight_no", st.Flight.FlightNo), zap.Error(err))
	}
}

const dateLayout = "2006-01-02"

func fareClassOf(st *session.State) domain.FareClass {
	if st.FareClass == "" {
		return domain.FareClassEconomy
	}
	return st.FareClass
}

func normalizeForm(f session.PassengerForm) session.PassengerForm {
	f.SSN = strings.TrimSpace(f.SSN)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = strings.TrimSpace(f.Phone)
	f.DateOfBirth = strings.TrimSpace(f.DateOfBirth)
	f.Gender = strings.ToUpper(strings.TrimSpace(f.Gender))
	if f.Gender == "" {
		f.Gender = domain.GenderUnknown
	}
	return f
}

func toPassenger(f session.PassengerForm) (domain.Passenger, error) {
	dob, err := time.Parse(dateLayout, f.DateOfBirth)
	if err != nil {
		return domain.Passenger{}, domain.ValidationError{Field: "date_of_birth", Msg: "must be a date in YYYY-MM-DD form"}
	}
	return domain.Passenger{
		SSN:         f.SSN,
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Email:       f.Email,
		Phone:       f.Phone,
		Gender:      f.Gender,
		DateOfBirth: dob,
	}, nil
}

func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.ValidationError{Msg: err.Error()}
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return domain.ValidationError{Field: fe.Field(), Msg: "is required"}
	case "email":
		return domain.ValidationError{Field: fe.Field(), Msg: "must be a valid email address"}
	case "datetime":
		return domain.ValidationError{Field: fe.Field(), Msg: "must be a date in YYYY-MM-DD form"}
	case "oneof":
		return domain.ValidationError{Field: fe.Field(), Msg: "must be one of " + fe.Param()}
	default:
		return domain.ValidationError{Field: fe.Field(), Msg: "is invalid"}
	}
}
