package booking

import (
	"context"
	"strings"
	"time"

	"github.com/Domenick1991/skybook/internal/domain"
	"github.com/Domenick1991/skybook/internal/kafka"
	"github.com/Domenick1991/skybook/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	Confirm(ctx context.Context, input ConfirmInput) (*domain.Confirmation, error)
	Update(ctx context.Context, key domain.BookingKey, patch domain.BookingPatch, email string) error
	Delete(ctx context.Context, key domain.BookingKey, email string) (bool, error)
	ListByPassenger(ctx context.Context, ssn string) ([]domain.Trip, error)
	OccupiedSeats(ctx context.Context, flightNo string) ([]string, error)
}

// FlightLookup resolves the airplane capacity a seat change is checked against.
type FlightLookup interface {
	GetByNumber(ctx context.Context, flightNo string) (*domain.Flight, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

// ConfirmInput is everything the booking transaction writes. Price and
// baggage are already decided by the caller.
type ConfirmInput struct {
	Passenger     domain.Passenger
	FlightNo      string
	SeatNo        string
	FareClass     domain.FareClass
	PriceCents    int64
	BaggageCount  int
	DepartureTime time.Time
	Gate          string
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            FlightLookup
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	maxBaggage         int
	now                func() time.Time
	log                *zap.Logger
}

type BookingServiceOption func(*BookingService)

func WithProducer(p Producer, bookingTopic, notificationsTopic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = p
		s.bookingTopic = bookingTopic
		s.notificationsTopic = notificationsTopic
	}
}

func WithFlights(f FlightLookup) BookingServiceOption {
	return func(s *BookingService) { s.flights = f }
}

func WithMaxBaggage(n int) BookingServiceOption {
	return func(s *BookingService) { s.maxBaggage = n }
}

func WithLogger(l *zap.Logger) BookingServiceOption {
	return func(s *BookingService) {
		if l != nil {
			s.log = l
		}
	}
}

func NewBookingService(bookings repository.BookingRepository, opts ...BookingServiceOption) *BookingService {
	s := &BookingService{
		bookings:   bookings,
		maxBaggage: 5,
		now:        time.Now,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Confirm validates the input, then writes passenger, booking and fare class
// row atomically. Nothing is written when validation fails.
func (s *BookingService) Confirm(ctx context.Context, input ConfirmInput) (*domain.Confirmation, error) {
	input.FlightNo = strings.ToUpper(strings.TrimSpace(input.FlightNo))
	input.SeatNo = domain.NormalizeSeat(input.SeatNo)
	if err := s.validateConfirm(input); err != nil {
		return nil, err
	}

	b := &domain.Booking{
		ID:           uuid.NewString(),
		FlightNo:     input.FlightNo,
		PassengerSSN: input.Passenger.SSN,
		BookedAt:     s.now().UTC().Truncate(time.Microsecond),
		SeatNo:       input.SeatNo,
		PriceCents:   input.PriceCents,
		BaggageCount: input.BaggageCount,
		FareClass:    input.FareClass,
	}
	if err := s.bookings.Create(ctx, input.Passenger, b); err != nil {
		s.log.Warn("booking transaction failed",
			zap.String("flight_no", b.FlightNo), zap.String("seat_no", b.SeatNo), zap.Error(err))
		return nil, err
	}

	conf := &domain.Confirmation{
		Code:          domain.ConfirmationCode(b.FlightNo, b.PassengerSSN),
		BookingID:     b.ID,
		FlightNo:      b.FlightNo,
		PassengerName: input.Passenger.FullName(),
		Email:         input.Passenger.Email,
		SeatNo:        b.SeatNo,
		FareClass:     b.FareClass,
		PriceCents:    b.PriceCents,
		BaggageCount:  b.BaggageCount,
		BookedAt:      b.BookedAt,
		DepartureTime: input.DepartureTime,
		Gate:          input.Gate,
	}
	s.log.Info("booking confirmed",
		zap.String("booking_id", b.ID), zap.String("flight_no", b.FlightNo), zap.String("code", conf.Code))

	s.publish(ctx, kafka.BookingEvent{
		Type:             kafka.EventBookingConfirmed,
		BookingID:        b.ID,
		FlightNo:         b.FlightNo,
		SeatNo:           b.SeatNo,
		FareClass:        string(b.FareClass),
		PriceCents:       b.PriceCents,
		Email:            input.Passenger.Email,
		ConfirmationCode: conf.Code,
		BookedAt:         b.BookedAt,
	})
	return conf, nil
}

// Update applies only the fields set in patch. An empty patch writes nothing.
// email addresses the change notification and may be empty.
func (s *BookingService) Update(ctx context.Context, key domain.BookingKey, patch domain.BookingPatch, email string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if patch.SeatNo != nil {
		seat := domain.NormalizeSeat(*patch.SeatNo)
		if !domain.ValidSeat(seat) {
			return domain.ValidationError{Field: "seat_no", Msg: "must look like 12C"}
		}
		if err := s.checkCapacity(ctx, key.FlightNo, seat); err != nil {
			return err
		}
		patch.SeatNo = &seat
	}
	if patch.PriceCents != nil && *patch.PriceCents < 0 {
		return domain.ValidationError{Field: "price", Msg: "must not be negative"}
	}
	if patch.BaggageCount != nil && (*patch.BaggageCount < 0 || *patch.BaggageCount > s.maxBaggage) {
		return domain.ValidationError{Field: "baggage_count", Msg: "out of range"}
	}
	if patch.IsEmpty() {
		return nil
	}

	if err := s.bookings.Update(ctx, key, patch); err != nil {
		return err
	}

	event := kafka.BookingEvent{Type: kafka.EventBookingUpdated, FlightNo: key.FlightNo, Email: email, BookedAt: key.BookedAt}
	if patch.SeatNo != nil {
		event.SeatNo = *patch.SeatNo
	}
	if patch.PriceCents != nil {
		event.PriceCents = *patch.PriceCents
	}
	s.publish(ctx, event)
	return nil
}

// Delete removes the booking and both possible fare class rows. Deleting a
// booking that is already gone succeeds and reports false.
func (s *BookingService) Delete(ctx context.Context, key domain.BookingKey, email string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	removed, err := s.bookings.Delete(ctx, key)
	if err != nil {
		return false, err
	}
	if removed {
		s.log.Info("booking cancelled", zap.String("flight_no", key.FlightNo))
		s.publish(ctx, kafka.BookingEvent{
			Type:     kafka.EventBookingCancelled,
			FlightNo: key.FlightNo,
			Email:    email,
			BookedAt: key.BookedAt,
		})
	}
	return removed, nil
}

func (s *BookingService) ListByPassenger(ctx context.Context, ssn string) ([]domain.Trip, error) {
	if strings.TrimSpace(ssn) == "" {
		return []domain.Trip{}, nil
	}
	return s.bookings.ListByPassenger(ctx, ssn)
}

func (s *BookingService) OccupiedSeats(ctx context.Context, flightNo string) ([]string, error) {
	return s.bookings.OccupiedSeats(ctx, strings.ToUpper(strings.TrimSpace(flightNo)))
}

func (s *BookingService) validateConfirm(in ConfirmInput) error {
	switch {
	case in.FlightNo == "":
		return domain.ValidationError{Field: "flight_no", Msg: "is required"}
	case strings.TrimSpace(in.Passenger.SSN) == "":
		return domain.ValidationError{Field: "ssn", Msg: "is required"}
	case strings.TrimSpace(in.Passenger.FirstName) == "" || strings.TrimSpace(in.Passenger.LastName) == "":
		return domain.ValidationError{Field: "name", Msg: "first and last name are required"}
	case strings.TrimSpace(in.Passenger.Email) == "":
		return domain.ValidationError{Field: "email", Msg: "is required"}
	case !domain.ValidSeat(in.SeatNo):
		return domain.ValidationError{Field: "seat_no", Msg: "no seat selected"}
	case in.PriceCents < 0:
		return domain.ValidationError{Field: "price", Msg: "must not be negative"}
	case in.BaggageCount < 0 || in.BaggageCount > s.maxBaggage:
		return domain.ValidationError{Field: "baggage_count", Msg: "out of range"}
	}
	if in.FareClass != domain.FareClassEconomy && in.FareClass != domain.FareClassBusiness {
		return domain.ValidationError{Field: "fare_class", Msg: "must be economy or business"}
	}
	return nil
}

// checkCapacity rejects a seat beyond the airplane's last row. Without a
// flight lookup only the seat format is checked.
func (s *BookingService) checkCapacity(ctx context.Context, flightNo, seat string) error {
	if s.flights == nil {
		return nil
	}
	f, err := s.flights.GetByNumber(ctx, flightNo)
	if err != nil {
		return err
	}
	if !domain.SeatWithin(seat, f.Airplane.Capacity) {
		return domain.ValidationError{Field: "seat_no", Msg: "not on this airplane"}
	}
	return nil
}

func validateKey(key domain.BookingKey) error {
	if strings.TrimSpace(key.FlightNo) == "" || strings.TrimSpace(key.PassengerSSN) == "" || key.BookedAt.IsZero() {
		return domain.ValidationError{Field: "booking", Msg: "flight, passenger and booking time are required"}
	}
	return nil
}

// publish sends event to the booking events and notifications topics.
// Failures are logged; the booking itself already committed.
func (s *BookingService) publish(ctx context.Context, event kafka.BookingEvent) {
	if s.producer == nil {
		return
	}
	for _, topic := range []string{s.bookingTopic, s.notificationsTopic} {
		if topic == "" {
			continue
		}
		if err := s.producer.Publish(ctx, topic, event.FlightNo, event); err != nil {
			s.log.Warn("failed to publish booking event",
				zap.String("type", event.Type), zap.String("topic", topic), zap.Error(err))
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
