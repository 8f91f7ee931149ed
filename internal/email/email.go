package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/skybook/internal/kafka"
	"go.uber.org/zap"
)

// Sender turns booking events into passenger notifications. Delivery is a
// structured log line; no mail transport is wired.
type Sender struct {
	log *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.Email == "" {
		s.log.Debug("event without recipient", zap.String("type", event.Type), zap.String("flight_no", event.FlightNo))
		return nil
	}
	s.log.Info("notification sent",
		zap.String("to", event.Email),
		zap.String("subject", Subject(event)),
		zap.String("booking_id", event.BookingID))
	return nil
}

func Subject(event kafka.BookingEvent) string {
	switch event.Type {
	case kafka.EventBookingConfirmed:
		return fmt.Sprintf("Booking %s confirmed: flight %s seat %s", event.ConfirmationCode, event.FlightNo, event.SeatNo)
	case kafka.EventBookingUpdated:
		return fmt.Sprintf("Your booking on flight %s was changed", event.FlightNo)
	case kafka.EventBookingCancelled:
		return fmt.Sprintf("Your booking on flight %s was cancelled", event.FlightNo)
	default:
		return fmt.Sprintf("Update about flight %s", event.FlightNo)
	}
}
