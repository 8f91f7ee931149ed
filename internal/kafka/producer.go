package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventBookingConfirmed = "booking_confirmed"
	EventBookingUpdated   = "booking_updated"
	EventBookingCancelled = "booking_cancelled"
)

type BookingEvent struct {
	Type             string    `json:"type"`
	BookingID        string    `json:"booking_id,omitempty"`
	FlightNo         string    `json:"flight_no"`
	SeatNo           string    `json:"seat_no,omitempty"`
	FareClass        string    `json:"fare_class,omitempty"`
	PriceCents       int64     `json:"price_cents,omitempty"`
	Email            string    `json:"email,omitempty"`
	ConfirmationCode string    `json:"confirmation_code,omitempty"`
	BookedAt         time.Time `json:"booked_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
	log    *zap.Logger
}

func NewProducer(brokers []string, log *zap.Logger) *Producer {
	if log == nil {
		log = zap.NewNop()
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: writer, log: log}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	p.log.Debug("published event", zap.String("topic", topic), zap.String("key", key))
	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
