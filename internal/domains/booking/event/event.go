// Package event publishes booking lifecycle changes to Kafka.
package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=../mocks/event_mock.go -package=mocks

import (
	"context"
	"time"

	"parking/config"
	"parking/infras/kafka"
	"parking/infras/otel"
	"parking/internal/domains/booking/model"
	"parking/shared/constant"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	TypeRequested = "booking.requested"
	TypeApproved  = "booking.approved"
	TypeRejected  = "booking.rejected"
	TypeCancelled = "booking.cancelled"
	TypeReleased  = "booking.released"
	TypeWalkIn    = "booking.walk_in"
	TypeExpired   = "booking.expired"
)

type BookingEvent struct {
	Type       string           `json:"type"`
	BookingID  string           `json:"booking_id"`
	UserID     string           `json:"user_id"`
	CarID      string           `json:"car_id"`
	SpotID     string           `json:"spot_id"`
	Status     string           `json:"status"`
	Cost       *decimal.Decimal `json:"cost,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func NewBookingEvent(eventType string, booking model.Booking, occurredAt time.Time) BookingEvent {
	evt := BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		CarID:      booking.CarID,
		SpotID:     booking.SpotID,
		Status:     booking.Status,
		OccurredAt: occurredAt.UTC(),
	}

	if booking.Cost.Valid {
		cost := booking.Cost.Decimal
		evt.Cost = &cost
	}

	return evt
}

type Publisher interface {
	Publish(ctx context.Context, events ...BookingEvent)
}

type publisherImpl struct {
	client kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

func NewPublisher(client kafka.Client, cfg *config.Config, otel otel.Otel) Publisher {
	return &publisherImpl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

// Publish sends events keyed by booking id. Failures are logged only; the
// booking change is already committed.
func (p *publisherImpl) Publish(ctx context.Context, events ...BookingEvent) {
	if len(events) == 0 {
		return
	}

	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".booking.Publish")
	defer scope.End()

	messages := make([]kafka.Message, len(events))
	for i, evt := range events {
		messages[i] = kafka.Message{Key: evt.BookingID, Value: evt}
	}

	if err := p.client.SendMessages(ctx, p.cfg.Kafka.Topic.BookingEvents, messages...); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int("count", len(events)).Msg("failed to publish booking events")
	}
}
