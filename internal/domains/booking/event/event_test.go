package event_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"parking/config"
	"parking/infras/kafka"
	kafkaMocks "parking/infras/kafka/mocks"
	"parking/infras/otel/mocks"
	"parking/internal/domains/booking/event"
	"parking/internal/domains/booking/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestNewBookingEvent(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.FixedZone("IST", 19800))
	booking := model.Booking{ID: "b1", UserID: "u1", CarID: "c1", SpotID: "s1", Status: model.StatusCompleted}

	evt := event.NewBookingEvent(event.TypeReleased, booking, now)
	assert.Nil(t, evt.Cost)
	assert.Equal(t, time.UTC, evt.OccurredAt.Location())

	booking.Cost = decimal.NewNullDecimal(decimal.NewFromInt(6))
	evt = event.NewBookingEvent(event.TypeReleased, booking, now)

	require.NotNil(t, evt.Cost)
	assert.Equal(t, "6", evt.Cost.String())
	assert.Equal(t, "b1", evt.BookingID)
	assert.Equal(t, model.StatusCompleted, evt.Status)
}

func TestPublisher_Publish(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Topic.BookingEvents = "booking-events"

	evt := event.BookingEvent{Type: event.TypeRequested, BookingID: "b1"}

	tests := []struct {
		name      string
		events    []event.BookingEvent
		setupMock func(client *kafkaMocks.MockClient)
	}{
		{
			name:      "nothing to send",
			setupMock: func(*kafkaMocks.MockClient) {},
		},
		{
			name:   "sends keyed by booking id",
			events: []event.BookingEvent{evt},
			setupMock: func(client *kafkaMocks.MockClient) {
				client.EXPECT().
					SendMessages(gomock.Any(), "booking-events", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
						require.Len(t, messages, 1)
						assert.Equal(t, "b1", messages[0].Key)

						return nil
					})
			},
		},
		{
			name:   "send failure is swallowed",
			events: []event.BookingEvent{evt},
			setupMock: func(client *kafkaMocks.MockClient) {
				client.EXPECT().
					SendMessages(gomock.Any(), "booking-events", gomock.Any()).
					Return(errors.New("broker down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := kafkaMocks.NewMockClient(ctrl)
			tt.setupMock(client)

			publisher := event.NewPublisher(client, cfg, mocks.NewOtel())

			assert.NotPanics(t, func() {
				publisher.Publish(context.Background(), tt.events...)
			})
		})
	}
}
