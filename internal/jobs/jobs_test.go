package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"parking/config"
	bookingMocks "parking/internal/domains/booking/service/mocks"
	"parking/internal/jobs"
	"parking/shared/timezone"
)

func TestScheduler_ExpirePending(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		minutes   int
		setupMock func(m *bookingMocks.MockBooking)
		want      int
		wantErr   bool
	}{
		{
			name:      "expiry disabled",
			minutes:   0,
			setupMock: func(*bookingMocks.MockBooking) {},
		},
		{
			name:    "cutoff is now minus the expiry",
			minutes: 120,
			setupMock: func(m *bookingMocks.MockBooking) {
				m.EXPECT().ExpirePending(gomock.Any(), now.Add(-2*time.Hour)).Return(3, nil)
			},
			want: 3,
		},
		{
			name:    "engine failure",
			minutes: 30,
			setupMock: func(m *bookingMocks.MockBooking) {
				m.EXPECT().ExpirePending(gomock.Any(), gomock.Any()).Return(0, errors.New("boom"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			bookings := bookingMocks.NewMockBooking(ctrl)
			tt.setupMock(bookings)

			cfg := &config.Config{}
			cfg.Booking.PendingExpiryMinutes = tt.minutes

			scheduler, err := jobs.New(cfg, bookings, timezone.Fixed(now))
			require.NoError(t, err)

			got, err := scheduler.ExpirePending(context.Background())

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_InvalidSchedule(t *testing.T) {
	cfg := &config.Config{}
	cfg.Job.Enable = true
	cfg.Job.ExpirePendingSchedule = "not a schedule"

	_, err := jobs.New(cfg, nil, timezone.NewClock())

	assert.Error(t, err)
}

func TestScheduler_StartStop(t *testing.T) {
	cfg := &config.Config{}
	cfg.Job.Enable = true
	cfg.Job.ExpirePendingSchedule = "@every 1h"

	scheduler, err := jobs.New(cfg, nil, timezone.NewClock())
	require.NoError(t, err)

	scheduler.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	scheduler.Stop(ctx)
}
