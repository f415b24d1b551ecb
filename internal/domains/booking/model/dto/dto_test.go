package dto_test

import (
	"testing"
	"time"

	"parking/internal/domains/booking/model"
	"parking/internal/domains/booking/model/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingResponse_FromModel(t *testing.T) {
	requested := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("pending booking has no approval, release or cost", func(t *testing.T) {
		var res dto.BookingResponse
		res.FromModel(model.Booking{ID: "b1", Status: model.StatusPending, RequestedAt: requested})

		assert.Equal(t, "b1", res.ID)
		assert.NotEmpty(t, res.RequestedAt)
		assert.Nil(t, res.ApprovedAt)
		assert.Nil(t, res.ReleasedAt)
		assert.Nil(t, res.Cost)
	})

	t.Run("completed booking carries cost", func(t *testing.T) {
		approved := requested.Add(time.Minute)
		released := approved.Add(90 * time.Minute)

		var res dto.BookingResponse
		res.FromModel(model.Booking{
			ID:          "b1",
			Status:      model.StatusCompleted,
			RequestedAt: requested,
			ApprovedAt:  &approved,
			ReleasedAt:  &released,
			Cost:        decimal.NewNullDecimal(decimal.NewFromInt(4)),
		})

		require.NotNil(t, res.ApprovedAt)
		require.NotNil(t, res.ReleasedAt)
		require.NotNil(t, res.Cost)
		assert.True(t, decimal.NewFromInt(4).Equal(*res.Cost))
	})
}

func TestGetBookingsResponse_FromDetails(t *testing.T) {
	details := []model.BookingDetail{
		{Booking: model.Booking{ID: "b1"}, LicensePlate: "AAA1", SpotLabel: "CEN-1", AreaName: "Central"},
		{Booking: model.Booking{ID: "b2"}, LicensePlate: "BBB2", SpotLabel: "CEN-2", AreaName: "Central"},
	}

	var res dto.GetBookingsResponse
	res.FromDetails(details, 2, 10)

	assert.Equal(t, 1, res.TotalPage)
	assert.Len(t, res.Bookings, 2)
	assert.Equal(t, "CEN-2", res.Bookings[1].SpotLabel)
	assert.Equal(t, "AAA1", res.Bookings[0].LicensePlate)
}
