package model_test

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingModel "parking/internal/domains/booking/model"
	"parking/internal/domains/report/model"
)

func TestCountsByStatus(t *testing.T) {
	counts, total := model.CountsByStatus([]model.StatusCount{
		{Status: "available", Total: 3},
		{Status: "occupied", Total: 2},
	})

	assert.Equal(t, 5, total)
	assert.Equal(t, 3, counts["available"])
	assert.Equal(t, 2, counts["occupied"])
	assert.Zero(t, counts["reserved"])
}

func TestAreaOccupancy_Rate(t *testing.T) {
	tests := []struct {
		name      string
		occupancy model.AreaOccupancy
		want      string
	}{
		{name: "empty area", occupancy: model.AreaOccupancy{}, want: "0"},
		{name: "all free", occupancy: model.AreaOccupancy{Total: 4, Available: 4}, want: "0"},
		{name: "one of three used", occupancy: model.AreaOccupancy{Total: 3, Available: 2, Reserved: 1}, want: "33.33"},
		{name: "full", occupancy: model.AreaOccupancy{Total: 2, Occupied: 2}, want: "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.occupancy.Rate().String())
		})
	}
}

func TestHistoryCSV(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	requested := time.Date(2025, 3, 1, 9, 0, 0, 0, berlin)
	released := requested.Add(90 * time.Minute)

	details := []bookingModel.BookingDetail{
		{
			Booking: bookingModel.Booking{
				ID:          "b1",
				Status:      bookingModel.StatusCompleted,
				RequestedAt: requested,
				ApprovedAt:  &requested,
				ReleasedAt:  &released,
				Cost:        decimal.NewNullDecimal(decimal.NewFromInt(4)),
			},
			LicensePlate: "KA01AB1234",
			SpotLabel:    "CEN-1",
			AreaName:     "Central, North",
			UserEmail:    "a@example.com",
		},
		{
			Booking: bookingModel.Booking{
				ID:          "b2",
				Status:      bookingModel.StatusPending,
				RequestedAt: requested,
			},
		},
	}

	data, err := model.HistoryCSV(details)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "booking_id", records[0][0])
	assert.Equal(t, []string{
		"b1", "KA01AB1234", "Central, North", "CEN-1", "a@example.com", "completed",
		"2025-03-01T08:00:00Z", "2025-03-01T08:00:00Z", "2025-03-01T09:30:00Z", "4.00",
	}, records[1])
	assert.Equal(t, "", records[2][7])
	assert.Equal(t, "", records[2][9])
}
