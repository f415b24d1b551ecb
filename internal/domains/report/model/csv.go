package model

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	bookingModel "parking/internal/domains/booking/model"
)

var historyHeader = []string{
	"booking_id", "license_plate", "area", "spot", "user", "status",
	"requested_at", "approved_at", "released_at", "cost",
}

func formatInstant(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}

// HistoryCSV renders the parking history, one booking per row, instants in UTC.
func HistoryCSV(details []bookingModel.BookingDetail) ([]byte, error) {
	var buf bytes.Buffer

	writer := csv.NewWriter(&buf)

	if err := writer.Write(historyHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, detail := range details {
		cost := ""
		if detail.Cost.Valid {
			cost = detail.Cost.Decimal.StringFixed(2)
		}

		requestedAt := detail.RequestedAt

		row := []string{
			detail.ID,
			detail.LicensePlate,
			detail.AreaName,
			detail.SpotLabel,
			detail.UserEmail,
			detail.Status,
			formatInstant(&requestedAt),
			formatInstant(detail.ApprovedAt),
			formatInstant(detail.ReleasedAt),
			cost,
		}

		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}
