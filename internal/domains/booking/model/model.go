package model

import (
	"net/http"
	"time"

	"parking/shared/failure"
	"parking/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID          = "id"
	FieldUserID      = "user_id"
	FieldCarID       = "car_id"
	FieldSpotID      = "spot_id"
	FieldStatus      = "status"
	FieldRequestedAt = "requested_at"
	FieldApprovedAt  = "approved_at"
	FieldReleasedAt  = "released_at"
	FieldCost        = "cost"
)

const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
)

// OpenStatuses are the statuses that hold a spot and block a car.
var OpenStatuses = []string{StatusPending, StatusActive}

var (
	ErrNoAvailableSpot        = &failure.Failure{Code: http.StatusConflict, Message: "no available spot in this parking area"}
	ErrDuplicateActiveBooking = &failure.Failure{Code: http.StatusConflict, Message: "car already has a pending or active booking"}
	ErrInvalidStateTransition = &failure.Failure{Code: http.StatusConflict, Message: "booking cannot move to the requested status"}
	ErrNotOwner               = &failure.Failure{Code: http.StatusForbidden, Message: "booking does not belong to you"}
)

type Booking struct {
	ID          string              `db:"id"`
	UserID      string              `db:"user_id"`
	CarID       string              `db:"car_id"`
	SpotID      string              `db:"spot_id"`
	Status      string              `db:"status"`
	RequestedAt time.Time           `db:"requested_at"`
	ApprovedAt  *time.Time          `db:"approved_at"`
	ReleasedAt  *time.Time          `db:"released_at"`
	Cost        decimal.NullDecimal `db:"cost"`
	model.Metadata
}

// IsOpen reports whether the booking still holds its spot.
func (b Booking) IsOpen() bool {
	return b.Status == StatusPending || b.Status == StatusActive
}

// StartedAt is the instant billing starts: approval, or the request for walk-ins
// stored without an approval time.
func (b Booking) StartedAt() time.Time {
	if b.ApprovedAt != nil {
		return *b.ApprovedAt
	}

	return b.RequestedAt
}

// BookingDetail is the booking read model joined with car, spot, area and user.
type BookingDetail struct {
	Booking
	LicensePlate string          `db:"license_plate"  table:"cars"          column:"license_plate"`
	SpotLabel    string          `db:"spot_label"     table:"parking_spots" column:"label"`
	AreaID       string          `db:"area_id"        table:"parking_spots" column:"area_id"`
	AreaName     string          `db:"area_name"      table:"parking_areas" column:"name"`
	PricePerHour decimal.Decimal `db:"price_per_hour" table:"parking_areas" column:"price_per_hour"`
	UserEmail    string          `db:"user_email"     table:"users"         column:"email"`
}

func (BookingDetail) GetJoinQuery() string {
	return "JOIN cars ON cars.id = bookings.car_id " +
		"JOIN parking_spots ON parking_spots.id = bookings.spot_id " +
		"JOIN parking_areas ON parking_areas.id = parking_spots.area_id " +
		"JOIN users ON users.id = bookings.user_id"
}
