package dto

import (
	"time"

	"parking/internal/domains/booking/model"
	"parking/shared"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	"parking/shared/timezone"

	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	CarID  string `json:"car_id"  validate:"required,uuid"`
	AreaID string `json:"area_id" validate:"required,uuid"`
}

type WalkInRequest struct {
	LicensePlate string `json:"license_plate" validate:"required,plate"`
	AreaID       string `json:"area_id"       validate:"required,uuid"`
}

type BookingResponse struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	CarID        string           `json:"car_id"`
	SpotID       string           `json:"spot_id"`
	Status       string           `json:"status"`
	RequestedAt  string           `json:"requested_at"`
	ApprovedAt   *string          `json:"approved_at,omitempty"`
	ReleasedAt   *string          `json:"released_at,omitempty"`
	Cost         *decimal.Decimal `json:"cost,omitempty" swaggertype:"number"`
	LicensePlate string           `json:"license_plate,omitempty"`
	SpotLabel    string           `json:"spot_label,omitempty"`
	AreaID       string           `json:"area_id,omitempty"`
	AreaName     string           `json:"area_name,omitempty"`
	UserEmail    string           `json:"user_email,omitempty"`
	gDto.Metadata
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, constant.DateFormat)

	return &formatted
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.UserID = booking.UserID
	r.CarID = booking.CarID
	r.SpotID = booking.SpotID
	r.Status = booking.Status
	r.RequestedAt = timezone.Format(booking.RequestedAt, constant.DateFormat)
	r.ApprovedAt = formatTime(booking.ApprovedAt)
	r.ReleasedAt = formatTime(booking.ReleasedAt)

	if booking.Cost.Valid {
		cost := booking.Cost.Decimal
		r.Cost = &cost
	}

	r.Metadata.FromModel(booking.Metadata)
}

func (r *BookingResponse) FromDetail(detail model.BookingDetail) {
	r.FromModel(detail.Booking)
	r.LicensePlate = detail.LicensePlate
	r.SpotLabel = detail.SpotLabel
	r.AreaID = detail.AreaID
	r.AreaName = detail.AreaName
	r.UserEmail = detail.UserEmail
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromDetails(details []model.BookingDetail, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(details))
	for i, detail := range details {
		r.Bookings[i].FromDetail(detail)
	}
}

type ExpireResponse struct {
	Expired int `json:"expired"`
}
