package dto

import (
	bookingModel "parking/internal/domains/booking/model"
	bookingDto "parking/internal/domains/booking/model/dto"
	"parking/internal/domains/report/model"
	spotModel "parking/internal/domains/spot/model"

	"github.com/shopspring/decimal"
)

type SpotSummary struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Reserved  int `json:"reserved"`
	Occupied  int `json:"occupied"`
}

type BookingSummary struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Rejected  int `json:"rejected"`
}

type SummaryResponse struct {
	Areas    int             `json:"areas"`
	Spots    SpotSummary     `json:"spots"`
	Bookings BookingSummary  `json:"bookings"`
	Revenue  decimal.Decimal `json:"revenue" swaggertype:"number"`
}

func (r *SummaryResponse) FromCounts(areas int, spots, bookings []model.StatusCount, revenue decimal.Decimal) {
	r.Areas = areas
	r.Revenue = revenue

	spotCounts, spotTotal := model.CountsByStatus(spots)
	r.Spots = SpotSummary{
		Total:     spotTotal,
		Available: spotCounts[spotModel.StatusAvailable],
		Reserved:  spotCounts[spotModel.StatusReserved],
		Occupied:  spotCounts[spotModel.StatusOccupied],
	}

	bookingCounts, bookingTotal := model.CountsByStatus(bookings)
	r.Bookings = BookingSummary{
		Total:     bookingTotal,
		Pending:   bookingCounts[bookingModel.StatusPending],
		Active:    bookingCounts[bookingModel.StatusActive],
		Completed: bookingCounts[bookingModel.StatusCompleted],
		Rejected:  bookingCounts[bookingModel.StatusRejected],
	}
}

type AreaOccupancyResponse struct {
	AreaID    string          `json:"area_id"`
	AreaName  string          `json:"area_name"`
	Code      string          `json:"code"`
	Total     int             `json:"total"`
	Available int             `json:"available"`
	Reserved  int             `json:"reserved"`
	Occupied  int             `json:"occupied"`
	Rate      decimal.Decimal `json:"occupancy_rate" swaggertype:"number"`
}

type OccupancyResponse struct {
	Areas []AreaOccupancyResponse `json:"areas"`
}

func (r *OccupancyResponse) FromModels(rows []model.AreaOccupancy) {
	r.Areas = make([]AreaOccupancyResponse, len(rows))

	for i, row := range rows {
		r.Areas[i] = AreaOccupancyResponse{
			AreaID:    row.AreaID,
			AreaName:  row.AreaName,
			Code:      row.Code,
			Total:     row.Total,
			Available: row.Available,
			Reserved:  row.Reserved,
			Occupied:  row.Occupied,
			Rate:      row.Rate(),
		}
	}
}

type AreaRevenueResponse struct {
	AreaID    string          `json:"area_id"`
	AreaName  string          `json:"area_name"`
	Completed int             `json:"completed"`
	Revenue   decimal.Decimal `json:"revenue" swaggertype:"number"`
}

type RevenueResponse struct {
	Areas []AreaRevenueResponse `json:"areas"`
	Total decimal.Decimal       `json:"total" swaggertype:"number"`
}

func (r *RevenueResponse) FromModels(rows []model.AreaRevenue) {
	r.Areas = make([]AreaRevenueResponse, len(rows))
	r.Total = decimal.Zero

	for i, row := range rows {
		r.Areas[i] = AreaRevenueResponse(row)
		r.Total = r.Total.Add(row.Revenue)
	}
}

// UserSummaryResponse is a user's totals plus their most recent bookings.
type UserSummaryResponse struct {
	UserID     string                       `json:"user_id"`
	Email      string                       `json:"email"`
	FullName   *string                      `json:"full_name,omitempty"`
	Bookings   int                          `json:"bookings"`
	Completed  int                          `json:"completed"`
	TotalSpent decimal.Decimal              `json:"total_spent" swaggertype:"number"`
	Recent     []bookingDto.BookingResponse `json:"recent"`
}

func (r *UserSummaryResponse) FromModel(stats model.UserStats, recent []bookingModel.BookingDetail) {
	r.UserID = stats.UserID
	r.Email = stats.Email
	r.FullName = stats.FullName
	r.Bookings = stats.Bookings
	r.Completed = stats.Completed
	r.TotalSpent = stats.TotalSpent
	r.Recent = responses(recent)
}

type SpendResponse struct {
	TotalSpent decimal.Decimal              `json:"total_spent" swaggertype:"number"`
	Bookings   []bookingDto.BookingResponse `json:"bookings"`
}

func (r *SpendResponse) FromModel(stats model.UserStats, completed []bookingModel.BookingDetail) {
	r.TotalSpent = stats.TotalSpent
	r.Bookings = responses(completed)
}

type ExportResponse struct {
	URL  string `json:"url"`
	Rows int    `json:"rows"`
}

type DeleteExportRequest struct {
	URL string `json:"url" validate:"required,url"`
}

func responses(details []bookingModel.BookingDetail) []bookingDto.BookingResponse {
	res := make([]bookingDto.BookingResponse, len(details))
	for i, detail := range details {
		res[i].FromDetail(detail)
	}

	return res
}
