package dto

import (
	"parking/internal/domains/area/model"
	spotDto "parking/internal/domains/spot/model/dto"
	"parking/shared"
	gDto "parking/shared/dto"
	gModel "parking/shared/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateAreaRequest struct {
	Name                string          `json:"name"                 validate:"required,max=100"`
	LocationDescription string          `json:"location_description" validate:"omitempty,max=255"`
	Code                string          `json:"code"                 validate:"required,areacode"`
	SpotCount           int             `json:"spot_count"           validate:"required,min=1"`
	PricePerHour        decimal.Decimal `json:"price_per_hour"       validate:"gt=0"                        swaggertype:"number"`
}

func (c *CreateAreaRequest) ToModel(meta gModel.Metadata) model.Area {
	return model.Area{
		ID:                  uuid.NewString(),
		Name:                c.Name,
		LocationDescription: c.LocationDescription,
		Code:                model.NormalizeCode(c.Code),
		SpotCount:           c.SpotCount,
		PricePerHour:        c.PricePerHour,
		Metadata:            meta,
	}
}

// UpdateAreaRequest only carries the mutable fields; code and spot count are fixed at creation.
type UpdateAreaRequest struct {
	Name                string           `db:"name"                 json:"name"                 validate:"omitempty,max=100"`
	LocationDescription *string          `db:"location_description" json:"location_description" validate:"omitempty,max=255"`
	PricePerHour        *decimal.Decimal `db:"price_per_hour"       json:"price_per_hour"       validate:"omitempty,gt=0" swaggertype:"number"`
}

type AreaResponse struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	LocationDescription string          `json:"location_description"`
	Code                string          `json:"code"`
	SpotCount           int             `json:"spot_count"`
	PricePerHour        decimal.Decimal `json:"price_per_hour" swaggertype:"number"`
	AvailableSpots      int             `json:"available_spots"`
	gDto.Metadata
}

func (r *AreaResponse) FromModel(area model.Area) {
	r.ID = area.ID
	r.Name = area.Name
	r.LocationDescription = area.LocationDescription
	r.Code = area.Code
	r.SpotCount = area.SpotCount
	r.PricePerHour = area.PricePerHour
	r.Metadata.FromModel(area.Metadata)
}

type GetAreasResponse struct {
	Areas     []AreaResponse `json:"areas"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetAreasResponse) FromModels(models []model.Area, available map[string]int, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Areas = make([]AreaResponse, len(models))
	for i, mod := range models {
		r.Areas[i].FromModel(mod)
		r.Areas[i].AvailableSpots = available[mod.ID]
	}
}

type AreaSpotsResponse struct {
	Area      AreaResponse           `json:"area"`
	Spots     []spotDto.SpotResponse `json:"spots"`
	Available int                    `json:"available"`
	Reserved  int                    `json:"reserved"`
	Occupied  int                    `json:"occupied"`
}

// OpenBooking is the booking currently holding a spot, if any.
type OpenBooking struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	LicensePlate string `json:"license_plate"`
	UserEmail    string `json:"user_email"`
	RequestedAt  string `json:"requested_at"`
}

type SpotSearchResponse struct {
	spotDto.SpotResponse
	AreaName string       `json:"area_name"`
	AreaCode string       `json:"area_code"`
	Booking  *OpenBooking `json:"booking,omitempty"`
}
