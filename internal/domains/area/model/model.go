package model

import (
	"net/http"
	"strings"

	spotModel "parking/internal/domains/spot/model"
	"parking/shared/failure"
	"parking/shared/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TableName  = "parking_areas"
	EntityName = "area"

	FieldID                  = "id"
	FieldName                = "name"
	FieldLocationDescription = "location_description"
	FieldCode                = "code"
	FieldSpotCount           = "spot_count"
	FieldPricePerHour        = "price_per_hour"
)

var (
	ErrAreaInUse     = &failure.Failure{Code: http.StatusConflict, Message: "parking area has reserved or occupied spots"}
	ErrCodeTaken     = &failure.Failure{Code: http.StatusConflict, Message: "area code already in use"}
	ErrNameTaken     = &failure.Failure{Code: http.StatusConflict, Message: "area name already in use"}
	ErrInvalidPrice  = &failure.Failure{Code: http.StatusBadRequest, Message: "price per hour must be positive"}
	ErrInvalidCode   = &failure.Failure{Code: http.StatusBadRequest, Message: "area code must be exactly 3 letters"}
	ErrSpotCountSize = &failure.Failure{Code: http.StatusBadRequest, Message: "number of spots out of range"}
)

type Area struct {
	ID                  string          `db:"id"`
	Name                string          `db:"name"`
	LocationDescription string          `db:"location_description"`
	Code                string          `db:"code"`
	SpotCount           int             `db:"spot_count"`
	PricePerHour        decimal.Decimal `db:"price_per_hour"`
	model.Metadata
}

// NormalizeCode trims and upper-cases an area code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCode reports whether code is exactly three ASCII letters.
func ValidCode(code string) bool {
	if len(code) != 3 {
		return false
	}

	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}

	return true
}

// Validate checks the invariants of a new area before it is stored.
func (a Area) Validate(maxSpots int) error {
	if !ValidCode(a.Code) {
		return ErrInvalidCode
	}

	if !a.PricePerHour.IsPositive() {
		return ErrInvalidPrice
	}

	if a.SpotCount < 1 || (maxSpots > 0 && a.SpotCount > maxSpots) {
		return ErrSpotCountSize
	}

	return nil
}

// BuildSpots returns the spots CODE-1..CODE-n of the area, all available.
func (a Area) BuildSpots(meta model.Metadata) []spotModel.Spot {
	spots := make([]spotModel.Spot, a.SpotCount)

	for i := range spots {
		sequence := i + 1
		spots[i] = spotModel.Spot{
			ID:       uuid.NewString(),
			AreaID:   a.ID,
			Sequence: sequence,
			Label:    spotModel.Label(a.Code, sequence),
			Status:   spotModel.StatusAvailable,
			Metadata: meta,
		}
	}

	return spots
}

// ValidateDeletion refuses to delete an area while any of its spots is in use.
func ValidateDeletion(spots []spotModel.Spot) error {
	if !spotModel.AllAvailable(spots) {
		return ErrAreaInUse
	}

	return nil
}

// Occupancy summarises the spots of an area.
type Occupancy struct {
	Total     int
	Available int
	Reserved  int
	Occupied  int
}

func CountOccupancy(spots []spotModel.Spot) Occupancy {
	occ := Occupancy{Total: len(spots)}

	for _, spot := range spots {
		switch spot.Status {
		case spotModel.StatusAvailable:
			occ.Available++
		case spotModel.StatusReserved:
			occ.Reserved++
		case spotModel.StatusOccupied:
			occ.Occupied++
		}
	}

	return occ
}
