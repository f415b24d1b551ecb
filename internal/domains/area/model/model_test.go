package model_test

import (
	"testing"

	"parking/internal/domains/area/model"
	spotModel "parking/internal/domains/spot/model"
	gModel "parking/shared/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "ABC", model.NormalizeCode(" abc "))
	assert.Equal(t, "XYZ", model.NormalizeCode("XYZ"))
}

func TestArea_Validate(t *testing.T) {
	valid := model.Area{Code: "ABC", SpotCount: 10, PricePerHour: decimal.NewFromInt(2)}

	tests := []struct {
		name    string
		modify  func(a *model.Area)
		wantErr error
	}{
		{name: "valid", modify: func(*model.Area) {}},
		{name: "short code", modify: func(a *model.Area) { a.Code = "AB" }, wantErr: model.ErrInvalidCode},
		{name: "digit in code", modify: func(a *model.Area) { a.Code = "AB1" }, wantErr: model.ErrInvalidCode},
		{name: "zero price", modify: func(a *model.Area) { a.PricePerHour = decimal.Zero }, wantErr: model.ErrInvalidPrice},
		{name: "negative price", modify: func(a *model.Area) { a.PricePerHour = decimal.NewFromInt(-1) }, wantErr: model.ErrInvalidPrice},
		{name: "no spots", modify: func(a *model.Area) { a.SpotCount = 0 }, wantErr: model.ErrSpotCountSize},
		{name: "too many spots", modify: func(a *model.Area) { a.SpotCount = 1001 }, wantErr: model.ErrSpotCountSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			area := valid
			tt.modify(&area)

			err := area.Validate(1000)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestArea_BuildSpots(t *testing.T) {
	area := model.Area{ID: "area-1", Code: "ABC", SpotCount: 3}
	meta := gModel.Metadata{CreatedBy: "admin", ModifiedBy: "admin"}

	spots := area.BuildSpots(meta)

	assert.Len(t, spots, 3)

	for i, spot := range spots {
		assert.NotEmpty(t, spot.ID)
		assert.Equal(t, "area-1", spot.AreaID)
		assert.Equal(t, i+1, spot.Sequence)
		assert.Equal(t, spotModel.StatusAvailable, spot.Status)
		assert.Equal(t, "admin", spot.CreatedBy)
	}

	assert.Equal(t, "ABC-1", spots[0].Label)
	assert.Equal(t, "ABC-3", spots[2].Label)
}

func TestValidateDeletion(t *testing.T) {
	tests := []struct {
		name    string
		spots   []spotModel.Spot
		wantErr bool
	}{
		{name: "no spots", spots: nil},
		{
			name:  "all available",
			spots: []spotModel.Spot{{Status: spotModel.StatusAvailable}, {Status: spotModel.StatusAvailable}},
		},
		{
			name:    "one reserved",
			spots:   []spotModel.Spot{{Status: spotModel.StatusAvailable}, {Status: spotModel.StatusReserved}},
			wantErr: true,
		},
		{
			name:    "one occupied",
			spots:   []spotModel.Spot{{Status: spotModel.StatusOccupied}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := model.ValidateDeletion(tt.spots)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrAreaInUse)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCountOccupancy(t *testing.T) {
	occ := model.CountOccupancy([]spotModel.Spot{
		{Status: spotModel.StatusAvailable},
		{Status: spotModel.StatusAvailable},
		{Status: spotModel.StatusReserved},
		{Status: spotModel.StatusOccupied},
	})

	assert.Equal(t, model.Occupancy{Total: 4, Available: 2, Reserved: 1, Occupied: 1}, occ)
}
