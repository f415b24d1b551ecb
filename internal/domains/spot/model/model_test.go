package model_test

import (
	"testing"

	"parking/internal/domains/spot/model"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	assert.Equal(t, "ABC-1", model.Label("ABC", 1))
	assert.Equal(t, "XYZ-1000", model.Label("XYZ", 1000))
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		label    string
		code     string
		sequence int
		ok       bool
	}{
		{label: "ABC-1", code: "ABC", sequence: 1, ok: true},
		{label: "XYZ-250", code: "XYZ", sequence: 250, ok: true},
		{label: "abc-1", ok: false},
		{label: "ABC-0", ok: false},
		{label: "ABCD-1", ok: false},
		{label: "ABC1", ok: false},
		{label: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			code, sequence, ok := model.ParseLabel(tt.label)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.sequence, sequence)
		})
	}
}

func TestAllAvailable(t *testing.T) {
	assert.True(t, model.AllAvailable(nil))
	assert.True(t, model.AllAvailable([]model.Spot{
		{Status: model.StatusAvailable},
		{Status: model.StatusAvailable},
	}))
	assert.False(t, model.AllAvailable([]model.Spot{
		{Status: model.StatusAvailable},
		{Status: model.StatusReserved},
	}))
	assert.False(t, model.AllAvailable([]model.Spot{
		{Status: model.StatusOccupied},
	}))
}

func TestFirstAvailable(t *testing.T) {
	spots := []model.Spot{
		{ID: "s10", Sequence: 10, Status: model.StatusAvailable},
		{ID: "s1", Sequence: 1, Status: model.StatusOccupied},
		{ID: "s2", Sequence: 2, Status: model.StatusAvailable},
		{ID: "s3", Sequence: 3, Status: model.StatusReserved},
	}

	spot, ok := model.FirstAvailable(spots)
	assert.True(t, ok)
	assert.Equal(t, "s2", spot.ID)

	_, ok = model.FirstAvailable([]model.Spot{{Sequence: 1, Status: model.StatusOccupied}})
	assert.False(t, ok)

	_, ok = model.FirstAvailable(nil)
	assert.False(t, ok)
}

func TestSortBySequence(t *testing.T) {
	spots := []model.Spot{
		{Label: "ABC-10", Sequence: 10},
		{Label: "ABC-2", Sequence: 2},
		{Label: "ABC-1", Sequence: 1},
	}

	model.SortBySequence(spots)

	assert.Equal(t, []string{"ABC-1", "ABC-2", "ABC-10"}, []string{spots[0].Label, spots[1].Label, spots[2].Label})
}
