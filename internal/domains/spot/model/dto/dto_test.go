package dto_test

import (
	"testing"

	"parking/internal/domains/spot/model"
	"parking/internal/domains/spot/model/dto"

	"github.com/stretchr/testify/assert"
)

func TestFromModels(t *testing.T) {
	spots := []model.Spot{
		{ID: "s1", AreaID: "a1", Sequence: 1, Label: "ABC-1", Status: model.StatusAvailable},
		{ID: "s2", AreaID: "a1", Sequence: 2, Label: "ABC-2", Status: model.StatusOccupied},
	}

	res := dto.FromModels(spots)

	assert.Len(t, res, 2)
	assert.Equal(t, "ABC-1", res[0].Label)
	assert.True(t, res[0].Available)
	assert.Equal(t, model.StatusOccupied, res[1].Status)
	assert.False(t, res[1].Available)
}
