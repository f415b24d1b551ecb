package dto

import (
	"parking/internal/domains/spot/model"
)

type SpotResponse struct {
	ID        string `json:"id"`
	AreaID    string `json:"area_id"`
	Sequence  int    `json:"sequence"`
	Label     string `json:"label"`
	Status    string `json:"status"`
	Available bool   `json:"available"`
}

func (r *SpotResponse) FromModel(spot model.Spot) {
	r.ID = spot.ID
	r.AreaID = spot.AreaID
	r.Sequence = spot.Sequence
	r.Label = spot.Label
	r.Status = spot.Status
	r.Available = spot.IsAvailable()
}

func FromModels(spots []model.Spot) []SpotResponse {
	res := make([]SpotResponse, len(spots))
	for i, spot := range spots {
		res[i].FromModel(spot)
	}

	return res
}
