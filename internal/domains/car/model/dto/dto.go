package dto

import (
	"parking/internal/domains/car/model"
	"parking/shared"
	gDto "parking/shared/dto"
	gModel "parking/shared/model"

	"github.com/google/uuid"
)

type CreateCarRequest struct {
	LicensePlate string `json:"license_plate" validate:"required,plate"`
	Make         string `json:"make"          validate:"omitempty,max=50"`
	Model        string `json:"model"         validate:"omitempty,max=50"`
	Color        string `json:"color"         validate:"omitempty,max=30"`
}

func (c *CreateCarRequest) ToModel(userID string, meta gModel.Metadata) model.Car {
	return model.Car{
		ID:           uuid.NewString(),
		LicensePlate: model.NormalizePlate(c.LicensePlate),
		Make:         c.Make,
		Model:        c.Model,
		Color:        c.Color,
		UserID:       userID,
		Metadata:     meta,
	}
}

type CarResponse struct {
	ID           string `json:"id"`
	LicensePlate string `json:"license_plate"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Color        string `json:"color"`
	UserID       string `json:"user_id"`
	OwnerEmail   string `json:"owner_email,omitempty"`
	gDto.Metadata
}

func (r *CarResponse) FromModel(car model.Car) {
	r.ID = car.ID
	r.LicensePlate = car.LicensePlate
	r.Make = car.Make
	r.Model = car.Model
	r.Color = car.Color
	r.UserID = car.UserID
	r.Metadata.FromModel(car.Metadata)
}

type GetCarsResponse struct {
	Cars      []CarResponse `json:"cars"`
	TotalPage int           `json:"total_page"`
	TotalData int           `json:"total_data"`
}

func (r *GetCarsResponse) FromModels(models []model.CarDetail, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Cars = make([]CarResponse, len(models))
	for i, mod := range models {
		r.Cars[i].FromModel(mod.Car)
		r.Cars[i].OwnerEmail = mod.OwnerEmail
	}
}
