package dto_test

import (
	"testing"

	"parking/internal/domains/car/model"
	"parking/internal/domains/car/model/dto"
	gModel "parking/shared/model"
	"parking/shared/timezone"

	"github.com/stretchr/testify/assert"
)

func TestCreateCarRequest_ToModel(t *testing.T) {
	req := dto.CreateCarRequest{LicensePlate: " ka01ab1234 ", Make: "Maruti", Model: "Swift", Color: "Red"}
	meta := gModel.NewMetadata(timezone.Now(), "user-1")

	car := req.ToModel("user-1", meta)

	assert.NotEmpty(t, car.ID)
	assert.Equal(t, "KA01AB1234", car.LicensePlate)
	assert.Equal(t, "user-1", car.UserID)
	assert.Equal(t, "user-1", car.CreatedBy)
}

func TestGetCarsResponse_FromModels(t *testing.T) {
	cars := []model.CarDetail{
		{Car: model.Car{ID: "c1", LicensePlate: "AAA1"}, OwnerEmail: "a@example.com"},
		{Car: model.Car{ID: "c2", LicensePlate: "BBB2"}, OwnerEmail: "b@example.com"},
	}

	var res dto.GetCarsResponse
	res.FromModels(cars, 12, 10)

	assert.Equal(t, 12, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Len(t, res.Cars, 2)
	assert.Equal(t, "b@example.com", res.Cars[1].OwnerEmail)
}
