package model

import (
	"net/http"
	"strings"

	"parking/shared/failure"
	"parking/shared/model"
)

const (
	TableName  = "cars"
	EntityName = "car"

	FieldID           = "id"
	FieldLicensePlate = "license_plate"
	FieldMake         = "make"
	FieldModel        = "model"
	FieldColor        = "color"
	FieldUserID       = "user_id"

	ConstraintLicensePlate = "cars_license_plate_key"
)

var (
	ErrPlateTaken  = &failure.Failure{Code: http.StatusConflict, Message: "license plate already registered"}
	ErrCarInUse    = &failure.Failure{Code: http.StatusConflict, Message: "car has a pending or active booking"}
	ErrNotCarOwner = &failure.Failure{Code: http.StatusForbidden, Message: "car does not belong to you"}
)

type Car struct {
	ID           string `db:"id"`
	LicensePlate string `db:"license_plate"`
	Make         string `db:"make"`
	Model        string `db:"model"`
	Color        string `db:"color"`
	UserID       string `db:"user_id"`
	model.Metadata
}

// CarDetail adds the owner's email to a car.
type CarDetail struct {
	Car
	OwnerEmail string `db:"owner_email" table:"users" column:"email"`
}

func (CarDetail) GetJoinQuery() string {
	return "JOIN users ON users.id = cars.user_id"
}

// NormalizePlate trims and upper-cases a license plate so lookups are exact.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// ValidateDeletion refuses to delete a car referenced by a pending or active booking.
func ValidateDeletion(hasOpenBooking bool) error {
	if hasOpenBooking {
		return ErrCarInUse
	}

	return nil
}
