package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"parking/config"
	"parking/shared/failure"
	"reflect"
	"regexp"

	val "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validate *val.Validate

	areaCodePattern = regexp.MustCompile(`^[A-Za-z]{3}$`)
	platePattern    = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 -]{0,14}$`)
)

func registerAreaCodeValidation(field val.FieldLevel) bool {
	return areaCodePattern.MatchString(field.Field().String())
}

func registerPlateValidation(field val.FieldLevel) bool {
	return platePattern.MatchString(field.Field().String())
}

func registerMaxSpotsValidation(cfg *config.Config) val.Func {
	return func(field val.FieldLevel) bool {
		limit := cfg.Booking.MaxSpotsPerArea
		if limit <= 0 {
			return true
		}

		return field.Field().Int() <= int64(limit)
	}
}

// decimalValue lets numeric tags such as gt=0 apply to decimal.Decimal fields.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()

		return f
	}

	return nil
}

func init() {
	cfg := config.Get()

	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	err := validate.RegisterValidation("areacode", registerAreaCodeValidation)
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("plate", registerPlateValidation)
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("maxspots", registerMaxSpotsValidation(cfg))
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("empty", func(fl val.FieldLevel) bool {
		empty := fl.Field().IsZero()

		return empty
	})

	if err != nil {
		panic(err)
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
