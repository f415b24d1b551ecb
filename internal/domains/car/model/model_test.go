package model_test

import (
	"testing"

	"parking/internal/domains/car/model"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "ka01ab1234", want: "KA01AB1234"},
		{in: "  mh 12 x 99 ", want: "MH 12 X 99"},
		{in: "ABC", want: "ABC"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, model.NormalizePlate(tt.in))
		})
	}
}

func TestValidateDeletion(t *testing.T) {
	assert.NoError(t, model.ValidateDeletion(false))
	assert.ErrorIs(t, model.ValidateDeletion(true), model.ErrCarInUse)
}
