package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	areaModel "parking/internal/domains/area/model"
	bookingModel "parking/internal/domains/booking/model"
	carModel "parking/internal/domains/car/model"
	"parking/shared/failure"
)

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "no spot left", err: bookingModel.ErrNoAvailableSpot, want: http.StatusConflict},
		{name: "car already booked", err: bookingModel.ErrDuplicateActiveBooking, want: http.StatusConflict},
		{name: "illegal transition", err: bookingModel.ErrInvalidStateTransition, want: http.StatusConflict},
		{name: "someone else's booking", err: bookingModel.ErrNotOwner, want: http.StatusForbidden},
		{name: "area still in use", err: areaModel.ErrAreaInUse, want: http.StatusConflict},
		{name: "bad area code", err: areaModel.ErrInvalidCode, want: http.StatusBadRequest},
		{name: "car in use", err: carModel.ErrCarInUse, want: http.StatusConflict},
		{name: "missing role", err: failure.ForbiddenError, want: http.StatusForbidden},
		{name: "unknown booking", err: failure.NotFound("booking not found"), want: http.StatusNotFound},
		{name: "no token", err: failure.Unauthorized("unauthorized"), want: http.StatusUnauthorized},
		{
			name: "wrapped engine failure keeps its code",
			err:  fmt.Errorf("failed to request booking: %w", bookingModel.ErrNoAvailableSpot),
			want: http.StatusConflict,
		},
		{name: "plain error is internal", err: errors.New("connection reset"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failure.GetCode(tt.err))
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
	}{
		{
			name:        "bad request from error",
			err:         failure.BadRequest(errors.New("failed to decode request body")),
			wantCode:    http.StatusBadRequest,
			wantMessage: "failed to decode request body",
		},
		{
			name:        "bad request from string",
			err:         failure.BadRequestFromString("update request cannot be empty"),
			wantCode:    http.StatusBadRequest,
			wantMessage: "update request cannot be empty",
		},
		{
			name:        "conflict",
			err:         failure.Conflict("email already registered"),
			wantCode:    http.StatusConflict,
			wantMessage: "email already registered",
		},
		{
			name:        "forbidden",
			err:         failure.Forbidden("the offline account cannot be modified"),
			wantCode:    http.StatusForbidden,
			wantMessage: "the offline account cannot be modified",
		},
		{
			name:        "not found",
			err:         failure.NotFound("area not found"),
			wantCode:    http.StatusNotFound,
			wantMessage: "area not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fail *failure.Failure

			assert.ErrorAs(t, tt.err, &fail)
			assert.Equal(t, tt.wantCode, fail.Code)
			assert.Equal(t, tt.wantMessage, tt.err.Error())
		})
	}
}

func TestBadRequest_Nil(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
}
