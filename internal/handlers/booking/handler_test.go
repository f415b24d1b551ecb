package booking_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	otelMocks "parking/infras/otel/mocks"
	"parking/internal/domains/booking/model"
	"parking/internal/domains/booking/model/dto"
	"parking/internal/domains/booking/service/mocks"
	"parking/internal/handlers/booking"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	"parking/shared/identity"
)

type expirerStub struct {
	expired int
}

func (e expirerStub) ExpirePending(context.Context) (int, error) {
	return e.expired, nil
}

var user = identity.Actor{ID: "u-1", Email: "u@parking.local", Role: constant.RoleUser}

const (
	releasedID  = "9d3c1f6a-2b7e-4c18-a0f4-6e5b8d2c7a31"
	cancelledID = "1f7e2d4c-8a9b-4e3f-b6c5-0d2a9e8f7b64"
	approvedID  = "5a6b7c8d-9e0f-4a1b-8c2d-3e4f5a6b7c8d"
)

func newServer(t *testing.T, svc *mocks.MockBooking, actor *identity.Actor) http.Handler {
	t.Helper()

	handler := booking.New(svc, expirerStub{expired: 2}, otelMocks.NewOtel())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if actor != nil {
				req = req.WithContext(identity.NewContext(req.Context(), *actor))
			}

			next.ServeHTTP(w, req)
		})
	})
	r.Route("/v1", handler.Router)

	return r
}

func do(t *testing.T, server http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	return rec
}

func TestHandler_RequestBooking(t *testing.T) {
	const (
		carID  = "6f1c7a2e-8c53-4d0b-9a55-0f6a3a7d2f10"
		areaID = "0b4f0f9e-3a1b-4c63-8f0e-5d7e2a9c1b22"
	)

	tests := []struct {
		name      string
		actor     *identity.Actor
		body      string
		setupMock func(svc *mocks.MockBooking)
		wantCode  int
	}{
		{
			name:  "created",
			actor: &user,
			body:  `{"car_id":"` + carID + `","area_id":"` + areaID + `"}`,
			setupMock: func(svc *mocks.MockBooking) {
				svc.EXPECT().
					Request(gomock.Any(), user, dto.CreateBookingRequest{CarID: carID, AreaID: areaID}).
					Return(dto.BookingResponse{ID: "b-1", Status: model.StatusPending}, nil)
			},
			wantCode: http.StatusCreated,
		},
		{
			name:     "invalid body",
			actor:    &user,
			body:     `{"car_id":"not-a-uuid"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:  "no spot left",
			actor: &user,
			body:  `{"car_id":"` + carID + `","area_id":"` + areaID + `"}`,
			setupMock: func(svc *mocks.MockBooking) {
				svc.EXPECT().
					Request(gomock.Any(), user, gomock.Any()).
					Return(dto.BookingResponse{}, model.ErrNoAvailableSpot)
			},
			wantCode: http.StatusConflict,
		},
		{
			name:     "unauthenticated",
			body:     `{"car_id":"` + carID + `","area_id":"` + areaID + `"}`,
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockBooking(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(svc)
			}

			rec := do(t, newServer(t, svc, tt.actor), http.MethodPost, "/v1/bookings/", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandler_Transitions(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockBooking(ctrl)
	server := newServer(t, svc, &user)

	svc.EXPECT().
		Release(gomock.Any(), user, releasedID).
		Return(dto.BookingResponse{ID: releasedID, Status: model.StatusCompleted}, nil)

	rec := do(t, server, http.MethodPost, "/v1/bookings/"+releasedID+"/release", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data dto.BookingResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, model.StatusCompleted, body.Data.Status)

	svc.EXPECT().
		Cancel(gomock.Any(), user, cancelledID).
		Return(dto.BookingResponse{}, model.ErrNotOwner)

	rec = do(t, server, http.MethodPost, "/v1/bookings/"+cancelledID+"/cancel", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	svc.EXPECT().
		Approve(gomock.Any(), user, approvedID).
		Return(dto.BookingResponse{}, model.ErrInvalidStateTransition)

	rec = do(t, server, http.MethodPost, "/v1/bookings/"+approvedID+"/approve", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_MalformedID(t *testing.T) {
	paths := []struct {
		method string
		path   string
	}{
		{method: http.MethodGet, path: "/v1/bookings/abc"},
		{method: http.MethodPost, path: "/v1/bookings/abc/approve"},
		{method: http.MethodPost, path: "/v1/bookings/not-a-uuid/release"},
	}

	for _, tt := range paths {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			// the service mock has no expectations: a malformed id never reaches it
			rec := do(t, newServer(t, mocks.NewMockBooking(ctrl), &user), tt.method, tt.path, "")

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Body.String(), "booking not found")
		})
	}
}

func TestHandler_GetMyBookings_ScopesToCaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockBooking(ctrl)

	svc.EXPECT().
		GetAll(gomock.Any(), user, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ identity.Actor, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error) {
			assert.Equal(t, constant.DefaultValueLimit, params.Limit)

			where, args := filter.GetWhereClause()
			assert.Contains(t, where, "bookings.status = :status")
			assert.Contains(t, where, "bookings.user_id = :user_id")
			assert.Equal(t, model.StatusActive, args["status"])
			assert.Equal(t, user.ID, args["user_id"])

			return dto.GetBookingsResponse{}, nil
		})

	rec := do(t, newServer(t, svc, &user), http.MethodGet, "/v1/bookings/mybookings?status=active", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_ExpirePending(t *testing.T) {
	ctrl := gomock.NewController(t)
	admin := identity.Actor{ID: "a-1", Role: constant.RoleAdmin}

	rec := do(t, newServer(t, mocks.NewMockBooking(ctrl), &admin), http.MethodPost, "/v1/bookings/expire", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data dto.ExpireResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Data.Expired)
}
