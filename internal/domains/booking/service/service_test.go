package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"parking/config"
	"parking/infras/otel/mocks"
	pgMocks "parking/infras/postgres/mocks"
	areaMocks "parking/internal/domains/area/mocks"
	areaModel "parking/internal/domains/area/model"
	bookingMocks "parking/internal/domains/booking/mocks"
	"parking/internal/domains/booking/model"
	"parking/internal/domains/booking/model/dto"
	"parking/internal/domains/booking/service"
	carMocks "parking/internal/domains/car/mocks"
	carModel "parking/internal/domains/car/model"
	spotMocks "parking/internal/domains/spot/mocks"
	spotModel "parking/internal/domains/spot/model"
	userMocks "parking/internal/domains/user/mocks"
	userModel "parking/internal/domains/user/model"
	cacheMocks "parking/shared/cache/mocks"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	"parking/shared/failure"
	"parking/shared/identity"
	"parking/shared/timezone"
)

var (
	now = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	owner = identity.Actor{ID: "user-1", Role: constant.RoleUser}
	other = identity.Actor{ID: "user-2", Role: constant.RoleUser}
	admin = identity.Actor{ID: "admin-1", Role: constant.RoleAdmin}

	area = areaModel.Area{ID: "area-1", Name: "Central", Code: "CEN", SpotCount: 2, PricePerHour: decimal.NewFromInt(2)}
	spot = spotModel.Spot{ID: "spot-1", AreaID: area.ID, Sequence: 1, Label: "CEN-1", Status: spotModel.StatusAvailable}
	car  = carModel.Car{ID: "car-1", LicensePlate: "KA01AB1234", UserID: owner.ID}
)

type fixture struct {
	repo       *bookingMocks.MockBooking
	spotRepo   *spotMocks.MockSpot
	areaRepo   *areaMocks.MockArea
	carRepo    *carMocks.MockCar
	userRepo   *userMocks.MockUser
	transactor *pgMocks.MockTransactor
	events     *bookingMocks.MockPublisher
	cache      *cacheMocks.MockRedisCache
	svc        service.Booking
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:       bookingMocks.NewMockBooking(ctrl),
		spotRepo:   spotMocks.NewMockSpot(ctrl),
		areaRepo:   areaMocks.NewMockArea(ctrl),
		carRepo:    carMocks.NewMockCar(ctrl),
		userRepo:   userMocks.NewMockUser(ctrl),
		transactor: pgMocks.NewMockTransactor(ctrl),
		events:     bookingMocks.NewMockPublisher(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Booking.OfflineUserEmail = "offline@parking.local"

	f.svc = service.New(
		f.repo, f.spotRepo, f.areaRepo, f.carRepo, f.userRepo,
		f.transactor, f.events, f.cache, cfg, mocks.NewOtel(), timezone.Fixed(now),
	)

	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).AnyTimes()

	return f
}

func (f *fixture) runTx() {
	f.transactor.EXPECT().
		WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
			return fn(nil)
		})
}

func (f *fixture) expectAllocation(t *testing.T) {
	f.areaRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(area, nil)
	f.spotRepo.EXPECT().
		FirstTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), true).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, params gDto.QueryParams, _ gDto.FilterGroup, _ bool, _ ...string) (spotModel.Spot, error) {
			assert.Equal(t, "parking_spots.sequence", params.SortBy)
			assert.Equal(t, gDto.SortDirAsc, params.SortDir)

			return spot, nil
		})
}

func expectSpotStatus(t *testing.T, f *fixture, status string) {
	f.spotRepo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, status, fields[spotModel.FieldStatus])

			return nil
		})
}

func TestBookingService_Request(t *testing.T) {
	req := dto.CreateBookingRequest{CarID: car.ID, AreaID: area.ID}

	tests := []struct {
		name      string
		actor     identity.Actor
		setupMock func(t *testing.T, f *fixture)
		wantErr   error
	}{
		{
			name:      "administrators cannot request",
			actor:     admin,
			setupMock: func(*testing.T, *fixture) {},
			wantErr:   failure.Forbidden("administrators cannot request bookings"),
		},
		{
			name:  "car not found",
			actor: owner,
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				f.carRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(carModel.Car{}, nil)
			},
			wantErr: failure.NotFound("car not found"),
		},
		{
			name:  "car of another user",
			actor: other,
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				f.carRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(car, nil)
			},
			wantErr: model.ErrNotOwner,
		},
		{
			name:  "car already has an open booking",
			actor: owner,
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				f.carRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(car, nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: model.ErrDuplicateActiveBooking,
		},
		{
			name:  "area not found",
			actor: owner,
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				f.carRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(car, nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.areaRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(areaModel.Area{}, nil)
			},
			wantErr: failure.NotFound("parking area not found"),
		},
		{
			name:  "no available spot creates no booking",
			actor: owner,
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				f.carRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(car, nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.areaRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(area, nil)
				f.spotRepo.EXPECT().FirstTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), true).Return(spotModel.Spot{}, nil)
			},
			wantErr: model.ErrNoAvailableSpot,
		},
		{
			name:  "concurrent request for the same car",
			actor: owner,
			setupMock: func(t *testing.T, f *fixture) {
				f.runTx()
				f.carRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(car, nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.expectAllocation(t)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation, Constraint: "bookings_open_car_idx"})
			},
			wantErr: model.ErrDuplicateActiveBooking,
		},
		{
			name:  "first available spot is reserved",
			actor: owner,
			setupMock: func(t *testing.T, f *fixture) {
				f.runTx()
				f.carRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(car, nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.expectAllocation(t)
				f.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
						assert.Equal(t, model.StatusPending, booking.Status)
						assert.Equal(t, spot.ID, booking.SpotID)
						assert.Equal(t, owner.ID, booking.UserID)
						assert.Equal(t, now, booking.RequestedAt)
						assert.Nil(t, booking.ApprovedAt)
						assert.False(t, booking.Cost.Valid)

						return nil
					})
				expectSpotStatus(t, f, spotModel.StatusReserved)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			res, err := f.svc.Request(context.Background(), tt.actor, req)
			time.Sleep(10 * time.Millisecond)

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusPending, res.Status)
			assert.Equal(t, "CEN-1", res.SpotLabel)
			assert.Equal(t, car.LicensePlate, res.LicensePlate)
			assert.Equal(t, area.Name, res.AreaName)
		})
	}
}

func booking(status string) model.Booking {
	b := model.Booking{
		ID:          "booking-1",
		UserID:      owner.ID,
		CarID:       car.ID,
		SpotID:      spot.ID,
		Status:      status,
		RequestedAt: now.Add(-2 * time.Hour),
	}

	if status == model.StatusActive {
		approved := now.Add(-61 * time.Minute)
		b.ApprovedAt = &approved
	}

	return b
}

func (f *fixture) expectLoaded(b model.Booking) {
	f.runTx()
	f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(b, nil)
}

func (f *fixture) expectSpotAndArea() {
	f.spotRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(spot, nil)
	f.areaRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), false).Return(area, nil)
}

func TestBookingService_Transitions(t *testing.T) {
	type call func(svc service.Booking, actor identity.Actor) (dto.BookingResponse, error)

	approve := func(svc service.Booking, actor identity.Actor) (dto.BookingResponse, error) {
		return svc.Approve(context.Background(), actor, "booking-1")
	}
	reject := func(svc service.Booking, actor identity.Actor) (dto.BookingResponse, error) {
		return svc.Reject(context.Background(), actor, "booking-1")
	}
	cancel := func(svc service.Booking, actor identity.Actor) (dto.BookingResponse, error) {
		return svc.Cancel(context.Background(), actor, "booking-1")
	}
	release := func(svc service.Booking, actor identity.Actor) (dto.BookingResponse, error) {
		return svc.Release(context.Background(), actor, "booking-1")
	}

	tests := []struct {
		name       string
		call       call
		actor      identity.Actor
		setupMock  func(t *testing.T, f *fixture)
		wantErr    error
		wantStatus string
	}{
		{
			name:  "approve by a regular user",
			call:  approve,
			actor: owner,
			setupMock: func(_ *testing.T, f *fixture) {
				f.expectLoaded(booking(model.StatusPending))
			},
			wantErr: failure.ForbiddenError,
		},
		{
			name:  "approve unknown booking",
			call:  approve,
			actor: admin,
			setupMock: func(_ *testing.T, f *fixture) {
				f.expectLoaded(model.Booking{})
			},
			wantErr: failure.NotFound("booking not found"),
		},
		{
			name:  "approve an active booking",
			call:  approve,
			actor: admin,
			setupMock: func(_ *testing.T, f *fixture) {
				f.expectLoaded(booking(model.StatusActive))
			},
			wantErr: model.ErrInvalidStateTransition,
		},
		{
			name:  "approve occupies the spot",
			call:  approve,
			actor: admin,
			setupMock: func(t *testing.T, f *fixture) {
				f.expectLoaded(booking(model.StatusPending))
				f.expectSpotAndArea()
				f.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusActive, fields[model.FieldStatus])
						assert.Equal(t, now, fields[model.FieldApprovedAt])
						assert.NotContains(t, fields, model.FieldCost)

						return nil
					})
				expectSpotStatus(t, f, spotModel.StatusOccupied)
			},
			wantStatus: model.StatusActive,
		},
		{
			name:  "reject frees the spot",
			call:  reject,
			actor: admin,
			setupMock: func(t *testing.T, f *fixture) {
				f.expectLoaded(booking(model.StatusPending))
				f.expectSpotAndArea()
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				expectSpotStatus(t, f, spotModel.StatusAvailable)
			},
			wantStatus: model.StatusRejected,
		},
		{
			name:  "reject an active booking",
			call:  reject,
			actor: admin,
			setupMock: func(_ *testing.T, f *fixture) {
				f.expectLoaded(booking(model.StatusActive))
			},
			wantErr: model.ErrInvalidStateTransition,
		},
		{
			name:  "cancel by another user",
			call:  cancel,
			actor: other,
			setupMock: func(_ *testing.T, f *fixture) {
				f.expectLoaded(booking(model.StatusPending))
			},
			wantErr: model.ErrNotOwner,
		},
		{
			name:  "cancel own pending request",
			call:  cancel,
			actor: owner,
			setupMock: func(t *testing.T, f *fixture) {
				f.expectLoaded(booking(model.StatusPending))
				f.expectSpotAndArea()
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				expectSpotStatus(t, f, spotModel.StatusAvailable)
			},
			wantStatus: model.StatusRejected,
		},
		{
			name:  "release by another user leaves state unchanged",
			call:  release,
			actor: other,
			setupMock: func(_ *testing.T, f *fixture) {
				f.expectLoaded(booking(model.StatusActive))
			},
			wantErr: model.ErrNotOwner,
		},
		{
			name:  "release a pending booking",
			call:  release,
			actor: owner,
			setupMock: func(_ *testing.T, f *fixture) {
				f.expectLoaded(booking(model.StatusPending))
			},
			wantErr: model.ErrInvalidStateTransition,
		},
		{
			name:  "release a completed booking",
			call:  release,
			actor: admin,
			setupMock: func(_ *testing.T, f *fixture) {
				f.expectLoaded(booking(model.StatusCompleted))
			},
			wantErr: model.ErrInvalidStateTransition,
		},
		{
			name:  "release bills started hours",
			call:  release,
			actor: owner,
			setupMock: func(t *testing.T, f *fixture) {
				f.expectLoaded(booking(model.StatusActive))
				f.expectSpotAndArea()
				f.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusCompleted, fields[model.FieldStatus])
						assert.Equal(t, now, fields[model.FieldReleasedAt])

						cost, ok := fields[model.FieldCost].(decimal.Decimal)
						require.True(t, ok)
						assert.True(t, cost.Equal(decimal.NewFromInt(4)), cost.String())

						return nil
					})
				expectSpotStatus(t, f, spotModel.StatusAvailable)
			},
			wantStatus: model.StatusCompleted,
		},
		{
			name:  "admin override on release",
			call:  release,
			actor: admin,
			setupMock: func(t *testing.T, f *fixture) {
				f.expectLoaded(booking(model.StatusActive))
				f.expectSpotAndArea()
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				expectSpotStatus(t, f, spotModel.StatusAvailable)
			},
			wantStatus: model.StatusCompleted,
		},
		{
			name:  "database failure is wrapped",
			call:  release,
			actor: owner,
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(model.Booking{}, errors.New("connection reset"))
			},
			wantErr: errors.New("failed to update booking: connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			res, err := tt.call(f.svc, tt.actor)
			time.Sleep(10 * time.Millisecond)

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, spot.Label, res.SpotLabel)

			if tt.wantStatus == model.StatusCompleted {
				require.NotNil(t, res.Cost)
				assert.NotNil(t, res.ReleasedAt)
			} else {
				assert.Nil(t, res.Cost)
			}
		})
	}
}

func TestBookingService_CreateWalkIn(t *testing.T) {
	req := dto.WalkInRequest{LicensePlate: " mh12xy0001 ", AreaID: area.ID}
	offline := userModel.User{ID: "offline-1", Email: "offline@parking.local"}

	tests := []struct {
		name      string
		actor     identity.Actor
		setupMock func(t *testing.T, f *fixture)
		wantErr   error
	}{
		{
			name:      "regular user cannot create walk-in",
			actor:     owner,
			setupMock: func(*testing.T, *fixture) {},
			wantErr:   failure.ForbiddenError,
		},
		{
			name:  "known plate with an open booking",
			actor: admin,
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				f.carRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(car, nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: model.ErrDuplicateActiveBooking,
		},
		{
			name:  "offline account missing",
			actor: admin,
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				f.carRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(carModel.Car{}, nil)
				f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantErr: errors.New(`failed to create walk-in booking: offline user "offline@parking.local" is not provisioned`),
		},
		{
			name:  "unknown plate creates one offline car and an active booking",
			actor: admin,
			setupMock: func(t *testing.T, f *fixture) {
				f.runTx()
				f.carRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(carModel.Car{}, nil)
				f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(offline, nil)
				f.carRepo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, c carModel.Car) error {
						assert.Equal(t, "MH12XY0001", c.LicensePlate)
						assert.Equal(t, offline.ID, c.UserID)

						return nil
					}).
					Times(1)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.expectAllocation(t)
				f.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
						assert.Equal(t, model.StatusActive, b.Status)
						assert.Equal(t, offline.ID, b.UserID)
						require.NotNil(t, b.ApprovedAt)
						assert.Equal(t, b.RequestedAt, *b.ApprovedAt)
						assert.Equal(t, now, b.RequestedAt)

						return nil
					}).
					Times(1)
				expectSpotStatus(t, f, spotModel.StatusOccupied)
			},
		},
		{
			name:  "full area",
			actor: admin,
			setupMock: func(_ *testing.T, f *fixture) {
				f.runTx()
				f.carRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(car, nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.areaRepo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(area, nil)
				f.spotRepo.EXPECT().FirstTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), true).Return(spotModel.Spot{}, nil)
			},
			wantErr: model.ErrNoAvailableSpot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			res, err := f.svc.CreateWalkIn(context.Background(), tt.actor, req)
			time.Sleep(10 * time.Millisecond)

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusActive, res.Status)
			assert.Equal(t, "MH12XY0001", res.LicensePlate)
			assert.Equal(t, res.RequestedAt, *res.ApprovedAt)
		})
	}
}

func TestBookingService_ExpirePending(t *testing.T) {
	f := newFixture(t)

	cutoff := now.Add(-2 * time.Hour)
	stale := []model.Booking{booking(model.StatusPending), booking(model.StatusPending)}
	stale[1].ID = "booking-2"
	stale[1].SpotID = "spot-2"

	f.runTx()
	f.repo.EXPECT().
		GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), true).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, _ gDto.QueryParams, filter gDto.FilterGroup, _ bool, _ ...string) ([]model.Booking, error) {
			where, args := filter.GetWhereClause()
			assert.Contains(t, where, "bookings.requested_at <= :requested_at")
			assert.Equal(t, cutoff, args[model.FieldRequestedAt])

			return stale, nil
		})
	f.repo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, model.StatusRejected, fields[model.FieldStatus])

			return nil
		}).
		Times(2)
	f.spotRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	expired, err := f.svc.ExpirePending(context.Background(), cutoff)
	time.Sleep(10 * time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 2, expired)
}

func TestBookingService_ExpirePending_Nothing(t *testing.T) {
	f := newFixture(t)

	f.runTx()
	f.repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), true).Return(nil, nil)

	expired, err := f.svc.ExpirePending(context.Background(), now)

	require.NoError(t, err)
	assert.Zero(t, expired)
}

func TestBookingService_Get(t *testing.T) {
	detail := model.BookingDetail{Booking: booking(model.StatusActive), LicensePlate: car.LicensePlate, SpotLabel: spot.Label}

	tests := []struct {
		name    string
		actor   identity.Actor
		detail  model.BookingDetail
		wantErr error
	}{
		{name: "owner", actor: owner, detail: detail},
		{name: "admin", actor: admin, detail: detail},
		{name: "someone else", actor: other, detail: detail, wantErr: model.ErrNotOwner},
		{name: "unknown", actor: owner, detail: model.BookingDetail{}, wantErr: failure.NotFound("booking not found")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.EXPECT().GetDetail(gomock.Any(), gomock.Any()).Return(tt.detail, nil)

			res, err := f.svc.Get(context.Background(), tt.actor, "booking-1")

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, car.LicensePlate, res.LicensePlate)
		})
	}
}

func TestBookingService_GetAll_ScopesNonAdmins(t *testing.T) {
	f := newFixture(t)

	status := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: model.StatusActive, Table: model.TableName},
		},
	}

	assertScoped := func(filter gDto.FilterGroup) {
		where, args := filter.GetWhereClause()
		assert.Contains(t, where, "bookings.user_id = :scope_user_id")
		assert.Equal(t, owner.ID, args["scope_user_id"])
		assert.Equal(t, model.StatusActive, args[model.FieldStatus])
	}

	f.repo.EXPECT().
		CountDetails(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			assertScoped(filter)

			return 1, nil
		})
	f.repo.EXPECT().
		GetDetails(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.BookingDetail, error) {
			assertScoped(filter)
			assert.Equal(t, "bookings.requested_at", params.SortBy)

			return []model.BookingDetail{{Booking: booking(model.StatusActive)}}, nil
		})

	res, err := f.svc.GetAll(context.Background(), owner, gDto.QueryParams{Limit: 10, SortBy: "requested_at"}, status)

	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
}

func TestBookingService_GetAll_UserFilterCannotWidenScope(t *testing.T) {
	f := newFixture(t)

	other := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldUserID, Operator: gDto.FilterOperatorEq, Value: "user-2", Table: model.TableName},
		},
	}

	assertOwnerOnly := func(filter gDto.FilterGroup) {
		where, args := filter.GetWhereClause()
		assert.Contains(t, where, "bookings.user_id = :scope_user_id")
		assert.Equal(t, owner.ID, args["scope_user_id"])
		assert.Equal(t, "user-2", args[model.FieldUserID])
	}

	f.repo.EXPECT().
		CountDetails(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			assertOwnerOnly(filter)

			return 0, nil
		})
	f.repo.EXPECT().
		GetDetails(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup) ([]model.BookingDetail, error) {
			assertOwnerOnly(filter)

			return nil, nil
		})

	res, err := f.svc.GetAll(context.Background(), owner, gDto.QueryParams{Limit: 10}, other)

	require.NoError(t, err)
	assert.Empty(t, res.Bookings)
}

func TestBookingService_GetAll_AdminFilterUntouched(t *testing.T) {
	f := newFixture(t)

	byUser := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldUserID, Operator: gDto.FilterOperatorEq, Value: "user-2", Table: model.TableName},
		},
	}

	f.repo.EXPECT().CountDetails(gomock.Any(), byUser).Return(0, nil)
	f.repo.EXPECT().GetDetails(gomock.Any(), gomock.Any(), byUser).Return(nil, nil)

	_, err := f.svc.GetAll(context.Background(), admin, gDto.QueryParams{Limit: 10}, byUser)

	require.NoError(t, err)
}
