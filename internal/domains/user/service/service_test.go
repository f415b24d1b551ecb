package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"parking/config"
	"parking/infras/otel/mocks"
	userMocks "parking/internal/domains/user/mocks"
	"parking/internal/domains/user/model"
	"parking/internal/domains/user/model/dto"
	"parking/internal/domains/user/service"
	cacheMocks "parking/shared/cache/mocks"
	"parking/shared/constant"
	gDto "parking/shared/dto"
	"parking/shared/failure"
	"parking/shared/identity"
	"parking/shared/password"
	"parking/shared/timezone"
)

const offlineEmail = "offline@parking.local"

type fixture struct {
	repo  *userMocks.MockUser
	cache *cacheMocks.MockRedisCache
	svc   service.User
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:  userMocks.NewMockUser(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Booking.OfflineUserEmail = offlineEmail

	clock := timezone.Fixed(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	f.svc = service.New(f.repo, cfg, f.cache, mocks.NewOtel(), clock)

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func adminCtx() context.Context {
	return identity.NewContext(context.Background(), identity.Actor{ID: "admin-1", Role: constant.RoleAdmin})
}

func TestUserService_Create(t *testing.T) {
	req := dto.CreateUserRequest{Email: "new@parking.local", Password: "secret123"}

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(f *fixture)
		wantErr   error
	}{
		{
			name:      "requires an authenticated caller",
			ctx:       context.Background(),
			setupMock: func(*fixture) {},
			wantErr:   failure.Unauthorized("unauthorized"),
		},
		{
			name: "email already registered",
			ctx:  adminCtx(),
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: failure.Conflict("email already registered"),
		},
		{
			name: "creates a user with a hashed password",
			ctx:  adminCtx(),
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user model.User) error {
						assert.Equal(t, req.Email, user.Email)
						assert.Equal(t, constant.RoleUser, user.Level)
						assert.True(t, user.Active)
						assert.NoError(t, password.Verify(req.Password, user.Password))

						return nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Create(tt.ctx, req)

			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestUserService_Get(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		_, err := f.svc.Get(context.Background(), "missing")

		assert.Equal(t, failure.NotFound("user not found"), err)
	})

	t.Run("maps the model", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.User{ID: "u-1", Email: "u@parking.local", Level: constant.RoleUser, Active: true}, nil)

		res, err := f.svc.Get(context.Background(), "u-1")

		require.NoError(t, err)
		assert.Equal(t, "u-1", res.ID)
		assert.Equal(t, constant.RoleUser, res.Level)
	})
}

func TestUserService_GetAll(t *testing.T) {
	f := newFixture(t)
	params := gDto.QueryParams{Page: 1, Limit: 10}

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(11, nil)
	f.repo.EXPECT().
		GetAll(gomock.Any(), params, gomock.Any()).
		Return([]model.User{{ID: "u-1"}, {ID: "u-2"}}, nil)

	res, err := f.svc.GetAll(context.Background(), params, gDto.FilterGroup{})

	require.NoError(t, err)
	assert.Len(t, res.Users, 2)
	assert.Equal(t, 11, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
}

func TestUserService_Update(t *testing.T) {
	level := constant.RoleAdmin

	tests := []struct {
		name      string
		req       dto.UpdateUserRequest
		setupMock func(f *fixture)
		wantErr   error
	}{
		{
			name:      "empty request",
			setupMock: func(*fixture) {},
			wantErr:   failure.BadRequestFromString("update request cannot be empty"),
		},
		{
			name: "user not found",
			req:  dto.UpdateUserRequest{Level: &level},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
			},
			wantErr: failure.NotFound("user not found"),
		},
		{
			name: "offline account is protected",
			req:  dto.UpdateUserRequest{Level: &level},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "off", Email: offlineEmail}, nil)
			},
			wantErr: failure.Forbidden("the offline account cannot be modified"),
		},
		{
			name: "promotes a user",
			req:  dto.UpdateUserRequest{Level: &level},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u-1", Email: "u@parking.local"}, nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, &level, fields[model.FieldLevel])
						assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])

						return nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Update(adminCtx(), tt.req, "u-1")

			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	name := "Jane Doe"

	f.repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
			assert.Equal(t, &name, fields[model.FieldFullName])

			_, args := filter.GetWhereClause()
			assert.Equal(t, "admin-1", args[model.FieldID])

			return nil
		})

	err := f.svc.UpdateProfile(adminCtx(), dto.UpdateProfileRequest{FullName: &name})

	assert.NoError(t, err)
}
