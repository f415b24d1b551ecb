package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"parking/config"
	"parking/infras/jwt"
	jwtMocks "parking/infras/jwt/mocks"
	otelMocks "parking/infras/otel/mocks"
	"parking/permissions"
	"parking/shared/constant"
	"parking/shared/identity"
	"parking/transport/http/middleware"
)

func newRouter(t *testing.T, mockJWT *jwtMocks.MockJWT, seen *identity.Actor) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	perms := &permissions.PermissionData{
		Endpoints: []permissions.Permission{
			{Path: "/v1/auth/login", Method: http.MethodPost, Skip: true},
			{Path: "/v1/bookings/{id}", Method: http.MethodGet, Permissions: []string{constant.RoleUser, constant.RoleAdmin}},
			{Path: "/v1/bookings/{id}/approve", Method: http.MethodPost, Permissions: []string{constant.RoleAdmin}},
		},
	}

	authRole := middleware.NewAuthRoleMiddleware(mockJWT, otelMocks.NewOtel(), perms, cfg)

	ok := func(w http.ResponseWriter, r *http.Request) {
		if actor, err := identity.FromContext(r.Context()); err == nil {
			*seen = actor
		}

		w.WriteHeader(http.StatusOK)
	}

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)

		r.Post("/v1/auth/login", ok)
		r.Get("/v1/bookings/{id}", ok)
		r.Post("/v1/bookings/{id}/approve", ok)
	})

	return r
}

func TestAuthRole(t *testing.T) {
	userClaims := &jwt.Claims{UserID: "u-1", Email: "u@parking.local", Role: constant.RoleUser}
	adminClaims := &jwt.Claims{UserID: "a-1", Email: "a@parking.local", Role: constant.RoleAdmin}

	tests := []struct {
		name      string
		method    string
		path      string
		headers   map[string]string
		setupMock func(m *jwtMocks.MockJWT)
		wantCode  int
		wantActor string
	}{
		{
			name:     "public route needs no token",
			method:   http.MethodPost,
			path:     "/v1/auth/login",
			wantCode: http.StatusOK,
		},
		{
			name:     "missing authorization header",
			method:   http.MethodGet,
			path:     "/v1/bookings/b-1",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "malformed authorization header",
			method:   http.MethodGet,
			path:     "/v1/bookings/b-1",
			headers:  map[string]string{constant.RequestHeaderAuthorization: "Token abc"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:    "expired token",
			method:  http.MethodGet,
			path:    "/v1/bookings/b-1",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer expired"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("expired", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:    "claims without subject",
			method:  http.MethodGet,
			path:    "/v1/bookings/b-1",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer empty"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("empty", jwt.AccessToken).Return(&jwt.Claims{Role: constant.RoleUser}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:    "user reads a booking",
			method:  http.MethodGet,
			path:    "/v1/bookings/b-1",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer user"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("user", jwt.AccessToken).Return(userClaims, nil)
			},
			wantCode:  http.StatusOK,
			wantActor: "u-1",
		},
		{
			name:    "user cannot approve",
			method:  http.MethodPost,
			path:    "/v1/bookings/b-1/approve",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer user"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("user", jwt.AccessToken).Return(userClaims, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:    "admin approves",
			method:  http.MethodPost,
			path:    "/v1/bookings/b-1/approve",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer admin"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("admin", jwt.AccessToken).Return(adminClaims, nil)
			},
			wantCode:  http.StatusOK,
			wantActor: "a-1",
		},
		{
			name:     "valid api key bypasses token",
			method:   http.MethodPost,
			path:     "/v1/bookings/b-1/approve",
			headers:  map[string]string{constant.RequestHeaderAPIKey: "internal-key"},
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong api key",
			method:   http.MethodPost,
			path:     "/v1/bookings/b-1/approve",
			headers:  map[string]string{constant.RequestHeaderAPIKey: "nope"},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockJWT := jwtMocks.NewMockJWT(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(mockJWT)
			}

			var seen identity.Actor

			req := httptest.NewRequest(tt.method, tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			rec := httptest.NewRecorder()
			newRouter(t, mockJWT, &seen).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantActor, seen.ID)
		})
	}
}
