package permissions_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking/permissions"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)
	assert.NotEmpty(t, data.Endpoints)
	assert.False(t, data.Skip)
}

func TestPermissionData_FindPermissions(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		name   string
		path   string
		method string
		want   []string
		skip   bool
	}{
		{name: "login is public", path: "/v1/auth/login", method: http.MethodPost, skip: true},
		{name: "request is user only", path: "/v1/bookings/", method: http.MethodPost, want: []string{"user"}},
		{name: "approve is admin only", path: "/v1/bookings/{id}/approve", method: http.MethodPost, want: []string{"admin"}},
		{name: "release is shared", path: "/v1/bookings/{id}/release", method: http.MethodPost, want: []string{"user", "admin"}},
		{name: "walk-in is admin only", path: "/v1/bookings/walk-in", method: http.MethodPost, want: []string{"admin"}},
		{name: "unknown route", path: "/v1/unknown", method: http.MethodGet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := data.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.skip, got.Skip)
			assert.ElementsMatch(t, tt.want, got.Permissions)
		})
	}
}
