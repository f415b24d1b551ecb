package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"parking/infras/jwt"
	"parking/internal/domains/auth/model/dto"
	"parking/shared/constant"
)

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
	}

	var response dto.LoginResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
}

func TestRefreshTokenResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "new-access-token",
		RefreshToken: "new-refresh-token",
	}

	var response dto.RefreshTokenResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
}

func TestRegisterRequest_ToUserModel(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	req := dto.RegisterRequest{Email: "a@example.com", Password: "secret123", FullName: stringPtr("Ann")}

	user := req.ToUserModel("guest", "hashed", now)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "a@example.com", user.Email)
	assert.Equal(t, "hashed", user.Password)
	assert.Equal(t, constant.RoleUser, user.Level)
	assert.True(t, user.Active)
	assert.False(t, user.IsVerified)
	assert.Equal(t, now, user.CreatedAt)
	assert.Equal(t, "guest", user.CreatedBy)
}

func stringPtr(s string) *string {
	return &s
}
