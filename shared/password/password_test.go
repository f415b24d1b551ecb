package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"parking/shared/password"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "account password", password: "parking-secret-1"},
		{name: "unicode", password: "пароль123"},
		{name: "empty", password: "", wantErr: password.ErrEmptyPassword},
		{name: "longer than bcrypt accepts", password: strings.Repeat("a", 73), wantErr: password.ErrHashingPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := password.Hash(tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)

			cost, err := bcrypt.Cost([]byte(hash))
			require.NoError(t, err)
			assert.Equal(t, password.DefaultCost, cost)
		})
	}
}

func TestHash_Salted(t *testing.T) {
	first, err := password.Hash("same-password")
	require.NoError(t, err)

	second, err := password.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerify(t *testing.T) {
	hash, err := password.Hash("parking-secret-1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		wantErr  error
	}{
		{name: "matching password", password: "parking-secret-1", hash: hash},
		{name: "wrong password", password: "parking-secret-2", hash: hash, wantErr: password.ErrInvalidPassword},
		{name: "empty password", password: "", hash: hash, wantErr: password.ErrInvalidPassword},
		{name: "empty hash", password: "parking-secret-1", hash: "", wantErr: password.ErrInvalidPassword},
		// the seeded offline account stores an unusable hash
		{name: "unusable hash", password: "anything", hash: "!", wantErr: password.ErrVerifyingPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.password, tt.hash)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
		})
	}
}
