package identity_test

import (
	"context"
	"net/http"
	"testing"

	"parking/shared/constant"
	"parking/shared/failure"
	"parking/shared/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	_, err := identity.FromContext(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))

	ctx := identity.NewContext(context.Background(), identity.Actor{ID: "u-1", Email: "a@b.c", Role: constant.RoleUser})

	actor, err := identity.FromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u-1", actor.ID)
	assert.Equal(t, "a@b.c", actor.Email)
	assert.False(t, actor.IsAdmin())
}

func TestActor(t *testing.T) {
	admin := identity.Actor{ID: "a-1", Role: constant.RoleAdmin}
	user := identity.Actor{ID: "u-1", Role: constant.RoleUser}

	assert.True(t, admin.IsAdmin())
	assert.False(t, user.IsAdmin())

	assert.True(t, user.Owns("u-1"))
	assert.False(t, user.Owns("u-2"))
	assert.False(t, identity.Actor{}.Owns(""))
}
