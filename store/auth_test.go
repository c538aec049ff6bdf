package store

import (
	"context"
	"testing"

	"github.com/LupryM/Birthday-reminder-app/app"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ app.Auth = (*DeviceSession)(nil)

func TestDeviceSessionSignOutRevokesRefreshToken(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	const refreshToken = "refresh-token-abc"
	require.NoError(t, s.rdb.Set(ctx, refreshToken, "true", 0).Err())

	require.NoError(t, s.DeviceSession(refreshToken).SignOut(ctx))

	err := s.rdb.Get(ctx, refreshToken).Err()
	assert.Error(t, err, "revoked token must be gone from the allow-list")
}

func TestDeviceSessionSignOutIsIdempotent(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	session := s.DeviceSession("never-issued")
	assert.NoError(t, session.SignOut(ctx))
	assert.NoError(t, session.SignOut(ctx))
}
