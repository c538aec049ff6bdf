package store

import (
	"context"

	"github.com/LupryM/Birthday-reminder-app/utils"
)

// DeviceSession is the sign-out capability for one signed-in device. Ending
// it revokes that device's refresh token; the access token simply expires.
type DeviceSession struct {
	store        *Store
	refreshToken string
}

func (s *Store) DeviceSession(refreshToken string) *DeviceSession {
	return &DeviceSession{store: s, refreshToken: refreshToken}
}

func (d *DeviceSession) SignOut(ctx context.Context) error {
	utils.RevokeRefreshToken(d.store.rdb, d.refreshToken)
	return nil
}
