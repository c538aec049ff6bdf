package utils

import (
	"context"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

var bgContext = context.Background()

// AccessToken is the JWT claim set carried by every authenticated request.
type AccessToken struct {
	ID string `json:"ID"`
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// CreateTokenPair signs a 24h access token and a 1y refresh token for the
// user. Refresh tokens are tracked in Redis so logout can revoke them.
func CreateTokenPair(rdb *redis.Client, userID string) (*jwt.TokenPair, error) {
	accessTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 24*time.Hour)
	refreshTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("REFRESH_TOKEN_SECRET"), 365*24*time.Hour)

	accessToken, err := accessTokenSigner.Sign(AccessToken{ID: userID})
	if err != nil {
		return nil, err
	}

	refreshToken, err := refreshTokenSigner.Sign(jwt.Claims{Subject: userID})
	if err != nil {
		return nil, err
	}

	var tokenPair jwt.TokenPair
	tokenPair.AccessToken = accessToken
	tokenPair.RefreshToken = refreshToken

	if err := rdb.Set(bgContext, string(refreshToken), "true", 365*24*time.Hour+5*time.Minute).Err(); err != nil {
		return nil, err
	}

	return &tokenPair, nil
}

// RevokeRefreshToken drops the token from the Redis allow-list. Revoking a
// token that is already gone is a no-op.
func RevokeRefreshToken(rdb *redis.Client, refreshToken string) {
	rdb.Del(bgContext, refreshToken)
}

// RefreshTokenIsValid checks the Redis allow-list for the given token.
func RefreshTokenIsValid(rdb *redis.Client, refreshToken string) bool {
	val, err := rdb.Get(bgContext, refreshToken).Result()
	return err == nil && val == "true"
}

// GetUserID extracts the authenticated user from the verified access token.
// Returns "" when the request carries no verified token.
func GetUserID(ctx iris.Context) string {
	tok := jwt.Get(ctx)
	if tok == nil {
		return ""
	}
	claims, ok := tok.(*AccessToken)
	if !ok {
		return ""
	}
	return claims.ID
}
