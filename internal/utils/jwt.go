package utils

import (
	"errors"
	"os"
	"strconv"
	"time"

	"lipa/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
	tokenIssuer     = "lipa-api"
)

var errNoSecret = errors.New("JWT_SECRET not configured")

func signingSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errNoSecret
	}
	return []byte(secret), nil
}

// GenerateTokens issues the access/refresh pair for the given user claims.
// Both tokens carry the token version current at signing time, so a version
// bump invalidates the pair at once. The refresh token drops the permission
// list; permissions are re-derived from the role when it is redeemed.
func GenerateTokens(claims *models.UserClaims) (accessToken string, refreshToken string, err error) {
	secret, err := signingSecret()
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	base := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			Issuer:   tokenIssuer,
			Subject:  strconv.FormatUint(uint64(claims.UserID), 10),
		},
		UserID:       claims.UserID,
		Email:        claims.Email,
		Role:         claims.Role,
		TokenVersion: claims.TokenVersion,
	}

	access := base
	access.ExpiresAt = jwt.NewNumericDate(now.Add(accessTokenTTL))
	access.Permissions = claims.Permissions
	accessToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, access).SignedString(secret)
	if err != nil {
		return "", "", err
	}

	refresh := base
	refresh.ExpiresAt = jwt.NewNumericDate(now.Add(refreshTokenTTL))
	refreshToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, refresh).SignedString(secret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ParseToken validates a token string and returns its claims.
func ParseToken(tokenStr string) (*jwt.Token, *models.UserClaims, error) {
	secret, err := signingSecret()
	if err != nil {
		return nil, nil, err
	}

	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, nil, err
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, nil, errors.New("invalid token claims")
	}

	return token, claims, nil
}
