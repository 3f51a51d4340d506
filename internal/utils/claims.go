package utils

import (
	"errors"

	"lipa/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ClaimsKey is the fiber locals key under which the auth middleware stores
// the verified token claims.
const ClaimsKey = "claims"

var errNoClaims = errors.New("no authenticated claims on request")

// GetUserClaims returns the claims the auth middleware verified for this
// request. Calling it on a route outside the middleware is a wiring bug.
func GetUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals(ClaimsKey).(*models.UserClaims)
	if !ok {
		return nil, errNoClaims
	}
	return claims, nil
}
