package handlers

import (
	"errors"

	errs "lipa/internal/errors"
	"lipa/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// statusByCode maps the domain error taxonomy onto HTTP statuses.
var statusByCode = map[string]int{
	"USER_NOT_FOUND":          fiber.StatusNotFound,
	"RECIPIENT_NOT_FOUND":     fiber.StatusNotFound,
	"PRODUCT_NOT_FOUND":       fiber.StatusNotFound,
	"DEPOSIT_NOT_FOUND":       fiber.StatusNotFound,
	"TRANSACTION_NOT_FOUND":   fiber.StatusNotFound,
	"TRANSFER_NOT_FOUND":      fiber.StatusNotFound,
	"WITHDRAWAL_NOT_FOUND":    fiber.StatusNotFound,
	"KYC_NOT_FOUND":           fiber.StatusNotFound,
	"REFERRAL_CODE_NOT_FOUND": fiber.StatusNotFound,

	"ACCOUNT_BLOCKED":   fiber.StatusForbidden,
	"RECIPIENT_BLOCKED": fiber.StatusForbidden,
	"KYC_REQUIRED":      fiber.StatusForbidden,

	"INSUFFICIENT_BALANCE": fiber.StatusBadRequest,
	"INSUFFICIENT_COINS":   fiber.StatusBadRequest,
	"BELOW_MINIMUM":        fiber.StatusBadRequest,
	"INVALID_AMOUNT":       fiber.StatusBadRequest,
	"SELF_OPERATION":       fiber.StatusBadRequest,
	"PRODUCT_INACTIVE":     fiber.StatusBadRequest,

	"EMAIL_TAKEN":       fiber.StatusConflict,
	"PHONE_TAKEN":       fiber.StatusConflict,
	"KYC_PENDING":       fiber.StatusConflict,
	"ALREADY_PROCESSED": fiber.StatusConflict,
	"INVALID_STATE":     fiber.StatusConflict,

	"INVALID_CREDENTIALS": fiber.StatusUnauthorized,
	"INVALID_TOKEN":       fiber.StatusUnauthorized,

	"GENERATION_EXHAUSTED": fiber.StatusInternalServerError,
}

// respondError translates a service error into {"error", "code"}. Storage
// and unexpected errors collapse into a generic 500 so internals never
// reach the wire.
func respondError(c *fiber.Ctx, err error) error {
	var domainErr *errs.DomainError
	if errors.As(err, &domainErr) && domainErr.Code != "STORAGE_ERROR" {
		status, ok := statusByCode[domainErr.Code]
		if !ok {
			status = fiber.StatusBadRequest
		}
		return utils.Respond(c, status, fiber.Map{
			"error": domainErr.Message,
			"code":  domainErr.Code,
		})
	}

	logrus.WithError(err).WithField("path", c.Path()).Error("request failed")
	return utils.InternalError(c, "something went wrong")
}
