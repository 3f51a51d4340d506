package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"lipa/internal/models"
	"lipa/internal/services/ledger"
	"lipa/internal/services/notification"
	"lipa/internal/utils"
	"lipa/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const signatureHeader = "X-Callback-Signature"

// CallbackHandler receives settlement notices from the payment gateway and
// the fulfilment providers. These endpoints are unauthenticated; when a
// shared secret is configured every request must carry a valid HMAC-SHA256
// signature of the raw body.
type CallbackHandler struct {
	engine   ledger.Service
	notifier *notification.Service
	secret   string
}

func NewCallbackHandler(engine ledger.Service, notifier *notification.Service, secret string) *CallbackHandler {
	return &CallbackHandler{
		engine:   engine,
		notifier: notifier,
		secret:   secret,
	}
}

func (h *CallbackHandler) verifySignature(c *fiber.Ctx) bool {
	if h.secret == "" {
		return true
	}
	signature := c.Get(signatureHeader)
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(c.Body())
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// DepositCallback settles a deposit by its payment reference. The gateway
// may retry; replays are rejected with a conflict and never credit twice.
func (h *CallbackHandler) DepositCallback(c *fiber.Ctx) error {
	if !h.verifySignature(c) {
		return utils.Unauthorized(c, "invalid callback signature")
	}

	var input struct {
		PaymentReference string `json:"payment_reference"`
		Status           string `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.Required("payment_reference", input.PaymentReference)
	v.Required("status", input.Status)
	if !v.Valid() {
		return utils.BadRequest(c, v.FirstError())
	}

	deposit, err := h.engine.ApplyDepositCallback(c.Context(), input.PaymentReference, input.Status)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.notifier.SendDepositSettled(c.Context(), deposit); err != nil {
		logrus.WithError(err).Warn("deposit settlement notice failed")
	}

	return utils.Success(c, fiber.Map{
		"message": "callback processed",
		"deposit": deposit,
	})
}

// PurchaseCallback settles a purchase from the fulfilment provider. The
// provider's status vocabulary is mapped the same way as the gateway's.
func (h *CallbackHandler) PurchaseCallback(c *fiber.Ctx) error {
	if !h.verifySignature(c) {
		return utils.Unauthorized(c, "invalid callback signature")
	}

	var input struct {
		TransactionID uint   `json:"transaction_id"`
		Status        string `json:"status"`
		ProviderRef   string `json:"provider_ref"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.Check(input.TransactionID != 0, "transaction_id", "is required")
	v.Required("status", input.Status)
	if !v.Valid() {
		return utils.BadRequest(c, v.FirstError())
	}

	tx, err := h.engine.ApplyTransactionStatus(c.Context(), input.TransactionID,
		models.MapCallbackStatus(input.Status), input.ProviderRef)
	if err != nil {
		return respondError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message":     "callback processed",
		"transaction": tx,
	})
}
