package handlers

import (
	"lipa/internal/models"
	"lipa/internal/services/kyc"
	"lipa/internal/services/ledger"
	"lipa/internal/services/user"
	"lipa/internal/utils"
	"lipa/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler is the back-office surface: account freezes, KYC review and
// manual settlement of pending movements. Every route behind it requires the
// admin role.
type AdminHandler struct {
	userService user.Service
	kycService  kyc.Service
	engine      ledger.Service
}

func NewAdminHandler(userSvc user.Service, kycSvc kyc.Service, engine ledger.Service) *AdminHandler {
	return &AdminHandler{
		userService: userSvc,
		kycService:  kycSvc,
		engine:      engine,
	}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, defaultHistoryLimit)
	rows, total, err := h.userService.List(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(rows, p))
}

// SetBlocked freezes or unfreezes an account. Frozen accounts fail every
// money movement at the guard.
func (h *AdminHandler) SetBlocked(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid user id")
	}

	var input struct {
		Blocked bool `json:"blocked"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	if err := h.userService.SetBlocked(c.Context(), id, input.Blocked); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"message": "account updated",
		"blocked": input.Blocked,
	})
}

func (h *AdminHandler) ListPendingKYC(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, defaultHistoryLimit)
	rows, total, err := h.kycService.ListPending(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(rows, p))
}

// ReviewKYC decides a pending verification case. One decision per case.
func (h *AdminHandler) ReviewKYC(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	caseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid case id")
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.OneOf("status", input.Status, models.KYCStatusVerified, models.KYCStatusRejected)
	if !v.Valid() {
		return utils.BadRequest(c, v.FirstError())
	}

	verification, err := h.kycService.Review(c.Context(), caseID, claims.UserID, input.Status)
	if err != nil {
		return respondError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message":      "verification reviewed",
		"verification": verification,
	})
}

func (h *AdminHandler) ListPendingTransactions(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, defaultHistoryLimit)
	rows, total, err := h.engine.ListPendingTransactions(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(rows, p))
}

func (h *AdminHandler) ListPendingTransfers(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, defaultHistoryLimit)
	rows, total, err := h.engine.ListPendingTransfers(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(rows, p))
}

func (h *AdminHandler) ListPendingWithdrawals(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, defaultHistoryLimit)
	rows, total, err := h.engine.ListPendingWithdrawals(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(rows, p))
}

// settleInput names the terminal state a pending movement moves to. The
// engine rejects anything that is not terminal.
type settleInput struct {
	Status      string `json:"status"`
	ProviderRef string `json:"provider_ref"`
}

// SettleTransaction completes, fails or cancels a pending purchase.
func (h *AdminHandler) SettleTransaction(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid transaction id")
	}

	var input settleInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	tx, err := h.engine.ApplyTransactionStatus(c.Context(), id,
		models.MovementStatus(input.Status), input.ProviderRef)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"message":     "transaction settled",
		"transaction": tx,
	})
}

// SettleTransfer completes, fails or cancels a pending transfer.
func (h *AdminHandler) SettleTransfer(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid transfer id")
	}

	var input settleInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	transfer, err := h.engine.ApplyTransferStatus(c.Context(), id, models.MovementStatus(input.Status))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"message":  "transfer settled",
		"transfer": transfer,
	})
}

// SettleWithdrawal completes, fails or cancels a pending withdrawal.
func (h *AdminHandler) SettleWithdrawal(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid withdrawal id")
	}

	var input settleInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	withdrawal, err := h.engine.ApplyWithdrawalStatus(c.Context(), id, models.MovementStatus(input.Status))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"message":    "withdrawal settled",
		"withdrawal": withdrawal,
	})
}
