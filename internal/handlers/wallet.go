package handlers

import (
	"lipa/internal/services/ledger"
	"lipa/internal/utils"
	"lipa/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const defaultHistoryLimit = 20

type WalletHandler struct {
	engine ledger.Service
}

func NewWalletHandler(engine ledger.Service) *WalletHandler {
	return &WalletHandler{engine: engine}
}

// Deposit opens a pending top-up and returns the payment reference the
// gateway will echo back in its callback. Nothing is credited yet.
func (h *WalletHandler) Deposit(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount decimal.Decimal `json:"amount"`
		Method string          `json:"method"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.Amount("amount", input.Amount)
	v.DepositMethod("method", input.Method)
	if !v.Valid() {
		return utils.BadRequest(c, v.FirstError())
	}

	deposit, err := h.engine.CreateDeposit(c.Context(), claims.UserID, input.Amount, input.Method)
	if err != nil {
		return respondError(c, err)
	}

	return utils.Created(c, fiber.Map{
		"message": "deposit initiated",
		"deposit": deposit,
	})
}

// Withdraw places a hold on the amount and opens a pending payout.
func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount        decimal.Decimal `json:"amount"`
		BankName      string          `json:"bank_name"`
		AccountNumber string          `json:"account_number"`
		AccountName   string          `json:"account_name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.Amount("amount", input.Amount)
	v.BankDetails(input.BankName, input.AccountNumber, input.AccountName)
	if !v.Valid() {
		return utils.BadRequest(c, v.FirstError())
	}

	withdrawal, err := h.engine.CreateWithdrawal(c.Context(), claims.UserID, input.Amount, ledger.BankDetails{
		BankName:      input.BankName,
		AccountNumber: input.AccountNumber,
		AccountName:   input.AccountName,
	})
	if err != nil {
		return respondError(c, err)
	}

	return utils.Created(c, fiber.Map{
		"message":    "withdrawal initiated",
		"withdrawal": withdrawal,
	})
}

// Transfer debits the caller and opens a pending transfer to the recipient.
func (h *WalletHandler) Transfer(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		ToEmail string          `json:"to_email"`
		Amount  decimal.Decimal `json:"amount"`
		Note    string          `json:"note"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.Required("to_email", input.ToEmail)
	v.Amount("amount", input.Amount)
	v.MaxLength("note", input.Note, validation.MaxNoteLength)
	if !v.Valid() {
		return utils.BadRequest(c, v.FirstError())
	}

	transfer, err := h.engine.CreateTransfer(c.Context(), claims.UserID, input.ToEmail, input.Amount, input.Note)
	if err != nil {
		return respondError(c, err)
	}

	return utils.Created(c, fiber.Map{
		"message":  "transfer initiated",
		"transfer": transfer,
	})
}

// ExchangeCoins converts loyalty coins to wallet balance at the configured
// rate. Settles synchronously.
func (h *WalletHandler) ExchangeCoins(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Coins int64 `json:"coins"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	exchange, err := h.engine.ExchangeCoins(c.Context(), claims.UserID, input.Coins)
	if err != nil {
		return respondError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message":  "coins exchanged",
		"exchange": exchange,
	})
}

// GetDeposits lists the caller's deposits, newest first.
func (h *WalletHandler) GetDeposits(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p := utils.GetPagination(c, 1, defaultHistoryLimit)
	rows, total, err := h.engine.ListDeposits(c.Context(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(rows, p))
}

// GetWithdrawals lists the caller's withdrawals, newest first.
func (h *WalletHandler) GetWithdrawals(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p := utils.GetPagination(c, 1, defaultHistoryLimit)
	rows, total, err := h.engine.ListWithdrawals(c.Context(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(rows, p))
}

// GetTransfers lists transfers the caller sent or received, newest first.
func (h *WalletHandler) GetTransfers(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p := utils.GetPagination(c, 1, defaultHistoryLimit)
	rows, total, err := h.engine.ListTransfers(c.Context(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(rows, p))
}

// GetCoinExchanges lists the caller's coin exchanges, newest first.
func (h *WalletHandler) GetCoinExchanges(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p := utils.GetPagination(c, 1, defaultHistoryLimit)
	rows, total, err := h.engine.ListCoinExchanges(c.Context(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(rows, p))
}
