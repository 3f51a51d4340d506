package handlers

import (
	"lipa/internal/services/referral"
	"lipa/internal/services/user"
	"lipa/internal/utils"
	"lipa/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService     user.Service
	referralService referral.Service
}

func NewUserHandler(userSvc user.Service, referralSvc referral.Service) *UserHandler {
	return &UserHandler{
		userService:     userSvc,
		referralService: referralSvc,
	}
}

// Register creates a new account with an empty wallet.
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.Registration(input.Name, input.Email, input.Phone, input.Password)
	if !v.Valid() {
		return utils.BadRequest(c, v.FirstError())
	}

	created, err := h.userService.Register(c.Context(), user.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: input.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	return utils.Created(c, fiber.Map{
		"message": "account created",
		"user":    created,
	})
}

// GetProfile returns the caller's account, wallet balances included.
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	account, err := h.userService.GetByID(c.Context(), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"user": account})
}

// RedeemReferral credits both sides of a referral. One redemption per
// account.
func (h *UserHandler) RedeemReferral(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	reward, err := h.referralService.Redeem(c.Context(), claims.UserID, input.Code)
	if err != nil {
		return respondError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message": "referral redeemed",
		"reward":  reward,
	})
}

// GetReferralCode returns the caller's own shareable code.
func (h *UserHandler) GetReferralCode(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	code, err := h.referralService.GetCode(c.Context(), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"referral_code": code})
}
