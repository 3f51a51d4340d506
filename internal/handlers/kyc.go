package handlers

import (
	"lipa/internal/services/kyc"
	"lipa/internal/utils"
	"lipa/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type KYCHandler struct {
	kycService kyc.Service
}

func NewKYCHandler(kycSvc kyc.Service) *KYCHandler {
	return &KYCHandler{kycService: kycSvc}
}

// Submit opens a verification case for the caller. One open case at a time;
// verified accounts cannot resubmit.
func (h *KYCHandler) Submit(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		DocumentType string `json:"document_type"`
		DocumentID   string `json:"document_id"`
		ScanURL      string `json:"scan_url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.DocumentType("document_type", input.DocumentType)
	v.Required("document_id", input.DocumentID)
	if !v.Valid() {
		return utils.BadRequest(c, v.FirstError())
	}

	verification, err := h.kycService.Submit(c.Context(), claims.UserID,
		input.DocumentType, input.DocumentID, input.ScanURL)
	if err != nil {
		return respondError(c, err)
	}

	return utils.Created(c, fiber.Map{
		"message":      "verification submitted",
		"verification": verification,
	})
}

// GetStatus returns the caller's latest verification case.
func (h *KYCHandler) GetStatus(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	verification, err := h.kycService.GetStatus(c.Context(), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"verification": verification})
}
