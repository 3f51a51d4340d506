package handlers

import (
	"strconv"

	"lipa/internal/services/catalog"
	"lipa/internal/services/ledger"
	"lipa/internal/utils"
	"lipa/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	catalogService catalog.Service
	engine         ledger.Service
}

func NewProductHandler(catalogSvc catalog.Service, engine ledger.Service) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogSvc,
		engine:         engine,
	}
}

// ListProducts is the storefront listing. Only active products are shown.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, defaultHistoryLimit)
	rows, total, err := h.catalogService.ListProducts(c.Context(), true, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(rows, p))
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid product id")
	}

	product, err := h.catalogService.GetProduct(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"product": product})
}

// Buy debits the wallet for the product price and opens a pending purchase.
// TargetID names where the good is delivered (phone number, meter number).
func (h *ProductHandler) Buy(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		ProductID uint   `json:"product_id"`
		TargetID  string `json:"target_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.Check(input.ProductID != 0, "product_id", "is required")
	v.Required("target_id", input.TargetID)
	if !v.Valid() {
		return utils.BadRequest(c, v.FirstError())
	}

	tx, err := h.engine.CreatePurchase(c.Context(), claims.UserID, input.ProductID, input.TargetID)
	if err != nil {
		return respondError(c, err)
	}

	return utils.Created(c, fiber.Map{
		"message":     "purchase initiated",
		"transaction": tx,
	})
}

// GetTransactions lists the caller's purchases, newest first.
func (h *ProductHandler) GetTransactions(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p := utils.GetPagination(c, 1, defaultHistoryLimit)
	rows, total, err := h.engine.ListTransactions(c.Context(), claims.UserID, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	p.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(rows, p))
}

// parseIDParam reads a numeric path parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}
