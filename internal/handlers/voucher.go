package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/asianbasket/internal/middleware"
	"github.com/example/asianbasket/internal/voucher"
)

// VoucherHandler exposes the voucher ledger to the storefront.
type VoucherHandler struct {
	vouchers *voucher.Ledger
}

// NewVoucherHandler constructs VoucherHandler.
func NewVoucherHandler(vouchers *voucher.Ledger) *VoucherHandler {
	return &VoucherHandler{vouchers: vouchers}
}

// ListValid returns the user's redeemable vouchers (the Offers page).
func (h *VoucherHandler) ListValid(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	valid, err := h.vouchers.ListValid(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": valid})
}

type redeemRequest struct {
	Code string `json:"code"`
}

// Redeem validates a code and applies it to the checkout session. Validation
// failures are result values, not HTTP errors: the response is 200 with
// success=false and the customer-facing reason.
func (h *VoucherHandler) Redeem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req redeemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.vouchers.Redeem(userID, req.Code)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  result.Success,
		"discount": result.Discount,
		"error":    result.Error,
	})
}

// ClearApplied drops the session's applied voucher without spending it, for
// when the customer removes the code or abandons checkout.
func (h *VoucherHandler) ClearApplied(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	h.vouchers.ClearApplied(userID)
	return c.JSON(fiber.Map{"success": true})
}
