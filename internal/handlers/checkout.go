package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/asianbasket/internal/checkout"
	"github.com/example/asianbasket/internal/middleware"
)

// CheckoutHandler serves live delivery quotes for the checkout form.
type CheckoutHandler struct {
	db       *gorm.DB
	checkout *checkout.Service
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(db *gorm.DB, checkoutSvc *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{db: db, checkout: checkoutSvc}
}

type quoteRequest struct {
	Items      []cartLineRequest `json:"items"`
	City       string            `json:"city"`
	PostalCode string            `json:"postal_code"`
}

// Quote recomputes the delivery fee breakdown and grand total for the current
// cart and address. The UI calls this on every address field change, so it
// must stay side-effect free.
func (h *CheckoutHandler) Quote(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req quoteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	lines, _, err := resolveCartLines(h.db, req.Items)
	if err != nil {
		return err
	}

	quote, err := h.checkout.BuildQuote(userID, lines, req.City, req.PostalCode)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": quote})
}
