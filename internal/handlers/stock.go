package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/asianbasket/internal/stock"
)

// StockHandler exposes stock status and the low-stock alert feed.
type StockHandler struct {
	stock *stock.Ledger
}

// NewStockHandler constructs StockHandler.
func NewStockHandler(stockLedger *stock.Ledger) *StockHandler {
	return &StockHandler{stock: stockLedger}
}

// GetStatus returns the availability of a single product.
func (h *StockHandler) GetStatus(c *fiber.Ctx) error {
	productID := c.Params("productId")

	data := fiber.Map{
		"product_id":   productID,
		"quantity":     h.stock.Quantity(productID),
		"low_stock":    h.stock.IsLowStock(productID),
		"out_of_stock": h.stock.IsOutOfStock(productID),
	}
	if msg, ok := h.stock.StatusMessage(productID); ok {
		data["message"] = msg
	}

	return c.JSON(fiber.Map{"success": true, "data": data})
}

// ListAlerts returns the retained low-stock alert history.
func (h *StockHandler) ListAlerts(c *fiber.Ctx) error {
	alerts, err := h.stock.RecentAlerts()
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": alerts})
}
