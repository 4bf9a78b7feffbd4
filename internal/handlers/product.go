package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/asianbasket/internal/models"
	"github.com/example/asianbasket/internal/stock"
	"github.com/example/asianbasket/internal/utils"
)

// ProductHandler serves the storefront catalog. Listings are decorated with
// the stock ledger's customer-facing availability notes.
type ProductHandler struct {
	db    *gorm.DB
	stock *stock.Ledger
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB, stockLedger *stock.Ledger) *ProductHandler {
	return &ProductHandler{db: db, stock: stockLedger}
}

type productView struct {
	models.Product
	StockMessage string `json:"stock_message,omitempty"`
	OutOfStock   bool   `json:"out_of_stock"`
	LowStock     bool   `json:"low_stock"`
}

func (h *ProductHandler) withStock(p models.Product) productView {
	view := productView{Product: p}
	view.OutOfStock = h.stock.IsOutOfStock(p.Slug)
	view.LowStock = h.stock.IsLowStock(p.Slug)
	if msg, ok := h.stock.StatusMessage(p.Slug); ok {
		view.StockMessage = msg
	}
	return view
}

// ListProducts returns paginated products with optional category and search
// filters.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Product{}).Where("is_active = ?", true)

	if category := c.Query("category"); category != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(category))
	}
	if search := c.Query("q"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Order("name asc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&products).Error; err != nil {
		return err
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, h.withStock(p))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    views,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetProduct returns a single product by slug.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var product models.Product
	if err := h.db.First(&product, "slug = ?", slug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": h.withStock(product)})
}

// ListCategories returns the distinct active product categories.
func (h *ProductHandler) ListCategories(c *fiber.Ctx) error {
	var categories []string
	if err := h.db.Model(&models.Product{}).
		Where("is_active = ?", true).
		Distinct().
		Order("category asc").
		Pluck("category", &categories).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": categories})
}
