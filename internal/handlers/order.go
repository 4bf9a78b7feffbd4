package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/asianbasket/internal/checkout"
	"github.com/example/asianbasket/internal/middleware"
	"github.com/example/asianbasket/internal/models"
	"github.com/example/asianbasket/internal/payment"
	"github.com/example/asianbasket/internal/pricing"
	"github.com/example/asianbasket/internal/stock"
	"github.com/example/asianbasket/internal/utils"
)

// OrderHandler manages order placement, payment and history.
type OrderHandler struct {
	db       *gorm.DB
	checkout *checkout.Service
	payments *payment.Simulator
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, checkoutSvc *checkout.Service, payments *payment.Simulator) *OrderHandler {
	return &OrderHandler{db: db, checkout: checkoutSvc, payments: payments}
}

type cartLineRequest struct {
	ProductSlug string `json:"product_slug"`
	Quantity    int    `json:"quantity"`
}

type createOrderRequest struct {
	Items      []cartLineRequest `json:"items"`
	Name       string            `json:"name"`
	Phone      string            `json:"phone"`
	Street     string            `json:"street"`
	City       string            `json:"city"`
	PostalCode string            `json:"postal_code"`
	Notes      string            `json:"notes"`
}

// resolveCartLines loads the referenced products and builds priced cart lines.
// Quantities are validated; prices, weights and frozen flags come from the
// catalog, never from the client.
func resolveCartLines(db *gorm.DB, items []cartLineRequest) ([]pricing.CartLine, []models.Product, error) {
	if len(items) == 0 {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "cart is empty")
	}

	slugs := make([]string, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "invalid quantity")
		}
		slugs = append(slugs, item.ProductSlug)
	}

	var products []models.Product
	if err := db.Where("slug IN ?", slugs).Find(&products).Error; err != nil {
		return nil, nil, err
	}

	bySlug := make(map[string]models.Product, len(products))
	for _, p := range products {
		bySlug[p.Slug] = p
	}

	lines := make([]pricing.CartLine, 0, len(items))
	resolved := make([]models.Product, 0, len(items))
	for _, item := range items {
		p, ok := bySlug[item.ProductSlug]
		if !ok {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("unknown product %q", item.ProductSlug))
		}
		lines = append(lines, pricing.CartLine{
			ProductID: p.Slug,
			Name:      p.Name,
			Category:  p.Category,
			UnitPrice: p.Price,
			Quantity:  item.Quantity,
			WeightKg:  p.UnitWeightKg,
			IsFrozen:  p.IsFrozen,
		})
		resolved = append(resolved, p)
	}

	return lines, resolved, nil
}

// CreateOrder places a pending order with the delivery quote and any applied
// voucher frozen in.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.City == "" || req.Street == "" || req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing delivery address fields")
	}

	lines, products, err := resolveCartLines(h.db, req.Items)
	if err != nil {
		return err
	}

	quote, err := h.checkout.BuildQuote(userID, lines, req.City, req.PostalCode)
	if err != nil {
		return err
	}

	order := models.Order{
		UserID:      userID,
		OrderNumber: generateOrderNumber(),
		Status:      models.OrderStatusPending,
		PlacedAt:    time.Now(),
		Subtotal:    quote.Subtotal,

		DeliveryBaseFee:       quote.Delivery.BaseFee,
		DeliveryStapleOnlyFee: quote.Delivery.StapleOnlyFee,
		DeliveryHeavyPackFee:  quote.Delivery.HeavyPackFee,
		DeliveryOutOfZoneFee:  quote.Delivery.OutOfZoneFee,
		DeliveryOverweightFee: quote.Delivery.OverweightFee,
		DeliveryTotal:         quote.Delivery.Total,
		TotalWeightKg:         quote.Delivery.TotalWeightKg,
		HasFrozenItems:        quote.Delivery.HasFrozenItems,
		IsOutsideZone:         quote.Delivery.IsOutsideZone,

		VoucherCode:     quote.VoucherCode,
		VoucherDiscount: quote.VoucherDiscount,
		GrandTotal:      quote.GrandTotal,

		DeliveryName:       req.Name,
		DeliveryPhone:      req.Phone,
		DeliveryStreet:     req.Street,
		DeliveryCity:       req.City,
		DeliveryPostalCode: req.PostalCode,
		Notes:              req.Notes,
	}

	for i, line := range lines {
		productID := products[i].ID
		order.Items = append(order.Items, models.OrderItem{
			ProductID:    &productID,
			ProductSlug:  line.ProductID,
			ProductName:  line.Name,
			Category:     line.Category,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			LineTotal:    line.UnitPrice * float64(line.Quantity),
			UnitWeightKg: line.WeightKg,
			IsFrozen:     line.IsFrozen,
		})
	}

	if err := h.db.Create(&order).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":           order.ID,
			"order_number": order.OrderNumber,
			"status":       order.Status,
			"placed_at":    order.PlacedAt,
			"quote":        quote,
		},
	})
}

// PayOrder runs the simulated payment for a pending order and, exactly once,
// the completion sequence: spend the applied voucher, issue a new one off the
// final total, decrement stock.
func (h *OrderHandler) PayOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").
		First(&order, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	result, err := h.payments.Charge(order.GrandTotal)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "payment failed")
	}

	// Atomic pending->paid transition guards the completion sequence against
	// duplicate payment callbacks.
	res := h.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, models.OrderStatusPending).
		Updates(map[string]any{
			"status":     models.OrderStatusPaid,
			"payment_id": result.PaymentID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusConflict, "order is not payable")
	}

	decrementLines := make([]stock.Item, 0, len(order.Items))
	for _, item := range order.Items {
		decrementLines = append(decrementLines, stock.Item{
			ProductID: item.ProductSlug,
			Quantity:  item.Quantity,
		})
	}

	issued, err := h.checkout.Complete(checkout.CompletedOrder{
		UserID:      userID,
		OrderNumber: order.OrderNumber,
		GrandTotal:  order.GrandTotal,
		VoucherCode: order.VoucherCode,
		Lines:       decrementLines,
	})
	if err != nil {
		return err
	}

	response := fiber.Map{
		"success": true,
		"data": fiber.Map{
			"order_number": order.OrderNumber,
			"status":       models.OrderStatusPaid,
			"payment_id":   result.PaymentID,
			"grand_total":  order.GrandTotal,
		},
	}
	if issued != nil {
		response["voucher"] = issued
	}

	return c.JSON(response)
}

// ListOrders returns orders for the authenticated user.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Where("user_id = ?", userID).Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("placed_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order for the authenticated user.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").
		First(&order, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%09d", time.Now().UnixNano()%1_000_000_000)
}
