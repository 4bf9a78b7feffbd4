package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User        *User     `json:"user,omitempty"`
	OrderNumber string    `gorm:"uniqueIndex" json:"order_number"`
	Status      string    `json:"status"`
	PlacedAt    time.Time `json:"placed_at"`
	Subtotal    float64   `json:"subtotal"`

	// Delivery fee breakdown captured at quote time.
	DeliveryBaseFee       float64 `json:"delivery_base_fee"`
	DeliveryStapleOnlyFee float64 `json:"delivery_staple_only_fee"`
	DeliveryHeavyPackFee  float64 `json:"delivery_heavy_pack_fee"`
	DeliveryOutOfZoneFee  float64 `json:"delivery_out_of_zone_fee"`
	DeliveryOverweightFee float64 `json:"delivery_overweight_fee"`
	DeliveryTotal         float64 `json:"delivery_total"`
	TotalWeightKg         float64 `json:"total_weight_kg"`
	HasFrozenItems        bool    `json:"has_frozen_items"`
	IsOutsideZone         bool    `json:"is_outside_zone"`

	VoucherCode     string  `json:"voucher_code"`
	VoucherDiscount float64 `json:"voucher_discount"`
	GrandTotal      float64 `json:"grand_total"`
	PaymentID       string  `json:"payment_id"`

	DeliveryName       string `json:"delivery_name"`
	DeliveryPhone      string `json:"delivery_phone"`
	DeliveryStreet     string `json:"delivery_street"`
	DeliveryCity       string `json:"delivery_city"`
	DeliveryPostalCode string `json:"delivery_postal_code"`
	Notes              string `json:"notes"`

	Items []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	BaseModel
	OrderID      uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	ProductID    *uuid.UUID `gorm:"type:uuid" json:"product_id"`
	ProductSlug  string     `gorm:"index" json:"product_slug"`
	ProductName  string     `json:"product_name"`
	Category     string     `json:"category"`
	Quantity     int        `json:"quantity"`
	UnitPrice    float64    `json:"unit_price"`
	LineTotal    float64    `json:"line_total"`
	UnitWeightKg *float64   `json:"unit_weight_kg,omitempty"`
	IsFrozen     *bool      `json:"is_frozen,omitempty"`
}
