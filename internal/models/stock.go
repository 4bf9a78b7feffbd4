package models

import (
	"time"

	"github.com/google/uuid"
)

// StockLevel holds the remaining units for a product, keyed by the catalog
// product ID.
type StockLevel struct {
	BaseModel
	ProductID string `gorm:"uniqueIndex" json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// StockAlert records a low-stock notification raised after an order decrement.
type StockAlert struct {
	BaseModel
	OccurredAt time.Time        `json:"occurred_at"`
	Notified   bool             `json:"notified"`
	Items      []StockAlertItem `json:"items,omitempty"`
}

type StockAlertItem struct {
	BaseModel
	AlertID   uuid.UUID `gorm:"type:uuid;index" json:"alert_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
}
