package models

import (
	"time"

	"github.com/google/uuid"
)

// Voucher is a single-use discount code issued after a qualifying order.
type Voucher struct {
	BaseModel
	UserID        uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Code          string    `gorm:"uniqueIndex" json:"code"`
	Amount        float64   `json:"amount"`
	MinOrderValue float64   `json:"min_order_value"`
	IssuedAt      time.Time `json:"issued_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	IsUsed        bool      `json:"is_used"`
	OrderNumber   string    `json:"order_number"`
}
