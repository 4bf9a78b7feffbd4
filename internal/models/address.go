package models

import "github.com/google/uuid"

// UserAddress is a saved delivery address in the user's address book.
type UserAddress struct {
	BaseModel
	UserID        uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Label         string    `json:"label"`
	RecipientName string    `json:"recipient_name"`
	Phone         string    `json:"phone"`
	Street        string    `json:"street"`
	City          string    `json:"city"`
	County        string    `json:"county"`
	PostalCode    string    `json:"postal_code"`
	IsDefault     bool      `json:"is_default"`
}
