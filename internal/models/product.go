package models

import "github.com/lib/pq"

// Product is a catalog item. Weight and frozen flag are optional; when nil the
// pricing rules infer them from the category and name keywords.
type Product struct {
	BaseModel
	Slug         string         `gorm:"uniqueIndex" json:"slug"`
	Name         string         `json:"name"`
	Category     string         `gorm:"index" json:"category"`
	Description  string         `json:"description"`
	Price        float64        `json:"price"`
	UnitWeightKg *float64       `json:"unit_weight_kg,omitempty"`
	IsFrozen     *bool          `json:"is_frozen,omitempty"`
	Tags         pq.StringArray `gorm:"type:text[]" json:"tags"`
	ImageURL     string         `json:"image_url"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
}
