package database

import (
	"log"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/example/asianbasket/internal/models"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrBool(v bool) *bool        { return &v }

// seedProducts is the default catalog. Slugs double as stock ledger keys.
var seedProducts = []models.Product{
	{Slug: "basmati-rice-5kg", Name: "Premium Basmati Rice 5kg", Category: "Rice", Price: 12.99, Tags: pq.StringArray{"staple", "bestseller"}},
	{Slug: "basmati-rice-10kg", Name: "Premium Basmati Rice 10kg", Category: "Rice", Price: 22.99, Tags: pq.StringArray{"staple"}},
	{Slug: "chakki-atta-20kg", Name: "Chakki Fresh Atta 20kg", Category: "Atta", Price: 24.99, Tags: pq.StringArray{"staple", "bulk"}},
	{Slug: "chakki-atta-10kg", Name: "Chakki Fresh Atta 10kg", Category: "Atta", Price: 13.99, Tags: pq.StringArray{"staple"}},
	{Slug: "whole-wheat-flour-20kg", Name: "Whole Wheat Flour 20kg", Category: "Flour", Price: 21.99, Tags: pq.StringArray{"staple", "bulk"}},
	{Slug: "red-lentils-2kg", Name: "Red Lentils 2kg", Category: "Grains", Price: 5.49, Tags: pq.StringArray{"staple"}},
	{Slug: "frozen-chicken-1kg", Name: "Frozen Chicken Breast 1kg", Category: "Frozen Meat", Price: 8.99, IsFrozen: ptrBool(true), Tags: pq.StringArray{"frozen"}},
	{Slug: "frozen-prawns-500g", Name: "Frozen Tiger Prawns 500g", Category: "Frozen Seafood", Price: 9.99, IsFrozen: ptrBool(true), UnitWeightKg: ptrFloat(0.5), Tags: pq.StringArray{"frozen"}},
	{Slug: "frozen-paratha", Name: "Frozen Paratha Family Pack", Category: "Frozen Foods", Price: 4.99, IsFrozen: ptrBool(true), Tags: pq.StringArray{"frozen"}},
	{Slug: "okra-fresh", Name: "Fresh Okra", Category: "Vegetables", Price: 3.49, Tags: pq.StringArray{"fresh"}},
	{Slug: "curry-leaves", Name: "Fresh Curry Leaves", Category: "Vegetables", Price: 1.49, UnitWeightKg: ptrFloat(0.1), Tags: pq.StringArray{"fresh"}},
	{Slug: "alphonso-mango", Name: "Alphonso Mango Box", Category: "Fruits", Price: 11.99, UnitWeightKg: ptrFloat(2), Tags: pq.StringArray{"seasonal"}},
	{Slug: "garam-masala-100g", Name: "Garam Masala 100g", Category: "Spices", Price: 2.99, Tags: pq.StringArray{"pantry"}},
	{Slug: "turmeric-200g", Name: "Turmeric Powder 200g", Category: "Spices", Price: 2.49, Tags: pq.StringArray{"pantry"}},
	{Slug: "mango-lassi-1l", Name: "Mango Lassi 1L", Category: "Beverages", Price: 3.29, UnitWeightKg: ptrFloat(1), Tags: pq.StringArray{"chilled"}},
	{Slug: "masala-chai-250g", Name: "Masala Chai Blend 250g", Category: "Beverages", Price: 4.49, UnitWeightKg: ptrFloat(0.25), Tags: pq.StringArray{"pantry"}},
}

// seedStockLevels mirrors the catalog with starting quantities; a few start
// inside the low-stock band so the alerting path is visible in a fresh setup.
var seedStockLevels = map[string]int{
	"basmati-rice-5kg":       15,
	"basmati-rice-10kg":      12,
	"chakki-atta-20kg":       8,
	"chakki-atta-10kg":       3,
	"whole-wheat-flour-20kg": 20,
	"red-lentils-2kg":        4,
	"frozen-chicken-1kg":     18,
	"frozen-prawns-500g":     25,
	"frozen-paratha":         22,
	"okra-fresh":             2,
	"curry-leaves":           30,
	"alphonso-mango":         10,
	"garam-masala-100g":      3,
	"turmeric-200g":          12,
	"mango-lassi-1l":         5,
	"masala-chai-250g":       50,
}

// Seed inserts the default catalog and stock levels on first boot. Existing
// rows are left alone so customer-driven stock changes survive restarts.
func Seed(conn *gorm.DB) error {
	var productCount int64
	if err := conn.Model(&models.Product{}).Count(&productCount).Error; err != nil {
		return err
	}

	if productCount == 0 {
		for i := range seedProducts {
			seedProducts[i].IsActive = true
		}
		if err := conn.Create(&seedProducts).Error; err != nil {
			return err
		}
		log.Printf("[Seed] inserted %d products", len(seedProducts))
	}

	var stockCount int64
	if err := conn.Model(&models.StockLevel{}).Count(&stockCount).Error; err != nil {
		return err
	}

	if stockCount == 0 {
		levels := make([]models.StockLevel, 0, len(seedStockLevels))
		for productID, quantity := range seedStockLevels {
			levels = append(levels, models.StockLevel{ProductID: productID, Quantity: quantity})
		}
		if err := conn.Create(&levels).Error; err != nil {
			return err
		}
		log.Printf("[Seed] inserted %d stock levels", len(levels))
	}

	return nil
}
