package repository

import (
	"gorm.io/gorm"

	"github.com/example/asianbasket/internal/models"
	"github.com/example/asianbasket/internal/stock"
)

// StockRepository implements stock.Repository over GORM.
type StockRepository struct {
	db *gorm.DB
}

// NewStockRepository constructs a StockRepository.
func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// Levels loads all stock levels keyed by product ID.
func (r *StockRepository) Levels() (map[string]int, error) {
	var rows []models.StockLevel
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, err
	}

	levels := make(map[string]int, len(rows))
	for _, row := range rows {
		levels[row.ProductID] = row.Quantity
	}
	return levels, nil
}

// SetQuantity upserts the quantity for a product.
func (r *StockRepository) SetQuantity(productID string, quantity int) error {
	res := r.db.Model(&models.StockLevel{}).
		Where("product_id = ?", productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.db.Create(&models.StockLevel{ProductID: productID, Quantity: quantity}).Error
	}
	return nil
}

// AppendAlert stores an alert and trims the history to the most recent keep
// entries.
func (r *StockRepository) AppendAlert(alert stock.Alert, keep int) error {
	record := models.StockAlert{
		OccurredAt: alert.OccurredAt,
		Notified:   alert.Notified,
	}
	for _, item := range alert.Items {
		record.Items = append(record.Items, models.StockAlertItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	if err := r.db.Create(&record).Error; err != nil {
		return err
	}

	return r.trimAlerts(keep)
}

// RecentAlerts returns up to limit alerts, most recent first.
func (r *StockRepository) RecentAlerts(limit int) ([]stock.Alert, error) {
	var rows []models.StockAlert
	if err := r.db.Preload("Items").
		Order("occurred_at desc").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	alerts := make([]stock.Alert, 0, len(rows))
	for _, row := range rows {
		alert := stock.Alert{
			OccurredAt: row.OccurredAt,
			Notified:   row.Notified,
		}
		for _, item := range row.Items {
			alert.Items = append(alert.Items, stock.Item{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

func (r *StockRepository) trimAlerts(keep int) error {
	var stale []models.StockAlert
	if err := r.db.Order("occurred_at desc").
		Offset(keep).
		Find(&stale).Error; err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	ids := make([]any, 0, len(stale))
	for _, alert := range stale {
		ids = append(ids, alert.ID)
	}

	if err := r.db.Where("alert_id IN ?", ids).
		Delete(&models.StockAlertItem{}).Error; err != nil {
		return err
	}
	return r.db.Where("id IN ?", ids).Delete(&models.StockAlert{}).Error
}
