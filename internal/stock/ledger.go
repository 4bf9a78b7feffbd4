package stock

import (
	"fmt"
	"log"
	"time"
)

// LowStockThreshold is the quantity at or below which (but above zero) a
// product counts as low stock.
const LowStockThreshold = 5

// alertHistoryLimit caps how many alerts the repository retains.
const alertHistoryLimit = 50

// Item pairs a product ID with a quantity. It is used both for decrement
// requests and for alert payloads.
type Item struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Alert records a low-stock notification raised after a decrement.
type Alert struct {
	OccurredAt time.Time `json:"occurred_at"`
	Items      []Item    `json:"items"`
	Notified   bool      `json:"notified"`
}

// Repository persists stock levels and alert history. Implementations must
// treat missing products as absent rather than erroring.
type Repository interface {
	Levels() (map[string]int, error)
	SetQuantity(productID string, quantity int) error
	AppendAlert(alert Alert, keep int) error
	RecentAlerts(limit int) ([]Alert, error)
}

// Notifier delivers low-stock alerts to an operator channel. Optional.
type Notifier interface {
	NotifyLowStock(items []Item) error
}

// Ledger is the record of remaining units per product. Unknown product IDs
// read as zero and decrement as no-ops; no domain condition produces an error.
type Ledger struct {
	repo     Repository
	notifier Notifier
	now      func() time.Time
}

// NewLedger constructs a Ledger. notifier may be nil.
func NewLedger(repo Repository, notifier Notifier) *Ledger {
	return &Ledger{repo: repo, notifier: notifier, now: time.Now}
}

// Quantity returns the remaining units for a product, zero if unknown.
func (l *Ledger) Quantity(productID string) int {
	levels, err := l.repo.Levels()
	if err != nil {
		log.Printf("[Stock] failed to load levels: %v", err)
		return 0
	}
	return levels[productID]
}

// IsLowStock reports whether a product is running out but not yet depleted.
func (l *Ledger) IsLowStock(productID string) bool {
	q := l.Quantity(productID)
	return q > 0 && q <= LowStockThreshold
}

// IsOutOfStock reports whether a product is depleted.
func (l *Ledger) IsOutOfStock(productID string) bool {
	return l.Quantity(productID) <= 0
}

// StatusMessage returns a customer-facing stock note for a product, or false
// when stock is healthy.
func (l *Ledger) StatusMessage(productID string) (string, bool) {
	q := l.Quantity(productID)
	if q <= 0 {
		return "Out of Stock", true
	}
	if q <= LowStockThreshold {
		return fmt.Sprintf("Only %d left!", q), true
	}
	return "", false
}

// LowStockItems returns every product currently in the low-stock band.
func (l *Ledger) LowStockItems() []Item {
	levels, err := l.repo.Levels()
	if err != nil {
		log.Printf("[Stock] failed to load levels: %v", err)
		return nil
	}

	var items []Item
	for id, q := range levels {
		if q > 0 && q <= LowStockThreshold {
			items = append(items, Item{ProductID: id, Quantity: q})
		}
	}
	return items
}

// Decrement reduces stock for each requested line, clamping at zero. Unknown
// product IDs are skipped. Overdrafts clamp rather than error; the caller is
// responsible for invoking this exactly once per completed order. After the
// decrement the full low-stock set is recomputed and recorded as an alert.
func (l *Ledger) Decrement(lines []Item) error {
	levels, err := l.repo.Levels()
	if err != nil {
		return err
	}

	for _, line := range lines {
		current, ok := levels[line.ProductID]
		if !ok {
			continue
		}
		next := current - line.Quantity
		if next < 0 {
			next = 0
		}
		levels[line.ProductID] = next
		if err := l.repo.SetQuantity(line.ProductID, next); err != nil {
			return err
		}
	}

	if items := l.lowStockOf(levels); len(items) > 0 {
		l.raiseAlert(items)
	}

	return nil
}

// RecentAlerts returns the retained alert history, most recent first.
func (l *Ledger) RecentAlerts() ([]Alert, error) {
	return l.repo.RecentAlerts(alertHistoryLimit)
}

func (l *Ledger) lowStockOf(levels map[string]int) []Item {
	var items []Item
	for id, q := range levels {
		if q > 0 && q <= LowStockThreshold {
			items = append(items, Item{ProductID: id, Quantity: q})
		}
	}
	return items
}

func (l *Ledger) raiseAlert(items []Item) {
	alert := Alert{OccurredAt: l.now(), Items: items}

	if l.notifier != nil {
		if err := l.notifier.NotifyLowStock(items); err != nil {
			log.Printf("[Stock] low stock notification failed: %v", err)
		} else {
			alert.Notified = true
		}
	}

	if err := l.repo.AppendAlert(alert, alertHistoryLimit); err != nil {
		log.Printf("[Stock] failed to record alert: %v", err)
	}
}
