package stock

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	levels map[string]int
	alerts []Alert
}

func newMemRepo(levels map[string]int) *memRepo {
	copied := make(map[string]int, len(levels))
	for k, v := range levels {
		copied[k] = v
	}
	return &memRepo{levels: copied}
}

func (r *memRepo) Levels() (map[string]int, error) {
	copied := make(map[string]int, len(r.levels))
	for k, v := range r.levels {
		copied[k] = v
	}
	return copied, nil
}

func (r *memRepo) SetQuantity(productID string, quantity int) error {
	r.levels[productID] = quantity
	return nil
}

func (r *memRepo) AppendAlert(alert Alert, keep int) error {
	r.alerts = append(r.alerts, alert)
	if len(r.alerts) > keep {
		r.alerts = r.alerts[len(r.alerts)-keep:]
	}
	return nil
}

func (r *memRepo) RecentAlerts(limit int) ([]Alert, error) {
	if len(r.alerts) <= limit {
		return r.alerts, nil
	}
	return r.alerts[len(r.alerts)-limit:], nil
}

type recordingNotifier struct {
	calls [][]Item
	err   error
}

func (n *recordingNotifier) NotifyLowStock(items []Item) error {
	n.calls = append(n.calls, items)
	return n.err
}

func TestQuantityUnknownProductIsZero(t *testing.T) {
	ledger := NewLedger(newMemRepo(nil), nil)

	assert.Equal(t, 0, ledger.Quantity("nope"))
	assert.True(t, ledger.IsOutOfStock("nope"))
	assert.False(t, ledger.IsLowStock("nope"))
}

func TestLowStockBoundaries(t *testing.T) {
	ledger := NewLedger(newMemRepo(map[string]int{
		"at-threshold": 5,
		"above":        6,
		"depleted":     0,
		"one-left":     1,
	}), nil)

	assert.True(t, ledger.IsLowStock("at-threshold"), "quantity 5 is low")
	assert.False(t, ledger.IsLowStock("above"), "quantity 6 is healthy")
	assert.False(t, ledger.IsLowStock("depleted"), "out of stock is not low stock")
	assert.True(t, ledger.IsOutOfStock("depleted"))
	assert.True(t, ledger.IsLowStock("one-left"))
}

func TestStatusMessage(t *testing.T) {
	ledger := NewLedger(newMemRepo(map[string]int{
		"plenty": 20,
		"few":    3,
		"gone":   0,
	}), nil)

	msg, ok := ledger.StatusMessage("gone")
	require.True(t, ok)
	assert.Equal(t, "Out of Stock", msg)

	msg, ok = ledger.StatusMessage("few")
	require.True(t, ok)
	assert.Equal(t, "Only 3 left!", msg)

	_, ok = ledger.StatusMessage("plenty")
	assert.False(t, ok)
}

func TestDecrementClampsAtZero(t *testing.T) {
	repo := newMemRepo(map[string]int{"rice": 2})
	ledger := NewLedger(repo, nil)

	err := ledger.Decrement([]Item{{ProductID: "rice", Quantity: 5}})
	require.NoError(t, err)

	assert.Equal(t, 0, repo.levels["rice"], "overdraft clamps, never negative")
}

func TestDecrementUnknownProductIsNoOp(t *testing.T) {
	repo := newMemRepo(map[string]int{"rice": 10})
	ledger := NewLedger(repo, nil)

	err := ledger.Decrement([]Item{
		{ProductID: "ghost", Quantity: 3},
		{ProductID: "rice", Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 9, repo.levels["rice"])
	_, exists := repo.levels["ghost"]
	assert.False(t, exists, "unknown products are not created")
}

func TestDecrementRaisesLowStockAlert(t *testing.T) {
	repo := newMemRepo(map[string]int{"atta": 7, "spice": 20})
	notifier := &recordingNotifier{}
	ledger := NewLedger(repo, notifier)
	ledger.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	err := ledger.Decrement([]Item{{ProductID: "atta", Quantity: 3}})
	require.NoError(t, err)

	require.Len(t, repo.alerts, 1)
	alert := repo.alerts[0]
	assert.True(t, alert.Notified, "notifier succeeded")
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), alert.OccurredAt)
	require.Len(t, alert.Items, 1)
	assert.Equal(t, Item{ProductID: "atta", Quantity: 4}, alert.Items[0])

	require.Len(t, notifier.calls, 1)
}

func TestDecrementNoAlertWhenStockHealthy(t *testing.T) {
	repo := newMemRepo(map[string]int{"atta": 50})
	notifier := &recordingNotifier{}
	ledger := NewLedger(repo, notifier)

	require.NoError(t, ledger.Decrement([]Item{{ProductID: "atta", Quantity: 1}}))

	assert.Empty(t, repo.alerts)
	assert.Empty(t, notifier.calls)
}

func TestDecrementAlertRecordedWhenNotifierFails(t *testing.T) {
	repo := newMemRepo(map[string]int{"atta": 4})
	notifier := &recordingNotifier{err: errors.New("telegram down")}
	ledger := NewLedger(repo, notifier)

	require.NoError(t, ledger.Decrement([]Item{{ProductID: "atta", Quantity: 1}}))

	require.Len(t, repo.alerts, 1)
	assert.False(t, repo.alerts[0].Notified, "failed delivery keeps the alert with notified=false")
}

func TestAlertHistoryIsCapped(t *testing.T) {
	repo := newMemRepo(map[string]int{"atta": 1000})
	ledger := NewLedger(repo, nil)

	// Keep the product inside the low-stock band so every decrement alerts.
	repo.levels["atta"] = 3
	for i := 0; i < 60; i++ {
		require.NoError(t, ledger.Decrement([]Item{{ProductID: "atta", Quantity: 0}}))
	}

	alerts, err := ledger.RecentAlerts()
	require.NoError(t, err)
	assert.Len(t, alerts, 50)
}

func TestLowStockItems(t *testing.T) {
	ledger := NewLedger(newMemRepo(map[string]int{
		"a": 2,
		"b": 5,
		"c": 6,
		"d": 0,
	}), nil)

	items := ledger.LowStockItems()
	ids := make(map[string]int, len(items))
	for _, item := range items {
		ids[item.ProductID] = item.Quantity
	}

	assert.Equal(t, map[string]int{"a": 2, "b": 5}, ids)
}
