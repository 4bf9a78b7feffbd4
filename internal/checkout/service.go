package checkout

import (
	"log"

	"github.com/google/uuid"

	"github.com/example/asianbasket/internal/pricing"
	"github.com/example/asianbasket/internal/stock"
	"github.com/example/asianbasket/internal/voucher"
)

// Service orchestrates the pricing, voucher and stock components around a
// checkout session. It owns exactly-once completion: callers transition the
// order to paid before invoking Complete, so a retried payment callback never
// double-decrements stock or double-issues vouchers.
type Service struct {
	Stock    *stock.Ledger
	Vouchers *voucher.Ledger
}

// NewService constructs a checkout Service.
func NewService(stockLedger *stock.Ledger, voucherLedger *voucher.Ledger) *Service {
	return &Service{Stock: stockLedger, Vouchers: voucherLedger}
}

// Quote is the priced view of a cart against a delivery address.
type Quote struct {
	Subtotal        float64           `json:"subtotal"`
	Delivery        pricing.Breakdown `json:"delivery"`
	VoucherCode     string            `json:"voucher_code,omitempty"`
	VoucherDiscount float64           `json:"voucher_discount"`
	GrandTotal      float64           `json:"grand_total"`
}

// BuildQuote prices the cart for the given destination, folding in the user's
// applied voucher if any. The UI calls this on every address field change.
func (s *Service) BuildQuote(userID uuid.UUID, lines []pricing.CartLine, city, postalCode string) (Quote, error) {
	subtotal := Subtotal(lines)
	q := Quote{
		Subtotal: subtotal,
		Delivery: pricing.Calculate(lines, city, postalCode, subtotal),
	}

	applied, err := s.Vouchers.Applied(userID)
	if err != nil {
		return Quote{}, err
	}
	if applied != nil {
		q.VoucherCode = applied.Code
		q.VoucherDiscount = applied.Amount
	}

	q.GrandTotal = GrandTotal(subtotal, q.Delivery.Total, q.VoucherDiscount)
	return q, nil
}

// CompletedOrder carries what the orchestrator needs after a successful
// payment.
type CompletedOrder struct {
	UserID      uuid.UUID
	OrderNumber string
	GrandTotal  float64
	VoucherCode string
	Lines       []stock.Item
}

// Complete runs the post-payment sequence in its required order: spend the
// applied voucher, issue a new voucher against the final discounted total,
// then decrement stock. Issuing off the discounted grand total keeps the tier
// thresholds meaningful. Returns the newly issued voucher, if any.
func (s *Service) Complete(ord CompletedOrder) (*voucher.Voucher, error) {
	if ord.VoucherCode != "" {
		if err := s.Vouchers.MarkUsed(ord.UserID, ord.VoucherCode); err != nil {
			return nil, err
		}
	}

	issued, err := s.Vouchers.Issue(ord.UserID, ord.GrandTotal, ord.OrderNumber)
	if err != nil {
		return nil, err
	}

	if err := s.Stock.Decrement(ord.Lines); err != nil {
		// Stock persistence failure must not unwind the paid order; the
		// levels are advisory in this system.
		log.Printf("[Checkout] stock decrement failed for order %s: %v", ord.OrderNumber, err)
	}

	return issued, nil
}

// Subtotal sums unit price times quantity over the cart.
func Subtotal(lines []pricing.CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}

// GrandTotal folds delivery and voucher discount into the payable amount,
// floored at zero.
func GrandTotal(subtotal, deliveryTotal, voucherDiscount float64) float64 {
	total := subtotal + deliveryTotal - voucherDiscount
	if total < 0 {
		return 0
	}
	return total
}
