package payment

import (
	"fmt"
	"time"
)

// Result is the outcome of a simulated payment.
type Result struct {
	PaymentID string    `json:"payment_id"`
	Amount    float64   `json:"amount"`
	PaidAt    time.Time `json:"paid_at"`
}

// Simulator stands in for a real payment gateway. It always succeeds and
// returns a demo payment ID; there is no real money movement anywhere in this
// system.
type Simulator struct {
	now func() time.Time
}

// NewSimulator constructs a Simulator.
func NewSimulator() *Simulator {
	return &Simulator{now: time.Now}
}

// Charge "processes" a payment for the given amount.
func (s *Simulator) Charge(amount float64) (Result, error) {
	if amount < 0 {
		return Result{}, fmt.Errorf("invalid payment amount %.2f", amount)
	}

	paidAt := s.now()
	return Result{
		PaymentID: fmt.Sprintf("pay_demo_%d", paidAt.UnixMilli()),
		Amount:    amount,
		PaidAt:    paidAt,
	}, nil
}
