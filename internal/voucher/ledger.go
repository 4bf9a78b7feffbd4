package voucher

import (
	"crypto/rand"
	"io"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	codePrefix   = "AB-"
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6

	// ValidityDays is how long an issued voucher can be redeemed.
	ValidityDays = 30

	// Issue tiers keyed off the completed order's grand total.
	tierTwoThreshold = 100.0
	tierTwoAmount    = 10.0
	tierTwoMinOrder  = 20.0
	tierOneThreshold = 50.0
	tierOneAmount    = 5.0
	tierOneMinOrder  = 10.0

	codeAttempts = 5
)

// Voucher is a single-use, expiring discount code owned by one user.
type Voucher struct {
	Code          string    `json:"code"`
	Amount        float64   `json:"amount"`
	MinOrderValue float64   `json:"min_order_value"`
	IssuedAt      time.Time `json:"issued_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	IsUsed        bool      `json:"is_used"`
	OrderNumber   string    `json:"order_number"`
}

// RedeemResult is the failure-with-reason value for redemption attempts.
// Callers branch on Success; Error carries the customer-facing reason.
type RedeemResult struct {
	Success  bool    `json:"success"`
	Discount float64 `json:"discount"`
	Error    string  `json:"error,omitempty"`
}

// Repository persists vouchers scoped per user.
type Repository interface {
	ListByUser(userID uuid.UUID) ([]Voucher, error)
	Find(userID uuid.UUID, code string) (*Voucher, error)
	Create(userID uuid.UUID, v Voucher) error
	MarkUsed(userID uuid.UUID, code string) error
	CodeExists(code string) (bool, error)
}

// Option customises a Ledger; used by tests to pin the clock and randomness.
type Option func(*Ledger)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithRandom overrides the random source used for code generation.
func WithRandom(r io.Reader) Option {
	return func(l *Ledger) { l.rand = r }
}

// Ledger issues and redeems vouchers. The applied voucher is checkout-session
// state only: it is held in memory per user and never persisted, so an
// abandoned order reverts the voucher to plain issued.
type Ledger struct {
	repo Repository
	rand io.Reader
	now  func() time.Time

	mu      sync.Mutex
	applied map[uuid.UUID]string
}

// NewLedger constructs a Ledger over the given repository.
func NewLedger(repo Repository, opts ...Option) *Ledger {
	l := &Ledger{
		repo:    repo,
		rand:    rand.Reader,
		now:     time.Now,
		applied: make(map[uuid.UUID]string),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Issue creates a voucher when the completed order total reaches a tier, or
// returns nil when no tier applies. Codes are retried on the unlikely
// collision with an existing code.
func (l *Ledger) Issue(userID uuid.UUID, orderTotal float64, orderNumber string) (*Voucher, error) {
	var amount, minOrder float64
	switch {
	case orderTotal >= tierTwoThreshold:
		amount, minOrder = tierTwoAmount, tierTwoMinOrder
	case orderTotal >= tierOneThreshold:
		amount, minOrder = tierOneAmount, tierOneMinOrder
	default:
		return nil, nil
	}

	code, err := l.generateCode()
	if err != nil {
		return nil, err
	}

	now := l.now()
	v := Voucher{
		Code:          code,
		Amount:        amount,
		MinOrderValue: minOrder,
		IssuedAt:      now,
		ExpiresAt:     now.Add(ValidityDays * 24 * time.Hour),
		OrderNumber:   orderNumber,
	}

	if err := l.repo.Create(userID, v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Redeem validates a code for the current checkout session. A successful
// redemption records the voucher as applied but does not mark it used; that
// happens on order completion via MarkUsed.
func (l *Ledger) Redeem(userID uuid.UUID, code string) (RedeemResult, error) {
	v, err := l.repo.Find(userID, code)
	if err != nil {
		return RedeemResult{}, err
	}

	if v == nil {
		return RedeemResult{Error: "Invalid voucher code"}, nil
	}
	if v.IsUsed {
		return RedeemResult{Error: "This voucher has already been used"}, nil
	}
	if !v.ExpiresAt.After(l.now()) {
		return RedeemResult{Error: "This voucher has expired"}, nil
	}

	l.mu.Lock()
	l.applied[userID] = v.Code
	l.mu.Unlock()

	return RedeemResult{Success: true, Discount: v.Amount}, nil
}

// MarkUsed marks a voucher as spent and clears the applied session state.
func (l *Ledger) MarkUsed(userID uuid.UUID, code string) error {
	if err := l.repo.MarkUsed(userID, code); err != nil {
		return err
	}

	l.mu.Lock()
	if l.applied[userID] == code {
		delete(l.applied, userID)
	}
	l.mu.Unlock()
	return nil
}

// Applied returns the voucher currently applied to the user's checkout
// session, or nil.
func (l *Ledger) Applied(userID uuid.UUID) (*Voucher, error) {
	l.mu.Lock()
	code, ok := l.applied[userID]
	l.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return l.repo.Find(userID, code)
}

// ClearApplied drops the session's applied voucher without spending it.
func (l *Ledger) ClearApplied(userID uuid.UUID) {
	l.mu.Lock()
	delete(l.applied, userID)
	l.mu.Unlock()
}

// ListValid returns the user's unused, unexpired vouchers.
func (l *Ledger) ListValid(userID uuid.UUID) ([]Voucher, error) {
	all, err := l.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	now := l.now()
	valid := make([]Voucher, 0, len(all))
	for _, v := range all {
		if !v.IsUsed && v.ExpiresAt.After(now) {
			valid = append(valid, v)
		}
	}
	return valid, nil
}

func (l *Ledger) generateCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))

	var code string
	for attempt := 0; attempt < codeAttempts; attempt++ {
		buf := make([]byte, codeLength)
		for i := range buf {
			n, err := rand.Int(l.rand, max)
			if err != nil {
				return "", err
			}
			buf[i] = codeAlphabet[n.Int64()]
		}
		code = codePrefix + string(buf)

		exists, err := l.repo.CodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}

	// Collisions this many times in a row are practically impossible; keep
	// the last code rather than failing the order flow and let the unique
	// index have the final say.
	return code, nil
}
