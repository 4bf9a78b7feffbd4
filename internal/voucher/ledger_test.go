package voucher

import (
	mathrand "math/rand"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	vouchers map[uuid.UUID][]Voucher
}

func newMemRepo() *memRepo {
	return &memRepo{vouchers: make(map[uuid.UUID][]Voucher)}
}

func (r *memRepo) ListByUser(userID uuid.UUID) ([]Voucher, error) {
	return r.vouchers[userID], nil
}

func (r *memRepo) Find(userID uuid.UUID, code string) (*Voucher, error) {
	for _, v := range r.vouchers[userID] {
		if v.Code == code {
			copied := v
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memRepo) Create(userID uuid.UUID, v Voucher) error {
	r.vouchers[userID] = append(r.vouchers[userID], v)
	return nil
}

func (r *memRepo) MarkUsed(userID uuid.UUID, code string) error {
	for i, v := range r.vouchers[userID] {
		if v.Code == code {
			r.vouchers[userID][i].IsUsed = true
		}
	}
	return nil
}

func (r *memRepo) CodeExists(code string) (bool, error) {
	for _, list := range r.vouchers {
		for _, v := range list {
			if v.Code == code {
				return true, nil
			}
		}
	}
	return false, nil
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestLedger(repo Repository) *Ledger {
	return NewLedger(repo,
		WithClock(func() time.Time { return fixedNow }),
		WithRandom(mathrand.New(mathrand.NewSource(42))),
	)
}

func TestIssueTierBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		orderTotal float64
		amount     float64
		minOrder   float64
		issued     bool
	}{
		{"below first tier", 49.99, 0, 0, false},
		{"first tier edge", 50.00, 5, 10, true},
		{"first tier top", 99.99, 5, 10, true},
		{"second tier edge", 100.00, 10, 20, true},
		{"well above", 250.00, 10, 20, true},
		{"zero", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := newTestLedger(newMemRepo())
			userID := uuid.New()

			v, err := ledger.Issue(userID, tt.orderTotal, "ORD-000000001")
			require.NoError(t, err)

			if !tt.issued {
				assert.Nil(t, v)
				return
			}

			require.NotNil(t, v)
			assert.Equal(t, tt.amount, v.Amount)
			assert.Equal(t, tt.minOrder, v.MinOrderValue)
			assert.Equal(t, fixedNow, v.IssuedAt)
			assert.Equal(t, fixedNow.Add(30*24*time.Hour), v.ExpiresAt)
			assert.False(t, v.IsUsed)
			assert.Equal(t, "ORD-000000001", v.OrderNumber)
		})
	}
}

func TestIssueCodeFormat(t *testing.T) {
	ledger := newTestLedger(newMemRepo())
	pattern := regexp.MustCompile(`^AB-[A-Z0-9]{6}$`)

	for i := 0; i < 20; i++ {
		v, err := ledger.Issue(uuid.New(), 75, "ORD-000000002")
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Regexp(t, pattern, v.Code)
	}
}

func TestRedeemUnknownCode(t *testing.T) {
	ledger := newTestLedger(newMemRepo())

	result, err := ledger.Redeem(uuid.New(), "AB-NOPE01")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 0.0, result.Discount)
	assert.Equal(t, "Invalid voucher code", result.Error)
}

func TestRedeemIsScopedPerUser(t *testing.T) {
	repo := newMemRepo()
	ledger := newTestLedger(repo)
	owner := uuid.New()

	v, err := ledger.Issue(owner, 60, "ORD-000000003")
	require.NoError(t, err)

	result, err := ledger.Redeem(uuid.New(), v.Code)
	require.NoError(t, err)
	assert.False(t, result.Success, "another user's code reads as invalid")

	result, err = ledger.Redeem(owner, v.Code)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 5.0, result.Discount)
}

func TestRedeemExpiryBoundaryIsExclusive(t *testing.T) {
	repo := newMemRepo()
	userID := uuid.New()
	require.NoError(t, repo.Create(userID, Voucher{
		Code:      "AB-EDGE01",
		Amount:    5,
		IssuedAt:  fixedNow.Add(-30 * 24 * time.Hour),
		ExpiresAt: fixedNow,
	}))
	ledger := newTestLedger(repo)

	result, err := ledger.Redeem(userID, "AB-EDGE01")
	require.NoError(t, err)

	assert.False(t, result.Success, "expiresAt == now counts as expired")
	assert.Equal(t, "This voucher has expired", result.Error)
}

func TestRedeemSingleUse(t *testing.T) {
	repo := newMemRepo()
	ledger := newTestLedger(repo)
	userID := uuid.New()

	v, err := ledger.Issue(userID, 120, "ORD-000000004")
	require.NoError(t, err)

	result, err := ledger.Redeem(userID, v.Code)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, 10.0, result.Discount)

	require.NoError(t, ledger.MarkUsed(userID, v.Code))

	result, err = ledger.Redeem(userID, v.Code)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "This voucher has already been used", result.Error)
}

func TestAppliedSessionState(t *testing.T) {
	repo := newMemRepo()
	ledger := newTestLedger(repo)
	userID := uuid.New()

	applied, err := ledger.Applied(userID)
	require.NoError(t, err)
	assert.Nil(t, applied, "nothing applied initially")

	v, err := ledger.Issue(userID, 80, "ORD-000000005")
	require.NoError(t, err)

	result, err := ledger.Redeem(userID, v.Code)
	require.NoError(t, err)
	require.True(t, result.Success)

	applied, err = ledger.Applied(userID)
	require.NoError(t, err)
	require.NotNil(t, applied)
	assert.Equal(t, v.Code, applied.Code)

	// Abandoning the session leaves the voucher issued and redeemable.
	ledger.ClearApplied(userID)
	applied, err = ledger.Applied(userID)
	require.NoError(t, err)
	assert.Nil(t, applied)

	valid, err := ledger.ListValid(userID)
	require.NoError(t, err)
	require.Len(t, valid, 1)
	assert.False(t, valid[0].IsUsed)
}

func TestMarkUsedClearsApplied(t *testing.T) {
	repo := newMemRepo()
	ledger := newTestLedger(repo)
	userID := uuid.New()

	v, err := ledger.Issue(userID, 55, "ORD-000000006")
	require.NoError(t, err)

	result, err := ledger.Redeem(userID, v.Code)
	require.NoError(t, err)
	require.True(t, result.Success)

	require.NoError(t, ledger.MarkUsed(userID, v.Code))

	applied, err := ledger.Applied(userID)
	require.NoError(t, err)
	assert.Nil(t, applied)
}

func TestListValidFiltersUsedAndExpired(t *testing.T) {
	repo := newMemRepo()
	userID := uuid.New()
	require.NoError(t, repo.Create(userID, Voucher{
		Code: "AB-LIVE01", Amount: 5, ExpiresAt: fixedNow.Add(24 * time.Hour),
	}))
	require.NoError(t, repo.Create(userID, Voucher{
		Code: "AB-USED01", Amount: 5, ExpiresAt: fixedNow.Add(24 * time.Hour), IsUsed: true,
	}))
	require.NoError(t, repo.Create(userID, Voucher{
		Code: "AB-DEAD01", Amount: 10, ExpiresAt: fixedNow.Add(-time.Minute),
	}))
	ledger := newTestLedger(repo)

	valid, err := ledger.ListValid(userID)
	require.NoError(t, err)

	require.Len(t, valid, 1)
	assert.Equal(t, "AB-LIVE01", valid[0].Code)
}
