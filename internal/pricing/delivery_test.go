package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(name, category string, price float64, qty int) CartLine {
	return CartLine{ProductID: name, Name: name, Category: category, UnitPrice: price, Quantity: qty}
}

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestIsOutsideZone(t *testing.T) {
	tests := []struct {
		name    string
		city    string
		zip     string
		outside bool
	}{
		{"plain dublin", "Dublin", "", false},
		{"mixed case area", "DUBLIN 14", "", false},
		{"county suffix", "Dún Laoghaire, Co. Dublin", "", false},
		{"eircode routing key", "", "D06W2P4", false},
		{"lowercase eircode", "", "d08xy45", false},
		{"partial routing key", "", "D6", false},
		{"outside city", "Cork", "", true},
		{"commuter town", "Swords", "", true},
		{"empty everything", "", "", true},
		{"unrelated zip", "Galway", "H91AB12", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.outside, IsOutsideZone(tt.city, tt.zip))
		})
	}
}

func TestIsFrozen(t *testing.T) {
	frozen := line("Frozen Peas 1kg", "Vegetables", 2.50, 1)
	assert.True(t, IsFrozen(frozen), "frozen in name")

	byCategory := line("Tiger Prawns", "Frozen Seafood", 9.99, 1)
	assert.True(t, IsFrozen(byCategory), "frozen category keyword")

	explicit := line("Frozen Paratha", "Frozen Foods", 4.99, 1)
	explicit.IsFrozen = boolPtr(false)
	assert.False(t, IsFrozen(explicit), "explicit flag wins over keywords")

	fresh := line("Fresh Okra", "Vegetables", 3.49, 1)
	assert.False(t, IsFrozen(fresh))
}

func TestIsStaple(t *testing.T) {
	assert.True(t, IsStaple(line("Premium Basmati Rice 5kg", "Rice", 12.99, 1)))
	assert.True(t, IsStaple(line("Chakki Fresh Atta 20kg", "Atta", 24.99, 1)))
	assert.True(t, IsStaple(line("Corn Flour 500g", "Baking", 1.99, 1)), "flour in name")
	assert.True(t, IsStaple(line("Red Lentils 2kg", "Grains", 5.49, 1)), "grains category")
	assert.False(t, IsStaple(line("Garam Masala 100g", "Spices", 2.99, 1)))
}

func TestLineWeight(t *testing.T) {
	explicit := line("Mango Box", "Fruits", 11.99, 1)
	explicit.WeightKg = floatPtr(2)
	assert.Equal(t, 2.0, LineWeight(explicit), "explicit weight wins")

	named := line("Whole Wheat Flour 10kg", "Flour", 13.99, 1)
	assert.Equal(t, 10.0, LineWeight(named), "weight parsed from name")

	spaced := line("Basmati Rice 5 kg", "Unclassified", 12.99, 1)
	assert.Equal(t, 5.0, LineWeight(spaced), "pattern tolerates whitespace")

	byCategory := line("Chakki Fresh Atta", "Atta", 13.99, 1)
	assert.Equal(t, 10.0, LineWeight(byCategory), "atta category default")

	combined := line("Daily Basket", "Rice & Atta", 9.99, 1)
	assert.Equal(t, 5.0, LineWeight(combined), "rice rule wins by table order")

	fallback := line("Mystery Item", "Household", 4.99, 1)
	assert.Equal(t, 0.5, LineWeight(fallback), "global default")
}

func TestCalculateFreeDeliveryThreshold(t *testing.T) {
	lines := []CartLine{line("Garam Masala 100g", "Spices", 2.99, 2)}

	b := Calculate(lines, "Dublin 4", "", 39.99)

	assert.Equal(t, 0.0, b.Total)
	assert.Equal(t, 0.0, b.BaseFee)
	assert.False(t, b.IsOutsideZone)
	require.Len(t, b.Messages, 1)
	assert.Equal(t, "Free delivery for orders €39.99 and above", b.Messages[0])
}

func TestCalculateBaseFeeBelowThreshold(t *testing.T) {
	lines := []CartLine{line("Garam Masala 100g", "Spices", 2.99, 2)}

	b := Calculate(lines, "Dublin", "", 5.98)

	assert.Equal(t, 5.99, b.BaseFee)
	assert.Equal(t, 5.99, b.Total)
	assert.Empty(t, b.Messages, "base fee carries no explanation")
}

func TestCalculateStapleOnlyFee(t *testing.T) {
	lines := []CartLine{
		line("Premium Basmati Rice 5kg", "Rice", 12.99, 1),
		line("Chakki Fresh Atta 10kg", "Atta", 13.99, 1),
	}

	b := Calculate(lines, "Dublin 12", "", 26.98)

	assert.Equal(t, 0.0, b.BaseFee, "base fee suppressed for staple-only carts")
	assert.Equal(t, 3.00, b.StapleOnlyFee)
	assert.Equal(t, 3.00, b.Total)
	assert.Contains(t, b.Messages, "€3 delivery fee for rice/atta only orders")
}

func TestCalculateStapleOnlyIgnoresEmptyCart(t *testing.T) {
	b := Calculate(nil, "Dublin", "", 0)

	assert.Equal(t, 5.99, b.BaseFee, "empty cart does not qualify as staple-only")
	assert.Equal(t, 0.0, b.StapleOnlyFee)
}

func TestCalculateBulkPackFeeCountsByQuantity(t *testing.T) {
	lines := []CartLine{
		line("Chakki Fresh Atta 20kg", "Atta", 24.99, 1),
		line("Golden Harvest Atta 20kg", "Atta", 22.99, 2),
		line("Whole Wheat Flour 20kg", "Flour", 21.99, 1),
	}

	b := Calculate(lines, "Dublin 8", "", 94.96)

	assert.Equal(t, 4.00, b.HeavyPackFee, "1+2+1 packs at €1 each")
	// Four 20kg packs: staple-only flat fee, handling and overweight all apply.
	assert.Equal(t, 3.00, b.StapleOnlyFee)
	assert.Equal(t, 6.99, b.OverweightFee)
	assert.Equal(t, 80.0, b.TotalWeightKg)
	assert.InDelta(t, 3.00+4.00+6.99, b.Total, 1e-9)
	assert.Contains(t, b.Messages, "€4.00 handling fee for 4 x 20kg atta pack(s)")
}

func TestCalculateOutOfZoneWinsOverStapleOnly(t *testing.T) {
	lines := []CartLine{line("Premium Basmati Rice 5kg", "Rice", 12.99, 1)}

	b := Calculate(lines, "Cork", "", 12.99)

	assert.True(t, b.IsOutsideZone)
	assert.Equal(t, 0.0, b.BaseFee)
	assert.Equal(t, 0.0, b.StapleOnlyFee, "out-of-zone overrides the staple-only fee")
	assert.Equal(t, 6.99, b.OutOfZoneFee)
	assert.Equal(t, 6.99, b.Total)
	require.Len(t, b.Messages, 1)
	assert.Equal(t, "€6.99 delivery charge for outside Dublin", b.Messages[0])
}

func TestCalculateOverweightComposesWithFreeBase(t *testing.T) {
	heavy := line("Catering Oil Drum", "Household", 20.00, 2)
	heavy.WeightKg = floatPtr(15)

	b := Calculate([]CartLine{heavy}, "Dublin 2", "", 40.00)

	assert.Equal(t, 0.0, b.BaseFee, "free base at threshold")
	assert.Equal(t, 30.0, b.TotalWeightKg)
	assert.Equal(t, 6.99, b.OverweightFee)
	assert.Equal(t, 6.99, b.Total)
	require.Len(t, b.Messages, 2)
	assert.Equal(t, "Free delivery for orders €39.99 and above", b.Messages[0])
	assert.Equal(t, "€6.99 extra packaging fee (order weight: 30.0kg exceeds 28kg limit)", b.Messages[1])
}

func TestCalculateWeightAtLimitIsNotOverweight(t *testing.T) {
	exact := line("Bulk Item", "Household", 10.00, 1)
	exact.WeightKg = floatPtr(28)

	b := Calculate([]CartLine{exact}, "Dublin", "", 10.00)

	assert.Equal(t, 0.0, b.OverweightFee, "limit is exclusive")
}

func TestCalculateMessageOrderFollowsPipeline(t *testing.T) {
	lines := []CartLine{
		line("Chakki Fresh Atta 20kg", "Atta", 24.99, 2),
	}

	b := Calculate(lines, "Dublin 15", "", 49.98)

	require.Equal(t, []string{
		"Free delivery for orders €39.99 and above",
		"€3 delivery fee for rice/atta only orders",
		"€2.00 handling fee for 2 x 20kg atta pack(s)",
		"€6.99 extra packaging fee (order weight: 40.0kg exceeds 28kg limit)",
	}, b.Messages)
	assert.InDelta(t, 3.00+2.00+6.99, b.Total, 1e-9)
}

func TestCalculateTotalIsSumOfComponents(t *testing.T) {
	carts := [][]CartLine{
		nil,
		{line("Premium Basmati Rice 5kg", "Rice", 12.99, 3)},
		{line("Frozen Chicken 1kg", "Frozen Meat", 8.99, 2), line("Chakki Fresh Atta 20kg", "Atta", 24.99, 1)},
	}
	destinations := []struct{ city, zip string }{
		{"Dublin", ""}, {"Cork", ""}, {"", "D14"},
	}

	for _, cart := range carts {
		for _, dest := range destinations {
			b := Calculate(cart, dest.city, dest.zip, 30)
			sum := b.BaseFee + b.StapleOnlyFee + b.HeavyPackFee + b.OutOfZoneFee + b.OverweightFee
			assert.InDelta(t, sum, b.Total, 1e-9)
			assert.GreaterOrEqual(t, b.Total, 0.0)
		}
	}
}

func TestCalculateFlagsFrozenItems(t *testing.T) {
	lines := []CartLine{
		line("Frozen Tiger Prawns 500g", "Frozen Seafood", 9.99, 1),
		line("Garam Masala 100g", "Spices", 2.99, 1),
	}

	b := Calculate(lines, "Dublin", "", 12.98)
	assert.True(t, b.HasFrozenItems)

	b = Calculate(lines[1:], "Dublin", "", 2.99)
	assert.False(t, b.HasFrozenItems)
}
