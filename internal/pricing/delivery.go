package pricing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CartLine is a line item being priced. WeightKg and IsFrozen are optional;
// when nil they are inferred from the category and name keyword tables.
type CartLine struct {
	ProductID string
	Name      string
	Category  string
	UnitPrice float64
	Quantity  int
	WeightKg  *float64
	IsFrozen  *bool
}

// Breakdown is the itemized delivery fee for a cart and destination.
// Total is always the sum of the five component fees.
type Breakdown struct {
	BaseFee        float64  `json:"base_fee"`
	StapleOnlyFee  float64  `json:"staple_only_fee"`
	HeavyPackFee   float64  `json:"heavy_pack_fee"`
	OutOfZoneFee   float64  `json:"out_of_zone_fee"`
	OverweightFee  float64  `json:"overweight_fee"`
	Total          float64  `json:"total"`
	HasFrozenItems bool     `json:"has_frozen_items"`
	IsOutsideZone  bool     `json:"is_outside_zone"`
	TotalWeightKg  float64  `json:"total_weight_kg"`
	Messages       []string `json:"messages"`
}

var nameWeightPattern = regexp.MustCompile(`(?i)(\d+)\s*kg`)

// IsOutsideZone reports whether the destination falls outside the Dublin
// delivery zone. An empty or unrecognised city counts as outside.
func IsOutsideZone(city, postalCode string) bool {
	normalizedCity := strings.ToLower(strings.TrimSpace(city))
	normalizedZip := strings.ToLower(strings.TrimSpace(postalCode))

	for _, area := range dublinGazetteer {
		if strings.Contains(normalizedCity, area) {
			return false
		}
		// Partial routing keys are accepted, so "D6W" still matches "d6".
		prefix := strings.Replace(area, "dublin ", "d", 1)
		if normalizedZip != "" && strings.HasPrefix(normalizedZip, prefix) {
			return false
		}
	}

	return true
}

// IsFrozen reports whether a line needs frozen handling. An explicit flag
// wins; otherwise the frozen keyword table and the name are consulted.
func IsFrozen(line CartLine) bool {
	if line.IsFrozen != nil {
		return *line.IsFrozen
	}

	category := strings.ToLower(line.Category)
	name := strings.ToLower(line.Name)
	for _, kw := range frozenKeywords {
		if strings.Contains(category, kw) {
			return true
		}
	}
	return strings.Contains(name, "frozen")
}

// IsStaple reports whether a line is rice, atta or flour.
func IsStaple(line CartLine) bool {
	category := strings.ToLower(line.Category)
	name := strings.ToLower(line.Name)

	for _, kw := range stapleKeywords {
		if strings.Contains(category, kw) {
			return true
		}
	}
	return strings.Contains(name, "rice") || strings.Contains(name, "atta") ||
		strings.Contains(name, "flour")
}

// IsBulkStaplePack reports whether a line is a 20kg atta or flour pack.
func IsBulkStaplePack(line CartLine) bool {
	name := strings.ToLower(line.Name)
	return (strings.Contains(name, "atta") || strings.Contains(name, "flour")) &&
		strings.Contains(name, "20kg")
}

// LineWeight resolves the per-unit weight of a line in kg: explicit weight,
// then a "<N>kg" pattern in the name, then the category table, then the
// global default.
func LineWeight(line CartLine) float64 {
	if line.WeightKg != nil {
		return *line.WeightKg
	}

	name := strings.ToLower(line.Name)
	if m := nameWeightPattern.FindStringSubmatch(name); m != nil {
		if kg, err := strconv.Atoi(m[1]); err == nil {
			return float64(kg)
		}
	}

	category := strings.ToLower(line.Category)
	for _, cw := range categoryWeights {
		if strings.Contains(category, cw.keyword) {
			return cw.kg
		}
	}

	return defaultWeightKg
}

// TotalWeight sums per-line weight times quantity over the cart.
func TotalWeight(lines []CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += LineWeight(line) * float64(line.Quantity)
	}
	return total
}

// HasFrozenItems reports whether any line needs frozen handling.
func HasFrozenItems(lines []CartLine) bool {
	for _, line := range lines {
		if IsFrozen(line) {
			return true
		}
	}
	return false
}

// IsStapleOnly reports whether every line is a staple. An empty cart does not
// qualify.
func IsStapleOnly(lines []CartLine) bool {
	if len(lines) == 0 {
		return false
	}
	for _, line := range lines {
		if !IsStaple(line) {
			return false
		}
	}
	return true
}

// CountBulkStaplePacks counts 20kg packs by quantity, not distinct lines.
func CountBulkStaplePacks(lines []CartLine) int {
	count := 0
	for _, line := range lines {
		if IsBulkStaplePack(line) {
			count += line.Quantity
		}
	}
	return count
}

// Calculate derives the delivery fee breakdown for a cart and destination.
// The fee stages run in a fixed order. Stages 1, 2 and 4 write the same flat
// delivery slot and the last writer wins: a staple-only cart replaces the base
// fee with the flat staple rate, and an out-of-zone destination replaces both
// with the out-of-zone charge. Stages 3 and 5 are additive.
func Calculate(lines []CartLine, city, postalCode string, subtotal float64) Breakdown {
	b := Breakdown{
		IsOutsideZone:  IsOutsideZone(city, postalCode),
		HasFrozenItems: HasFrozenItems(lines),
		TotalWeightKg:  TotalWeight(lines),
	}

	// Stage 1: base fee, in-zone only. Free at and above the threshold.
	baseWaived := false
	if !b.IsOutsideZone {
		if subtotal >= FreeDeliveryThreshold {
			baseWaived = true
		} else {
			b.BaseFee = baseFee
		}
	}

	// Stage 2: rice/atta-only orders ship at a flat rate instead of the base fee.
	if IsStapleOnly(lines) {
		b.StapleOnlyFee = stapleOnlyFee
		b.BaseFee = 0
	}

	// Stage 3: per-pack handling for 20kg atta, additive with everything else.
	if packs := CountBulkStaplePacks(lines); packs > 0 {
		b.HeavyPackFee = float64(packs) * heavyPackFeePerUnit
	}

	// Stage 4: outside the zone a flat charge replaces the base fee. Runs
	// after stage 2, so out-of-zone wins over staple-only.
	if b.IsOutsideZone {
		b.OutOfZoneFee = outOfZoneFee
		b.BaseFee = 0
		b.StapleOnlyFee = 0
	}

	// Stage 5: extra packaging above the weight limit, additive.
	if b.TotalWeightKg > WeightLimitKg {
		b.OverweightFee = overweightFee
	}

	b.Total = b.BaseFee + b.StapleOnlyFee + b.HeavyPackFee + b.OutOfZoneFee + b.OverweightFee

	// One explanation per non-zero component, in stage order, plus the
	// free-delivery note when the base fee was waived.
	if baseWaived {
		b.Messages = append(b.Messages, "Free delivery for orders €39.99 and above")
	}
	if b.StapleOnlyFee > 0 {
		b.Messages = append(b.Messages, "€3 delivery fee for rice/atta only orders")
	}
	if b.HeavyPackFee > 0 {
		packs := CountBulkStaplePacks(lines)
		b.Messages = append(b.Messages,
			fmt.Sprintf("€%.2f handling fee for %d x 20kg atta pack(s)", b.HeavyPackFee, packs))
	}
	if b.OutOfZoneFee > 0 {
		b.Messages = append(b.Messages, "€6.99 delivery charge for outside Dublin")
	}
	if b.OverweightFee > 0 {
		b.Messages = append(b.Messages,
			fmt.Sprintf("€6.99 extra packaging fee (order weight: %.1fkg exceeds 28kg limit)", b.TotalWeightKg))
	}

	return b
}
