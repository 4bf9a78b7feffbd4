package pricing

// Rule tables for cart line classification. Matching is case-insensitive
// substring matching against the line's category and name, evaluated in table
// order; new categories are added here, not in code.

// dublinGazetteer lists area names and routing-key prefixes that identify the
// low-fee delivery zone. City fields match by substring; postal codes match by
// prefix against the short "dNN" forms.
var dublinGazetteer = []string{
	"dublin", "dublin 1", "dublin 2", "dublin 3", "dublin 4", "dublin 5",
	"dublin 6", "dublin 7", "dublin 8", "dublin 9", "dublin 10", "dublin 11",
	"dublin 12", "dublin 13", "dublin 14", "dublin 15", "dublin 16", "dublin 17",
	"dublin 18", "dublin 20", "dublin 22", "dublin 24",
	"d01", "d02", "d03", "d04", "d05", "d06", "d07", "d08", "d09", "d10",
	"d11", "d12", "d13", "d14", "d15", "d16", "d17", "d18", "d20", "d22", "d24",
}

// frozenKeywords mark categories that require frozen handling.
var frozenKeywords = []string{
	"frozen meat", "frozen seafood", "frozen", "frozen foods", "frozen essentials",
}

// stapleKeywords mark rice, atta and flour categories.
var stapleKeywords = []string{
	"rice", "atta", "flour", "rice & atta", "grains",
}

// categoryWeight pairs a category keyword with a default per-unit weight in kg.
type categoryWeight struct {
	keyword string
	kg      float64
}

// categoryWeights is an ordered rule table: the first keyword contained in the
// line's category wins. "rice & atta" must therefore stay below "rice" only if
// they disagree; they both resolve to 5kg so the order matches the source data.
var categoryWeights = []categoryWeight{
	{"rice", 5},
	{"atta", 10},
	{"rice & atta", 5},
	{"grains", 2},
	{"frozen meat", 1},
	{"frozen seafood", 0.5},
	{"vegetables", 0.5},
	{"fruits", 0.5},
	{"spices", 0.2},
}

// defaultWeightKg applies when no explicit weight, name pattern or category
// rule resolves a line's weight.
const defaultWeightKg = 0.5

// Fee schedule.
const (
	// FreeDeliveryThreshold is the in-zone subtotal at and above which the
	// base fee is waived.
	FreeDeliveryThreshold = 39.99
	baseFee               = 5.99
	stapleOnlyFee         = 3.00
	heavyPackFeePerUnit   = 1.00
	outOfZoneFee          = 6.99
	overweightFee         = 6.99
	// WeightLimitKg is the total order weight above which the extra packaging
	// surcharge applies.
	WeightLimitKg = 28.0
)
