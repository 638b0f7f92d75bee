package drop

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// DefaultDecimals is the precision used by the milestone cards.
const DefaultDecimals = 2

var hundred = decimal.NewFromInt(100)

// FormatPercentage renders p as a percentage with a fixed number of
// decimals, e.g. 0.50244 -> "50.24%". Halves round away from zero.
// Non-finite inputs render as "NaN%", "+Inf%" or "-Inf%".
func FormatPercentage(p float64, decimals int) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return strconv.FormatFloat(p, 'f', -1, 64) + "%"
	}
	if decimals < 0 {
		decimals = 0
	}
	return decimal.NewFromFloat(p).Mul(hundred).StringFixed(int32(decimals)) + "%"
}
