// Package valuation computes the point cost of a listing from its category,
// condition and listing type. It is a pure function of its inputs with no
// side effects, so the same listing always values the same.
package valuation

import "math"

// Bounds and defaults for explicit point values on "points" listings.
const (
	MinExplicitPoints     = 1
	MaxExplicitPoints     = 999
	DefaultExplicitPoints = 50
)

// Fallbacks for unknown category/condition keys. The permissive default is
// deliberate: a listing with an unrecognized key still gets a sane value
// instead of failing creation.
const (
	defaultBasePoints = 30
	neutralMultiplier = 1.0
)

var basePoints = map[string]int{
	"tops":        30,
	"bottoms":     35,
	"dresses":     40,
	"outerwear":   50,
	"shoes":       35,
	"accessories": 25,
}

var conditionMultipliers = map[string]float64{
	"like-new":  1.2,
	"excellent": 1.1,
	"very-good": 1.0,
	"good":      0.9,
	"fair":      0.8,
}

// ExplicitInRange reports whether an explicit point value is acceptable for a
// "points" listing.
func ExplicitInRange(v int) bool {
	return v >= MinExplicitPoints && v <= MaxExplicitPoints
}

// SwapValue returns the computed point value for a swap listing:
// round(base[category] * multiplier[condition]).
func SwapValue(category, condition string) int {
	base, ok := basePoints[category]
	if !ok {
		base = defaultBasePoints
	}
	mult, ok := conditionMultipliers[condition]
	if !ok {
		mult = neutralMultiplier
	}
	return int(math.Round(float64(base) * mult))
}

// Compute returns the point value for a listing. For "points" listings the
// explicit value is used when provided and in range (callers reject
// out-of-range values before reaching here); when absent the default applies.
// Donate listings carry no economic value.
func Compute(listingType, category, condition string, explicit int, hasExplicit bool) int {
	switch listingType {
	case "points":
		if hasExplicit && ExplicitInRange(explicit) {
			return explicit
		}
		return DefaultExplicitPoints
	case "swap":
		return SwapValue(category, condition)
	default: // "donate"
		return 0
	}
}
