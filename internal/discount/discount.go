// Package discount maps a partner's cumulative sale quantity to a discount
// percentage. The value is derived on every read and never stored, since the
// sales history can change between reads.
package discount

// Tier thresholds, lower bound inclusive.
const (
	tierFive    = 10_000
	tierTen     = 50_000
	tierFifteen = 300_000
)

// Compute returns the discount percentage for a cumulative sale quantity.
// Pure and total: any non-negative quantity maps to exactly one tier.
func Compute(totalQuantity int64) int {
	switch {
	case totalQuantity < tierFive:
		return 0
	case totalQuantity < tierTen:
		return 5
	case totalQuantity < tierFifteen:
		return 10
	default:
		return 15
	}
}
