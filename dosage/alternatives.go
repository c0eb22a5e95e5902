package dosage

import (
	"github.com/shopspring/decimal"
)

var (
	alternativeLow  = decimal.RequireFromString("0.95")
	alternativeHigh = decimal.RequireFromString("1.10")
)

// Alternatives lists, for each strength in descending order, the single-strength
// combination covering the delivered mg of combination. An alternative is kept
// only when its total stays within 95%-110% of both the delivered amount and
// the target dose. The chosen combination itself is never listed.
func (o *VialCombinationOptimizer) Alternatives(combination []int, dose decimal.Decimal) []Alternative {
	total := sumMg(combination)
	if total == 0 {
		return nil
	}

	t := decimal.NewFromInt(int64(total))
	chosen := countStrengths(combination)

	var out []Alternative
	for _, mg := range o.strengths {
		count := (total + mg - 1) / mg
		altTotal := count * mg

		a := decimal.NewFromInt(int64(altTotal))
		if !within(a, t) || !within(a, dose) {
			continue
		}
		if len(chosen) == 1 && chosen[mg] == count {
			continue
		}
		out = append(out, Alternative{Mg: mg, Count: count, TotalMg: altTotal})
	}
	return out
}

// within reports whether a lies in [0.95, 1.10] × ref
func within(a, ref decimal.Decimal) bool {
	return !a.LessThan(ref.Mul(alternativeLow)) && !a.GreaterThan(ref.Mul(alternativeHigh))
}
