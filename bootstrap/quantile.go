package bootstrap

import (
	"math"
	"sort"
)

// Quantile returns the q-th sample quantile of values by linear
// interpolation between order statistics, h = (n-1)q (Hyndman-Fan type 7).
// q is clamped to [0, 1]. An empty input yields NaN. values is not modified.
func Quantile(values []float64, q float64) float64 {
	n := len(values)
	if n == 0 || math.IsNaN(q) {
		return math.NaN()
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	pos := q * float64(n-1)
	below := int(math.Floor(pos))
	above := int(math.Ceil(pos))
	if below == above {
		return sorted[below]
	}
	w := pos - float64(below)
	return sorted[below]*(1-w) + sorted[above]*w
}
