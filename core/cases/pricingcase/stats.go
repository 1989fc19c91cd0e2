package pricingcase

import (
	"math"
	"slices"
)

// CalculateStats returns min, max, rounded average and median. The median
// of an even count is the rounded mean of the middle two.
func CalculateStats(prices []int64) Statistics {
	if len(prices) == 0 {
		return Statistics{}
	}

	sorted := slices.Clone(prices)
	slices.Sort(sorted)

	var sum int64
	for _, p := range sorted {
		sum += p
	}

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = roundDiv(sorted[n/2-1]+sorted[n/2], 2)
	}

	return Statistics{
		Min:           sorted[0],
		Max:           sorted[n-1],
		Average:       roundDiv(sum, int64(n)),
		Median:        median,
		TotalProducts: n,
	}
}

func roundDiv(a, b int64) int64 {
	return int64(math.Round(float64(a) / float64(b)))
}
