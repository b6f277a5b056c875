package utils

import "math"

// Round rounds x to the nearest integer, with halves rounded up (toward +Inf).
// This matches how the dashboard has always displayed scores: Round(2.5) == 3, Round(-2.5) == -2.
func Round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Percent returns part/total*100, or 0 when total is not positive.
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
