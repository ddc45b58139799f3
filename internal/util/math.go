package util

import "math"

// Avg calculates the average of all values in the given array
func Avg(values []float64) float64 {
	sum := 0.0
	for i := 0; i < len(values); i++ {
		sum += values[i]
	}
	return sum / (float64(len(values)))
}

// Ratio calculates the ration that target has in comparison to rangeMin and rangeMax
// Make sure that:
// rangeMin <= target <= rangeMax
// rangeMax - rangeMin != 0
func Ratio(target float64, rangeMin float64, rangeMax float64) float64 {
	return (target - rangeMin) / (rangeMax - rangeMin)
}

// Coerce returns value limited to [min, max]
func Coerce(value float64, min float64, max float64) float64 {
	return math.Max(min, math.Min(max, value))
}

// Lerp maps ratio in [0, 1] onto [from, to]
func Lerp(ratio float64, from float64, to float64) float64 {
	return from + ratio*(to-from)
}
