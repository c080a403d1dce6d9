package utils

import (
	"math"
	"strconv"
)

// Clamp limits a value between min and max
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// FormatFixed formats value with exactly places decimals
func FormatFixed(value float64, places int) string {
	return strconv.FormatFloat(value, 'f', places, 64)
}

// Percent converts a 0..1 fraction to a whole percentage in 0..100
func Percent(fraction float64) int {
	return int(math.Round(Clamp(fraction, 0, 1) * 100))
}
