package util

import "math"

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percentage returns round2(100 * part / total), or 0 when total is 0.
func Percentage(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(100 * part / total)
}
