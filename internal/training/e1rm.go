package training

import "math"

// Estimate1RM estimates the one-rep max for a set using the Epley formula,
// weight * (1 + reps/30), rounded to the nearest kilogram.
//
// A single rep is already a true max and returns the weight unchanged.
// Non-positive reps or a negative weight return 0.
func Estimate1RM(weightKg float64, reps int) float64 {
	if reps <= 0 || weightKg < 0 {
		return 0
	}
	if reps == 1 {
		return weightKg
	}
	return math.Round(weightKg * (1 + float64(reps)/30))
}
