package training

import "testing"

func TestEstimate1RM(t *testing.T) {
	tests := []struct {
		name     string
		weightKg float64
		reps     int
		want     float64
	}{
		{name: "single rep is identity", weightKg: 100, reps: 1, want: 100},
		{name: "five reps", weightKg: 145, reps: 5, want: 169},
		{name: "rounds to nearest kilogram", weightKg: 60, reps: 8, want: 76},
		{name: "ten reps", weightKg: 100, reps: 10, want: 133},
		{name: "zero reps is not computable", weightKg: 100, reps: 0, want: 0},
		{name: "negative reps is not computable", weightKg: 100, reps: -3, want: 0},
		{name: "negative weight is not computable", weightKg: -10, reps: 5, want: 0},
		{name: "bodyweight estimates to zero", weightKg: 0, reps: 12, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Estimate1RM(tt.weightKg, tt.reps); got != tt.want {
				t.Errorf("Estimate1RM(%v, %d) = %v, want %v", tt.weightKg, tt.reps, got, tt.want)
			}
		})
	}
}

// The estimate never shrinks when either input grows.
func TestEstimate1RMMonotonic(t *testing.T) {
	for reps := 1; reps <= 15; reps++ {
		for w := 20.0; w <= 200; w += 20 {
			if Estimate1RM(w, reps) < w {
				t.Errorf("Estimate1RM(%v, %d) below the lifted weight", w, reps)
			}
			if Estimate1RM(w+2.5, reps) < Estimate1RM(w, reps) {
				t.Errorf("estimate decreased when weight grew from %v at %d reps", w, reps)
			}
			if Estimate1RM(w, reps+1) < Estimate1RM(w, reps) {
				t.Errorf("estimate decreased when reps grew from %d at %v kg", reps, w)
			}
		}
	}
}
