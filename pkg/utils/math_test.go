package utils

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct{ v, lo, hi, want float64 }{
		{0.5, 0.2, 0.6, 0.5},
		{0.1, 0.2, 0.6, 0.2},
		{0.9, 0.2, 0.6, 0.6},
		{0.2, 0.2, 0.6, 0.2},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}
