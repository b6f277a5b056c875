package utils

import "testing"

func TestRound(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{79.4, 79},
		{79.5, 80},
		{2.5, 3},
		{-2.5, -2},
		{99.99, 100},
	}
	for _, tt := range tests {
		if got := Round(tt.in); got != tt.want {
			t.Errorf("Round(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMean(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v", got)
	}
	if got := Mean([]float64{80, 60, 70}); got != 70 {
		t.Errorf("Mean = %v, want 70", got)
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(1, 0); got != 0 {
		t.Errorf("Percent(1, 0) = %v", got)
	}
	if got := Percent(1, 4); got != 25 {
		t.Errorf("Percent(1, 4) = %v", got)
	}
}
