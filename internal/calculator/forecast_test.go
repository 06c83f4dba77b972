package calculator

import (
	"errors"
	"math"
	"testing"
)

func TestCalculateForecast_ExactLinearFit(t *testing.T) {
	// Perfect line close[i] = 10 + 2i over 50 days: the OLS fit reproduces
	// it exactly, so the estimates follow in closed form.
	closes := make([]float64, 50)
	for i := range closes {
		closes[i] = 10 + 2*float64(i)
	}

	fc, err := CalculateForecast(seriesFromCloses(closes), 90, 30, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	predictedToday := 10 + 2*float64(49)  // 108
	predictedIn30 := 10 + 2*float64(49+30) // 168
	if want := math.Round(predictedToday*0.95*100) / 100; fc.EstimatedBuyPrice != want {
		t.Errorf("buy price = %v, want %v", fc.EstimatedBuyPrice, want)
	}
	if want := math.Round(predictedIn30*100) / 100; fc.EstimatedSellPrice != want {
		t.Errorf("sell price = %v, want %v", fc.EstimatedSellPrice, want)
	}
	if fc.HorizonDays != 30 {
		t.Errorf("horizon = %d, want 30", fc.HorizonDays)
	}
}

func TestCalculateForecast_UsesOnlyRecentWindow(t *testing.T) {
	// 30 wild observations followed by 90 flat ones: with a 90-observation
	// window the fit must ignore the wild prefix entirely.
	closes := append(repeat(500, 30), repeat(50, 90)...)

	fc, err := CalculateForecast(seriesFromCloses(closes), 90, 30, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fc.EstimatedSellPrice != 50 {
		t.Errorf("sell price = %v, want 50 (flat window)", fc.EstimatedSellPrice)
	}
	if fc.EstimatedBuyPrice != 47.5 {
		t.Errorf("buy price = %v, want 47.5", fc.EstimatedBuyPrice)
	}
}

func TestCalculateForecast_Deterministic(t *testing.T) {
	closes := []float64{101.3, 99.8, 104.2, 103.1, 107.9, 106.4, 110.0, 109.2}
	a, err := CalculateForecast(seriesFromCloses(closes), 90, 30, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := CalculateForecast(seriesFromCloses(closes), 90, 30, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("forecast not deterministic: %+v vs %+v", a, b)
	}
}

func TestCalculateForecast_InsufficientHistory(t *testing.T) {
	for _, n := range []int{0, 1} {
		_, err := CalculateForecast(seriesFromCloses(repeat(100, n)), 90, 30, 0.05)
		if !errors.Is(err, ErrInsufficientHistory) {
			t.Errorf("n=%d: err = %v, want ErrInsufficientHistory", n, err)
		}
	}
}
