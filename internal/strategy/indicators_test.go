package strategy

import (
	"math"
	"testing"

	"photon-trading-bot/internal/photon"
)

// TestCalculateRSIAllGains tests that a window with no losing bar pins at 100
func TestCalculateRSIAllGains(t *testing.T) {
	closes := make([]float64, 15)
	for i := range closes {
		closes[i] = 100 + float64(i)*2
	}

	rsi, ok := CalculateRSI(closes, 14)
	if !ok {
		t.Fatal("RSI should be present with length+1 closes")
	}
	if rsi != 100 {
		t.Errorf("RSI with no losses should be exactly 100, got %.4f", rsi)
	}
}

// TestCalculateRSITooShort tests that an undersized series yields no value
func TestCalculateRSITooShort(t *testing.T) {
	closes := make([]float64, 14)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	if _, ok := CalculateRSI(closes, 14); ok {
		t.Error("RSI should be absent with fewer than length+1 closes")
	}
}

// TestCalculateRSIMixed tests a mixed gain/loss window
func TestCalculateRSIMixed(t *testing.T) {
	// Alternating +2/-1 over 14 deltas: gains=14, losses=7, rs=2, rsi=66.67
	closes := []float64{100}
	for i := 0; i < 7; i++ {
		closes = append(closes, closes[len(closes)-1]+2)
		closes = append(closes, closes[len(closes)-1]-1)
	}

	rsi, ok := CalculateRSI(closes, 14)
	if !ok {
		t.Fatal("RSI should be present")
	}
	want := 100 - 100/(1+2.0)
	if math.Abs(rsi-want) > 1e-9 {
		t.Errorf("RSI = %.6f, want %.6f", rsi, want)
	}
}

// TestCalculateRSIFallingSeries tests that pure losses give RSI 0
func TestCalculateRSIFallingSeries(t *testing.T) {
	closes := make([]float64, 15)
	for i := range closes {
		closes[i] = 200 - float64(i)*3
	}

	rsi, ok := CalculateRSI(closes, 14)
	if !ok {
		t.Fatal("RSI should be present")
	}
	if rsi != 0 {
		t.Errorf("RSI with no gains should be 0, got %.4f", rsi)
	}
}

// TestRSISlopeRising tests that a rising tail yields a positive slope
func TestRSISlopeRising(t *testing.T) {
	// Choppy base, then a strongly rising tail.
	closes := make([]float64, 0, 40)
	base := 100.0
	for i := 0; i < 30; i++ {
		if i%2 == 0 {
			base += 1
		} else {
			base -= 0.8
		}
		closes = append(closes, base)
	}
	for i := 0; i < 10; i++ {
		base += 3
		closes = append(closes, base)
	}

	slope, ok := RSISlope(closes, 14, 4)
	if !ok {
		t.Fatal("slope should be present with length+window+1 closes")
	}
	if slope <= 0 {
		t.Errorf("slope should be positive for a rising tail, got %.4f", slope)
	}
}

// TestRSISlopeTooShort tests the minimum length requirement
func TestRSISlopeTooShort(t *testing.T) {
	closes := make([]float64, 18) // needs 14+4+1 = 19
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	if _, ok := RSISlope(closes, 14, 4); ok {
		t.Error("slope should be absent with fewer than length+window+1 closes")
	}
}

// TestSwingBars tests the lookback clamp
func TestSwingBars(t *testing.T) {
	if got := SwingBars(120); got != 30 {
		t.Errorf("SwingBars(120) = %d, want 30", got)
	}
	if got := SwingBars(12); got != 5 {
		t.Errorf("SwingBars(12) = %d, want 5", got)
	}
	if got := SwingBars(60); got != 15 {
		t.Errorf("SwingBars(60) = %d, want 15", got)
	}
	if got := SwingBars(200); got != 30 {
		t.Errorf("SwingBars(200) = %d, want 30 (cap)", got)
	}
}

// TestSwingExtremes tests swing low/high over the trailing window
func TestSwingExtremes(t *testing.T) {
	candles := make([]photon.Candle, 20)
	for i := range candles {
		candles[i] = photon.Candle{
			Timestamp: int64(i * 60),
			Open:      100,
			High:      110 + float64(i),
			Low:       90 - float64(i),
			Close:     100,
		}
	}

	low, ok := SwingLow(candles, 5)
	if !ok {
		t.Fatal("swing low should be present")
	}
	if low != 90-19 {
		t.Errorf("swing low = %.1f, want %.1f", low, 90-19.0)
	}

	high, ok := SwingHigh(candles, 5)
	if !ok {
		t.Fatal("swing high should be present")
	}
	if high != 110+19 {
		t.Errorf("swing high = %.1f, want %.1f", high, 110+19.0)
	}
}

// TestSwingExtremesEmpty tests that an empty series yields no extremes
func TestSwingExtremesEmpty(t *testing.T) {
	if _, ok := SwingLow(nil, 5); ok {
		t.Error("swing low should be absent for an empty series")
	}
	if _, ok := SwingHigh(nil, 5); ok {
		t.Error("swing high should be absent for an empty series")
	}
}

// TestSwingWindowLargerThanSeries tests the bars clamp
func TestSwingWindowLargerThanSeries(t *testing.T) {
	candles := []photon.Candle{
		{Low: 50, High: 60},
		{Low: 40, High: 70},
	}

	low, ok := SwingLow(candles, 10)
	if !ok || low != 40 {
		t.Errorf("swing low = %.1f ok=%v, want 40 true", low, ok)
	}
}
