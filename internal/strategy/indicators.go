// Package strategy provides the technical signal computations: the
// relative-strength oscillator, its slope, and swing extremes. Everything
// here is a pure function over a candle series.
package strategy

import (
	"math"

	"photon-trading-bot/internal/photon"
)

// ============================================================================
// RSI (Relative Strength Index)
// ============================================================================

// CalculateRSI computes the oscillator over the trailing length deltas.
// The second return is false when the series is too short (fewer than
// length+1 closes) or the result is non-finite. A window without a single
// negative delta yields exactly 100.
func CalculateRSI(closes []float64, length int) (float64, bool) {
	if length <= 0 || len(closes) < length+1 {
		return 0, false
	}

	gains := 0.0
	losses := 0.0
	for i := len(closes) - length; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta >= 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}

	avgGain := gains / float64(length)
	avgLoss := losses / float64(length)
	if avgLoss == 0 {
		return 100, true
	}

	rs := avgGain / avgLoss
	rsi := 100 - 100/(1+rs)
	if math.IsNaN(rsi) || math.IsInf(rsi, 0) {
		return 0, false
	}
	return rsi, true
}

// RSISlope recomputes the oscillator at each cumulative prefix ending within
// the last window+1 positions and returns last minus first. It is absent when
// any intermediate computation is absent. O(window*length) is accepted here:
// window is capped at 30 by the caller and the series at the configured
// lookback, so no incremental variant is needed.
func RSISlope(closes []float64, length, window int) (float64, bool) {
	if window <= 0 || len(closes) < length+window+1 {
		return 0, false
	}

	first := 0.0
	last := 0.0
	for i := len(closes) - window; i <= len(closes); i++ {
		v, ok := CalculateRSI(closes[:i], length)
		if !ok {
			return 0, false
		}
		if i == len(closes)-window {
			first = v
		}
		last = v
	}
	return last - first, true
}

// ============================================================================
// SWING EXTREMES
// ============================================================================

// SwingBars derives the trailing window for swing extremes from the candle
// lookback: clamp(lookback/4, 5, 30).
func SwingBars(lookback int) int {
	bars := lookback / 4
	if bars < 5 {
		bars = 5
	}
	if bars > 30 {
		bars = 30
	}
	return bars
}

// SwingLow returns the minimum low over the trailing bars candles.
func SwingLow(candles []photon.Candle, bars int) (float64, bool) {
	if len(candles) == 0 {
		return 0, false
	}
	if bars > len(candles) {
		bars = len(candles)
	}
	low := math.Inf(1)
	for _, c := range candles[len(candles)-bars:] {
		if c.Low < low {
			low = c.Low
		}
	}
	return low, true
}

// SwingHigh returns the maximum high over the trailing bars candles.
func SwingHigh(candles []photon.Candle, bars int) (float64, bool) {
	if len(candles) == 0 {
		return 0, false
	}
	if bars > len(candles) {
		bars = len(candles)
	}
	high := math.Inf(-1)
	for _, c := range candles[len(candles)-bars:] {
		if c.High > high {
			high = c.High
		}
	}
	return high, true
}

// Closes extracts the close series from a candle slice.
func Closes(candles []photon.Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}
