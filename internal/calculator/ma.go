package calculator

import (
	"fmt"
	"math"
)

// SMA computes a NaN-aware simple moving average with the same length as values.
//
// Positions before the first full window are NaN. Once window values have been seen, each
// output is the mean of the non-NaN values in the trailing window, or NaN if there are none.
func SMA(values []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: sma window must be positive, got %d", ErrInvalidParameter, window)
	}
	out := nanSlice(len(values))
	for i := window - 1; i < len(values); i++ {
		out[i] = nanMean(values[i-window+1 : i+1])
	}
	return out, nil
}

// nanMean averages the non-NaN values around the first valid one, so a constant window
// returns that constant exactly.
func nanMean(window []float64) float64 {
	pivot := math.NaN()
	var sum float64
	var count int
	for _, v := range window {
		if math.IsNaN(v) {
			continue
		}
		if count == 0 {
			pivot = v
		}
		sum += v - pivot
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return pivot + sum/float64(count)
}

// LastNonNaN returns the most recent non-NaN value, or NaN if every value is NaN.
func LastNonNaN(values []float64) float64 {
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) {
			return values[i]
		}
	}
	return math.NaN()
}
