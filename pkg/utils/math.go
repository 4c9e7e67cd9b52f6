package utils

import (
	"math"
	"strconv"
)

func ParseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev is the population standard deviation (divides by n). It is exactly
// zero only when every element is equal. Values are scaled by their largest
// magnitude before squaring so tiny or huge inputs neither underflow nor
// overflow.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	constant := true
	for _, v := range values[1:] {
		if v != values[0] {
			constant = false
			break
		}
	}
	if constant {
		return 0
	}

	scale := 0.0
	for _, v := range values {
		scale = math.Max(scale, math.Abs(v))
	}
	if !IsFinite(scale) {
		return math.NaN()
	}

	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = v / scale
	}
	mean := Mean(scaled)

	variance := 0.0
	for _, v := range scaled {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))

	return math.Sqrt(variance) * scale
}

// ZScore standardises value against the series. ok is false when the series
// has no usable spread (zero or non-finite standard deviation).
func ZScore(value float64, series []float64) (z float64, ok bool) {
	sd := StdDev(series)
	if sd == 0 || !IsFinite(sd) {
		return 0, false
	}

	z = (value - Mean(series)) / sd
	if !IsFinite(z) {
		return 0, false
	}
	return z, true
}

func CountDistinct(values []float64) int {
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
