package core

import "math"

// ClampInt limits value to the inclusive range [min, max].
func ClampInt(value, min, max int) int {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// MillisToSamples converts a duration in milliseconds to a sample count at
// sampleRate. Halfway cases round to the nearest even count, so 0.5 ms at
// 1 kHz yields 0 and 1.5 ms yields 2.
func MillisToSamples(ms, sampleRate float64) int {
	return int(math.RoundToEven(ms * sampleRate / 1000))
}

// Sign returns -1, 0 or +1 according to the sign of x. NaN maps to 0.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
