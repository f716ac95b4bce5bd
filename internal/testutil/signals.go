package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Harmonics generates a voiced-like tone: the fundamental plus nHarmonics
// overtones with 1/k amplitude roll-off.
func Harmonics(f0, sampleRate, amplitude float64, nHarmonics, length int) []float64 {
	out := make([]float64, length)
	for k := 1; k <= nHarmonics+1; k++ {
		if float64(k)*f0 >= sampleRate/2 {
			break
		}
		step := 2 * math.Pi * float64(k) * f0 / sampleRate
		gain := amplitude / float64(k)
		for i := range out {
			out[i] += gain * math.Sin(step*float64(i))
		}
	}
	return out
}
