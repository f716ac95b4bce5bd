// Package conv provides convolution and correlation routines used for
// periodicity analysis of short audio frames.
//
// Direct convolution is an O(N*M) time-domain algorithm vectorized with
// algo-vecmath. Correlation of long signals goes through algo-fft with the
// inputs zero-padded to a power of two, so the circular FFT result holds the
// complete linear correlation.
//
// # Auto-correlation
//
// Pitch analysis only needs the non-negative lags of a frame correlated with
// itself:
//
//	corr, err := conv.AutoCorrelateOneSided(frame)
//	rmin := conv.FirstRise(corr)          // end of the initial decay
//	peak, _ := conv.FindPeakFrom(corr, rmin)
//	period := peak                        // in samples
//
// [AutoCorrelate] switches to the FFT path from [FFTThreshold] samples; the
// two paths agree to within floating-point rounding.
package conv
