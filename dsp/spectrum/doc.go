// Package spectrum provides spectrum-domain utilities for frame analysis:
// magnitude of complex bins and the real cepstrum.
//
// Magnitudes are computed with algo-vecmath. The real FFT pair behind the
// cepstrum comes from gonum's dsp/fourier, which handles arbitrary frame
// lengths (a 32 ms frame at 44.1 kHz is 1411 samples).
package spectrum
