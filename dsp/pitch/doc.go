// Package pitch estimates the fundamental frequency of short speech frames.
//
// Three interchangeable methods share the [Estimator] interface:
//
//   - autocorrelation: period from the first correlation peak after the
//     initial decay.
//   - AMDF: period from the minimum of the circular average magnitude
//     difference over the 100-350 Hz lag band.
//   - cepstrum: period from the strongest real-cepstrum peak.
//
// Every estimator returns 0 for frames it considers unvoiced or
// unreliable. AMDF and cepstrum consult a [voicing.Classifier] first.
package pitch
