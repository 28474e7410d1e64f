package ppm

import "math"

// LowPass rounds the pulse edges of a finished control track with a
// second-order Butterworth filter, run forward and backward for zero phase
// shift. Original tapes show roughly 0.6 ms rise times; a 5 kHz cutoff
// softens the edges enough to avoid harmonics that false-trigger the toy's
// receiver while keeping the pulse timing intact. The filter is applied once
// per track, never per pulse, so there are no boundary discontinuities
// between pulses.
func LowPass(signal []float64, sampleRate int, cutoffHz float64) []float64 {
	if len(signal) == 0 {
		return nil
	}

	b0, b1, b2, a1, a2 := butterworthCoefficients(sampleRate, cutoffHz)

	forward := make([]float64, len(signal))
	applyBiquad(forward, signal, b0, b1, b2, a1, a2)

	// Second pass over the reversed signal cancels the phase shift of the
	// first.
	reverse(forward)

	out := make([]float64, len(signal))
	applyBiquad(out, forward, b0, b1, b2, a1, a2)
	reverse(out)

	return out
}

// butterworthCoefficients derives normalized biquad coefficients for a
// second-order Butterworth low-pass via the bilinear transform.
func butterworthCoefficients(sampleRate int, cutoffHz float64) (b0, b1, b2, a1, a2 float64) {
	c := 1 / math.Tan(math.Pi*cutoffHz/float64(sampleRate))
	norm := 1 / (1 + math.Sqrt2*c + c*c)

	b0 = norm
	b1 = 2 * norm
	b2 = norm
	a1 = 2 * (1 - c*c) * norm
	a2 = (1 - math.Sqrt2*c + c*c) * norm

	return b0, b1, b2, a1, a2
}

func applyBiquad(dst, src []float64, b0, b1, b2, a1, a2 float64) {
	var x1, x2, y1, y2 float64

	for i, x := range src {
		y := b0*x + b1*x1 + b2*x2 - a1*y1 - a2*y2
		dst[i] = y

		x2, x1 = x1, x
		y2, y1 = y1, y
	}
}

func reverse(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
