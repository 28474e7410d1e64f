// Package track assembles voice audio and the synthesized control signal
// into the final two-channel output buffer.
package track

import "math"

// tapsPerSide is the half-width of the windowed-sinc interpolation kernel.
const tapsPerSide = 16

// Resample converts a waveform between sample rates with Hann-windowed sinc
// interpolation.
//
// The voice channel is always resampled UP to the control rate, never the
// other way around: control pulses are only ~17 samples wide at 44.1 kHz and
// resampling them would smear the edges the toy's receiver times against.
// Windowed sinc is used instead of linear interpolation because the voice
// still shares the tape with the control track, and linear interpolation's
// aliasing products fall inside the receiver's detection band.
func Resample(in []float64, fromRate, toRate int) []float64 {
	if len(in) == 0 {
		return nil
	}

	if fromRate == toRate {
		out := make([]float64, len(in))
		copy(out, in)

		return out
	}

	outLen := int(math.Round(float64(len(in)) * float64(toRate) / float64(fromRate)))
	out := make([]float64, outLen)

	step := float64(fromRate) / float64(toRate)

	for j := range out {
		pos := float64(j) * step
		center := int(math.Floor(pos))

		sum := 0.0
		weightSum := 0.0

		for k := center - tapsPerSide + 1; k <= center+tapsPerSide; k++ {
			if k < 0 || k >= len(in) {
				continue
			}

			weight := windowedSinc(pos - float64(k))
			sum += in[k] * weight
			weightSum += weight
		}

		if weightSum != 0 {
			out[j] = sum / weightSum
		}
	}

	return out
}

func windowedSinc(x float64) float64 {
	if math.Abs(x) >= tapsPerSide {
		return 0
	}

	window := 0.5 * (1 + math.Cos(math.Pi*x/tapsPerSide))

	if x == 0 {
		return window
	}

	return window * math.Sin(math.Pi*x) / (math.Pi * x)
}
