package track

import "github.com/book-expert/animatronics-service/internal/core"

// Compose aligns a voice waveform with a control waveform and merges them
// into the final stereo buffer at the control rate.
//
// The two inputs describe the same utterance, so after resampling the voice
// up to the control rate their lengths differ only by rounding. The shorter
// channel is padded with trailing silence rather than truncating the longer:
// cutting would drop either the tail of speech or the last mouth movement.
//
// Channel order is fixed as left = voice, right = control. The toy's cassette
// head wiring depends on it; it must never be swapped.
func Compose(
	voice []float64,
	voiceRate int,
	control []float64,
	controlRate int,
	voiceGain, controlGain float64,
) core.StereoTrack {
	aligned := Resample(voice, voiceRate, controlRate)

	length := max(len(aligned), len(control))

	left := make([]float64, length)
	right := make([]float64, length)

	for i, s := range aligned {
		left[i] = s * voiceGain
	}

	for i, s := range control {
		right[i] = s * controlGain
	}

	return core.StereoTrack{
		Voice:      left,
		Control:    right,
		SampleRate: controlRate,
	}
}
