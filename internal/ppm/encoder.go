// Package ppm generates pulse-position-modulated control tracks for
// cassette-driven animatronic toys.
//
// Wire format, matching the original tape decks:
//   - fixed-rate frames (60 Hz by default), 8 channels per frame
//   - each channel is one negative-going HIGH pulse followed by a silent gap
//   - the gap width encodes the channel value: 0-255 maps linearly onto the
//     configured minimum-to-maximum gap range
//   - leftover time inside the frame period is silence and acts as the
//     inter-frame sync gap
package ppm

import (
	"fmt"

	"github.com/book-expert/animatronics-service/internal/core"
)

// FrameFunc returns the channel values for frame index i. Values outside
// [0, 255] are clipped by the encoder, never wrapped.
type FrameFunc func(frame int) [core.NumChannels]int

// Encoder turns per-frame channel values into a control waveform at a fixed
// sample rate. An Encoder is immutable after construction and safe for
// concurrent use.
type Encoder struct {
	sampleRate   int
	frameRate    int
	pulseSamples int
	gapMinUs     int
	gapMaxUs     int
	pulseLevel   float64
}

// NewEncoder builds an encoder from a validated profile.
func NewEncoder(profile core.SynthesisProfile) (*Encoder, error) {
	err := profile.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid synthesis profile: %w", err)
	}

	return &Encoder{
		sampleRate:   profile.SampleRate,
		frameRate:    profile.FrameRate,
		pulseSamples: usToSamples(profile.PulseWidthUs, profile.SampleRate),
		gapMinUs:     profile.GapMinUs,
		gapMaxUs:     profile.GapMaxUs,
		pulseLevel:   profile.PulseLevel,
	}, nil
}

// SampleRate returns the output rate of encoded tracks in Hz.
func (e *Encoder) SampleRate() int {
	return e.sampleRate
}

// PulseSamples returns the fixed HIGH pulse length in samples.
func (e *Encoder) PulseSamples() int {
	return e.pulseSamples
}

// GapSamples returns the gap length in samples encoding the given channel
// value. The value is clipped to [0, 255] first.
func (e *Encoder) GapSamples(value int) int {
	value = clipValue(value)

	gapUs := float64(e.gapMinUs) +
		float64(value)/float64(core.MaxChannelValue)*float64(e.gapMaxUs-e.gapMinUs)

	return int(gapUs / 1e6 * float64(e.sampleRate))
}

// FrameCount returns the number of frames needed to cover a voice waveform:
// ceil(duration × frame rate), computed in integer arithmetic so long tracks
// cannot drift.
func (e *Encoder) FrameCount(voiceSamples, voiceRate int) int {
	if voiceSamples <= 0 || voiceRate <= 0 {
		return 0
	}

	return (voiceSamples*e.frameRate + voiceRate - 1) / voiceRate
}

// TrackSamples returns the total sample count of a track holding the given
// number of frames.
func (e *Encoder) TrackSamples(totalFrames int) int {
	return e.frameStart(totalFrames)
}

// frameStart returns the exact first sample of frame i. Each frame boundary
// is derived from the frame index, not accumulated, so rounding errors never
// build up across a track.
func (e *Encoder) frameStart(i int) int {
	return i * e.sampleRate / e.frameRate
}

// EncodeTrack renders totalFrames frames into a new waveform. The output is
// unfiltered; callers apply LowPass once over the finished track.
func (e *Encoder) EncodeTrack(totalFrames int, frames FrameFunc) []float64 {
	signal := make([]float64, e.TrackSamples(totalFrames))

	for frame := range totalFrames {
		idx := e.frameStart(frame)
		values := frames(frame)

		for ch := range core.NumChannels {
			pulseEnd := min(idx+e.pulseSamples, len(signal))
			for i := idx; i < pulseEnd; i++ {
				signal[i] = e.pulseLevel
			}

			// The gap stays at DC zero: silence, not a second pulse.
			idx = pulseEnd + e.GapSamples(values[ch])
		}
		// Remaining samples up to frameStart(frame+1) are already zero
		// and form the sync gap.
	}

	return signal
}

func clipValue(v int) int {
	if v < 0 {
		return 0
	}

	if v > core.MaxChannelValue {
		return core.MaxChannelValue
	}

	return v
}

func usToSamples(us, sampleRate int) int {
	return int(float64(us) / 1e6 * float64(sampleRate))
}
