// Package animate derives per-frame actuator channel values from speech
// audio, syllable timing, and utterance sentiment.
package animate

import (
	"errors"
	"fmt"
	"math"

	"github.com/book-expert/animatronics-service/internal/core"
)

// Static input validation errors. These fail synthesis for one utterance
// only; callers fall back to playing voice without a control track.
var (
	// ErrSegmentBounds indicates a syllable segment outside the waveform.
	ErrSegmentBounds = errors.New("syllable segment outside waveform")
	// ErrSegmentOrder indicates an empty or reversed syllable segment.
	ErrSegmentOrder = errors.New("syllable segment end must be after its start")
)

// MouthChannelValues converts syllable-segmented speech into one lower-jaw
// and one upper-jaw channel value per frame.
//
// Each syllable contributes one jaw-openness target: a blend of the
// segment's peak and RMS amplitude, scaled, clipped to [0, 1] and pushed
// through a sub-linear response curve so quiet syllables still move the
// mouth visibly. Targets are mapped onto the frame grid and smoothed with a
// fast attack and a slower release, which closes the mouth naturally between
// syllables instead of snapping.
//
// Zero syllables or an empty waveform keep the mouth closed for the whole
// track.
func MouthChannelValues(
	voice []float64,
	voiceRate int,
	segments []core.SyllableSegment,
	totalFrames int,
	profile core.SynthesisProfile,
) (lower, upper []int, err error) {
	err = validateSegments(voice, segments)
	if err != nil {
		return nil, nil, err
	}

	targets := make([]float64, len(segments))
	for i, seg := range segments {
		targets[i] = mouthTarget(voice[seg.Start:seg.End], profile)
	}

	lower = make([]int, totalFrames)
	upper = make([]int, totalFrames)

	smoothed := 0.0
	segIdx := 0

	for frame := range totalFrames {
		sample := frame * voiceRate / profile.FrameRate

		target := 0.0
		for segIdx < len(segments) && sample >= segments[segIdx].End {
			segIdx++
		}

		if segIdx < len(segments) && sample >= segments[segIdx].Start {
			target = targets[segIdx]
		}

		if target > smoothed {
			smoothed = profile.Attack*smoothed + (1-profile.Attack)*target
		} else {
			smoothed = profile.Release*smoothed + (1-profile.Release)*target
		}

		lower[frame] = int(math.Round(smoothed * core.MaxChannelValue))
		upper[frame] = int(math.Round(profile.UpperJawRatio * float64(lower[frame])))
	}

	return lower, upper, nil
}

// mouthTarget computes the jaw-openness target in [0, 1] for one syllable's
// samples.
func mouthTarget(samples []float64, profile core.SynthesisProfile) float64 {
	if len(samples) == 0 {
		return 0
	}

	peak := 0.0
	sumSquares := 0.0

	for _, s := range samples {
		peak = math.Max(peak, math.Abs(s))
		sumSquares += s * s
	}

	rms := math.Sqrt(sumSquares / float64(len(samples)))
	amplitude := 0.7*peak + 0.3*rms

	scaled := math.Min(amplitude*profile.MouthGain, 1.0)

	return math.Pow(scaled, profile.MouthExponent)
}

func validateSegments(voice []float64, segments []core.SyllableSegment) error {
	for i, seg := range segments {
		if seg.Start >= seg.End {
			return fmt.Errorf("%w: segment %d [%d, %d)", ErrSegmentOrder, i, seg.Start, seg.End)
		}

		if seg.Start < 0 || seg.End > len(voice) {
			return fmt.Errorf(
				"%w: segment %d [%d, %d) in %d samples",
				ErrSegmentBounds, i, seg.Start, seg.End, len(voice),
			)
		}
	}

	return nil
}
