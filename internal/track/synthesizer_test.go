package track_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/animatronics-service/internal/animate"
	"github.com/book-expert/animatronics-service/internal/core"
	"github.com/book-expert/animatronics-service/internal/track"
)

func newTestSynthesizer(t *testing.T) *track.Synthesizer {
	t.Helper()

	synth, err := track.NewSynthesizer(core.DefaultProfile(), nil)
	require.NoError(t, err)

	return synth
}

// controlPulseStarts locates pulse onsets in a filtered, gain-staged control
// channel.
func controlPulseStarts(control []float64, threshold float64) []int {
	var starts []int

	inPulse := false
	for i, s := range control {
		if s <= threshold && !inPulse {
			starts = append(starts, i)
			inPulse = true
		} else if s > threshold {
			inPulse = false
		}
	}

	return starts
}

func TestSynthesizeEmptyVoiceYieldsEmptyTrack(t *testing.T) {
	t.Parallel()

	synth := newTestSynthesizer(t)

	stereo, err := synth.Synthesize(core.SynthesisRequest{
		Voice:      nil,
		SampleRate: 0,
		Syllables:  nil,
		Sentiment:  0,
		Seed:       1,
	})
	require.NoError(t, err)

	assert.Empty(t, stereo.Voice)
	assert.Empty(t, stereo.Control)
	assert.Equal(t, 44100, stereo.SampleRate)
}

func TestSynthesizeRejectsBadInputs(t *testing.T) {
	t.Parallel()

	synth := newTestSynthesizer(t)
	voice := make([]float64, 22050)

	_, err := synth.Synthesize(core.SynthesisRequest{
		Voice:      voice,
		SampleRate: 0,
		Syllables:  nil,
		Sentiment:  0,
		Seed:       1,
	})
	require.ErrorIs(t, err, track.ErrVoiceRateRange)

	_, err = synth.Synthesize(core.SynthesisRequest{
		Voice:      voice,
		SampleRate: 22050,
		Syllables:  nil,
		Sentiment:  2.0,
		Seed:       1,
	})
	require.ErrorIs(t, err, animate.ErrSentimentRange)

	_, err = synth.Synthesize(core.SynthesisRequest{
		Voice:      voice,
		SampleRate: 22050,
		Syllables:  []core.SyllableSegment{{Start: 0, End: 50000}},
		Sentiment:  0,
		Seed:       1,
	})
	require.ErrorIs(t, err, animate.ErrSegmentBounds)
}

func TestSynthesizeChannelAlignment(t *testing.T) {
	t.Parallel()

	synth := newTestSynthesizer(t)

	// 3.0 s of silence at 44.1 kHz with no syllables: both channels must
	// come out the same length and the mouth must stay closed throughout.
	voice := make([]float64, 3*44100)

	stereo, err := synth.Synthesize(core.SynthesisRequest{
		Voice:      voice,
		SampleRate: 44100,
		Syllables:  nil,
		Sentiment:  0,
		Seed:       1,
	})
	require.NoError(t, err)

	require.Len(t, stereo.Control, len(stereo.Voice))

	// 180 frames of 8 pulses each.
	profile := core.DefaultProfile()
	starts := controlPulseStarts(stereo.Control, profile.PulseLevel*profile.ControlGain/2)
	require.Len(t, starts, 180*core.NumChannels)

	// The lower jaw is the third channel of each frame; with the mouth
	// closed its pulse spacing must hold the minimum gap on every frame.
	wantSpacing := int(float64(profile.PulseWidthUs+profile.GapMinUs) / 1e6 * 44100)
	for frame := range 180 {
		jaw := frame*core.NumChannels + core.ChannelLowerJaw
		spacing := starts[jaw+1] - starts[jaw]
		assert.InDelta(t, wantSpacing, spacing, 2,
			"closed mouth must decode to the minimum gap at frame %d", frame)
	}
}

func TestSynthesizeTrackDuration(t *testing.T) {
	t.Parallel()

	synth := newTestSynthesizer(t)

	// 2.5 s at 22.05 kHz: 150 frames at the 44.1 kHz output rate.
	voice := make([]float64, 2*22050+11025)
	for i := range voice {
		voice[i] = 0.2 * math.Sin(2*math.Pi*220*float64(i)/22050)
	}

	stereo, err := synth.Synthesize(core.SynthesisRequest{
		Voice:      voice,
		SampleRate: 22050,
		Syllables:  []core.SyllableSegment{{Start: 0, End: len(voice)}},
		Sentiment:  0.25,
		Seed:       1,
	})
	require.NoError(t, err)

	assert.Equal(t, 150, synth.FrameCount(len(voice), 22050))
	assert.Len(t, stereo.Voice, 150*44100/60)
	assert.Len(t, stereo.Control, len(stereo.Voice))
	assert.InDelta(t, 2.5, stereo.DurationSeconds(), 1.0/44100)
}

func TestSynthesizeDeterministicForSeed(t *testing.T) {
	t.Parallel()

	synth := newTestSynthesizer(t)

	voice := make([]float64, 22050)
	for i := range voice {
		voice[i] = 0.3 * math.Sin(2*math.Pi*300*float64(i)/22050)
	}

	request := core.SynthesisRequest{
		Voice:      voice,
		SampleRate: 22050,
		Syllables:  []core.SyllableSegment{{Start: 0, End: len(voice)}},
		Sentiment:  -0.4,
		Seed:       99,
	}

	first, err := synth.Synthesize(request)
	require.NoError(t, err)

	second, err := synth.Synthesize(request)
	require.NoError(t, err)

	assert.Equal(t, first.Control, second.Control)
	assert.Equal(t, first.Voice, second.Voice)
}
