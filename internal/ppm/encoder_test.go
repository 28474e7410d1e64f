// Package ppm_test tests PPM control-track encoding.
package ppm_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/animatronics-service/internal/core"
	"github.com/book-expert/animatronics-service/internal/ppm"
)

func newTestEncoder(t *testing.T, sampleRate int) *ppm.Encoder {
	t.Helper()

	profile := core.DefaultProfile()
	profile.SampleRate = sampleRate

	encoder, err := ppm.NewEncoder(profile)
	require.NoError(t, err)

	return encoder
}

// pulseStarts returns the first sample index of every pulse in the signal.
func pulseStarts(signal []float64, pulseLevel float64) []int {
	threshold := pulseLevel / 2

	var starts []int

	inPulse := false
	for i, s := range signal {
		if s <= threshold && !inPulse {
			starts = append(starts, i)
			inPulse = true
		} else if s > threshold {
			inPulse = false
		}
	}

	return starts
}

// decodeSpacing recovers a channel value from the spacing between two
// consecutive pulse starts.
func decodeSpacing(encoder *ppm.Encoder, spacing, sampleRate int) int {
	profile := core.DefaultProfile()
	gapUs := float64(spacing-encoder.PulseSamples()) / float64(sampleRate) * 1e6
	value := (gapUs - float64(profile.GapMinUs)) /
		float64(profile.GapMaxUs-profile.GapMinUs) * float64(core.MaxChannelValue)

	return int(math.Round(value))
}

func TestNewEncoderRejectsInvalidProfile(t *testing.T) {
	t.Parallel()

	profile := core.DefaultProfile()
	profile.GapMinUs = profile.GapMaxUs

	_, err := ppm.NewEncoder(profile)
	require.ErrorIs(t, err, core.ErrGapRange)
}

func TestGapSamplesMonotonicAndClipped(t *testing.T) {
	t.Parallel()

	encoder := newTestEncoder(t, 44100)

	prev := encoder.GapSamples(0)
	for v := 1; v <= core.MaxChannelValue; v++ {
		gap := encoder.GapSamples(v)
		assert.GreaterOrEqual(t, gap, prev, "gap width must not decrease at value %d", v)
		prev = gap
	}

	// Out-of-range values clip, never wrap.
	assert.Equal(t, encoder.GapSamples(0), encoder.GapSamples(-100))
	assert.Equal(t, encoder.GapSamples(core.MaxChannelValue), encoder.GapSamples(1000))

	// Bounds match the configured gap range.
	profile := core.DefaultProfile()
	wantMin := int(float64(profile.GapMinUs) / 1e6 * 44100)
	wantMax := int(float64(profile.GapMaxUs) / 1e6 * 44100)
	assert.Equal(t, wantMin, encoder.GapSamples(0))
	assert.Equal(t, wantMax, encoder.GapSamples(core.MaxChannelValue))
}

func TestFrameCount(t *testing.T) {
	t.Parallel()

	encoder := newTestEncoder(t, 44100)

	// 1.0 s at 60 Hz is exactly 60 frames; any extra sample adds a frame.
	assert.Equal(t, 60, encoder.FrameCount(44100, 44100))
	assert.Equal(t, 61, encoder.FrameCount(44101, 44100))
	assert.Equal(t, 0, encoder.FrameCount(0, 44100))
}

func TestTrackDurationNoDriftOverManyFrames(t *testing.T) {
	t.Parallel()

	const totalFrames = 10000

	encoder := newTestEncoder(t, 44100)

	got := encoder.TrackSamples(totalFrames)
	want := float64(totalFrames) / 60.0 * 44100

	assert.InDelta(t, want, float64(got), 1.0,
		"track length must match frame count × period to within one sample")
}

func TestEncodeTrackFrameBoundaries(t *testing.T) {
	t.Parallel()

	const totalFrames = 50

	encoder := newTestEncoder(t, 44100)
	profile := core.DefaultProfile()

	signal := encoder.EncodeTrack(totalFrames, func(int) [core.NumChannels]int {
		return [core.NumChannels]int{}
	})

	starts := pulseStarts(signal, profile.PulseLevel)
	require.Len(t, starts, totalFrames*core.NumChannels)

	// The first pulse of frame i must land exactly on the frame boundary.
	for frame := range totalFrames {
		wantStart := frame * 44100 / 60
		assert.Equal(t, wantStart, starts[frame*core.NumChannels],
			"frame %d must start on its fixed boundary", frame)
	}
}

func TestEncodeTrackRoundTrip(t *testing.T) {
	t.Parallel()

	// 192 kHz gives sub-µs gap resolution, tight enough to recover values
	// within the ±1 quantization tolerance.
	const sampleRate = 192000

	encoder := newTestEncoder(t, sampleRate)
	profile := core.DefaultProfile()

	values := [core.NumChannels]int{0, 17, 64, 100, 128, 180, 254, 255}
	signal := encoder.EncodeTrack(1, func(int) [core.NumChannels]int {
		return values
	})

	starts := pulseStarts(signal, profile.PulseLevel)
	require.Len(t, starts, core.NumChannels)

	// The gap of each channel ends where the next pulse begins; the final
	// channel's gap runs into the sync fill, so spacing decodes the first
	// seven channels.
	for ch := range core.NumChannels - 1 {
		spacing := starts[ch+1] - starts[ch]
		decoded := decodeSpacing(encoder, spacing, sampleRate)
		assert.InDelta(t, values[ch], decoded, 1,
			"channel %d must round-trip within quantization tolerance", ch)
	}

	// The last pulse still sits exactly where the preceding pulses and
	// gaps place it.
	wantLast := 0
	for ch := range core.NumChannels - 1 {
		wantLast += encoder.PulseSamples() + encoder.GapSamples(values[ch])
	}
	assert.Equal(t, wantLast, starts[core.NumChannels-1])
}

func TestEncodeTrackRoundTripCoarseRate(t *testing.T) {
	t.Parallel()

	// At 44.1 kHz one sample spans ~6 value steps, so the recovered values
	// carry a proportionally wider tolerance.
	const sampleRate = 44100

	encoder := newTestEncoder(t, sampleRate)
	profile := core.DefaultProfile()

	values := [core.NumChannels]int{5, 50, 90, 130, 170, 210, 250, 0}
	signal := encoder.EncodeTrack(1, func(int) [core.NumChannels]int {
		return values
	})

	starts := pulseStarts(signal, profile.PulseLevel)
	require.Len(t, starts, core.NumChannels)

	for ch := range core.NumChannels - 1 {
		spacing := starts[ch+1] - starts[ch]
		decoded := decodeSpacing(encoder, spacing, sampleRate)
		assert.InDelta(t, values[ch], decoded, 4)
	}
}

func TestLowPassPreservesShape(t *testing.T) {
	t.Parallel()

	encoder := newTestEncoder(t, 44100)

	signal := encoder.EncodeTrack(30, func(int) [core.NumChannels]int {
		return [core.NumChannels]int{128, 128, 128, 128, 128, 128, 128, 128}
	})

	filtered := ppm.LowPass(signal, 44100, 5000)
	require.Len(t, filtered, len(signal))

	// Pulses survive filtering with most of their depth.
	minValue := 0.0
	for _, s := range filtered {
		minValue = math.Min(minValue, s)
	}

	assert.Less(t, minValue, -0.2)
	assert.Greater(t, minValue, -1.0)

	assert.Nil(t, ppm.LowPass(nil, 44100, 5000))
}

func TestLowPassPassesDC(t *testing.T) {
	t.Parallel()

	signal := make([]float64, 4096)
	for i := range signal {
		signal[i] = 0.25
	}

	filtered := ppm.LowPass(signal, 44100, 5000)

	// A constant is below any cutoff; the middle of the buffer must hold
	// its level.
	assert.InDelta(t, 0.25, filtered[len(filtered)/2], 1e-6)
}
