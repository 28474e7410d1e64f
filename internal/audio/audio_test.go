// Package audio_test tests voice chunk decoding and stereo WAV encoding.
package audio_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/animatronics-service/internal/audio"
)

func TestEncodeDecodeStereoWAV(t *testing.T) {
	t.Parallel()

	voice := make([]float64, 512)
	control := make([]float64, 512)

	for i := range voice {
		voice[i] = 0.5 * math.Sin(2*math.Pi*float64(i)/64)
		control[i] = -0.25
	}

	data, err := audio.EncodeStereoWAV(voice, control, 44100)
	require.NoError(t, err)

	// Decoding downmixes to mono: each sample is the channel average.
	samples, sampleRate, err := audio.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 44100, sampleRate)
	require.Len(t, samples, 512)

	for i := range samples {
		want := (voice[i] - 0.25) / 2
		require.InDelta(t, want, samples[i], 2.0/32768, "sample %d", i)
	}
}

func TestEncodeStereoWAVRejectsMismatchedChannels(t *testing.T) {
	t.Parallel()

	_, err := audio.EncodeStereoWAV(make([]float64, 10), make([]float64, 11), 44100)
	require.ErrorIs(t, err, audio.ErrChannelLengthMismatch)
}

func TestEncodeStereoWAVClampsFullScale(t *testing.T) {
	t.Parallel()

	data, err := audio.EncodeStereoWAV([]float64{2.0}, []float64{-2.0}, 44100)
	require.NoError(t, err)

	samples, _, err := audio.Decode(data)
	require.NoError(t, err)
	require.Len(t, samples, 1)

	// +full scale and -full scale average to roughly zero instead of
	// wrapping around.
	assert.InDelta(t, 0, samples[0], 0.001)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, _, err := audio.Decode([]byte("definitely not audio data"))
	require.ErrorIs(t, err, audio.ErrUnknownFormat)

	_, _, err = audio.Decode([]byte("RIFFxxxxWAVE"))
	require.ErrorIs(t, err, audio.ErrMalformedWAV)
}

func TestDecodeRejectsTruncatedMP3(t *testing.T) {
	t.Parallel()

	_, _, err := audio.Decode([]byte{0xFF, 0xFB, 0x90})
	require.Error(t, err)
}
