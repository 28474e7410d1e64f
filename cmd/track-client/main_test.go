package main

import (
	"flag"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/book-expert/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/animatronics-service/internal/audio"
)

// TestParseFlags verifies that command-line flags are parsed correctly.
func TestParseFlags(t *testing.T) {
	oldArgs := os.Args

	t.Cleanup(func() { os.Args = oldArgs })

	tests := []struct {
		name      string
		args      []string
		wantVoice string
		wantText  string
		wantSeed  int64
		wantPlay  bool
	}{
		{
			name:      "voice and text",
			args:      []string{"cmd", "--voice", "speech.wav", "--text", "Hello, world!"},
			wantVoice: "speech.wav",
			wantText:  "Hello, world!",
			wantSeed:  0,
			wantPlay:  false,
		},
		{
			name:      "seed and play",
			args:      []string{"cmd", "--voice", "speech.mp3", "--seed", "42", "--play"},
			wantVoice: "speech.mp3",
			wantText:  "",
			wantSeed:  42,
			wantPlay:  true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			// Reset flag parsing state for each test run to ensure isolation.
			flag.CommandLine = flag.NewFlagSet(testCase.name, flag.ContinueOnError)
			os.Args = testCase.args

			flags := parseFlags()

			assert.Equal(t, testCase.wantVoice, flags.voice)
			assert.Equal(t, testCase.wantText, flags.text)
			assert.Equal(t, testCase.wantSeed, flags.seed)
			assert.Equal(t, testCase.wantPlay, flags.play)
		})
	}
}

// TestRenderAndDeliverTrack runs the local pipeline end to end against a
// generated voice recording.
func TestRenderAndDeliverTrack(t *testing.T) {
	t.Parallel()

	const (
		voiceRate    = 22050
		voiceSamples = voiceRate / 2
	)

	tempDir := t.TempDir()

	left := make([]float64, voiceSamples)
	right := make([]float64, voiceSamples)

	for i := range left {
		left[i] = 0.4 * math.Sin(2*math.Pi*180*float64(i)/voiceRate)
		right[i] = left[i]
	}

	voiceData, err := audio.EncodeStereoWAV(left, right, voiceRate)
	require.NoError(t, err)

	voicePath := filepath.Join(tempDir, "voice.wav")
	require.NoError(t, os.WriteFile(voicePath, voiceData, 0o600))

	clientLog, err := logger.New(tempDir, "track-client-test.log")
	require.NoError(t, err)

	defer clientLog.Close()

	flags := appFlags{
		voice:   voicePath,
		text:    "hello there little bear",
		output:  filepath.Join(tempDir, "track.wav"),
		play:    false,
		seed:    7,
		verbose: false,
	}

	stereoTrack, err := renderTrack(flags, clientLog)
	require.NoError(t, err)
	require.Equal(t, 44100, stereoTrack.SampleRate)
	require.Len(t, stereoTrack.Control, len(stereoTrack.Voice))

	err = deliverTrack(stereoTrack, flags, clientLog)
	require.NoError(t, err)

	written, err := os.ReadFile(flags.output)
	require.NoError(t, err)

	gotVoice, gotRate, err := audio.Decode(written)
	require.NoError(t, err)
	assert.Equal(t, 44100, gotRate)
	assert.Len(t, gotVoice, len(stereoTrack.Voice))
}
