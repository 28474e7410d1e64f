// Package core defines the core business logic and interfaces for the
// animatronics-service.
package core

import "context"

// ObjectStore defines the interface for interacting with a key-value blob store.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
}

// StereoTrack is a finished two-channel sample buffer ready for playback or
// file writing. Channel order is a hard contract with the toy's wiring:
// the left channel carries voice, the right channel carries the motor
// control signal. Both slices always have the same length.
type StereoTrack struct {
	Voice      []float64
	Control    []float64
	SampleRate int
}

// DurationSeconds returns the track length in seconds.
func (t StereoTrack) DurationSeconds() float64 {
	if t.SampleRate <= 0 {
		return 0
	}

	return float64(len(t.Voice)) / float64(t.SampleRate)
}

// SyllableSegment is a half-open sample interval [Start, End) within a voice
// waveform, assumed to correspond to one spoken syllable. Segments are derived
// once per utterance and consumed immediately; they are never persisted.
type SyllableSegment struct {
	Start int
	End   int
}

// TrackSynthesizer converts a voice waveform plus its text-derived annotations
// into a stereo track carrying the voice and the motor control signal.
type TrackSynthesizer interface {
	Synthesize(req SynthesisRequest) (StereoTrack, error)
	FrameCount(voiceSamples, voiceRate int) int
}

// SynthesisRequest carries the fully materialized inputs for one utterance.
// The synthesizer never blocks on I/O; callers must not mutate Voice or
// Syllables until the call returns.
type SynthesisRequest struct {
	// Voice is the mono speech waveform, normalized to [-1, 1].
	Voice []float64
	// SampleRate is the rate of Voice in Hz.
	SampleRate int
	// Syllables are the syllable boundaries within Voice, in sample indices.
	Syllables []SyllableSegment
	// Sentiment is the utterance sentiment score in [-1, 1].
	Sentiment float64
	// Seed seeds the blink generator. Zero selects a time-based seed;
	// tests pass a fixed value for reproducible output.
	Seed int64
}
