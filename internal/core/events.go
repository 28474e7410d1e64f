package core

import "github.com/book-expert/events"

// SpeechSynthesizedEvent announces that a TTS stage finished rendering one
// utterance. AudioKey points at the voice audio (WAV or MP3) in the object
// store; Text is the spoken text used for syllable timing and sentiment.
type SpeechSynthesizedEvent struct {
	Header   events.EventHeader `json:"header"`
	AudioKey string             `json:"audio_key"`
	Text     string             `json:"text"`
}

// TrackCreatedEvent is the reply published after a stereo control track has
// been synthesized and uploaded.
type TrackCreatedEvent struct {
	Header          events.EventHeader `json:"header"`
	TrackKey        string             `json:"track_key"`
	SampleRate      int                `json:"sample_rate"`
	DurationSeconds float64            `json:"duration_seconds"`
	Frames          int                `json:"frames"`
	Sentiment       float64            `json:"sentiment"`
}
