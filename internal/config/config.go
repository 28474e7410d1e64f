// Package config provides the configuration structure for the
// animatronics-service.
package config

import (
	"fmt"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"

	"github.com/book-expert/animatronics-service/internal/core"
)

// NATSConfig holds the configuration for NATS.
type NATSConfig struct {
	URL                      string `toml:"url"`
	SpeechSynthesizedSubject string `toml:"speech_synthesized_subject"`
	TrackCreatedSubject      string `toml:"track_created_subject"`
	AudioObjectStoreBucket   string `toml:"audio_object_store_bucket"`
	TrackObjectStoreBucket   string `toml:"track_object_store_bucket"`
}

// SynthesisConfig holds the hardware calibration for control-track
// synthesis. Field defaults match the original cassette deck timing; every
// value is validated once at startup and treated as constant afterwards.
type SynthesisConfig struct {
	SampleRate       int     `toml:"sample_rate"`
	FrameRate        int     `toml:"frame_rate"`
	PulseWidthUs     int     `toml:"pulse_width_us"`
	GapMinUs         int     `toml:"gap_min_us"`
	GapMaxUs         int     `toml:"gap_max_us"`
	PulseLevel       float64 `toml:"pulse_level"`
	LowPassHz        float64 `toml:"low_pass_hz"`
	MouthGain        float64 `toml:"mouth_gain"`
	MouthExponent    float64 `toml:"mouth_exponent"`
	Attack           float64 `toml:"attack"`
	Release          float64 `toml:"release"`
	UpperJawRatio    float64 `toml:"upper_jaw_ratio"`
	EyeDeviation     float64 `toml:"eye_deviation"`
	BlinkProbability float64 `toml:"blink_probability"`
	BlinkFrames      int     `toml:"blink_frames"`
	BlinkScale       float64 `toml:"blink_scale"`
	VoiceGain        float64 `toml:"voice_gain"`
	ControlGain      float64 `toml:"control_gain"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir"`
}

// Config is the root configuration structure.
type Config struct {
	NATS      NATSConfig      `toml:"nats"`
	Synthesis SynthesisConfig `toml:"synthesis"`
	Paths     PathsConfig     `toml:"paths"`
}

// Load loads the configuration for the animatronics-service.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	return &cfg, nil
}

// Profile converts the synthesis section into a validated profile. A
// validation failure here is fatal for the process: a broken timing profile
// must never be clamped into something that runs.
func (c *Config) Profile() (core.SynthesisProfile, error) {
	profile := core.SynthesisProfile{
		SampleRate:       c.Synthesis.SampleRate,
		FrameRate:        c.Synthesis.FrameRate,
		PulseWidthUs:     c.Synthesis.PulseWidthUs,
		GapMinUs:         c.Synthesis.GapMinUs,
		GapMaxUs:         c.Synthesis.GapMaxUs,
		PulseLevel:       c.Synthesis.PulseLevel,
		LowPassHz:        c.Synthesis.LowPassHz,
		MouthGain:        c.Synthesis.MouthGain,
		MouthExponent:    c.Synthesis.MouthExponent,
		Attack:           c.Synthesis.Attack,
		Release:          c.Synthesis.Release,
		UpperJawRatio:    c.Synthesis.UpperJawRatio,
		EyeDeviation:     c.Synthesis.EyeDeviation,
		BlinkProbability: c.Synthesis.BlinkProbability,
		BlinkFrames:      c.Synthesis.BlinkFrames,
		BlinkScale:       c.Synthesis.BlinkScale,
		VoiceGain:        c.Synthesis.VoiceGain,
		ControlGain:      c.Synthesis.ControlGain,
	}

	err := profile.Validate()
	if err != nil {
		return core.SynthesisProfile{}, fmt.Errorf("invalid synthesis calibration: %w", err)
	}

	return profile, nil
}
