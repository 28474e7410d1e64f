package track

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/book-expert/logger"

	"github.com/book-expert/animatronics-service/internal/animate"
	"github.com/book-expert/animatronics-service/internal/core"
	"github.com/book-expert/animatronics-service/internal/ppm"
)

// ErrVoiceRateRange indicates a non-positive voice sample rate for a
// non-empty waveform.
var ErrVoiceRateRange = errors.New("voice sample rate must be positive")

// lowActivityRatio is the share of open-mouth frames below which a track is
// flagged as suspiciously static.
const lowActivityRatio = 0.1

// Synthesizer is the single entry point of the control-track pipeline: it
// turns one utterance's voice waveform, syllable boundaries, and sentiment
// score into a finished stereo buffer.
//
// Synthesis is pure, synchronous computation over the inputs; the only state
// per call is the blink generator, which is created fresh for each request
// so concurrent utterances never share blink phase. A Synthesizer itself is
// immutable after construction and safe for concurrent use.
type Synthesizer struct {
	profile core.SynthesisProfile
	encoder *ppm.Encoder
	log     *logger.Logger
}

// NewSynthesizer validates the profile once and builds the pipeline.
func NewSynthesizer(profile core.SynthesisProfile, log *logger.Logger) (*Synthesizer, error) {
	encoder, err := ppm.NewEncoder(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create pulse encoder: %w", err)
	}

	return &Synthesizer{
		profile: profile,
		encoder: encoder,
		log:     log,
	}, nil
}

// Profile returns the calibration the synthesizer was built with.
func (s *Synthesizer) Profile() core.SynthesisProfile {
	return s.profile
}

// FrameCount returns the number of control frames a voice waveform needs.
func (s *Synthesizer) FrameCount(voiceSamples, voiceRate int) int {
	return s.encoder.FrameCount(voiceSamples, voiceRate)
}

// Synthesize produces the stereo track for one utterance.
//
// An empty voice waveform yields an empty track; zero syllables keep the
// mouth closed while eyes and blinking still run. Input errors fail only
// this utterance and leave the synthesizer reusable.
func (s *Synthesizer) Synthesize(req core.SynthesisRequest) (core.StereoTrack, error) {
	if len(req.Voice) == 0 {
		return core.StereoTrack{
			Voice:      nil,
			Control:    nil,
			SampleRate: s.profile.SampleRate,
		}, nil
	}

	if req.SampleRate <= 0 {
		return core.StereoTrack{}, fmt.Errorf("%w: got %d", ErrVoiceRateRange, req.SampleRate)
	}

	totalFrames := s.encoder.FrameCount(len(req.Voice), req.SampleRate)

	lower, upper, err := animate.MouthChannelValues(
		req.Voice, req.SampleRate, req.Syllables, totalFrames, s.profile,
	)
	if err != nil {
		return core.StereoTrack{}, fmt.Errorf("failed to derive mouth values: %w", err)
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	eyes, err := animate.EyeChannelValues(
		req.Sentiment, totalFrames, s.profile, rand.New(rand.NewSource(seed)),
	)
	if err != nil {
		return core.StereoTrack{}, fmt.Errorf("failed to derive eye values: %w", err)
	}

	raw := s.encoder.EncodeTrack(totalFrames, func(frame int) [core.NumChannels]int {
		var values [core.NumChannels]int
		values[core.ChannelEyes] = eyes[frame]
		values[core.ChannelUpperJaw] = upper[frame]
		values[core.ChannelLowerJaw] = lower[frame]

		return values
	})

	control := ppm.LowPass(raw, s.profile.SampleRate, s.profile.LowPassHz)

	stereo := Compose(
		req.Voice, req.SampleRate,
		control, s.profile.SampleRate,
		s.profile.VoiceGain, s.profile.ControlGain,
	)

	s.logMouthActivity(lower, totalFrames)

	return stereo, nil
}

func (s *Synthesizer) logMouthActivity(lower []int, totalFrames int) {
	if s.log == nil || totalFrames == 0 {
		return
	}

	active := 0
	for _, v := range lower {
		if v > 0 {
			active++
		}
	}

	s.log.Info(
		"Synthesized %d control frames, mouth active in %d (%.1f%%)",
		totalFrames, active, float64(active)/float64(totalFrames)*100,
	)

	if float64(active) < float64(totalFrames)*lowActivityRatio {
		s.log.Warn(
			"Low mouth activity: only %d of %d frames move; check syllable timing",
			active, totalFrames,
		)
	}
}
