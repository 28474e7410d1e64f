package core

import (
	"errors"
	"fmt"
)

// NumChannels is the number of logical actuator channels encoded per frame.
// Channel 1 drives the eyes, channel 2 the upper jaw, channel 3 the lower
// jaw; the remaining channels are reserved and held at the neutral value.
const NumChannels = 8

// Channel indices into a frame's value array (zero-based).
const (
	ChannelEyes     = 0
	ChannelUpperJaw = 1
	ChannelLowerJaw = 2
)

// MaxChannelValue is the largest encodable actuator position.
const MaxChannelValue = 255

// microsecondsPerSecond converts between µs timing constants and sample counts.
const microsecondsPerSecond = 1_000_000

// Static validation errors. A profile that fails validation describes a
// broken hardware-timing calibration; it must be rejected at startup, never
// silently clamped, because bad pulse timing can stall or damage the toy's
// motors.
var (
	// ErrSampleRateRange indicates an unusable output sample rate.
	ErrSampleRateRange = errors.New("sample rate must be 16000, 22050, 44100, 48000, 96000, or 192000 Hz")
	// ErrFrameRateRange indicates a non-positive control frame rate.
	ErrFrameRateRange = errors.New("frame rate must be positive")
	// ErrPulseWidthRange indicates a non-positive pulse width.
	ErrPulseWidthRange = errors.New("pulse width must be positive")
	// ErrGapRange indicates gap bounds that are not strictly increasing.
	ErrGapRange = errors.New("minimum gap must be positive and less than maximum gap")
	// ErrFrameOverflow indicates channel timings that do not fit one frame period.
	ErrFrameOverflow = errors.New("channel pulses and maximum gaps exceed the frame period")
	// ErrPulseLevelRange indicates a pulse amplitude outside (-1, 0).
	ErrPulseLevelRange = errors.New("pulse level must be negative and above -1.0")
	// ErrLowPassRange indicates a low-pass cutoff at or above Nyquist.
	ErrLowPassRange = errors.New("low-pass cutoff must be positive and below half the sample rate")
	// ErrMouthGainRange indicates a non-positive mouth gain.
	ErrMouthGainRange = errors.New("mouth gain must be positive")
	// ErrMouthExponentRange indicates a non-positive mouth response exponent.
	ErrMouthExponentRange = errors.New("mouth response exponent must be positive")
	// ErrSmoothingRange indicates attack or release coefficients outside (0, 1).
	ErrSmoothingRange = errors.New("attack and release coefficients must be between 0.0 and 1.0 exclusive")
	// ErrUpperJawRatioRange indicates an upper-jaw coupling ratio outside [0, 1].
	ErrUpperJawRatioRange = errors.New("upper jaw ratio must be between 0.0 and 1.0")
	// ErrEyeDeviationRange indicates a sentiment deviation outside [0, 0.5].
	ErrEyeDeviationRange = errors.New("eye deviation must be between 0.0 and 0.5")
	// ErrBlinkProbabilityRange indicates a per-frame blink probability outside [0, 1).
	ErrBlinkProbabilityRange = errors.New("blink probability must be between 0.0 and 1.0 exclusive of 1.0")
	// ErrBlinkFramesRange indicates a non-positive blink duration.
	ErrBlinkFramesRange = errors.New("blink frames must be positive")
	// ErrBlinkScaleRange indicates a blink scale outside [0, 1].
	ErrBlinkScaleRange = errors.New("blink scale must be between 0.0 and 1.0")
	// ErrVoiceGainRange indicates a voice gain outside [0, 2].
	ErrVoiceGainRange = errors.New("voice gain must be between 0.0 and 2.0")
	// ErrControlGainRange indicates a control gain outside (0, 1].
	ErrControlGainRange = errors.New("control gain must be above 0.0 and at most 1.0")
)

// SynthesisProfile holds the timing and shaping constants for one hardware
// calibration. A profile is loaded once at startup, validated, and treated as
// immutable for the life of the process.
type SynthesisProfile struct {
	// SampleRate is the output rate of the stereo track in Hz. The control
	// signal is generated directly at this rate so its pulse edges are
	// never resampled.
	SampleRate int
	// FrameRate is the control frame rate in Hz.
	FrameRate int
	// PulseWidthUs is the fixed HIGH pulse duration in microseconds.
	PulseWidthUs int
	// GapMinUs and GapMaxUs bound the value-encoding gap in microseconds.
	GapMinUs int
	GapMaxUs int
	// PulseLevel is the pulse amplitude. Original tapes use a negative-going
	// pulse at 30% of full scale, centered on DC zero.
	PulseLevel float64
	// LowPassHz is the cutoff of the edge-rounding filter applied once per
	// control track.
	LowPassHz float64

	// MouthGain scales the blended syllable amplitude before clipping.
	MouthGain float64
	// MouthExponent is the sub-linear response curve exponent.
	MouthExponent float64
	// Attack and Release are the asymmetric smoothing coefficients applied
	// on the frame grid: the weight kept from the previous frame when the
	// target rises (Attack) or falls (Release).
	Attack  float64
	Release float64
	// UpperJawRatio couples the upper jaw to the lower jaw value.
	UpperJawRatio float64

	// EyeDeviation is the maximum sentiment-driven offset from the centered
	// eye position.
	EyeDeviation float64
	// BlinkProbability is the chance per frame of starting a blink.
	BlinkProbability float64
	// BlinkFrames is how many frames a blink holds.
	BlinkFrames int
	// BlinkScale multiplies the baseline eye position during a blink.
	BlinkScale float64

	// VoiceGain and ControlGain are the per-channel output gains.
	VoiceGain   float64
	ControlGain float64
}

// DefaultProfile returns the calibration measured against the original
// cassette deck: 60 Hz frames, 400 µs pulses, 630-1590 µs gaps.
func DefaultProfile() SynthesisProfile {
	return SynthesisProfile{
		SampleRate:       44100,
		FrameRate:        60,
		PulseWidthUs:     400,
		GapMinUs:         630,
		GapMaxUs:         1590,
		PulseLevel:       -0.30,
		LowPassHz:        5000,
		MouthGain:        5.0,
		MouthExponent:    0.75,
		Attack:           0.15,
		Release:          0.35,
		UpperJawRatio:    0.7,
		EyeDeviation:     0.3,
		BlinkProbability: 0.005,
		BlinkFrames:      8,
		BlinkScale:       0.3,
		VoiceGain:        1.05,
		ControlGain:      0.52,
	}
}

// supportedSampleRates lists the output rates the playback hardware accepts.
var supportedSampleRates = map[int]struct{}{
	16000:  {},
	22050:  {},
	44100:  {},
	48000:  {},
	96000:  {},
	192000: {},
}

// Validate checks every calibration constant and returns the first violation.
func (p SynthesisProfile) Validate() error {
	err := p.validateTiming()
	if err != nil {
		return err
	}

	err = p.validateShaping()
	if err != nil {
		return err
	}

	return p.validateGains()
}

// FramePeriodUs returns the duration of one control frame in microseconds.
func (p SynthesisProfile) FramePeriodUs() int {
	return microsecondsPerSecond / p.FrameRate
}

func (p SynthesisProfile) validateTiming() error {
	if _, ok := supportedSampleRates[p.SampleRate]; !ok {
		return fmt.Errorf("%w: got %d", ErrSampleRateRange, p.SampleRate)
	}

	if p.FrameRate <= 0 {
		return fmt.Errorf("%w: got %d", ErrFrameRateRange, p.FrameRate)
	}

	if p.PulseWidthUs <= 0 {
		return fmt.Errorf("%w: got %d", ErrPulseWidthRange, p.PulseWidthUs)
	}

	if p.GapMinUs <= 0 || p.GapMinUs >= p.GapMaxUs {
		return fmt.Errorf("%w: got min=%d max=%d", ErrGapRange, p.GapMinUs, p.GapMaxUs)
	}

	worstCaseUs := NumChannels * (p.PulseWidthUs + p.GapMaxUs)
	if worstCaseUs > p.FramePeriodUs() {
		return fmt.Errorf(
			"%w: %d channels need %d µs of a %d µs frame",
			ErrFrameOverflow, NumChannels, worstCaseUs, p.FramePeriodUs(),
		)
	}

	if p.PulseLevel >= 0 || p.PulseLevel <= -1.0 {
		return fmt.Errorf("%w: got %.2f", ErrPulseLevelRange, p.PulseLevel)
	}

	if p.LowPassHz <= 0 || p.LowPassHz >= float64(p.SampleRate)/2 {
		return fmt.Errorf("%w: got %.0f Hz at %d Hz", ErrLowPassRange, p.LowPassHz, p.SampleRate)
	}

	return nil
}

func (p SynthesisProfile) validateShaping() error {
	if p.MouthGain <= 0 {
		return fmt.Errorf("%w: got %.2f", ErrMouthGainRange, p.MouthGain)
	}

	if p.MouthExponent <= 0 {
		return fmt.Errorf("%w: got %.2f", ErrMouthExponentRange, p.MouthExponent)
	}

	if p.Attack <= 0 || p.Attack >= 1 || p.Release <= 0 || p.Release >= 1 {
		return fmt.Errorf("%w: got attack=%.2f release=%.2f", ErrSmoothingRange, p.Attack, p.Release)
	}

	if p.UpperJawRatio < 0 || p.UpperJawRatio > 1 {
		return fmt.Errorf("%w: got %.2f", ErrUpperJawRatioRange, p.UpperJawRatio)
	}

	if p.EyeDeviation < 0 || p.EyeDeviation > 0.5 {
		return fmt.Errorf("%w: got %.2f", ErrEyeDeviationRange, p.EyeDeviation)
	}

	if p.BlinkProbability < 0 || p.BlinkProbability >= 1 {
		return fmt.Errorf("%w: got %.4f", ErrBlinkProbabilityRange, p.BlinkProbability)
	}

	if p.BlinkFrames <= 0 {
		return fmt.Errorf("%w: got %d", ErrBlinkFramesRange, p.BlinkFrames)
	}

	if p.BlinkScale < 0 || p.BlinkScale > 1 {
		return fmt.Errorf("%w: got %.2f", ErrBlinkScaleRange, p.BlinkScale)
	}

	return nil
}

func (p SynthesisProfile) validateGains() error {
	if p.VoiceGain < 0 || p.VoiceGain > 2 {
		return fmt.Errorf("%w: got %.2f", ErrVoiceGainRange, p.VoiceGain)
	}

	if p.ControlGain <= 0 || p.ControlGain > 1 {
		return fmt.Errorf("%w: got %.2f", ErrControlGainRange, p.ControlGain)
	}

	return nil
}
