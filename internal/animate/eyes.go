package animate

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/book-expert/animatronics-service/internal/core"
)

// ErrSentimentRange indicates a sentiment score outside [-1, 1].
var ErrSentimentRange = errors.New("sentiment score must be between -1.0 and 1.0")

// Blinker is the per-utterance blink state machine: eyes are either open or
// mid-blink with a fixed number of frames remaining. Blinks never overlap;
// a new blink can only trigger once the current one has finished. A Blinker
// is scoped to one synthesis call and must not be shared across calls.
type Blinker struct {
	rng         *rand.Rand
	probability float64
	duration    int
	remaining   int
}

// NewBlinker creates a blink state machine with its own random source.
func NewBlinker(probability float64, durationFrames int, rng *rand.Rand) *Blinker {
	return &Blinker{
		rng:         rng,
		probability: probability,
		duration:    durationFrames,
		remaining:   0,
	}
}

// Next advances the state machine by one frame and reports whether the eyes
// are blinking during that frame.
func (b *Blinker) Next() bool {
	if b.remaining > 0 {
		b.remaining--

		return true
	}

	if b.rng.Float64() < b.probability {
		b.remaining = b.duration - 1

		return true
	}

	return false
}

// EyeChannelValues produces one eye-position channel value per frame from the
// utterance sentiment plus autonomous blinking.
//
// The baseline maps sentiment onto a position around center: 0.5 is neutral,
// with at most EyeDeviation of travel either way so sentiment never drives
// the eye motor to a mechanical extreme. During a blink the baseline is
// scaled down by BlinkScale for the blink's duration, then the eyes return
// to the sentiment baseline.
func EyeChannelValues(
	sentiment float64,
	totalFrames int,
	profile core.SynthesisProfile,
	rng *rand.Rand,
) ([]int, error) {
	if sentiment < -1 || sentiment > 1 || math.IsNaN(sentiment) {
		return nil, fmt.Errorf("%w: got %f", ErrSentimentRange, sentiment)
	}

	baseline := 0.5 + sentiment*profile.EyeDeviation
	baseline = math.Min(math.Max(baseline, 0), 1)

	blinker := NewBlinker(profile.BlinkProbability, profile.BlinkFrames, rng)
	values := make([]int, totalFrames)

	for frame := range totalFrames {
		position := baseline
		if blinker.Next() {
			position = baseline * profile.BlinkScale
		}

		values[frame] = int(math.Round(position * core.MaxChannelValue))
	}

	return values, nil
}
