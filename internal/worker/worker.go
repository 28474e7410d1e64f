// Package worker provides a NATS worker that turns synthesized speech chunks
// into animatronic stereo tracks.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/book-expert/animatronics-service/internal/audio"
	"github.com/book-expert/animatronics-service/internal/core"
	"github.com/book-expert/animatronics-service/internal/sentiment"
	"github.com/book-expert/animatronics-service/internal/syllable"
)

const handleMessageTimeout = 30 * time.Second

var (
	// ErrAudioKeyEmpty indicates that the event carries no audio object key.
	ErrAudioKeyEmpty = errors.New("audio key cannot be empty")
	// ErrEmptyVoiceChunk indicates that the downloaded voice chunk decoded to zero samples.
	ErrEmptyVoiceChunk = errors.New("voice chunk contains no samples")
)

// NatsWorker listens for synthesized speech events on a NATS subject and
// renders a control track for each one.
type NatsWorker struct {
	natsConnection *nats.Conn
	subject        string
	voiceStore     core.ObjectStore
	trackStore     core.ObjectStore
	synthesizer    core.TrackSynthesizer
	log            *logger.Logger
}

// NewNatsWorker creates a new instance of a NATS worker.
func NewNatsWorker(
	natsConnection *nats.Conn,
	subject string,
	voiceStore core.ObjectStore,
	trackStore core.ObjectStore,
	synthesizer core.TrackSynthesizer,
	log *logger.Logger,
) (*NatsWorker, error) {
	return &NatsWorker{
		natsConnection: natsConnection,
		subject:        subject,
		voiceStore:     voiceStore,
		trackStore:     trackStore,
		synthesizer:    synthesizer,
		log:            log,
	}, nil
}

// Run starts the worker and begins listening for messages.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.Subscribe(w.subject, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleMessageTimeout)
	defer cancel()

	event, err := w.parseAndValidateEvent(msg)
	if err != nil {
		w.log.Error("Failed to parse and validate event: %v", err)

		return
	}

	replyEvent, processErr := w.processTrackJob(ctx, event)
	if processErr != nil {
		w.log.Error(
			"Failed to render track for workflow %s: %v",
			event.Header.WorkflowID,
			processErr,
		)

		return
	}

	err = w.publishReplyEvent(msg, replyEvent)
	if err != nil {
		w.log.Error(
			"Failed to publish reply event for workflow %s: %v",
			event.Header.WorkflowID,
			err,
		)
	}
}

// processTrackJob downloads the voice chunk, renders the stereo track, and
// uploads the result.
func (w *NatsWorker) processTrackJob(
	ctx context.Context,
	event *core.SpeechSynthesizedEvent,
) (*core.TrackCreatedEvent, error) {
	voiceData, err := w.voiceStore.Download(ctx, event.AudioKey)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to download voice chunk for key '%s': %w",
			event.AudioKey,
			err,
		)
	}

	voice, voiceRate, err := audio.Decode(voiceData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode voice chunk '%s': %w", event.AudioKey, err)
	}

	if len(voice) == 0 {
		return nil, fmt.Errorf("%w: key '%s'", ErrEmptyVoiceChunk, event.AudioKey)
	}

	score := sentiment.Score(event.Text)

	track, err := w.synthesizer.Synthesize(core.SynthesisRequest{
		Voice:      voice,
		SampleRate: voiceRate,
		Syllables:  syllable.Segments(event.Text, len(voice)),
		Sentiment:  score,
		Seed:       0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize control track: %w", err)
	}

	trackData, err := audio.EncodeStereoWAV(track.Voice, track.Control, track.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stereo track: %w", err)
	}

	trackKey := uuid.NewString() + ".wav"

	err = w.trackStore.Upload(ctx, trackKey, trackData)
	if err != nil {
		return nil, fmt.Errorf("failed to upload track for key '%s': %w", trackKey, err)
	}

	return &core.TrackCreatedEvent{
		Header:          event.Header,
		TrackKey:        trackKey,
		SampleRate:      track.SampleRate,
		DurationSeconds: track.DurationSeconds(),
		Frames:          w.synthesizer.FrameCount(len(voice), voiceRate),
		Sentiment:       score,
	}, nil
}

// publishReplyEvent marshals and responds with the TrackCreatedEvent.
func (w *NatsWorker) publishReplyEvent(msg *nats.Msg, replyEvent *core.TrackCreatedEvent) error {
	replyData, err := json.Marshal(replyEvent)
	if err != nil {
		return fmt.Errorf("failed to marshal reply event: %w", err)
	}

	err = msg.Respond(replyData)
	if err != nil {
		return fmt.Errorf("failed to publish reply event: %w", err)
	}

	return nil
}

func (w *NatsWorker) parseAndValidateEvent(msg *nats.Msg) (*core.SpeechSynthesizedEvent, error) {
	var event core.SpeechSynthesizedEvent

	err := json.Unmarshal(msg.Data, &event)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if event.AudioKey == "" {
		return nil, ErrAudioKeyEmpty
	}

	return &event, nil
}
