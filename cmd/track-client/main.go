// track-client renders an animatronic control track from a voice recording
// on the local machine, without going through the NATS pipeline.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/book-expert/logger"

	"github.com/book-expert/animatronics-service/internal/audio"
	"github.com/book-expert/animatronics-service/internal/core"
	"github.com/book-expert/animatronics-service/internal/playback"
	"github.com/book-expert/animatronics-service/internal/sentiment"
	"github.com/book-expert/animatronics-service/internal/syllable"
	"github.com/book-expert/animatronics-service/internal/track"
)

// Flag descriptions.
const (
	flagVoiceDesc   = "Voice recording to drive the toy (.wav or .mp3)"
	flagTextDesc    = "Transcript of the recording, used for mouth timing and mood"
	flagOutputDesc  = "Output file path (.wav)"
	flagPlayDesc    = "Play the finished track on the default audio device"
	flagSeedDesc    = "Blink generator seed (0 picks a time-based seed)"
	flagVerboseDesc = "Enable verbose logging"
)

// Flag names.
const (
	flagVoice   = "voice"
	flagText    = "text"
	flagOutput  = "output"
	flagPlay    = "play"
	flagSeed    = "seed"
	flagVerbose = "verbose"
)

// File names and paths.
const (
	logFileNameDefault = "track-client.log"
	logFileNameVerbose = "track-client-verbose.log"
	defaultOutputFile  = "track.wav"
)

var errVoiceRequired = errors.New("--voice must be provided")

// appFlags holds the parsed command-line flag values.
type appFlags struct {
	voice   string
	text    string
	output  string
	play    bool
	seed    int64
	verbose bool
}

func main() {
	err := run()
	if err != nil {
		// A logger might not be initialized yet, so use the standard log package.
		log.Fatalf("Error: %v", err)
	}
}

// run is the main application entry point, returning an error on failure.
func run() error {
	flags := parseFlags()

	if flags.voice == "" {
		flag.Usage()

		return errVoiceRequired
	}

	logFileName := logFileNameDefault
	if flags.verbose {
		logFileName = logFileNameVerbose
	}

	clientLog, err := logger.New(os.TempDir(), logFileName)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer clientLog.Close()

	stereoTrack, err := renderTrack(flags, clientLog)
	if err != nil {
		clientLog.Error("Failed to render track: %v", err)

		return err
	}

	return deliverTrack(stereoTrack, flags, clientLog)
}

// parseFlags defines and parses command-line flags, returning them in a struct.
func parseFlags() appFlags {
	var flags appFlags
	flag.StringVar(&flags.voice, flagVoice, "", flagVoiceDesc)
	flag.StringVar(&flags.text, flagText, "", flagTextDesc)
	flag.StringVar(&flags.output, flagOutput, "", flagOutputDesc)
	flag.BoolVar(&flags.play, flagPlay, false, flagPlayDesc)
	flag.Int64Var(&flags.seed, flagSeed, 0, flagSeedDesc)
	flag.BoolVar(&flags.verbose, flagVerbose, false, flagVerboseDesc)
	flag.Parse()

	return flags
}

// renderTrack decodes the voice file and synthesizes the stereo track.
func renderTrack(flags appFlags, clientLog *logger.Logger) (core.StereoTrack, error) {
	var empty core.StereoTrack

	voiceData, err := os.ReadFile(flags.voice)
	if err != nil {
		return empty, fmt.Errorf("failed to read voice file '%s': %w", flags.voice, err)
	}

	voice, voiceRate, err := audio.Decode(voiceData)
	if err != nil {
		return empty, fmt.Errorf("failed to decode voice file '%s': %w", flags.voice, err)
	}

	clientLog.Info("Decoded %d samples at %d Hz from %s", len(voice), voiceRate, flags.voice)

	synthesizer, err := track.NewSynthesizer(core.DefaultProfile(), clientLog)
	if err != nil {
		return empty, fmt.Errorf("failed to create synthesizer: %w", err)
	}

	score := sentiment.Score(flags.text)
	clientLog.Info("Sentiment score: %.3f", score)

	stereoTrack, err := synthesizer.Synthesize(core.SynthesisRequest{
		Voice:      voice,
		SampleRate: voiceRate,
		Syllables:  syllable.Segments(flags.text, len(voice)),
		Sentiment:  score,
		Seed:       flags.seed,
	})
	if err != nil {
		return empty, fmt.Errorf("failed to synthesize track: %w", err)
	}

	return stereoTrack, nil
}

// deliverTrack writes the track to disk and optionally plays it.
func deliverTrack(stereoTrack core.StereoTrack, flags appFlags, clientLog *logger.Logger) error {
	outputPath := flags.output
	if outputPath == "" {
		outputPath = defaultOutputFile
	}

	trackData, err := audio.EncodeStereoWAV(
		stereoTrack.Voice, stereoTrack.Control, stereoTrack.SampleRate,
	)
	if err != nil {
		return fmt.Errorf("failed to encode track: %w", err)
	}

	err = os.WriteFile(outputPath, trackData, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write track to '%s': %w", outputPath, err)
	}

	clientLog.Info("Wrote %.2f seconds of audio to %s", stereoTrack.DurationSeconds(), outputPath)
	fmt.Printf("Generated: %s\n", outputPath)

	if flags.play {
		playErr := playback.Play(stereoTrack)
		if playErr != nil {
			return fmt.Errorf("failed to play track: %w", playErr)
		}
	}

	return nil
}
