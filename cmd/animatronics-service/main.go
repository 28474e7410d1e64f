// main package for the animatronics-service
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/book-expert/logger"
	"github.com/nats-io/nats.go"

	"github.com/book-expert/animatronics-service/internal/config"
	"github.com/book-expert/animatronics-service/internal/objectstore"
	"github.com/book-expert/animatronics-service/internal/track"
	"github.com/book-expert/animatronics-service/internal/worker"
)

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, "animatronics-service.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

func run() error {
	// 1. Create a temporary logger for the bootstrap process
	bootstrapLog, err := setupLogger(os.TempDir())
	if err != nil {
		// If bootstrap logger fails, we can only print to stderr
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	bootstrapLog.Info("Bootstrap logger created.")

	// 2. Load configuration using the central configurator
	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	bootstrapLog.Info("Configuration loaded successfully.")

	// 3. Initialize the final logger based on the loaded configuration
	finalLog, err := setupLogger(cfg.Paths.BaseLogsDir)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := finalLog.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing final logger: %v\n", closeErr)
		}
	}()

	return serve(cfg, finalLog)
}

// serve wires the NATS transport, the object stores, and the synthesizer,
// then blocks until the process is signalled.
func serve(cfg *config.Config, log *logger.Logger) error {
	profile, err := cfg.Profile()
	if err != nil {
		return fmt.Errorf("failed to build synthesis profile: %w", err)
	}

	natsConnection, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATS.URL, err)
	}
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return fmt.Errorf("failed to get JetStream context: %w", err)
	}

	voiceStore, err := objectstore.New(jetstreamContext, cfg.NATS.AudioObjectStoreBucket)
	if err != nil {
		return fmt.Errorf("failed to create voice object store: %w", err)
	}

	trackStore, err := objectstore.New(jetstreamContext, cfg.NATS.TrackObjectStoreBucket)
	if err != nil {
		return fmt.Errorf("failed to create track object store: %w", err)
	}

	synthesizer, err := track.NewSynthesizer(profile, log)
	if err != nil {
		return fmt.Errorf("failed to create track synthesizer: %w", err)
	}

	natsWorker, err := worker.NewNatsWorker(
		natsConnection,
		cfg.NATS.SpeechSynthesizedSubject,
		voiceStore,
		trackStore,
		synthesizer,
		log,
	)
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	log.System(
		"Animatronics service initialized. Listening for jobs on subject: %s",
		cfg.NATS.SpeechSynthesizedSubject,
	)

	runErr := natsWorker.Run(ctx)
	if runErr != nil {
		return fmt.Errorf("worker exited with error: %w", runErr)
	}

	log.Info("Shutdown complete.")

	return nil
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
