// Package playback plays finished stereo tracks through the default audio
// output device. The toy expects the voice channel on the left ear and the
// control signal on the right, so the device must be wired accordingly.
package playback

import (
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/book-expert/animatronics-service/internal/core"
)

const framesPerBuffer = 4096

// ErrEmptyTrack indicates that the track has no samples to play.
var ErrEmptyTrack = errors.New("track contains no samples")

// Play blocks until the whole track has been written to the default output
// device.
func Play(track core.StereoTrack) error {
	if len(track.Voice) == 0 {
		return ErrEmptyTrack
	}

	err := portaudio.Initialize()
	if err != nil {
		return fmt.Errorf("failed to initialize audio backend: %w", err)
	}

	defer func() {
		_ = portaudio.Terminate()
	}()

	buffer := make([]float32, framesPerBuffer*2)

	stream, err := portaudio.OpenDefaultStream(
		0, 2, float64(track.SampleRate), framesPerBuffer, &buffer,
	)
	if err != nil {
		return fmt.Errorf("failed to open output stream: %w", err)
	}

	defer func() {
		_ = stream.Close()
	}()

	err = stream.Start()
	if err != nil {
		return fmt.Errorf("failed to start output stream: %w", err)
	}

	for offset := 0; offset < len(track.Voice); offset += framesPerBuffer {
		fillBuffer(buffer, track, offset)

		writeErr := stream.Write()
		if writeErr != nil {
			return fmt.Errorf("failed to write to output stream: %w", writeErr)
		}
	}

	err = stream.Stop()
	if err != nil {
		return fmt.Errorf("failed to stop output stream: %w", err)
	}

	return nil
}

// fillBuffer interleaves one buffer's worth of frames starting at offset,
// zero-padding past the end of the track.
func fillBuffer(buffer []float32, track core.StereoTrack, offset int) {
	for frame := 0; frame < framesPerBuffer; frame++ {
		sample := offset + frame

		var left, right float32

		if sample < len(track.Voice) {
			left = float32(track.Voice[sample])
			right = float32(track.Control[sample])
		}

		buffer[2*frame] = left
		buffer[2*frame+1] = right
	}
}
