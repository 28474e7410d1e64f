// Package audio decodes voice chunks into normalized sample buffers and
// encodes finished stereo tracks as WAV for the playback side.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// Static decode errors.
var (
	// ErrUnknownFormat indicates data that is neither RIFF/WAV nor MP3.
	ErrUnknownFormat = errors.New("unrecognized audio format")
	// ErrMalformedWAV indicates a truncated or inconsistent WAV file.
	ErrMalformedWAV = errors.New("malformed WAV data")
	// ErrUnsupportedWAV indicates a WAV encoding other than 16-bit PCM.
	ErrUnsupportedWAV = errors.New("only 16-bit PCM WAV is supported")
)

const (
	riffHeaderSize  = 12
	chunkHeaderSize = 8
	pcmFormatTag    = 1
	bytesPerSample  = 2
	int16Scale      = 32768.0
)

// Decode sniffs the container format and returns mono samples normalized to
// [-1, 1] plus their sample rate. Stereo sources are downmixed by averaging.
func Decode(data []byte) ([]float64, int, error) {
	if len(data) >= riffHeaderSize && bytes.Equal(data[0:4], []byte("RIFF")) {
		return DecodeWAV(data)
	}

	if looksLikeMP3(data) {
		return DecodeMP3(data)
	}

	return nil, 0, ErrUnknownFormat
}

// DecodeWAV parses a 16-bit PCM WAV file.
func DecodeWAV(data []byte) ([]float64, int, error) {
	if len(data) < riffHeaderSize ||
		!bytes.Equal(data[0:4], []byte("RIFF")) ||
		!bytes.Equal(data[8:12], []byte("WAVE")) {
		return nil, 0, fmt.Errorf("%w: missing RIFF/WAVE header", ErrMalformedWAV)
	}

	var (
		sampleRate int
		channels   int
		haveFormat bool
	)

	offset := riffHeaderSize
	for offset+chunkHeaderSize <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + chunkHeaderSize

		if body+chunkSize > len(data) {
			return nil, 0, fmt.Errorf("%w: chunk %q overruns file", ErrMalformedWAV, chunkID)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, 0, fmt.Errorf("%w: short fmt chunk", ErrMalformedWAV)
			}

			formatTag := int(binary.LittleEndian.Uint16(data[body : body+2]))
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample := int(binary.LittleEndian.Uint16(data[body+14 : body+16]))

			if formatTag != pcmFormatTag || bitsPerSample != 16 {
				return nil, 0, fmt.Errorf(
					"%w: format %d, %d bits", ErrUnsupportedWAV, formatTag, bitsPerSample,
				)
			}

			haveFormat = true
		case "data":
			if !haveFormat {
				return nil, 0, fmt.Errorf("%w: data chunk before fmt", ErrMalformedWAV)
			}

			return decodePCM16(data[body:body+chunkSize], channels), sampleRate, nil
		}

		// Chunks are word-aligned.
		offset = body + chunkSize + chunkSize%2
	}

	return nil, 0, fmt.Errorf("%w: no data chunk", ErrMalformedWAV)
}

// DecodeMP3 decodes an MP3 stream; the decoder always yields 16-bit stereo.
func DecodeMP3(data []byte) ([]float64, int, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open MP3 stream: %w", err)
	}

	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode MP3 stream: %w", err)
	}

	return decodePCM16(pcm, 2), decoder.SampleRate(), nil
}

// decodePCM16 converts interleaved little-endian 16-bit PCM into normalized
// mono samples, averaging across channels.
func decodePCM16(pcm []byte, channels int) []float64 {
	if channels < 1 {
		channels = 1
	}

	frameBytes := channels * bytesPerSample
	frames := len(pcm) / frameBytes
	samples := make([]float64, frames)

	for i := range frames {
		sum := 0.0
		for ch := range channels {
			off := i*frameBytes + ch*bytesPerSample
			sum += float64(int16(binary.LittleEndian.Uint16(pcm[off : off+2])))
		}

		samples[i] = sum / float64(channels) / int16Scale
	}

	return samples
}

// looksLikeMP3 checks for an ID3 tag or an MPEG frame sync word.
func looksLikeMP3(data []byte) bool {
	if len(data) < 3 {
		return false
	}

	if bytes.Equal(data[0:3], []byte("ID3")) {
		return true
	}

	return data[0] == 0xFF && data[1]&0xE0 == 0xE0
}
