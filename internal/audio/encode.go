package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrChannelLengthMismatch indicates voice and control buffers of unequal
// length; the compositor always emits matched lengths, so this means the
// caller mixed buffers from different syntheses.
var ErrChannelLengthMismatch = errors.New("voice and control buffers differ in length")

const (
	wavHeaderSize  = 44
	stereoChannels = 2
	bitsPerSample  = 16
	maxInt16       = 32767
)

// EncodeStereoWAV serializes a two-channel track as a 16-bit PCM WAV file,
// left = voice, right = control. Samples are clamped, not wrapped, at full
// scale.
func EncodeStereoWAV(voice, control []float64, sampleRate int) ([]byte, error) {
	if len(voice) != len(control) {
		return nil, fmt.Errorf(
			"%w: %d vs %d samples", ErrChannelLengthMismatch, len(voice), len(control),
		)
	}

	dataSize := len(voice) * stereoChannels * bytesPerSample
	out := make([]byte, wavHeaderSize+dataSize)

	writeWAVHeader(out, sampleRate, dataSize)

	for i := range voice {
		off := wavHeaderSize + i*stereoChannels*bytesPerSample
		binary.LittleEndian.PutUint16(out[off:off+2], uint16(clampInt16(voice[i])))
		binary.LittleEndian.PutUint16(out[off+2:off+4], uint16(clampInt16(control[i])))
	}

	return out, nil
}

func writeWAVHeader(out []byte, sampleRate, dataSize int) {
	byteRate := sampleRate * stereoChannels * bytesPerSample
	blockAlign := stereoChannels * bytesPerSample

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+dataSize))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], pcmFormatTag)
	binary.LittleEndian.PutUint16(out[22:24], stereoChannels)
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], bitsPerSample)

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataSize))
}

func clampInt16(sample float64) int16 {
	scaled := math.Round(sample * maxInt16)

	if scaled > maxInt16 {
		return maxInt16
	}

	if scaled < -int16Scale {
		return -int16Scale
	}

	return int16(scaled)
}
