package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/youpy/go-wav"
)

const bitsPerSample = 16 // Using int16 for samples

// WAV seals raw little-endian int16 PCM into a RIFF/WAVE file.
type WAV struct {
	SampleRate uint32
	Channels   uint16
}

func (WAV) MediaType() string { return "audio/wav" }

func (WAV) Filename() string { return "recording.wav" }

func (w WAV) Seal(pcm []byte) ([]byte, error) {
	blockAlign := int(w.Channels) * bitsPerSample / 8
	if blockAlign == 0 || w.SampleRate == 0 {
		return nil, fmt.Errorf("invalid WAV format: %d channels at %d Hz", w.Channels, w.SampleRate)
	}

	// A trailing partial frame cannot be described by the header
	pcm = pcm[:len(pcm)-len(pcm)%blockAlign]
	numSamples := uint32(len(pcm) / blockAlign)

	var buf bytes.Buffer
	writer := wav.NewWriter(&buf, numSamples, w.Channels, w.SampleRate, bitsPerSample)
	if _, err := writer.Write(pcm); err != nil {
		return nil, fmt.Errorf("failed to write WAV data: %w", err)
	}

	return buf.Bytes(), nil
}

// PCM16 encodes samples as little-endian bytes.
func PCM16(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(sample))
	}
	return out
}
