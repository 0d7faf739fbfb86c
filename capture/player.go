package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/youpy/go-wav"
)

var ErrUnplayable = errors.New("only WAV previews can be played")

// PlayPreview plays a WAV file on the default output device until it ends
// or ctx is done.
func PlayPreview(ctx context.Context, path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		return ErrUnplayable
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	reader := wav.NewReader(file)
	format, err := reader.Format()
	if err != nil {
		return fmt.Errorf("failed to read WAV format: %w", err)
	}
	numChannels := int(format.NumChannels)
	if numChannels == 0 {
		return fmt.Errorf("WAV file has no channels")
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer portaudio.Terminate()

	finished := make(chan struct{})
	var once sync.Once

	stream, err := portaudio.OpenDefaultStream(
		0,
		numChannels,
		float64(format.SampleRate),
		framesPerBuffer,
		func(out []int16) {
			samples, err := reader.ReadSamples(uint32(len(out) / numChannels))
			if err != nil {
				if err != io.EOF {
					slog.Error("Error reading from WAV file", "error", err)
				}
				samples = nil
				once.Do(func() { close(finished) })
			}

			i := 0
			for _, sample := range samples {
				for ch := 0; ch < numChannels && i < len(out); ch++ {
					out[i] = int16(reader.IntValue(sample, uint(ch)))
					i++
				}
			}
			// Fill remaining buffer with silence if needed
			for ; i < len(out); i++ {
				out[i] = 0
			}
		},
	)
	if err != nil {
		return fmt.Errorf("failed to open audio stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start audio stream: %w", err)
	}

	select {
	case <-finished:
	case <-ctx.Done():
	}

	return stream.Stop()
}
