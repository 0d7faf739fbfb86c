package capture

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/bosley/serclient/audio"
)

const (
	DefaultSampleRate = 44100

	channels        = 1
	framesPerBuffer = 1024
)

// Microphone records mono int16 PCM through PortAudio and seals it as WAV.
type Microphone struct {
	// DeviceID selects an input device by index; 0 uses the default device.
	DeviceID   int
	SampleRate float64
}

func (m *Microphone) sampleRate() float64 {
	if m.SampleRate <= 0 {
		return DefaultSampleRate
	}
	return m.SampleRate
}

func (m *Microphone) Container() audio.Container {
	return audio.WAV{SampleRate: uint32(m.sampleRate()), Channels: channels}
}

func (m *Microphone) Start(ctx context.Context, sink func(chunk []byte)) (Stopper, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	params, err := m.streamParameters()
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	stream, err := portaudio.OpenStream(params, func(in []int16) {
		sink(audio.PCM16(in))
	})
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start audio stream: %w", err)
	}

	return &micSession{stream: stream}, nil
}

func (m *Microphone) streamParameters() (portaudio.StreamParameters, error) {
	var device *portaudio.DeviceInfo

	if m.DeviceID > 0 { // Only use specific device if explicitly requested (non-zero)
		devices, err := portaudio.Devices()
		if err != nil {
			return portaudio.StreamParameters{}, fmt.Errorf("failed to get audio devices: %w", err)
		}
		if m.DeviceID >= len(devices) {
			return portaudio.StreamParameters{}, fmt.Errorf("invalid device ID %d", m.DeviceID)
		}
		device = devices[m.DeviceID]
		if device.MaxInputChannels == 0 {
			return portaudio.StreamParameters{}, fmt.Errorf("device %d (%s) is not an input device", m.DeviceID, device.Name)
		}
	} else {
		var err error
		device, err = portaudio.DefaultInputDevice()
		if err != nil {
			return portaudio.StreamParameters{}, fmt.Errorf("failed to get default input device: %w", err)
		}
	}

	slog.Debug("Using audio device",
		"deviceID", m.DeviceID,
		"deviceName", device.Name,
		"sampleRate", m.sampleRate(),
		"inputChannels", device.MaxInputChannels)

	return portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      m.sampleRate(),
		FramesPerBuffer: framesPerBuffer,
	}, nil
}

// micSession releases the stream and PortAudio once stopped. Stream.Stop
// waits for the callback to return, so no chunk follows it.
type micSession struct {
	stream *portaudio.Stream
	once   sync.Once
	err    error
}

func (s *micSession) Stop() error {
	s.once.Do(func() {
		if err := s.stream.Stop(); err != nil {
			s.err = fmt.Errorf("failed to stop audio stream: %w", err)
		}
		if err := s.stream.Close(); err != nil && s.err == nil {
			s.err = fmt.Errorf("failed to close audio stream: %w", err)
		}
		portaudio.Terminate()
	})
	return s.err
}

// ListDevices returns every device PortAudio can see, indexed the same way
// as Microphone.DeviceID. Input devices have MaxInputChannels > 0.
func ListDevices() ([]*portaudio.DeviceInfo, error) {
	err := portaudio.Initialize()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to get devices: %w", err)
	}

	return devices, nil
}
