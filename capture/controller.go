package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bosley/serclient/audio"
	"github.com/bosley/serclient/predict"
)

const eventQueueSize = 256

var (
	ErrNoSelection = errors.New("no file selected")
	ErrNoRecorder  = errors.New("no microphone available")
)

type State int

const (
	Ready State = iota
	Recording
)

func (s State) String() string {
	if s == Recording {
		return "recording"
	}
	return "ready"
}

// take is one capture session and its chunk buffer.
type take struct {
	id      uuid.UUID
	started time.Time
	chunks  [][]byte
}

// Event is one item of the controller's queue: a chunk from a session, or
// the notice that a session has delivered its last chunk.
type Event struct {
	take  *take
	chunk []byte
	done  bool
	err   error
}

// Finished reports whether this event closes a session.
func (e Event) Finished() bool {
	return e.done
}

// Recording is a finalized capture session.
type Recording struct {
	ID       uuid.UUID
	Blob     audio.Blob
	Chunks   int
	Duration time.Duration
	// Preview is the path of the local playable copy, empty when none
	// was written.
	Preview string
}

// Controller obtains audio from the user: a selected file, or a microphone
// recording driven through the Ready and Recording states. All methods
// except the recorder's sink run on the caller's event loop.
type Controller struct {
	recorder Recorder
	previews *Previews
	events   chan Event

	state   State
	current *take
	stopper Stopper

	selected string
}

// NewController builds a controller. recorder may be nil when no microphone
// is present; previews may be nil to skip writing local copies.
func NewController(recorder Recorder, previews *Previews) *Controller {
	return &Controller{
		recorder: recorder,
		previews: previews,
		events:   make(chan Event, eventQueueSize),
	}
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) CanStart() bool {
	return c.recorder != nil && c.state == Ready
}

func (c *Controller) CanStop() bool {
	return c.state == Recording
}

// Events is the queue the event loop must drain and pass to Handle.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// Select makes path the current selection and loads it.
func (c *Controller) Select(path string) (audio.Blob, error) {
	c.selected = path
	blob, err := audio.ReadFile(path)
	if err != nil {
		return audio.Blob{}, err
	}
	slog.Info("File selected",
		"file", blob.Filename(),
		"mediaType", blob.MediaType(),
		"bytes", blob.Len())
	return blob, nil
}

// Selected reloads the current selection.
func (c *Controller) Selected() (audio.Blob, error) {
	if c.selected == "" {
		return audio.Blob{}, ErrNoSelection
	}
	return audio.ReadFile(c.selected)
}

func (c *Controller) SelectedPath() string {
	return c.selected
}

// Start moves Ready to Recording. Starting while already recording does
// nothing. A microphone failure leaves the controller Ready.
func (c *Controller) Start(ctx context.Context) error {
	if c.state == Recording {
		return nil
	}
	if c.recorder == nil {
		return predict.PermissionError(ErrNoRecorder)
	}

	t := &take{id: uuid.New(), started: time.Now()}
	stopper, err := c.recorder.Start(ctx, func(chunk []byte) {
		if len(chunk) == 0 {
			return
		}
		data := make([]byte, len(chunk))
		copy(data, chunk)
		c.events <- Event{take: t, chunk: data}
	})
	if err != nil {
		slog.Debug("Microphone unavailable", "error", err)
		return predict.PermissionError(err)
	}

	c.current = t
	c.stopper = stopper
	c.state = Recording

	slog.Info("Recording started", "take", t.id)
	return nil
}

// Stop moves Recording to Ready and asks the recorder to finish. The
// finalized recording comes back through Handle once the recorder has
// delivered its last chunk. Stop while Ready is a no-op and returns false.
func (c *Controller) Stop() bool {
	if c.state != Recording {
		return false
	}

	t, stopper := c.current, c.stopper
	c.current = nil
	c.stopper = nil
	c.state = Ready

	go func() {
		err := stopper.Stop()
		c.events <- Event{take: t, done: true, err: err}
	}()

	slog.Info("Recording stopping", "take", t.id)
	return true
}

// Handle applies one queued event. It returns a Recording when ev closes a
// session; zero buffered chunks still produce one with an empty payload.
func (c *Controller) Handle(ev Event) (*Recording, error) {
	if ev.take == nil {
		return nil, nil
	}

	if !ev.done {
		ev.take.chunks = append(ev.take.chunks, ev.chunk)
		return nil, nil
	}

	if ev.err != nil {
		slog.Warn("Recorder did not stop cleanly", "take", ev.take.id, "error", ev.err)
	}
	return c.finalize(ev.take)
}

// Drain handles events until a session is finalized or ctx is done.
func (c *Controller) Drain(ctx context.Context) (*Recording, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev := <-c.events:
			rec, err := c.Handle(ev)
			if err != nil || rec != nil {
				return rec, err
			}
		}
	}
}

func (c *Controller) finalize(t *take) (*Recording, error) {
	container := c.recorder.Container()

	sealed, err := container.Seal(bytes.Join(t.chunks, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to seal recording: %w", err)
	}

	rec := &Recording{
		ID:       t.id,
		Blob:     audio.NewBlob(sealed, container.MediaType(), container.Filename()),
		Chunks:   len(t.chunks),
		Duration: time.Since(t.started),
	}

	if c.previews != nil {
		path, err := c.previews.Save(t.id, rec.Blob)
		if err != nil {
			slog.Error("Failed to write preview", "take", t.id, "error", err)
		} else {
			rec.Preview = path
		}
	}

	slog.Info("Recording finalized",
		"take", t.id,
		"chunks", rec.Chunks,
		"bytes", rec.Blob.Len(),
		"duration", rec.Duration)

	return rec, nil
}
