package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bosley/serclient/audio"
	"github.com/bosley/serclient/predict"
)

// scriptedRecorder stands in for a microphone. Tests push chunks through
// emit while a session is open.
type scriptedRecorder struct {
	mu        sync.Mutex
	current   *scriptedSession
	starts    int
	startErr  error
	stopErr   error
	container audio.Container
}

type scriptedSession struct {
	mu      sync.Mutex
	sink    func([]byte)
	stopped bool
	stopErr error
}

func (s *scriptedSession) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return s.stopErr
}

func (r *scriptedRecorder) Start(_ context.Context, sink func([]byte)) (Stopper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts++
	if r.startErr != nil {
		return nil, r.startErr
	}
	r.current = &scriptedSession{sink: sink, stopErr: r.stopErr}
	return r.current, nil
}

func (r *scriptedRecorder) Container() audio.Container {
	if r.container == nil {
		return audio.WebM{}
	}
	return r.container
}

func (r *scriptedRecorder) emit(chunks ...string) {
	r.mu.Lock()
	s := r.current
	r.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	for _, c := range chunks {
		s.sink([]byte(c))
	}
}

func drain(t *testing.T, c *Controller) *Recording {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	rec, err := c.Drain(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec)
	return rec
}

func TestSelectLoadsExactBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voice.ogg")
	require.NoError(t, os.WriteFile(path, []byte("OggS-data"), 0644))

	c := NewController(nil, nil)
	blob, err := c.Select(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("OggS-data"), blob.Bytes())
	assert.Equal(t, "audio/ogg", blob.MediaType())
	assert.Equal(t, "voice.ogg", blob.Filename())
	assert.Equal(t, path, c.SelectedPath())

	again, err := c.Selected()
	require.NoError(t, err)
	assert.Equal(t, blob.Bytes(), again.Bytes())
	assert.Equal(t, blob.MediaType(), again.MediaType())
}

func TestSelectedWithoutSelection(t *testing.T) {
	c := NewController(nil, nil)
	_, err := c.Selected()
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestRecordingLifecycle(t *testing.T) {
	r := &scriptedRecorder{}
	previews := NewPreviews(t.TempDir())
	c := NewController(r, previews)

	assert.Equal(t, Ready, c.State())
	assert.True(t, c.CanStart())
	assert.False(t, c.CanStop())

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, Recording, c.State())
	assert.False(t, c.CanStart())
	assert.True(t, c.CanStop())

	r.emit("ab", "", "cd")

	assert.True(t, c.Stop())
	assert.Equal(t, Ready, c.State())
	assert.True(t, c.CanStart())
	assert.False(t, c.CanStop())

	rec := drain(t, c)
	assert.Equal(t, []byte("abcd"), rec.Blob.Bytes())
	assert.Equal(t, "audio/webm", rec.Blob.MediaType())
	assert.Equal(t, "recording.webm", rec.Blob.Filename())
	assert.Equal(t, 2, rec.Chunks)

	require.NotEmpty(t, rec.Preview)
	saved, err := os.ReadFile(rec.Preview)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcd"), saved)
	assert.Equal(t, ".webm", filepath.Ext(rec.Preview))
	assert.Contains(t, PreviewURL(rec.Preview), "file://")
}

func TestStopWhileReadyIsNoop(t *testing.T) {
	r := &scriptedRecorder{}
	c := NewController(r, nil)

	assert.False(t, c.Stop())

	require.NoError(t, c.Start(context.Background()))
	assert.True(t, c.Stop())
	assert.False(t, c.Stop())

	drain(t, c)
	select {
	case ev := <-c.Events():
		t.Fatalf("unexpected event after single finalize: %+v", ev)
	default:
	}
}

func TestStartWhileRecordingIsNoop(t *testing.T) {
	r := &scriptedRecorder{}
	c := NewController(r, nil)

	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, 1, r.starts)
}

func TestStartFailureIsPermissionError(t *testing.T) {
	r := &scriptedRecorder{startErr: errors.New("device busy")}
	c := NewController(r, nil)

	err := c.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, predict.KindPermission, predict.KindOf(err))
	assert.Equal(t, "Mic error: device busy", predict.StatusOf(err))
	assert.Equal(t, Ready, c.State())
	assert.True(t, c.CanStart())
}

func TestStartWithoutRecorder(t *testing.T) {
	c := NewController(nil, nil)
	assert.False(t, c.CanStart())

	err := c.Start(context.Background())
	assert.Equal(t, predict.KindPermission, predict.KindOf(err))
	assert.ErrorIs(t, err, ErrNoRecorder)
}

func TestStopWithNoChunksSubmitsEmptyBlob(t *testing.T) {
	r := &scriptedRecorder{}
	c := NewController(r, nil)

	require.NoError(t, c.Start(context.Background()))
	require.True(t, c.Stop())

	rec := drain(t, c)
	assert.Equal(t, 0, rec.Blob.Len())
	assert.Equal(t, "audio/webm", rec.Blob.MediaType())
	assert.Equal(t, 0, rec.Chunks)
	assert.Empty(t, rec.Preview)
}

func TestStopWithNoChunksWAVIsHeaderOnly(t *testing.T) {
	r := &scriptedRecorder{container: audio.WAV{SampleRate: 44100, Channels: 1}}
	c := NewController(r, nil)

	require.NoError(t, c.Start(context.Background()))
	require.True(t, c.Stop())

	rec := drain(t, c)
	assert.Equal(t, 44, rec.Blob.Len())
	assert.Equal(t, "audio/wav", rec.Blob.MediaType())
	assert.Equal(t, "recording.wav", rec.Blob.Filename())
}

func TestEachTakeKeepsItsOwnChunks(t *testing.T) {
	r := &scriptedRecorder{}
	c := NewController(r, nil)

	require.NoError(t, c.Start(context.Background()))
	r.emit("first")
	require.True(t, c.Stop())

	// The first take's events are still queued when the second starts.
	require.NoError(t, c.Start(context.Background()))
	r.emit("second")
	require.True(t, c.Stop())

	// The two stops finish concurrently, so either take may finalize first.
	a := drain(t, c)
	b := drain(t, c)
	assert.ElementsMatch(t, []string{"first", "second"},
		[]string{string(a.Blob.Bytes()), string(b.Blob.Bytes())})
	assert.NotEqual(t, a.ID, b.ID)
}

func TestUncleanStopStillFinalizes(t *testing.T) {
	r := &scriptedRecorder{stopErr: errors.New("stream error")}
	c := NewController(r, nil)

	require.NoError(t, c.Start(context.Background()))
	r.emit("xy")
	require.True(t, c.Stop())

	rec := drain(t, c)
	assert.Equal(t, "xy", string(rec.Blob.Bytes()))
}

func TestSealFailure(t *testing.T) {
	r := &scriptedRecorder{container: audio.WAV{}}
	c := NewController(r, nil)

	require.NoError(t, c.Start(context.Background()))
	require.True(t, c.Stop())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := c.Drain(ctx)
	assert.ErrorContains(t, err, "failed to seal recording")
}

func TestDrainHonoursContext(t *testing.T) {
	c := NewController(&scriptedRecorder{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Drain(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHandleIgnoresZeroEvent(t *testing.T) {
	c := NewController(&scriptedRecorder{}, nil)
	rec, err := c.Handle(Event{})
	assert.NoError(t, err)
	assert.Nil(t, rec)
}
