package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bosley/serclient/audio"
)

func (s *Service) watchFiles(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.handleFSEvent(event)

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)
		}
	}
}

// handleFSEvent arms or re-arms the settle timer for a supported file. A
// file is queued once it has been quiet for the settle period.
func (s *Service) handleFSEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".tmp") || strings.HasSuffix(name, ".part") {
		return
	}
	if !audio.Supported(name) {
		slog.Debug("Skipping unsupported file", "file", name)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if timer, ok := s.pending[event.Name]; ok {
		timer.Reset(s.config.Settle)
		return
	}

	path := event.Name
	s.pending[path] = time.AfterFunc(s.config.Settle, func() {
		if err := s.enqueue(path); err != nil {
			slog.Error("Failed to queue audio file", "error", err, "file", path)
		}
	})
}

func (s *Service) enqueue(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, path)
	if s.closed {
		return nil
	}

	job := Job{Path: path, Queued: time.Now()}
	select {
	case s.queue <- job:
		slog.Info("Queued audio file for prediction", "file", filepath.Base(path))
	default:
		return fmt.Errorf("%w: %s", ErrQueueFull, filepath.Base(path))
	}
	return nil
}
