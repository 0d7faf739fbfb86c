package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bosley/serclient/predict"
)

const (
	DefaultWorkers   = 2
	DefaultSettle    = 500 * time.Millisecond
	DefaultQueueSize = 100
)

var ErrQueueFull = errors.New("job queue is full")

// Configuration for the watch folder
type Config struct {
	// Directory to monitor for new audio files
	Dir string

	// Number of concurrent submissions
	Workers int

	// Quiet period after the last write before a file is submitted
	Settle time.Duration

	QueueSize int
}

// Service submits every supported audio file that appears in a directory.
type Service struct {
	config    Config
	predictor predict.Predictor

	// File system watcher
	watcher *fsnotify.Watcher

	// Files still being written, keyed by path
	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool

	// Processing queue
	queue   chan Job
	workers sync.WaitGroup
	results chan Result
}

// New creates a watch service and begins watching cfg.Dir; events are
// buffered until Start. Zero values in cfg take the defaults.
func New(cfg Config, p predict.Predictor) (*Service, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("watch directory is required")
	}
	if p == nil {
		return nil, fmt.Errorf("predictor is required")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Settle <= 0 {
		cfg.Settle = DefaultSettle
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(cfg.Dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return &Service{
		config:    cfg,
		predictor: p,
		watcher:   watcher,
		pending:   make(map[string]*time.Timer),
		queue:     make(chan Job, cfg.QueueSize),
		results:   make(chan Result, cfg.QueueSize),
	}, nil
}

// Results delivers one Result per queued file and must be drained until it
// is closed, which happens when Start returns.
func (s *Service) Results() <-chan Result {
	return s.results
}

// Start watches the directory and runs the worker pool until ctx is done.
// Jobs already queued when ctx is done still run to completion, detached
// from its cancellation, and their results are delivered before it returns.
func (s *Service) Start(ctx context.Context) error {
	// Submissions outlive the watch.
	jobCtx := context.WithoutCancel(ctx)

	slog.Info("Started watching directory",
		"path", s.config.Dir,
		"workers", s.config.Workers)

	for i := 0; i < s.config.Workers; i++ {
		s.workers.Add(1)
		go s.worker(jobCtx)
	}

	s.watchFiles(ctx)
	return s.shutdown()
}

func (s *Service) shutdown() error {
	// Stop accepting new jobs
	s.mu.Lock()
	s.closed = true
	for path, timer := range s.pending {
		timer.Stop()
		delete(s.pending, path)
	}
	close(s.queue)
	s.mu.Unlock()

	s.workers.Wait()
	close(s.results)

	if err := s.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close file watcher: %w", err)
	}

	slog.Info("Stopped watching directory", "path", s.config.Dir)
	return nil
}
