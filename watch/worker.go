package watch

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/bosley/serclient/audio"
	"github.com/bosley/serclient/predict"
)

func (s *Service) worker(ctx context.Context) {
	slog.Debug("Worker starting")
	defer func() {
		slog.Debug("Worker shutting down")
		s.workers.Done()
	}()

	for job := range s.queue {
		s.results <- s.processJob(ctx, job)
	}
}

// processJob submits one file. Each file is its own submission, exactly as
// if it had been picked by hand.
func (s *Service) processJob(ctx context.Context, job Job) Result {
	slog.Debug("Processing audio file", "file", job.Path)

	blob, err := audio.ReadFile(job.Path)
	if err != nil {
		slog.Error("Failed to read audio file", "error", err, "file", job.Path)
		return Result{
			Job:     job,
			Outcome: predict.Outcome{Filename: filepath.Base(job.Path), Err: err},
		}
	}

	return Result{
		Job:     job,
		Outcome: predict.Run(ctx, s.predictor, predict.NewSubmission(blob)),
	}
}
