package predict

import (
	"context"
	"log/slog"
	"time"

	"github.com/bosley/serclient/audio"
	"github.com/google/uuid"
)

// Submission is one round-trip for one blob. The blob belongs to the
// submission once it is created.
type Submission struct {
	ID      uuid.UUID
	Blob    audio.Blob
	Created time.Time
}

type Outcome struct {
	ID          uuid.UUID
	Filename    string
	Predictions Predictions
	Err         error
	Elapsed     time.Duration
}

func NewSubmission(blob audio.Blob) Submission {
	return Submission{
		ID:      uuid.New(),
		Blob:    blob,
		Created: time.Now(),
	}
}

// Run performs the round-trip and logs how it ended.
func Run(ctx context.Context, p Predictor, s Submission) Outcome {
	started := time.Now()
	preds, err := p.Predict(ctx, s.Blob)
	outcome := Outcome{
		ID:          s.ID,
		Filename:    s.Blob.Filename(),
		Predictions: preds,
		Err:         err,
		Elapsed:     time.Since(started),
	}

	if err != nil {
		slog.Debug("Prediction failed",
			"submission", s.ID,
			"file", s.Blob.Filename(),
			"kind", KindOf(err),
			"error", err)
		return outcome
	}

	slog.Info("Prediction received",
		"submission", s.ID,
		"file", s.Blob.Filename(),
		"lstm", preds.LSTMPrediction,
		"cnn", preds.CNNPrediction,
		"elapsed", outcome.Elapsed)
	return outcome
}
