package watch

import (
	"time"

	"github.com/bosley/serclient/predict"
)

// Job is one settled audio file waiting for a worker.
type Job struct {
	Path   string
	Queued time.Time
}

// Result is the outcome of one job. Outcome.Err is set when the file could
// not be read or the prediction failed.
type Result struct {
	Job     Job
	Outcome predict.Outcome
}
