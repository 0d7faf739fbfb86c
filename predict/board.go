package predict

// BusyText is the status line while a submission is in flight.
const BusyText = "Uploading and predicting..."

// Phase is the UI state. Exactly one is active at a time.
type Phase int

const (
	Idle Phase = iota
	Busy
	Success
	Failure
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Busy:
		return "busy"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Board is the shared UI state: a status region and a results region with
// four text slots. It is only touched from the event loop.
type Board struct {
	Phase Phase

	Status        string
	StatusVisible bool

	ResultsVisible bool
	LSTM           string
	LSTMConfidence string
	CNN            string
	CNNConfidence  string
	SuggestedVideo string

	// Result is the last successful prediction.
	Result *Predictions
}

// Begin enters Busy. Calling it while already Busy just restarts the
// indicator; earlier submissions keep running.
func (b *Board) Begin() {
	b.Phase = Busy
	b.ResultsVisible = false
	b.StatusVisible = true
	b.Status = BusyText
}

func (b *Board) Succeed(p Predictions) {
	b.Phase = Success
	b.LSTM = p.LSTMPrediction
	b.CNN = p.CNNPrediction
	b.LSTMConfidence = FormatConfidence(p.LSTMConfidence)
	b.CNNConfidence = FormatConfidence(p.CNNConfidence)
	b.SuggestedVideo = p.SuggestedVideo
	b.Result = &p
	b.ResultsVisible = true
	b.StatusVisible = false
}

// Fail replaces the status line with the error. The results region is left
// as it is, so a microphone error does not hide an earlier result.
func (b *Board) Fail(err error) {
	b.Phase = Failure
	b.Status = StatusOf(err)
	b.StatusVisible = true
}

// Apply settles a finished round-trip. Whichever outcome is applied last
// is what the board shows.
func (b *Board) Apply(o Outcome) {
	if o.Err != nil {
		b.Fail(o.Err)
		return
	}
	b.Succeed(o.Predictions)
}
