package predict

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bosley/serclient/audio"
)

func ptr(v float64) *float64 { return &v }

func TestFormatConfidence(t *testing.T) {
	tests := []struct {
		in   *float64
		want string
	}{
		{nil, ""},
		{ptr(0), "(0.0%)"},
		{ptr(1), "(100.0%)"},
		{ptr(0.873), "(87.3%)"},
		{ptr(0.5), "(50.0%)"},
		{ptr(0.12345), "(12.3%)"},
		{ptr(0.99999), "(100.0%)"},
		{ptr(0.0625), "(6.3%)"},
		{ptr(0.3125), "(31.3%)"},
		{ptr(0.1875), "(18.8%)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatConfidence(tt.in))
	}
}

func TestBoardTransitions(t *testing.T) {
	var b Board
	assert.Equal(t, Idle, b.Phase)

	b.Begin()
	assert.Equal(t, Busy, b.Phase)
	assert.True(t, b.StatusVisible)
	assert.False(t, b.ResultsVisible)
	assert.Equal(t, "Uploading and predicting...", b.Status)

	b.Apply(Outcome{Predictions: Predictions{
		LSTMPrediction: "happy",
		LSTMConfidence: ptr(0.873),
		CNNPrediction:  "neutral",
	}})
	assert.Equal(t, Success, b.Phase)
	assert.False(t, b.StatusVisible)
	assert.True(t, b.ResultsVisible)
	assert.Equal(t, "happy", b.LSTM)
	assert.Equal(t, "neutral", b.CNN)
	assert.Equal(t, "(87.3%)", b.LSTMConfidence)
	assert.Equal(t, "", b.CNNConfidence)
	require.NotNil(t, b.Result)

	b.Begin()
	assert.False(t, b.ResultsVisible)

	b.Apply(Outcome{Err: serverError(500, "model unavailable")})
	assert.Equal(t, Failure, b.Phase)
	assert.True(t, b.StatusVisible)
	assert.False(t, b.ResultsVisible)
	assert.Equal(t, "Error: model unavailable", b.Status)
}

func TestBoardMicErrorKeepsResults(t *testing.T) {
	var b Board
	b.Begin()
	b.Succeed(Predictions{LSTMPrediction: "calm", CNNPrediction: "calm"})

	b.Fail(PermissionError(errors.New("no input device")))
	assert.Equal(t, Failure, b.Phase)
	assert.True(t, b.ResultsVisible)
	assert.Equal(t, "Mic error: no input device", b.Status)
}

func TestBoardLastOutcomeWins(t *testing.T) {
	var b Board
	b.Begin()
	b.Begin()

	b.Apply(Outcome{Predictions: Predictions{LSTMPrediction: "sad", CNNPrediction: "sad"}})
	b.Apply(Outcome{Err: parseError(errors.New("unexpected end of JSON input"))})
	assert.Equal(t, Failure, b.Phase)
	assert.Equal(t, "Error: unexpected end of JSON input", b.Status)

	b.Apply(Outcome{Predictions: Predictions{LSTMPrediction: "angry", CNNPrediction: "fearful"}})
	assert.Equal(t, Success, b.Phase)
	assert.Equal(t, "angry", b.LSTM)
}

func TestStatusOfPlainError(t *testing.T) {
	assert.Equal(t, "Error: boom", StatusOf(errors.New("boom")))
	assert.Equal(t, Kind(0), KindOf(errors.New("boom")))
	assert.Equal(t, "network", KindNetwork.String())
}

type stubPredictor struct {
	preds Predictions
	err   error
	blobs []audio.Blob
}

func (s *stubPredictor) Predict(_ context.Context, blob audio.Blob) (Predictions, error) {
	s.blobs = append(s.blobs, blob)
	return s.preds, s.err
}

func TestRun(t *testing.T) {
	p := &stubPredictor{preds: Predictions{LSTMPrediction: "happy"}}
	s := NewSubmission(audio.NewBlob([]byte("a"), "audio/wav", "a.wav"))

	o := Run(context.Background(), p, s)
	require.NoError(t, o.Err)
	assert.Equal(t, s.ID, o.ID)
	assert.Equal(t, "a.wav", o.Filename)
	assert.Equal(t, "happy", o.Predictions.LSTMPrediction)
	require.Len(t, p.blobs, 1)

	p.err = networkError(errors.New("connection refused"))
	o = Run(context.Background(), p, NewSubmission(audio.NewBlob(nil, "audio/wav", "b.wav")))
	assert.Equal(t, KindNetwork, KindOf(o.Err))
	assert.NotEqual(t, s.ID, o.ID)
}
