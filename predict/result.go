package predict

import (
	"math"
	"strconv"
)

// Emotions are the labels the service's classifiers are trained on.
var Emotions = []string{"neutral", "calm", "happy", "sad", "angry", "fearful", "disgusted", "surprised"}

// Predictions holds the outputs of the two independent classifiers.
type Predictions struct {
	LSTMPrediction string   `json:"lstm_prediction"`
	LSTMConfidence *float64 `json:"lstm_confidence"`
	CNNPrediction  string   `json:"cnn_prediction"`
	CNNConfidence  *float64 `json:"cnn_confidence"`
	SuggestedVideo string   `json:"suggested_video,omitempty"`
}

// Response is the body of POST /api/predict.
type Response struct {
	OK          bool         `json:"ok"`
	Error       string       `json:"error,omitempty"`
	Predictions *Predictions `json:"predictions,omitempty"`
	Filename    string       `json:"filename,omitempty"`
}

// FormatConfidence renders a confidence as "(87.3%)", or "" when absent.
// Halves round up, so 0.0625 is "(6.3%)".
func FormatConfidence(confidence *float64) string {
	if confidence == nil {
		return ""
	}
	pct := math.Round(*confidence*1000) / 10
	return "(" + strconv.FormatFloat(pct, 'f', 1, 64) + "%)"
}
