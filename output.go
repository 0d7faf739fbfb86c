package main

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/bosley/serclient/predict"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	return table
}

// writeOutcomes prints one row per finished submission.
func writeOutcomes(w io.Writer, outcomes ...predict.Outcome) {
	table := newTable(w, "File", "LSTM", "LSTM Confidence", "CNN", "CNN Confidence", "Status", "Elapsed")

	for _, o := range outcomes {
		row := []string{o.Filename, "", "", "", "", "", o.Elapsed.Round(time.Millisecond).String()}
		if o.Err != nil {
			row[5] = predict.StatusOf(o.Err)
		} else {
			row[1] = o.Predictions.LSTMPrediction
			row[2] = predict.FormatConfidence(o.Predictions.LSTMConfidence)
			row[3] = o.Predictions.CNNPrediction
			row[4] = predict.FormatConfidence(o.Predictions.CNNConfidence)
			row[5] = "ok"
		}
		table.Append(row)
	}

	table.Render()

	for _, o := range outcomes {
		if o.Err == nil && o.Predictions.SuggestedVideo != "" {
			fmt.Fprintf(w, "Suggested video for %s: %s\n", o.Filename, o.Predictions.SuggestedVideo)
		}
	}
}
