package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bosley/serclient/audio"
	"github.com/bosley/serclient/capture"
	"github.com/bosley/serclient/predict"
)

// PlayFunc plays a preview file until it ends or ctx is done.
type PlayFunc func(ctx context.Context, path string) error

type Options struct {
	Controller *capture.Controller
	Predictor  predict.Predictor

	// Directory the file picker opens in; defaults to the working directory
	StartDir string

	// Defaults to capture.PlayPreview
	Play PlayFunc
}

type (
	captureMsg  struct{ ev capture.Event }
	outcomeMsg  predict.Outcome
	playbackMsg struct{ err error }
)

// Model is the interactive page: a file chooser, record and stop controls,
// a status line and the results panel.
type Model struct {
	ctx        context.Context
	controller *capture.Controller
	predictor  predict.Predictor
	play       PlayFunc

	board   predict.Board
	picker  filepicker.Model
	picking bool
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	preview string
	notice  string
}

func New(ctx context.Context, opts Options) Model {
	picker := filepicker.New()
	picker.AllowedTypes = pickerTypes()
	picker.ShowPermissions = false
	if opts.StartDir != "" {
		picker.CurrentDirectory = opts.StartDir
	}

	play := opts.Play
	if play == nil {
		play = capture.PlayPreview
	}

	m := Model{
		ctx:        ctx,
		controller: opts.Controller,
		predictor:  opts.Predictor,
		play:       play,
		picker:     picker,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(busyStyle)),
		help:       help.New(),
		keys:       defaultKeyMap(),
	}
	m.syncControls()
	return m
}

// pickerTypes lists each supported extension in lower and upper case. The
// picker compares suffixes case-sensitively, so mixed case such as ".Wav"
// still shows as disabled.
func pickerTypes() []string {
	types := make([]string, 0, 2*len(audio.Extensions))
	for _, ext := range audio.Extensions {
		types = append(types, ext, strings.ToUpper(ext))
	}
	return types
}

func (m Model) Init() tea.Cmd {
	return waitForCapture(m.controller.Events())
}

func waitForCapture(events <-chan capture.Event) tea.Cmd {
	return func() tea.Msg {
		return captureMsg{ev: <-events}
	}
}

// Board exposes the current status and results.
func (m Model) Board() predict.Board {
	return m.board
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		return m.handleKey(msg)

	case captureMsg:
		cmds := []tea.Cmd{waitForCapture(m.controller.Events())}
		rec, err := m.controller.Handle(msg.ev)
		if err != nil {
			m.board.Fail(err)
		} else if rec != nil {
			if rec.Preview != "" {
				m.preview = rec.Preview
			}
			cmds = append(cmds, m.submit(rec.Blob))
		}
		m.syncControls()
		return m, tea.Batch(cmds...)

	case outcomeMsg:
		m.board.Apply(predict.Outcome(msg))
		return m, nil

	case playbackMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("Playback failed: %v", msg.err)
		} else {
			m.notice = ""
		}
		return m, nil

	case spinner.TickMsg:
		if m.board.Phase != predict.Busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}

	// Directory listings and resizes belong to the picker.
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Open):
		m.picking = true
		m.notice = ""
		return m, m.picker.Init()

	case key.Matches(msg, m.keys.Submit):
		// Without a selection there is nothing to send.
		if m.controller.SelectedPath() == "" {
			return m, nil
		}
		blob, err := m.controller.Selected()
		if err != nil {
			m.board.Fail(err)
			return m, nil
		}
		return m, m.submit(blob)

	case key.Matches(msg, m.keys.Record):
		if err := m.controller.Start(m.ctx); err != nil {
			m.board.Fail(err)
		}
		m.syncControls()
		return m, nil

	case key.Matches(msg, m.keys.Stop):
		m.controller.Stop()
		m.syncControls()
		return m, nil

	case key.Matches(msg, m.keys.Play):
		path, play, ctx := m.preview, m.play, m.ctx
		return m, func() tea.Msg {
			return playbackMsg{err: play(ctx, path)}
		}
	}
	return m, nil
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Cancel) {
		m.picking = false
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		return m, tea.Batch(cmd, m.selectFile(path))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.notice = fmt.Sprintf("%s is not a supported audio file", path)
	}
	return m, cmd
}

// selectFile loads path and submits it. Every selection is a new submission.
func (m *Model) selectFile(path string) tea.Cmd {
	blob, err := m.controller.Select(path)
	if err != nil {
		m.board.Fail(err)
		return nil
	}
	return m.submit(blob)
}

// submit enters Busy and starts one round-trip. Earlier round-trips are not
// cancelled; whichever finishes last decides the board.
func (m *Model) submit(blob audio.Blob) tea.Cmd {
	m.board.Begin()

	sub := predict.NewSubmission(blob)
	slog.Debug("Submitting audio", "submission", sub.ID, "file", blob.Filename(), "bytes", blob.Len())

	ctx, predictor := m.ctx, m.predictor
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			return outcomeMsg(predict.Run(ctx, predictor, sub))
		},
	)
}

func (m *Model) syncControls() {
	m.keys.Record.SetEnabled(m.controller.CanStart())
	m.keys.Stop.SetEnabled(m.controller.CanStop())
	m.keys.Play.SetEnabled(m.preview != "")
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Speech Emotion Recognition"))
	b.WriteString("\n\n")

	if m.picking {
		b.WriteString(labelStyle.Render("Choose an audio file (esc to close)"))
		b.WriteString("\n")
		b.WriteString(m.picker.View())
		b.WriteString("\n")
		if m.notice != "" {
			b.WriteString(noticeStyle.Render(m.notice))
			b.WriteString("\n")
		}
		return b.String()
	}

	if m.controller.State() == capture.Recording {
		b.WriteString(recordStyle.Render("● Recording"))
	} else {
		b.WriteString(labelStyle.Render("Ready"))
	}
	b.WriteString("\n")

	if path := m.controller.SelectedPath(); path != "" {
		b.WriteString(labelStyle.Render("Selected: "))
		b.WriteString(path)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.board.StatusVisible {
		switch m.board.Phase {
		case predict.Busy:
			b.WriteString(m.spinner.View())
			b.WriteString(" ")
			b.WriteString(busyStyle.Render(m.board.Status))
		case predict.Failure:
			b.WriteString(errorStyle.Render(m.board.Status))
		default:
			b.WriteString(m.board.Status)
		}
		b.WriteString("\n")
	}

	if m.board.ResultsVisible {
		b.WriteString(resultsStyle.Render(m.resultsView()))
		b.WriteString("\n")
	}

	if m.preview != "" {
		b.WriteString(labelStyle.Render("Preview: "))
		b.WriteString(capture.PreviewURL(m.preview))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) resultsView() string {
	line := func(model, label, confidence string) string {
		s := labelStyle.Render(model+": ") + emotionStyle(label).Render(label)
		if confidence != "" {
			s += " " + confidence
		}
		return s
	}

	lines := []string{
		line("LSTM", m.board.LSTM, m.board.LSTMConfidence),
		line("CNN ", m.board.CNN, m.board.CNNConfidence),
	}
	if m.board.SuggestedVideo != "" {
		lines = append(lines, labelStyle.Render("Suggested video: ")+m.board.SuggestedVideo)
	}
	return strings.Join(lines, "\n")
}
