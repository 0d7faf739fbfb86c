package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1)

	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	busyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	recordStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	resultsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// emotionColors maps each classifier label to a colour.
var emotionColors = map[string]lipgloss.Color{
	"neutral":   lipgloss.Color("250"),
	"calm":      lipgloss.Color("79"),
	"happy":     lipgloss.Color("220"),
	"sad":       lipgloss.Color("69"),
	"angry":     lipgloss.Color("196"),
	"fearful":   lipgloss.Color("135"),
	"disgusted": lipgloss.Color("106"),
	"surprised": lipgloss.Color("208"),
}

// emotionStyle colours known labels; anything else renders plain.
func emotionStyle(label string) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	if c, ok := emotionColors[strings.ToLower(label)]; ok {
		style = style.Foreground(c)
	}
	return style
}
