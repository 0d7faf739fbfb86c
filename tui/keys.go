package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Open   key.Binding
	Submit key.Binding
	Record key.Binding
	Stop   key.Binding
	Play   key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Open:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "choose file")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "predict selected")),
		Record: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "record")),
		Stop:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop"), key.WithDisabled()),
		Play:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play preview"), key.WithDisabled()),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close picker")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Submit, k.Record, k.Stop, k.Play, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Submit},
		{k.Record, k.Stop, k.Play},
		{k.Quit},
	}
}
