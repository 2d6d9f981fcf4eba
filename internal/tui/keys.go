package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Random key.Binding
	Auto   key.Binding
	Color  key.Binding
	Back   key.Binding
	More   key.Binding
	Less   key.Binding
	Redraw key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "increase")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "decrease")),
		Random: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "random")),
		Auto:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto")),
		Color:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "colour")),
		Back:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "background")),
		More:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more decimals")),
		Less:   key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "fewer decimals")),
		Redraw: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "redraw")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// setInput enables or disables every binding that changes the gauge.
func (k *keyMap) setInput(enabled bool) {
	for _, b := range []*key.Binding{&k.Up, &k.Down, &k.Random, &k.Auto, &k.Color, &k.Back} {
		b.SetEnabled(enabled)
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Random, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Random, k.Auto},
		{k.Color, k.Back, k.More, k.Less},
		{k.Redraw, k.Help, k.Quit},
	}
}
