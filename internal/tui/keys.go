package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle   key.Binding
	Reset    key.Binding
	Settings key.Binding
	Quit     key.Binding

	Apply key.Binding
	Up    key.Binding
	Down  key.Binding
	Close key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:   key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "start/pause")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Settings: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "duration")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Apply:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "+1 min")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "-1 min")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

// timerKeys and settingsKeys implement help.KeyMap for the two screens.
type timerKeys struct{ k keyMap }

func (t timerKeys) ShortHelp() []key.Binding {
	return []key.Binding{t.k.Toggle, t.k.Reset, t.k.Settings, t.k.Quit}
}

func (t timerKeys) FullHelp() [][]key.Binding { return [][]key.Binding{t.ShortHelp()} }

type settingsKeys struct{ k keyMap }

func (s settingsKeys) ShortHelp() []key.Binding {
	return []key.Binding{s.k.Apply, s.k.Up, s.k.Down, s.k.Close}
}

func (s settingsKeys) FullHelp() [][]key.Binding { return [][]key.Binding{s.ShortHelp()} }
