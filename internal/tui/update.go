package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/surge-downloader/pomo/internal/messages"
	"github.com/surge-downloader/pomo/internal/timer"
)

// Update handles messages and updates the model
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case messages.EngineEventMsg:
		// The event may be stale by the time it is handled; render the live state.
		m.snapshot = m.engine.Snapshot()
		cmds = append(cmds, m.progress.SetPercent(m.snapshot.Percent()/100))
		cmds = append(cmds, listenForEvents(m.engine.Events()))

	case messages.TitleMsg:
		cmds = append(cmds, tea.SetWindowTitle(msg.Title), listenForActivity(m.activity))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width - 2*PopupPaddingX - ProgressBarWidthOffset
		if w > MaxProgressWidth {
			w = MaxProgressWidth
		}
		if w > 0 {
			m.progress.Width = w
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state {
		case TimerState:
			return m.updateTimerKeys(msg)
		case SettingsState:
			return m.updateSettingsKeys(msg)
		}
	}

	// Propagate messages to the progress bar
	newModel, cmd := m.progress.Update(msg)
	if p, ok := newModel.(progress.Model); ok {
		m.progress = p
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m RootModel) updateTimerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		m.engine.Toggle()
		m.snapshot = m.engine.Snapshot()
	case key.Matches(msg, m.keys.Reset):
		m.engine.Reset()
		m.snapshot = m.engine.Snapshot()
		return m, m.progress.SetPercent(m.snapshot.Percent() / 100)
	case key.Matches(msg, m.keys.Settings):
		m.openSettings()
		return m, nil
	}
	return m, nil
}

func (m RootModel) updateSettingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.closeSettings()
		return m, nil

	case key.Matches(msg, m.keys.Apply):
		// Invalid input is ignored: the panel stays open and nothing changes.
		if m.engine.SetDurationInput(m.input.Value()) {
			m.snapshot = m.engine.Snapshot()
			m.retitle()
			m.closeSettings()
			return m, m.progress.SetPercent(m.snapshot.Percent() / 100)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		step := 1
		if key.Matches(msg, m.keys.Down) {
			step = -1
		}
		current, err := timer.ParseMinutes(m.input.Value())
		if err != nil {
			current = m.snapshot.CustomMinutes
		}
		next := current + step
		if m.engine.SetDuration(next) {
			m.snapshot = m.engine.Snapshot()
			m.retitle()
			m.input.SetValue(strconv.Itoa(next))
			m.input.CursorEnd()
			return m, m.progress.SetPercent(m.snapshot.Percent() / 100)
		}
		return m, nil
	}

	if msg.Type == tea.KeyRunes && !allDigits(msg.Runes) {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func allDigits(rs []rune) bool {
	for _, r := range rs {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
