package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/surge-downloader/pomo/internal/timer"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#6366f1")).
			Padding(DefaultPaddingY, DefaultPaddingX)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748b"))

	BannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#7c3aed")).
			Padding(0, DefaultPaddingX)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#cbd5e1")).
			Padding(PopupPaddingY, PopupPaddingX).
			Width(PopupWidth)
)

func phaseLabel(s timer.Snapshot) string {
	switch s.Phase() {
	case timer.PhaseRunning:
		return "running"
	case timer.PhasePaused:
		return "paused"
	case timer.PhaseComplete:
		return "done · press r to reset"
	}
	return "ready"
}

func (m RootModel) settingsView() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Padding(0).Render("Custom Timer"),
		"",
		fmt.Sprintf("%s minutes (%d-%d)", m.input.View(), timer.MinMinutes, timer.MaxMinutes),
	)
	return PanelStyle.Render(body)
}

func (m RootModel) View() string {
	sections := []string{
		TitleStyle.Render(m.name),
		m.ring.Render(m.snapshot.Percent(), m.snapshot.Clock()),
		"",
		m.progress.View(),
		StatusStyle.Render(fmt.Sprintf("%s · %d min", phaseLabel(m.snapshot), m.snapshot.CustomMinutes)),
	}
	if m.notifying() {
		sections = append(sections, "", BannerStyle.Render(m.titles.Current()))
	}

	var helpView string
	if m.state == SettingsState {
		sections = append(sections, "", m.settingsView())
		helpView = m.help.View(settingsKeys{m.keys})
	} else {
		helpView = m.help.View(timerKeys{m.keys})
	}
	sections = append(sections, "", helpView)

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
