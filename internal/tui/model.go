package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/surge-downloader/pomo/internal/engine"
	"github.com/surge-downloader/pomo/internal/messages"
	"github.com/surge-downloader/pomo/internal/timer"
)

type UIState int

const (
	TimerState UIState = iota
	SettingsState
)

// Controller is the part of engine.Engine the widget drives.
type Controller interface {
	Toggle() bool
	Reset()
	SetDuration(minutes int) bool
	SetDurationInput(s string) bool
	Snapshot() timer.Snapshot
	Events() <-chan engine.Event
}

// TitleState is the window title notifier the widget reads and retitles.
type TitleState interface {
	SetBase(title string)
	Current() string
	Active() bool
}

type RootModel struct {
	engine   Controller
	activity chan tea.Msg
	titles   TitleState

	snapshot timer.Snapshot
	state    UIState
	input    textinput.Model
	progress progress.Model
	ring     Ring
	keys     keyMap
	help     help.Model
	name     string

	width  int
	height int
}

// NewActivityChannel returns the channel title updates reach the UI through.
func NewActivityChannel() chan tea.Msg {
	return make(chan tea.Msg, ActivityChannelBuffer)
}

// TitleSink adapts an activity channel for notify.TitleSetterFunc. The send
// never blocks the notifier; a title is dropped if the buffer is full.
func TitleSink(activity chan tea.Msg) func(string) {
	return func(title string) {
		select {
		case activity <- messages.TitleMsg{Title: title}:
		default:
		}
	}
}

// WindowTitle is the base window title for a countdown of minutes.
func WindowTitle(name string, minutes int) string {
	if minutes == timer.DefaultMinutes {
		return name
	}
	return fmt.Sprintf("%s (%d min)", name, minutes)
}

func NewRootModel(ctrl Controller, activity chan tea.Msg, titles TitleState, name string, ringRadius int) RootModel {
	ti := textinput.New()
	ti.Placeholder = "25"
	ti.CharLimit = InputCharLimit
	ti.Width = InputWidth
	ti.Prompt = ""

	return RootModel{
		engine:   ctrl,
		activity: activity,
		titles:   titles,
		snapshot: ctrl.Snapshot(),
		state:    TimerState,
		input:    ti,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		ring:     NewRing(ringRadius),
		keys:     defaultKeyMap(),
		help:     help.New(),
		name:     name,
	}
}

func (m RootModel) Init() tea.Cmd {
	return tea.Batch(
		listenForEvents(m.engine.Events()),
		listenForActivity(m.activity),
	)
}

// listenForEvents waits for the next engine event. A closed channel ends the listener.
func listenForEvents(events <-chan engine.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return messages.EngineEventMsg{Event: ev}
	}
}

func listenForActivity(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

func (m *RootModel) openSettings() {
	m.state = SettingsState
	m.input.SetValue(strconv.Itoa(m.snapshot.CustomMinutes))
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *RootModel) closeSettings() {
	m.state = TimerState
	m.input.Blur()
}

// retitle points the base window title at the configured duration.
func (m RootModel) retitle() {
	m.titles.SetBase(WindowTitle(m.name, m.snapshot.CustomMinutes))
}

// notifying reports whether a title notification is on screen.
func (m RootModel) notifying() bool {
	return m.titles.Active()
}
