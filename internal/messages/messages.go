// Package messages defines the bubbletea messages exchanged between the
// countdown engine, the title notifier and the terminal UI.
package messages

import "github.com/surge-downloader/pomo/internal/engine"

// EngineEventMsg carries a state change from the countdown engine.
type EngineEventMsg struct {
	Event engine.Event
}

// TitleMsg asks the UI to show Title as the window title.
type TitleMsg struct {
	Title string
}
