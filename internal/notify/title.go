// Package notify shows transient notifications in the window title and
// restores the tracked base title once they expire.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"
)

// TitleSetter writes the visible window title.
type TitleSetter interface {
	SetTitle(title string)
}

// TitleSetterFunc adapts a function to TitleSetter.
type TitleSetterFunc func(title string)

func (f TitleSetterFunc) SetTitle(title string) { f(title) }

// TerminalTitle sets the title of the controlling terminal with an OSC sequence.
type TerminalTitle struct {
	out *termenv.Output
}

func NewTerminalTitle(out *termenv.Output) *TerminalTitle {
	return &TerminalTitle{out: out}
}

func (t *TerminalTitle) SetTitle(title string) {
	t.out.SetWindowTitle(title)
}

type notification struct {
	id      uuid.UUID
	message string
	timer   clockwork.Timer
}

// Title is a title notifier. The base title is what the window shows when no
// notification is active; a notification replaces it for a fixed duration and
// is superseded by any newer notification. Restores always write the base
// title current at restore time.
type Title struct {
	mu     sync.Mutex
	clock  clockwork.Clock
	setter TitleSetter
	base   string
	active *notification
	closed bool
}

// NewTitle creates a notifier and writes base to the setter.
func NewTitle(setter TitleSetter, clock clockwork.Clock, base string) *Title {
	t := &Title{
		clock:  clock,
		setter: setter,
		base:   base,
	}
	setter.SetTitle(base)
	return t
}

// Notify shows message until d elapses or a newer notification replaces it.
func (t *Title) Notify(message string, d time.Duration) uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := uuid.New()
	if t.closed {
		return id
	}
	if t.active != nil {
		t.active.timer.Stop()
		log.Debug().
			Str("notification_id", t.active.id.String()).
			Str("superseded_by", id.String()).
			Msg("title notification superseded")
	}

	n := &notification{id: id, message: message}
	n.timer = t.clock.AfterFunc(d, func() { t.expire(id) })
	t.active = n
	t.setter.SetTitle(message)

	log.Debug().
		Str("notification_id", id.String()).
		Dur("duration", d).
		Msg("title notification shown")
	return id
}

func (t *Title) expire(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active == nil || t.active.id != id {
		return
	}
	t.active = nil
	if t.closed {
		return
	}
	t.setter.SetTitle(t.base)
	log.Debug().Str("notification_id", id.String()).Str("title", t.base).Msg("title restored")
}

// SetBase changes the title shown outside notifications. While a notification
// is active the new base is only written when it expires.
func (t *Title) SetBase(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.base = title
	if t.active == nil && !t.closed {
		t.setter.SetTitle(title)
	}
}

// Current returns the title the window is showing.
func (t *Title) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentLocked()
}

func (t *Title) currentLocked() string {
	if t.active != nil {
		return t.active.message
	}
	return t.base
}

// Redirect sends every later title write to setter and writes the current
// title to it straight away.
func (t *Title) Redirect(setter TitleSetter) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.setter = setter
	if !t.closed {
		setter.SetTitle(t.currentLocked())
	}
}

// Active reports whether a notification is being shown.
func (t *Title) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active != nil
}

// Close cancels a pending restore and writes the base title immediately.
func (t *Title) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true
	if t.active != nil {
		t.active.timer.Stop()
		t.active = nil
		t.setter.SetTitle(t.base)
	}
}
