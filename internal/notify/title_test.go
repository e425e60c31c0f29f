package notify

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/muesli/termenv"
)

type recorder struct {
	mu     sync.Mutex
	titles []string
}

func (r *recorder) SetTitle(title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, title)
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.titles) == 0 {
		return ""
	}
	return r.titles[len(r.titles)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.titles)
}

func waitForTitle(t *testing.T, r *recorder, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r.last() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("title = %q, want %q", r.last(), want)
}

func TestNewTitle_WritesBase(t *testing.T) {
	rec := &recorder{}
	NewTitle(rec, clockwork.NewFakeClock(), "Pomodoro Timer")
	if rec.last() != "Pomodoro Timer" {
		t.Errorf("title = %q, want base", rec.last())
	}
}

func TestNotify_RestoresAfterDuration(t *testing.T) {
	rec := &recorder{}
	clock := clockwork.NewFakeClock()
	n := NewTitle(rec, clock, "Pomodoro Timer")

	n.Notify("Time's up! - Pomodoro", 3*time.Second)
	if rec.last() != "Time's up! - Pomodoro" {
		t.Fatalf("title = %q, want notification", rec.last())
	}
	if !n.Active() {
		t.Error("notification should be active")
	}

	clock.Advance(2999 * time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	if rec.last() != "Time's up! - Pomodoro" {
		t.Fatalf("title restored too early: %q", rec.last())
	}

	clock.Advance(time.Millisecond)
	waitForTitle(t, rec, "Pomodoro Timer")
	if n.Active() {
		t.Error("notification should have expired")
	}
}

func TestNotify_RestoresToLatestBase(t *testing.T) {
	rec := &recorder{}
	clock := clockwork.NewFakeClock()
	n := NewTitle(rec, clock, "Pomodoro Timer")

	n.Notify("done", 3*time.Second)
	n.SetBase("Pomodoro Timer (5 min)")
	if rec.last() != "done" {
		t.Fatalf("SetBase must not clobber an active notification, title = %q", rec.last())
	}
	if n.Current() != "done" {
		t.Errorf("Current() = %q, want done", n.Current())
	}

	clock.Advance(3 * time.Second)
	waitForTitle(t, rec, "Pomodoro Timer (5 min)")
}

func TestNotify_NewerSupersedesOlder(t *testing.T) {
	rec := &recorder{}
	clock := clockwork.NewFakeClock()
	n := NewTitle(rec, clock, "base")

	n.Notify("first", 3*time.Second)
	clock.Advance(2 * time.Second)
	n.Notify("second", 3*time.Second)

	// The first notification's deadline passes; the second stays visible.
	clock.Advance(1500 * time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	if rec.last() != "second" {
		t.Fatalf("title = %q, want second", rec.last())
	}

	clock.Advance(1500 * time.Millisecond)
	waitForTitle(t, rec, "base")
}

func TestClose_RestoresImmediately(t *testing.T) {
	rec := &recorder{}
	clock := clockwork.NewFakeClock()
	n := NewTitle(rec, clock, "base")

	n.Notify("done", 3*time.Second)
	n.Close()
	if rec.last() != "base" {
		t.Fatalf("title after Close = %q, want base", rec.last())
	}
	writes := rec.count()

	clock.Advance(5 * time.Second)
	n.Notify("ignored", time.Second)
	n.SetBase("ignored")
	time.Sleep(10 * time.Millisecond)
	if rec.count() != writes {
		t.Errorf("closed notifier wrote %d more titles", rec.count()-writes)
	}
}

func TestRedirect_RestoresThroughNewSetter(t *testing.T) {
	ui := &recorder{}
	term := &recorder{}
	clock := clockwork.NewFakeClock()
	n := NewTitle(ui, clock, "base")

	n.Notify("done", 3*time.Second)
	uiWrites := ui.count()

	n.Redirect(term)
	if term.last() != "done" {
		t.Fatalf("redirect should write the current title, got %q", term.last())
	}
	n.Close()
	if term.last() != "base" {
		t.Errorf("title after Close = %q, want base", term.last())
	}
	if ui.count() != uiWrites {
		t.Errorf("old setter got %d writes after Redirect", ui.count()-uiWrites)
	}
}

func TestTerminalTitle_WritesOSC(t *testing.T) {
	var buf bytes.Buffer
	tt := NewTerminalTitle(termenv.NewOutput(&buf))
	tt.SetTitle("Pomodoro Timer")
	if !strings.Contains(buf.String(), "Pomodoro Timer") {
		t.Errorf("output %q does not carry the title", buf.String())
	}
}
