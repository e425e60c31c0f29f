package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/muesli/termenv"

	"github.com/surge-downloader/pomo/internal/engine"
	"github.com/surge-downloader/pomo/internal/timer"
)

// countdown is the engine surface plain mode needs.
type countdown interface {
	Start() bool
	Snapshot() timer.Snapshot
	Events() <-chan engine.Event
}

// titleState reports whether the completion title is still showing.
type titleState interface {
	Active() bool
}

func runPlain(ctx context.Context, e countdown, title titleState, clock clockwork.Clock, notifyFor time.Duration) error {
	return plainLoop(ctx, os.Stderr, e, title, clock, notifyFor)
}

// plainLoop starts the countdown and prints one progress line per event until
// it completes and the completion title has been restored, or ctx ends.
func plainLoop(ctx context.Context, out io.Writer, e countdown, title titleState, clock clockwork.Clock, notifyFor time.Duration) error {
	e.Start()
	printProgress(out, e.Snapshot())

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case ev, ok := <-e.Events():
			if !ok {
				return nil
			}
			printProgress(out, ev.Snapshot)
			if ev.Kind != engine.EventCompleted {
				continue
			}
			fmt.Fprintf(out, "\n[POMO] %d minute countdown complete\n", ev.Snapshot.CustomMinutes)
			return waitForRestore(ctx, title, clock, restoreWait(notifyFor))
		}
	}
}

// restoreWait is how long plain mode lingers after completion so the title is restored.
func restoreWait(notifyFor time.Duration) time.Duration {
	return notifyFor + 100*time.Millisecond
}

func waitForRestore(ctx context.Context, title titleState, clock clockwork.Clock, limit time.Duration) error {
	deadline := clock.After(limit)
	poll := clock.NewTicker(50 * time.Millisecond)
	defer poll.Stop()
	for title.Active() {
		select {
		case <-ctx.Done():
			return nil
		case <-deadline:
			return nil
		case <-poll.Chan():
		}
	}
	return nil
}

func printProgress(out io.Writer, s timer.Snapshot) {
	fmt.Fprintf(out, "\r[POMO] %s  %6.2f%%  %-8s", s.Clock(), s.Percent(), s.Phase())
}

// logLineWriter clears the progress line before each log line so the two
// never share a row. The next progress update redraws below the log.
type logLineWriter struct {
	out *termenv.Output
}

func (w logLineWriter) Write(p []byte) (int, error) {
	w.out.ClearLine()
	if _, err := w.out.WriteString("\r"); err != nil {
		return 0, err
	}
	return w.out.Write(p)
}
