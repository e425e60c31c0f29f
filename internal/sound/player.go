// Package sound provides the completion sound: fetching the audio asset into
// a local cache and handing it to whatever audio player the host has.
package sound

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/rs/zerolog/log"
)

var ErrNoPlayer = errors.New("no audio player found")

// Command is an audio player invocation; the asset path is appended to Args.
type Command struct {
	Name string
	Args []string
}

// DefaultCommands are tried in order.
var DefaultCommands = []Command{
	{Name: "paplay"},
	{Name: "pw-play"},
	{Name: "afplay"},
	{Name: "ffplay", Args: []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
	{Name: "mpg123", Args: []string{"-q"}},
	{Name: "aplay", Args: []string{"-q"}},
}

// Alarm plays the sound at URL, falling back to a terminal bell on Bell when
// the asset or a player is unavailable.
type Alarm struct {
	URL      string
	Fetcher  *Fetcher
	Commands []Command
	Bell     io.Writer

	// LookPath and Run are replaced in tests.
	LookPath func(file string) (string, error)
	Run      func(ctx context.Context, name string, args ...string) error

	mu   sync.Mutex
	path string
}

func NewAlarm(rawurl string, fetcher *Fetcher, bell io.Writer) *Alarm {
	return &Alarm{
		URL:      rawurl,
		Fetcher:  fetcher,
		Commands: DefaultCommands,
		Bell:     bell,
		LookPath: exec.LookPath,
		Run:      runCommand,
	}
}

// Prefetch warms the asset cache so the first completion does not wait on the network.
func (a *Alarm) Prefetch(ctx context.Context) {
	if _, err := a.resolve(ctx); err != nil {
		log.Warn().Err(err).Str("url", a.URL).Msg("could not prefetch notification sound")
	}
}

// Play plays the asset with the first player that succeeds and rings the bell
// when none does. The returned error is informational.
func (a *Alarm) Play(ctx context.Context) error {
	p, err := a.resolve(ctx)
	if err != nil {
		a.ring()
		return err
	}

	var failed error
	for _, c := range a.Commands {
		bin, err := a.LookPath(c.Name)
		if err != nil {
			continue
		}
		args := append(append([]string{}, c.Args...), p)
		if err := a.Run(ctx, bin, args...); err != nil {
			log.Debug().Err(err).Str("player", c.Name).Msg("audio player failed")
			failed = errors.Join(failed, fmt.Errorf("%s: %w", c.Name, err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		log.Debug().Str("player", c.Name).Str("path", p).Msg("notification sound played")
		return nil
	}

	a.ring()
	if failed != nil {
		return failed
	}
	return ErrNoPlayer
}

func (a *Alarm) resolve(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.path != "" {
		return a.path, nil
	}
	if a.Fetcher == nil || a.URL == "" {
		return "", errors.New("no notification sound configured")
	}
	p, err := a.Fetcher.Fetch(ctx, a.URL)
	if err != nil {
		return "", err
	}
	a.path = p
	return p, nil
}

func (a *Alarm) ring() {
	if a.Bell != nil {
		fmt.Fprint(a.Bell, "\a")
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Bell is a Player that only rings the terminal bell.
type Bell struct {
	Out io.Writer
}

func (b Bell) Play(ctx context.Context) error {
	_, err := fmt.Fprint(b.Out, "\a")
	return err
}
