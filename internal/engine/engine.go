// Package engine drives a timer.Countdown with a wall-clock tick and runs the
// completion side effects when it reaches zero.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/surge-downloader/pomo/internal/timer"
)

const (
	DefaultInterval          = time.Second
	DefaultNotifyDuration    = 3 * time.Second
	DefaultCompletionMessage = "Time's up! - Pomodoro"
	EventChannelBuffer       = 64
)

// Notifier shows a transient completion message.
type Notifier interface {
	Notify(message string, d time.Duration) uuid.UUID
}

// Player plays the completion sound. Errors are reported but never fatal.
type Player interface {
	Play(ctx context.Context) error
}

type EventKind int

const (
	EventStarted EventKind = iota
	EventPaused
	EventTick
	EventCompleted
	EventReset
	EventReconfigured
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventPaused:
		return "paused"
	case EventTick:
		return "tick"
	case EventCompleted:
		return "completed"
	case EventReset:
		return "reset"
	case EventReconfigured:
		return "reconfigured"
	}
	return "unknown"
}

// Event is emitted after every state change. RunID is the run that was
// current when the change happened, uuid.Nil when none was.
type Event struct {
	Kind     EventKind
	Snapshot timer.Snapshot
	RunID    uuid.UUID
}

type Options struct {
	Minutes           int
	Clock             clockwork.Clock
	Interval          time.Duration
	Notifier          Notifier
	Player            Player
	CompletionMessage string
	NotifyDuration    time.Duration
}

// run owns the recurring tick for one stretch of running time.
type run struct {
	id     uuid.UUID
	ticker clockwork.Ticker
	stop   chan struct{}
}

type Engine struct {
	mu        sync.Mutex
	countdown *timer.Countdown
	current   *run
	closed    bool
	events    chan Event

	clock    clockwork.Clock
	interval time.Duration
	notifier Notifier
	player   Player
	message  string
	notifyD  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

func New(opts Options) (*Engine, error) {
	minutes := opts.Minutes
	if minutes == 0 {
		minutes = timer.DefaultMinutes
	}
	countdown, err := timer.New(minutes)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		countdown: countdown,
		events:    make(chan Event, EventChannelBuffer),
		clock:     opts.Clock,
		interval:  opts.Interval,
		notifier:  opts.Notifier,
		player:    opts.Player,
		message:   opts.CompletionMessage,
		notifyD:   opts.NotifyDuration,
	}
	if e.clock == nil {
		e.clock = clockwork.NewRealClock()
	}
	if e.interval <= 0 {
		e.interval = DefaultInterval
	}
	if e.message == "" {
		e.message = DefaultCompletionMessage
	}
	if e.notifyD <= 0 {
		e.notifyD = DefaultNotifyDuration
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())
	return e, nil
}

// Events delivers state changes. It is closed by Close.
func (e *Engine) Events() <-chan Event {
	return e.events
}

func (e *Engine) Snapshot() timer.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.countdown.Snapshot()
}

// Start begins ticking. It returns false when already running, complete or closed.
func (e *Engine) Start() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked()
}

func (e *Engine) Pause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pauseLocked()
}

// Toggle starts a stopped countdown or pauses a running one and returns the
// resulting running flag.
func (e *Engine) Toggle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return false
	}
	if e.countdown.Snapshot().Running {
		e.pauseLocked()
		return false
	}
	return e.startLocked()
}

func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	id := e.releaseLocked()
	e.countdown.Reset()
	e.emitLocked(EventReset, id)
}

// SetDuration reconfigures the countdown. The new total is loaded stopped.
// Out-of-range input is rejected and leaves the engine untouched.
func (e *Engine) SetDuration(minutes int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return false
	}
	if err := timer.ValidateMinutes(minutes); err != nil {
		log.Debug().Err(err).Msg("duration rejected")
		return false
	}
	id := e.releaseLocked()
	if err := e.countdown.SetDuration(minutes); err != nil {
		return false
	}
	e.emitLocked(EventReconfigured, id)
	log.Info().Int("minutes", minutes).Msg("duration configured")
	return true
}

// SetDurationInput parses raw text from the duration field and applies it.
func (e *Engine) SetDurationInput(s string) bool {
	minutes, err := timer.ParseMinutes(s)
	if err != nil {
		log.Debug().Err(err).Msg("duration input rejected")
		return false
	}
	return e.SetDuration(minutes)
}

// Close stops the tick and closes the event channel. Pending completion sound
// playback is cancelled.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.releaseLocked()
	e.closed = true
	e.cancel()
	close(e.events)
}

func (e *Engine) startLocked() bool {
	if e.closed || !e.countdown.Start() {
		return false
	}
	r := &run{
		id:     uuid.New(),
		ticker: e.clock.NewTicker(e.interval),
		stop:   make(chan struct{}),
	}
	e.current = r
	go e.loop(r)

	log.Debug().Str("run_id", r.id.String()).Int("remaining", e.countdown.Snapshot().RemainingSeconds).Msg("countdown started")
	e.emitLocked(EventStarted, r.id)
	return true
}

func (e *Engine) pauseLocked() bool {
	if e.closed {
		return false
	}
	id := e.releaseLocked()
	if !e.countdown.Pause() {
		return false
	}
	e.emitLocked(EventPaused, id)
	return true
}

// releaseLocked stops the current run, if any, and returns its ID.
func (e *Engine) releaseLocked() uuid.UUID {
	r := e.current
	if r == nil {
		return uuid.Nil
	}
	e.current = nil
	r.ticker.Stop()
	close(r.stop)
	log.Debug().Str("run_id", r.id.String()).Msg("countdown run released")
	return r.id
}

func (e *Engine) loop(r *run) {
	for {
		select {
		case <-r.stop:
			return
		case <-r.ticker.Chan():
			if e.tick(r) {
				return
			}
		}
	}
}

// tick applies one tick for r and reports whether r has ended. Ticks for a
// run that is no longer current are dropped.
func (e *Engine) tick(r *run) bool {
	e.mu.Lock()
	if e.current != r {
		e.mu.Unlock()
		return true
	}

	switch e.countdown.Tick() {
	case timer.TickDecremented:
		e.emitLocked(EventTick, r.id)
		e.mu.Unlock()
		return false
	case timer.TickCompleted:
		e.releaseLocked()
		e.emitLocked(EventTick, r.id)
		e.mu.Unlock()
		e.complete(r.id)
		return true
	default:
		e.releaseLocked()
		e.mu.Unlock()
		return true
	}
}

// complete runs the completion side effects once the final tick is committed.
func (e *Engine) complete(runID uuid.UUID) {
	log.Info().Str("run_id", runID.String()).Msg("countdown complete")

	if e.player != nil {
		go func() {
			if err := e.player.Play(e.ctx); err != nil {
				log.Debug().Err(err).Msg("completion sound not played")
			}
		}()
	}
	if e.notifier != nil {
		e.notifier.Notify(e.message, e.notifyD)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.emitLocked(EventCompleted, runID)
	}
}

func (e *Engine) emitLocked(kind EventKind, runID uuid.UUID) {
	if e.closed {
		return
	}
	ev := Event{Kind: kind, Snapshot: e.countdown.Snapshot(), RunID: runID}
	select {
	case e.events <- ev:
	default:
		log.Warn().Str("event", kind.String()).Msg("event channel full, dropping event")
	}
}
