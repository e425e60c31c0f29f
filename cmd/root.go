package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/surge-downloader/pomo/internal/config"
	"github.com/surge-downloader/pomo/internal/engine"
	"github.com/surge-downloader/pomo/internal/logging"
	"github.com/surge-downloader/pomo/internal/notify"
	"github.com/surge-downloader/pomo/internal/sound"
	"github.com/surge-downloader/pomo/internal/tui"
)

var Version = "dev"

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "pomo",
		Short:        "A Pomodoro countdown timer for the terminal",
		Version:      Version,
		SilenceUsage: true,
		RunE:         runRoot,
	}

	f := cmd.Flags()
	f.String("config", "", "path to a YAML config file")
	f.IntP("minutes", "m", config.DefaultMinutes, "countdown duration in minutes (1-120)")
	f.String("title", config.DefaultTitle, "window title")
	f.String("message", config.DefaultCompletionMessage, "title shown when the countdown completes")
	f.Duration("notify-for", config.DefaultNotifyDuration, "how long the completion title stays up")
	f.String("sound-url", config.DefaultSoundURL, "URL of the completion sound")
	f.Bool("no-sound", false, "ring the terminal bell instead of playing a sound")
	f.String("cache-dir", config.DefaultCacheDir(), "where the completion sound is cached")
	f.Int("ring-radius", config.DefaultRingRadius, "radius of the progress ring in cells")
	f.String("log-file", "", "write JSON logs to this file")
	f.Bool("debug", false, "enable debug logging")
	f.Bool("plain", false, "start immediately and print progress to stderr instead of the full-screen UI")
	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	plain, _ := cmd.Flags().GetBool("plain")

	closer, err := logging.Setup(logging.Options{
		File:    cfg.LogFile,
		Console: plain,
		Debug:   cfg.Debug,
		Stderr:  logLineWriter{out: termenv.NewOutput(os.Stderr)},
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()

	var player engine.Player = sound.Bell{Out: os.Stderr}
	if cfg.Sound && cfg.SoundURL != "" {
		alarm := sound.NewAlarm(cfg.SoundURL, sound.NewFetcher(cfg.CacheDir), os.Stderr)
		go alarm.Prefetch(ctx)
		player = alarm
	}

	if plain {
		title := notify.NewTitle(notify.NewTerminalTitle(termenv.NewOutput(os.Stdout)), clock, tui.WindowTitle(cfg.Title, cfg.Minutes))
		defer title.Close()
		e, err := newEngine(cfg, clock, title, player)
		if err != nil {
			return err
		}
		defer e.Close()
		return runPlain(ctx, e, title, clock, cfg.NotifyDuration)
	}

	activity := tui.NewActivityChannel()
	title := notify.NewTitle(notify.TitleSetterFunc(tui.TitleSink(activity)), clock, tui.WindowTitle(cfg.Title, cfg.Minutes))
	defer releaseTitle(title, os.Stdout)
	e, err := newEngine(cfg, clock, title, player)
	if err != nil {
		return err
	}
	defer e.Close()

	p := tea.NewProgram(tui.NewRootModel(e, activity, title, cfg.Title, cfg.RingRadius), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// releaseTitle moves title writes to the terminal once the UI no longer reads
// them, then restores the base title.
func releaseTitle(title *notify.Title, out io.Writer) {
	title.Redirect(notify.NewTerminalTitle(termenv.NewOutput(out)))
	title.Close()
}

func newEngine(cfg *config.Config, clock clockwork.Clock, n engine.Notifier, player engine.Player) (*engine.Engine, error) {
	e, err := engine.New(engine.Options{
		Minutes:           cfg.Minutes,
		Clock:             clock,
		Notifier:          n,
		Player:            player,
		CompletionMessage: cfg.CompletionMessage,
		NotifyDuration:    cfg.NotifyDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("create timer: %w", err)
	}
	log.Debug().Int("minutes", cfg.Minutes).Msg("timer ready")
	return e, nil
}

// loadConfig reads the config file and lets explicitly set flags override it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	f := cmd.Flags()
	path, _ := f.GetString("config")
	optional := path == ""
	if optional {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path, optional)
	if err != nil {
		return nil, err
	}

	if f.Changed("minutes") {
		cfg.Minutes, _ = f.GetInt("minutes")
	}
	if f.Changed("title") {
		cfg.Title, _ = f.GetString("title")
	}
	if f.Changed("message") {
		cfg.CompletionMessage, _ = f.GetString("message")
	}
	if f.Changed("notify-for") {
		cfg.NotifyDuration, _ = f.GetDuration("notify-for")
	}
	if f.Changed("sound-url") {
		cfg.SoundURL, _ = f.GetString("sound-url")
	}
	if f.Changed("no-sound") {
		noSound, _ := f.GetBool("no-sound")
		cfg.Sound = !noSound
	}
	if f.Changed("cache-dir") {
		cfg.CacheDir, _ = f.GetString("cache-dir")
	}
	if f.Changed("ring-radius") {
		cfg.RingRadius, _ = f.GetInt("ring-radius")
	}
	if f.Changed("log-file") {
		cfg.LogFile, _ = f.GetString("log-file")
	}
	if f.Changed("debug") {
		cfg.Debug, _ = f.GetBool("debug")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}
