// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Options struct {
	// File receives JSON lines when set.
	File string
	// Console writes human-readable lines to Stderr instead. File wins when both are set.
	Console bool
	Debug   bool
	Stderr  io.Writer
}

// Setup installs the global logger. The returned closer releases the log
// file, if one was opened. With neither File nor Console, logs are discarded
// so they never draw over the terminal UI.
func Setup(opts Options) (io.Closer, error) {
	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	switch {
	case opts.File != "":
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
		return f, nil
	case opts.Console:
		out := opts.Stderr
		if out == nil {
			out = os.Stderr
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: out})
	default:
		log.Logger = zerolog.Nop()
	}
	return nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
