package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetup_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pomo.log")
	closer, err := Setup(Options{File: path, Debug: true})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	log.Debug().Str("run_id", "abc").Msg("countdown started")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"run_id":"abc"`) || !strings.Contains(string(data), "countdown started") {
		t.Errorf("log file = %q", data)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("level = %v, want debug", zerolog.GlobalLevel())
	}
}

func TestSetup_Console(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Setup(Options{Console: true, Stderr: &buf}); err != nil {
		t.Fatal(err)
	}
	log.Info().Msg("countdown complete")
	log.Debug().Msg("hidden")
	if !strings.Contains(buf.String(), "countdown complete") {
		t.Errorf("console output = %q", buf.String())
	}
	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug lines should be filtered at info level")
	}
}

func TestSetup_BadFile(t *testing.T) {
	if _, err := Setup(Options{File: filepath.Join(t.TempDir(), "missing", "pomo.log")}); err == nil {
		t.Error("Setup should fail when the log file cannot be created")
	}
}
