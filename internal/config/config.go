package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/surge-downloader/pomo/internal/timer"
)

const (
	DefaultMinutes           = timer.DefaultMinutes
	DefaultTitle             = "Pomodoro Timer"
	DefaultCompletionMessage = "Time's up! - Pomodoro"
	DefaultNotifyDuration    = 3 * time.Second
	DefaultSoundURL          = "https://assets.mixkit.co/active_storage/sfx/2869/2869-preview.mp3"
	DefaultRingRadius        = 6

	MinRingRadius = 3
	MaxRingRadius = 20
)

// Config holds startup settings. Values from the YAML file are overridden by flags.
type Config struct {
	Minutes           int           `yaml:"minutes"`
	Title             string        `yaml:"title"`
	CompletionMessage string        `yaml:"completion_message"`
	NotifyDuration    time.Duration `yaml:"notify_duration"`
	Sound             bool          `yaml:"sound"`
	SoundURL          string        `yaml:"sound_url"`
	CacheDir          string        `yaml:"cache_dir"`
	RingRadius        int           `yaml:"ring_radius"`
	LogFile           string        `yaml:"log_file"`
	Debug             bool          `yaml:"debug"`
}

func Default() *Config {
	return &Config{
		Minutes:           DefaultMinutes,
		Title:             DefaultTitle,
		CompletionMessage: DefaultCompletionMessage,
		NotifyDuration:    DefaultNotifyDuration,
		Sound:             true,
		SoundURL:          DefaultSoundURL,
		CacheDir:          DefaultCacheDir(),
		RingRadius:        DefaultRingRadius,
	}
}

// DefaultCacheDir is where the notification sound is cached.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "pomo")
	}
	return filepath.Join(dir, "pomo")
}

// DefaultPath is the config file read when --config is not given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pomo", "config.yaml")
}

// Load reads path over the defaults. A missing file is not an error when
// optional is set.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := timer.ValidateMinutes(c.Minutes); err != nil {
		return err
	}
	if c.NotifyDuration <= 0 {
		return fmt.Errorf("notify_duration must be positive, got %s", c.NotifyDuration)
	}
	if c.RingRadius < MinRingRadius || c.RingRadius > MaxRingRadius {
		return fmt.Errorf("ring_radius must be between %d and %d, got %d", MinRingRadius, MaxRingRadius, c.RingRadius)
	}
	if c.Title == "" {
		return errors.New("title must not be empty")
	}
	return nil
}
