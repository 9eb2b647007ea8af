package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory (JSON).
const FileName = "mwoverlay"

// EnvPrefix prefixes environment overrides, e.g. MWOVERLAY_TIMING_EXTRACTION=2ms.
const EnvPrefix = "MWOVERLAY"

type ProcessSettings struct {
	Name   string `mapstructure:"name"`
	Module string `mapstructure:"module"`
}

type WindowSettings struct {
	Title string `mapstructure:"title"`
	// Follow is how often the overlay re-reads the game window geometry.
	// Zero disables following.
	Follow time.Duration `mapstructure:"follow"`
}

type TimingSettings struct {
	Extraction time.Duration `mapstructure:"extraction"`
	Repaint    time.Duration `mapstructure:"repaint"`
	Watchdog   time.Duration `mapstructure:"watchdog"`
	Stale      time.Duration `mapstructure:"stale"`
}

// DisplaySettings holds the initial toggle state and text size.
type DisplaySettings struct {
	EntityNames  bool    `mapstructure:"entityNames"`
	NPCNames     bool    `mapstructure:"npcNames"`
	HealthBars   bool    `mapstructure:"healthBars"`
	HealthValues bool    `mapstructure:"healthValues"`
	FontSize     float64 `mapstructure:"fontSize"`
}

// HotkeySettings binds key names ("F5", "NUMPAD1", "") to toggles.
// An empty name leaves the toggle without a hotkey.
type HotkeySettings struct {
	EntityNames  string `mapstructure:"entityNames"`
	NPCNames     string `mapstructure:"npcNames"`
	HealthBars   string `mapstructure:"healthBars"`
	HealthValues string `mapstructure:"healthValues"`
	Settings     string `mapstructure:"settings"`
}

type LogSettings struct {
	Level      string `mapstructure:"level"`
	File       bool   `mapstructure:"file"`
	Dir        string `mapstructure:"dir"`
	MaxSizeMB  int    `mapstructure:"maxSizeMB"`
	MaxBackups int    `mapstructure:"maxBackups"`
}

// Settings is the application configuration.
type Settings struct {
	Build   string          `mapstructure:"build"`
	Process ProcessSettings `mapstructure:"process"`
	Window  WindowSettings  `mapstructure:"window"`
	Timing  TimingSettings  `mapstructure:"timing"`
	Display DisplaySettings `mapstructure:"display"`
	Hotkeys HotkeySettings  `mapstructure:"hotkeys"`
	Log     LogSettings     `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("build", DefaultBuild)

	v.SetDefault("process.name", "Morrowind.exe")
	v.SetDefault("process.module", "Morrowind.exe")

	v.SetDefault("window.title", "Morrowind")
	v.SetDefault("window.follow", "1s")

	v.SetDefault("timing.extraction", "1ms")
	v.SetDefault("timing.repaint", "5ms")
	v.SetDefault("timing.watchdog", "5s")
	v.SetDefault("timing.stale", "10s")

	v.SetDefault("display.entityNames", true)
	v.SetDefault("display.npcNames", true)
	v.SetDefault("display.healthBars", true)
	v.SetDefault("display.healthValues", true)
	v.SetDefault("display.fontSize", 13)

	v.SetDefault("hotkeys.entityNames", "F5")
	v.SetDefault("hotkeys.npcNames", "F6")
	v.SetDefault("hotkeys.healthBars", "F7")
	v.SetDefault("hotkeys.healthValues", "F8")
	v.SetDefault("hotkeys.settings", "F9")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", true)
	v.SetDefault("log.dir", "./logs")
	v.SetDefault("log.maxSizeMB", 10)
	v.SetDefault("log.maxBackups", 3)
}

// Load reads mwoverlay.json from configDir when present, applies
// MWOVERLAY_* environment overrides and returns validated settings.
// A missing file is not an error.
func Load(configDir string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(FileName)
	v.SetConfigType("json")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects settings the overlay cannot run with.
func (s Settings) Validate() error {
	if _, err := LookupOffsets(s.Build); err != nil {
		return err
	}
	if s.Process.Name == "" || s.Process.Module == "" {
		return errors.New("process.name and process.module are required")
	}
	if s.Window.Title == "" {
		return errors.New("window.title is required")
	}
	if s.Timing.Extraction <= 0 || s.Timing.Repaint <= 0 {
		return fmt.Errorf("timing.extraction (%v) and timing.repaint (%v) must be positive",
			s.Timing.Extraction, s.Timing.Repaint)
	}
	if s.Window.Follow < 0 {
		return fmt.Errorf("window.follow must not be negative, got %v", s.Window.Follow)
	}
	if s.Display.FontSize <= 0 {
		return fmt.Errorf("display.fontSize must be positive, got %v", s.Display.FontSize)
	}
	return nil
}

// Offsets returns the offset table of the configured build. Settings from
// Load are validated, so the build is known; on unvalidated settings an
// unknown build yields the zero table.
func (s Settings) Offsets() Offsets {
	o, _ := LookupOffsets(s.Build)
	return o
}
