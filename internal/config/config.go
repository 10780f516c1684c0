package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/jscyril/soundboard/internal/looper"
	"github.com/jscyril/soundboard/internal/metronome"
	sberrors "github.com/jscyril/soundboard/pkg/errors"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "SOUNDBOARD_"

// Config holds application configuration
type Config struct {
	SoundsDir    string   `json:"sounds_dir"`
	AssetBaseURL string   `json:"asset_base_url"`
	CatalogPath  string   `json:"catalog_path"`
	ScanDirs     []string `json:"scan_dirs"`

	SampleRate    int     `json:"sample_rate"`
	BufferMillis  int     `json:"buffer_ms"`
	DefaultVolume float64 `json:"default_volume"`
	AudioEnabled  bool    `json:"audio_enabled"`

	LoopDuration  int    `json:"loop_duration"`
	BPM           int    `json:"bpm"`
	EventWarning  int    `json:"event_warning"`
	ExportDir     string `json:"export_dir"`
	OfflineRender bool   `json:"offline_render"`

	LogFile  string `json:"log_file"`
	LogLevel string `json:"log_level"`

	MIDIPort     string `json:"midi_port"`
	MIDIBaseNote int    `json:"midi_base_note"`

	KeyBindings KeyMap `json:"key_bindings"`
}

// KeyMap defines keyboard shortcuts. Pad keys are fixed and not part of the map.
type KeyMap struct {
	Record    string `json:"record"`
	Play      string `json:"play"`
	Export    string `json:"export"`
	Metronome string `json:"metronome"`
	TempoUp   string `json:"tempo_up"`
	TempoDown string `json:"tempo_down"`
	Duration  string `json:"duration"`
	Assign    string `json:"assign"`
	Search    string `json:"search"`
	Category  string `json:"category"`
	Help      string `json:"help"`
	Quit      string `json:"quit"`
}

// GetDefaultConfig returns default configuration
func GetDefaultConfig() *Config {
	return &Config{
		SoundsDir:     "./sounds",
		ScanDirs:      []string{},
		SampleRate:    44100,
		BufferMillis:  50,
		DefaultVolume: 0.8,
		AudioEnabled:  true,
		LoopDuration:  4,
		BPM:           metronome.DefaultBPM,
		EventWarning:  looper.DefaultEventWarning,
		ExportDir:     "./exports",
		OfflineRender: true,
		LogLevel:      "info",
		MIDIBaseNote:  36,
		KeyBindings: KeyMap{
			Record:    " ",
			Play:      "p",
			Export:    "x",
			Metronome: "m",
			TempoUp:   "+",
			TempoDown: "-",
			Duration:  "l",
			Assign:    "a",
			Search:    "/",
			Category:  "]",
			Help:      "?",
			Quit:      "q",
		},
	}
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate %d: must be positive", c.SampleRate)
	}
	if c.BufferMillis <= 0 {
		return fmt.Errorf("buffer_ms %d: must be positive", c.BufferMillis)
	}
	if c.DefaultVolume < 0 || c.DefaultVolume > 1 {
		return fmt.Errorf("default_volume %v: must be between 0 and 1", c.DefaultVolume)
	}
	if !looper.ValidDuration(c.LoopDuration) {
		return fmt.Errorf("loop_duration %d: %w", c.LoopDuration, sberrors.ErrInvalidDuration)
	}
	if !metronome.ValidTempo(c.BPM) {
		return fmt.Errorf("bpm %d: %w", c.BPM, sberrors.ErrInvalidTempo)
	}
	if c.MIDIBaseNote < 0 || c.MIDIBaseNote > 127-8 {
		return fmt.Errorf("midi_base_note %d: out of range", c.MIDIBaseNote)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q: unknown level", c.LogLevel)
	}
	return nil
}

// LoadConfig reads and unmarshals configuration from file.
// Fields missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	config := GetDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}

// SaveConfig marshals and saves configuration to file
func SaveConfig(config *Config, path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadOrCreate loads config from path or creates default if not exists
func LoadOrCreate(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	// Save default config if file didn't exist
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveConfig(config, path); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	return config, nil
}

// Load is the full startup sequence: .env files, the config file, environment overrides
// and validation.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := LoadEnv(envFiles...); err != nil {
		return nil, err
	}

	config, err := LoadOrCreate(path)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// LoadEnv loads .env files into the process environment without overriding variables
// that are already set. Missing files are skipped.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from SOUNDBOARD_* environment variables
func (c *Config) ApplyEnv() error {
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = n
		return nil
	}
	flag := func(name string, dst *bool) error {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = b
		return nil
	}

	str("SOUNDS_DIR", &c.SoundsDir)
	str("ASSET_URL", &c.AssetBaseURL)
	str("CATALOG", &c.CatalogPath)
	str("EXPORT_DIR", &c.ExportDir)
	str("LOG_FILE", &c.LogFile)
	str("LOG_LEVEL", &c.LogLevel)
	str("MIDI_PORT", &c.MIDIPort)

	if v, ok := os.LookupEnv(EnvPrefix + "SCAN_DIRS"); ok {
		c.ScanDirs = filepath.SplitList(v)
	}
	if v, ok := os.LookupEnv(EnvPrefix + "VOLUME"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%sVOLUME: %w", EnvPrefix, err)
		}
		c.DefaultVolume = f
	}

	for name, dst := range map[string]*int{
		"SAMPLE_RATE":    &c.SampleRate,
		"BUFFER_MS":      &c.BufferMillis,
		"LOOP_DURATION":  &c.LoopDuration,
		"BPM":            &c.BPM,
		"EVENT_WARNING":  &c.EventWarning,
		"MIDI_BASE_NOTE": &c.MIDIBaseNote,
	} {
		if err := num(name, dst); err != nil {
			return err
		}
	}
	if err := flag("OFFLINE_RENDER", &c.OfflineRender); err != nil {
		return err
	}
	return flag("AUDIO", &c.AudioEnabled)
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	// Check environment variable first
	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		return path
	}

	// Use XDG config directory if available
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "soundboard", "config.json")
	}

	// Fall back to home directory
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}

	return filepath.Join(home, ".config", "soundboard", "config.json")
}
