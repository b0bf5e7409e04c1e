// Package config loads and validates the reader's settings: screen
// geometry, gesture thresholds, region layout, library paths, and
// logging. Settings come from a TOML file overlaid on built-in defaults,
// with INKSTORM_* environment variables taking final precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/inkstorm/internal/input/gesture"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "INKSTORM_"

// Settings is the full configuration surface.
type Settings struct {
	Screen  ScreenSettings  `toml:"screen"`
	Input   InputSettings   `toml:"input"`
	Reader  ReaderSettings  `toml:"reader"`
	Library LibrarySettings `toml:"library"`
	Scripts ScriptSettings  `toml:"scripts"`
	Logging LoggingSettings `toml:"logging"`
}

// ScreenSettings describes the panel.
type ScreenSettings struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
	DPI    int `toml:"dpi"`
}

// InputSettings carries the per-device gesture tuning constants.
// Distances are pixels, delays milliseconds.
type InputSettings struct {
	TapRadius        float64 `toml:"tap_radius"`
	HoldJitter       float64 `toml:"hold_jitter"`
	HoldDelayShortMS int     `toml:"hold_delay_short_ms"`
	HoldDelayLongMS  int     `toml:"hold_delay_long_ms"`
	SwipeThreshold   float64 `toml:"swipe_threshold"`
	ArrowVelocity    float64 `toml:"arrow_velocity"`
	ArrowMinDistance float64 `toml:"arrow_min_distance"`
	ElbowRatio       float64 `toml:"elbow_ratio"`
	DiagonalRatio    float64 `toml:"diagonal_ratio"`
	RotateMinAngle   float64 `toml:"rotate_min_angle"`
	DivergenceRatio  float64 `toml:"divergence_ratio"`
	SimultaneityMS   int     `toml:"simultaneity_ms"`
	ResolutionMS     int     `toml:"resolution_ms"`
	DebounceMS       int     `toml:"debounce_ms"`
}

// ReaderSettings configures the reading surface.
type ReaderSettings struct {
	// StripWidth is the width of the edge strips, in pixels.
	StripWidth int `toml:"strip_width"`
	// CornerSize is the side of the corner zones, in pixels.
	CornerSize int `toml:"corner_size"`
	// FullRefreshEvery forces a full panel refresh after this many
	// partial page turns, to clear e-ink ghosting.
	FullRefreshEvery int `toml:"full_refresh_every"`
	// BindingsPath points at a YAML file of gesture binding overrides.
	BindingsPath string `toml:"bindings_path"`
}

// LibrarySettings configures the book library.
type LibrarySettings struct {
	// Path is the directory scanned for documents.
	Path string `toml:"path"`
	// DatabasePath is the sqlite metadata database.
	DatabasePath string `toml:"database_path"`
}

// ScriptSettings configures Lua hooks.
type ScriptSettings struct {
	// Dir is the directory loaded for lua: action handlers.
	Dir string `toml:"dir"`
}

// LoggingSettings configures the logger.
type LoggingSettings struct {
	Level string `toml:"level"`
}

// DefaultSettings returns settings for a 6-inch 300dpi device.
func DefaultSettings() *Settings {
	th := gesture.DefaultThresholds()
	return &Settings{
		Screen: ScreenSettings{Width: 1404, Height: 1872, DPI: 300},
		Input: InputSettings{
			TapRadius:        th.TapRadius,
			HoldJitter:       th.HoldJitter,
			HoldDelayShortMS: int(th.HoldDelayShort / time.Millisecond),
			HoldDelayLongMS:  int(th.HoldDelayLong / time.Millisecond),
			SwipeThreshold:   th.SwipeThreshold,
			ArrowVelocity:    th.ArrowVelocity,
			ArrowMinDistance: th.ArrowMinDistance,
			ElbowRatio:       th.ElbowRatio,
			DiagonalRatio:    th.DiagonalRatio,
			RotateMinAngle:   th.RotateMinAngle,
			DivergenceRatio:  th.DivergenceRatio,
			SimultaneityMS:   int(th.SimultaneityWindow / time.Millisecond),
			ResolutionMS:     int(th.ResolutionWindow / time.Millisecond),
			DebounceMS:       int(th.DebounceWindow / time.Millisecond),
		},
		Reader: ReaderSettings{
			StripWidth:       120,
			CornerSize:       200,
			FullRefreshEvery: 6,
		},
		Library: LibrarySettings{
			Path:         "~/books",
			DatabasePath: "~/.inkstorm/library.db",
		},
		Logging: LoggingSettings{Level: "info"},
	}
}

// Thresholds converts the input settings to classifier thresholds.
func (s *Settings) Thresholds() gesture.Thresholds {
	in := s.Input
	return gesture.Thresholds{
		TapRadius:          in.TapRadius,
		HoldJitter:         in.HoldJitter,
		HoldDelayShort:     time.Duration(in.HoldDelayShortMS) * time.Millisecond,
		HoldDelayLong:      time.Duration(in.HoldDelayLongMS) * time.Millisecond,
		SwipeThreshold:     in.SwipeThreshold,
		ArrowVelocity:      in.ArrowVelocity,
		ArrowMinDistance:   in.ArrowMinDistance,
		ElbowRatio:         in.ElbowRatio,
		DiagonalRatio:      in.DiagonalRatio,
		RotateMinAngle:     in.RotateMinAngle,
		DivergenceRatio:    in.DivergenceRatio,
		SimultaneityWindow: time.Duration(in.SimultaneityMS) * time.Millisecond,
		ResolutionWindow:   time.Duration(in.ResolutionMS) * time.Millisecond,
		DebounceWindow:     time.Duration(in.DebounceMS) * time.Millisecond,
	}
}

// Validate checks the settings for inconsistencies.
func (s *Settings) Validate() error {
	if s.Screen.Width <= 0 || s.Screen.Height <= 0 {
		return fmt.Errorf("config: screen %dx%d is not a panel",
			s.Screen.Width, s.Screen.Height)
	}
	if s.Input.TapRadius <= 0 {
		return errors.New("config: tap_radius must be positive")
	}
	if s.Input.HoldDelayLongMS <= s.Input.HoldDelayShortMS {
		return fmt.Errorf("config: hold_delay_long_ms (%d) must exceed hold_delay_short_ms (%d)",
			s.Input.HoldDelayLongMS, s.Input.HoldDelayShortMS)
	}
	if s.Input.DivergenceRatio <= 1 {
		return errors.New("config: divergence_ratio must exceed 1")
	}
	if s.Reader.StripWidth <= 0 || s.Reader.CornerSize <= 0 {
		return errors.New("config: strip_width and corner_size must be positive")
	}
	return nil
}

// Parse overlays TOML data onto the defaults and applies environment
// overrides.
func Parse(data []byte) (*Settings, error) {
	s := DefaultSettings()
	if len(data) > 0 {
		if err := toml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("config: parse: %w", err)
		}
	}
	s.applyEnv()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads the settings file at path. A missing file is not an error;
// the defaults (plus environment overrides) apply.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Parse(nil)
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

func (s *Settings) applyEnv() {
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		s.Logging.Level = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LIBRARY_PATH"); ok {
		s.Library.Path = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LIBRARY_DB"); ok {
		s.Library.DatabasePath = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "BINDINGS"); ok {
		s.Reader.BindingsPath = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "SCRIPT_DIR"); ok {
		s.Scripts.Dir = v
	}
	if v, ok := lookupInt(EnvPrefix + "SCREEN_WIDTH"); ok {
		s.Screen.Width = v
	}
	if v, ok := lookupInt(EnvPrefix + "SCREEN_HEIGHT"); ok {
		s.Screen.Height = v
	}
	if v, ok := lookupFloat(EnvPrefix + "TAP_RADIUS"); ok {
		s.Input.TapRadius = v
	}
	if v, ok := lookupInt(EnvPrefix + "HOLD_DELAY_MS"); ok {
		s.Input.HoldDelayShortMS = v
		if s.Input.HoldDelayLongMS <= v {
			s.Input.HoldDelayLongMS = 2 * v
		}
	}
}

func lookupInt(name string) (int, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func lookupFloat(name string) (float64, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
