package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Settings are the user-tunable knobs of the solver and the CLI.
type Settings struct {
	Solver SolverSettings `mapstructure:"solver"`
	Log    LogSettings    `mapstructure:"log"`
	Color  string         `mapstructure:"color"`
}

// SolverSettings bound the work a single query may do.
type SolverSettings struct {
	MaxDepth      int `mapstructure:"max_depth"`
	MaxIterations int `mapstructure:"max_iterations"`
}

// LogSettings select the logger flavour.
type LogSettings struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// ErrInvalidSettings is returned when a setting is out of range.
var ErrInvalidSettings = errors.New("invalid settings")

// SetDefaults configures default values for all settings
func SetDefaults(v *viper.Viper) {
	v.SetDefault("solver.max_depth", DefaultMaxDepth)
	v.SetDefault("solver.max_iterations", DefaultMaxIterations)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.json", false)
	v.SetDefault("color", ColorAuto)
}

// NewViper returns a viper instance with defaults and CHALK_* environment
// bindings, e.g. CHALK_SOLVER_MAX_DEPTH.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("CHALK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	s, _ := LoadWithViper(NewViper())
	return s
}

// LoadSettings reads settings from path (any format viper understands) on
// top of the defaults and environment. An empty path skips the file.
func LoadSettings(path string) (Settings, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates settings from v.
func LoadWithViper(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the ranges of every setting.
func (s Settings) Validate() error {
	if s.Solver.MaxDepth <= 0 {
		return errors.Wrapf(ErrInvalidSettings, "solver.max_depth must be positive, got %d", s.Solver.MaxDepth)
	}
	if s.Solver.MaxIterations <= 0 {
		return errors.Wrapf(ErrInvalidSettings, "solver.max_iterations must be positive, got %d", s.Solver.MaxIterations)
	}
	switch s.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.WithHint(
			errors.Wrapf(ErrInvalidSettings, "unknown color mode %q", s.Color),
			"use auto, always or never")
	}
	return nil
}
