// Package config loads avatar-forge settings.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all settings.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Export     ExportConfig     `yaml:"export"`
	Animation  AnimationConfig  `yaml:"animation"`
	Generation GenerationConfig `yaml:"generation"`
	Preset     PresetConfig     `yaml:"preset"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ExportConfig controls artifact output.
type ExportConfig struct {
	OutputDir string `yaml:"output_dir"`
	Binary    bool   `yaml:"binary"`   // GLB instead of glTF JSON
	Textures  bool   `yaml:"textures"` // embed the freckle texture
	Creator   string `yaml:"creator"`  // FBX Creator / glTF generator
}

// AnimationConfig drives the headless animation loop.
type AnimationConfig struct {
	FPS      int           `yaml:"fps"`
	Duration time.Duration `yaml:"duration"`
}

// GenerationConfig tunes the progress simulator.
type GenerationConfig struct {
	Duration time.Duration `yaml:"duration"`
}

// PresetConfig locates the saved parameter preset.
type PresetConfig struct {
	Path string `yaml:"path"`
}

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Export: ExportConfig{
			OutputDir: ".",
			Binary:    true,
			Textures:  true,
			Creator:   "avatar-forge",
		},
		Animation: AnimationConfig{
			FPS:      60,
			Duration: 2 * time.Second,
		},
		Generation: GenerationConfig{
			Duration: 3000 * time.Millisecond,
		},
		Preset: PresetConfig{
			Path: "avatar.yaml",
		},
	}
}

// Validate rejects values the rest of the program cannot run with.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level)
	}
	if c.Animation.FPS <= 0 || c.Animation.FPS > 240 {
		return fmt.Errorf("%w: animation.fps %d out of range 1..240", ErrInvalid, c.Animation.FPS)
	}
	if c.Animation.Duration < 0 {
		return fmt.Errorf("%w: animation.duration is negative", ErrInvalid)
	}
	if c.Generation.Duration <= 0 {
		return fmt.Errorf("%w: generation.duration must be positive", ErrInvalid)
	}
	if c.Export.OutputDir == "" {
		return fmt.Errorf("%w: export.output_dir is empty", ErrInvalid)
	}
	return nil
}
