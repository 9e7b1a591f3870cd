package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if !cfg.Export.Binary {
		t.Error("expected binary glTF by default")
	}
	if !cfg.Export.Textures {
		t.Error("expected textures enabled by default")
	}
	if cfg.Export.Creator != "avatar-forge" {
		t.Errorf("expected creator avatar-forge, got %s", cfg.Export.Creator)
	}
	if cfg.Animation.FPS != 60 {
		t.Errorf("expected 60 fps, got %d", cfg.Animation.FPS)
	}
	if cfg.Generation.Duration != 3*time.Second {
		t.Errorf("expected 3s generation, got %v", cfg.Generation.Duration)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
logging:
  level: "debug"
  log_file: "forge.log"

export:
  output_dir: "out"
  binary: false
  creator: "studio"

animation:
  fps: 30
  duration: 5s

generation:
  duration: 1500ms

preset:
  path: "me.yaml"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "forge.log" {
		t.Errorf("logging not loaded: %+v", cfg.Logging)
	}
	if cfg.Export.OutputDir != "out" || cfg.Export.Binary || cfg.Export.Creator != "studio" {
		t.Errorf("export not loaded: %+v", cfg.Export)
	}
	// Not in the file, keeps its default.
	if !cfg.Export.Textures {
		t.Error("expected textures to keep default")
	}
	if cfg.Animation.FPS != 30 || cfg.Animation.Duration != 5*time.Second {
		t.Errorf("animation not loaded: %+v", cfg.Animation)
	}
	if cfg.Generation.Duration != 1500*time.Millisecond {
		t.Errorf("expected 1.5s generation, got %v", cfg.Generation.Duration)
	}
	if cfg.Preset.Path != "me.yaml" {
		t.Errorf("expected preset me.yaml, got %s", cfg.Preset.Path)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	invalidYAML := `
animation:
  fps: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "avatar-forge.yaml"), []byte("animation:\n  fps: 24\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find avatar-forge.yaml in current directory")
	}
}

func TestFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug",
			args: []string{"-debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "json output",
			args: []string{"-json", "-no-textures"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Export.Binary {
					t.Error("expected binary to be false with -json")
				}
				if cfg.Export.Textures {
					t.Error("expected textures off with -no-textures")
				}
			},
		},
		{
			name: "animation",
			args: []string{"-fps", "24", "-duration", "750ms"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Animation.FPS != 24 {
					t.Errorf("expected fps 24, got %d", cfg.Animation.FPS)
				}
				if cfg.Animation.Duration != 750*time.Millisecond {
					t.Errorf("expected 750ms, got %v", cfg.Animation.Duration)
				}
			},
		},
		{
			name: "output dir",
			args: []string{"-o", "/tmp/avatars"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Export.OutputDir != "/tmp/avatars" {
					t.Errorf("expected /tmp/avatars, got %s", cfg.Export.OutputDir)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet(tt.name, flag.ContinueOnError)
			f := RegisterFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parse: %v", err)
			}
			cfg := Default()
			if err := f.apply(cfg); err != nil {
				t.Fatalf("apply: %v", err)
			}
			tt.verify(t, cfg)
		})
	}
}

func TestBadDurationFlag(t *testing.T) {
	f := &Flags{Duration: "soon"}
	err := f.apply(Default())
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
animation:
  fps: 30
  duration: 4s
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(&Flags{Config: configPath, FPS: 120})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Animation.FPS != 120 {
		t.Errorf("expected fps 120 from flag, got %d", cfg.Animation.FPS)
	}
	if cfg.Animation.Duration != 4*time.Second {
		t.Errorf("expected duration 4s from file, got %v", cfg.Animation.Duration)
	}
	if cfg.Generation.Duration != 3*time.Second {
		t.Errorf("expected default generation duration, got %v", cfg.Generation.Duration)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"level", func(c *Config) { c.Logging.Level = "loud" }},
		{"fps zero", func(c *Config) { c.Animation.FPS = 0 }},
		{"fps high", func(c *Config) { c.Animation.FPS = 1000 }},
		{"generation", func(c *Config) { c.Generation.Duration = 0 }},
		{"output", func(c *Config) { c.Export.OutputDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Animation.FPS = 48
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded, err := Load(&Flags{Config: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Animation.FPS != 48 {
		t.Errorf("expected fps 48 after round trip, got %d", loaded.Animation.FPS)
	}
}
