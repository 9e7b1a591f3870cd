package config

import "flag"

// Flags are command-line overrides. Zero values leave the loaded config
// untouched.
type Flags struct {
	Config   string
	Debug    bool
	LogFile  string
	Output   string
	JSON     bool
	NoTex    bool
	FPS      int
	Duration string
}

// RegisterFlags binds the shared overrides to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write logs to this file")
	fs.StringVar(&f.Output, "o", "", "Output directory for artifacts")
	fs.BoolVar(&f.JSON, "json", false, "Write glTF JSON instead of GLB")
	fs.BoolVar(&f.NoTex, "no-textures", false, "Skip the embedded skin texture")
	fs.IntVar(&f.FPS, "fps", 0, "Animation frame rate")
	fs.StringVar(&f.Duration, "duration", "", "Animation run time, e.g. 2s")
	return f
}

// apply writes non-zero overrides into cfg.
func (f *Flags) apply(cfg *Config) error {
	if f == nil {
		return nil
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.Output != "" {
		cfg.Export.OutputDir = f.Output
	}
	if f.JSON {
		cfg.Export.Binary = false
	}
	if f.NoTex {
		cfg.Export.Textures = false
	}
	if f.FPS > 0 {
		cfg.Animation.FPS = f.FPS
	}
	if f.Duration != "" {
		d, err := parseDuration(f.Duration)
		if err != nil {
			return err
		}
		cfg.Animation.Duration = d
	}
	return nil
}
