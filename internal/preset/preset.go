// Package preset persists a parameter set as YAML.
package preset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/avatar-forge/pkg/params"
)

// ErrNoParams is returned when a preset file lacks the params block.
var ErrNoParams = errors.New("preset: missing params")

// Preset is the on-disk form: a full parameter set plus when it was saved.
type Preset struct {
	Params  params.Set `yaml:"params"`
	SavedAt *time.Time `yaml:"saved_at,omitempty"`
}

// Save writes set to path. A zero now leaves saved_at out.
func Save(path string, set params.Set, now time.Time) error {
	p := Preset{Params: set}
	if !now.IsZero() {
		ts := now.UTC().Truncate(time.Second)
		p.SavedAt = &ts
	}

	data, err := yaml.Marshal(&p)
	if err != nil {
		return fmt.Errorf("preset: encoding: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads path. Fields absent from the file keep their defaults and
// every fraction is clamped to [0,1].
func Load(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, err
	}
	return Decode(data)
}

// Decode parses a preset document.
func Decode(data []byte) (Preset, error) {
	var raw struct {
		Params  yaml.Node  `yaml:"params"`
		SavedAt *time.Time `yaml:"saved_at"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Preset{}, fmt.Errorf("preset: %w", err)
	}
	if raw.Params.Kind == 0 || raw.Params.ShortTag() == "!!null" {
		return Preset{}, ErrNoParams
	}

	p := Preset{Params: params.Default(), SavedAt: raw.SavedAt}
	if err := raw.Params.Decode(&p.Params); err != nil {
		return Preset{}, fmt.Errorf("preset: params: %w", err)
	}
	p.Params.Clamp()
	return p, nil
}
