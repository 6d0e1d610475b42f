package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Built-in presets by name. A preset is just a bundle of seeder options.
var presets = map[string]Options{
	"minimal": {
		Users: 5, Items: 20, Swaps: 5, Likes: 10, Reports: 0, Clean: true,
	},
	"demo": {
		Users: 25, Items: 120, Swaps: 40, Likes: 200, Reports: 6, Clean: true,
	},
	"stress": {
		Users: 500, Items: 5000, Swaps: 1500, Likes: 20000, Reports: 80, Clean: true,
	},
}

// ResolvePreset returns seeder options for a name or a YAML preset file path.
// Names are tried first; anything containing a path separator or ending in
// .yml/.yaml is loaded from disk.
func ResolvePreset(nameOrPath string) (Options, error) {
	if opts, ok := presets[nameOrPath]; ok {
		return opts, nil
	}
	return LoadPresetFile(nameOrPath)
}

// LoadPresetFile decodes seeder options from a YAML file.
func LoadPresetFile(path string) (Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read preset: %w", err)
	}
	var opts Options
	if err := yaml.Unmarshal(raw, &opts); err != nil {
		return Options{}, fmt.Errorf("parse preset %s: %w", path, err)
	}
	if opts.Users <= 0 {
		return Options{}, fmt.Errorf("preset %s: users must be positive", path)
	}
	return opts, nil
}

// PresetNames lists the built-in preset names.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}
