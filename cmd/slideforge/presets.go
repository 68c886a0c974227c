package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/slideforge/slideforge/api"
)

// loadPresets returns the built-in slide sizes, extended by the entries of
// an optional YAML file. File entries shadow built-ins of the same name.
func loadPresets(path string) ([]api.SlideSize, error) {
	if path == "" {
		return api.Presets, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading presets file: %w", err)
	}

	var extra []api.SlideSize
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("parsing presets file %s: %w", path, err)
	}

	presets := make([]api.SlideSize, 0, len(api.Presets)+len(extra))
	for _, p := range extra {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("preset without a name in %s", path)
		}
		presets = append(presets, p)
	}
	for _, p := range api.Presets {
		if _, shadowed := findPreset(presets, p.Name); !shadowed {
			presets = append(presets, p)
		}
	}
	return presets, nil
}

func findPreset(presets []api.SlideSize, name string) (api.SlideSize, bool) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return api.SlideSize{}, false
}
