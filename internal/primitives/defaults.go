package primitives

import (
	_ "embed"
	"fmt"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var embeddedDefaults []byte

// Defaults are the starting values of new primitives.
type Defaults struct {
	DepthTest       bool    `yaml:"depthTest"`
	Opacity         float64 `yaml:"opacity"`
	LineWidth       float64 `yaml:"lineWidth"`
	ShowLabel       bool    `yaml:"showLabel"`
	PointSizeFactor float64 `yaml:"pointSizeFactor"`
	PaletteSize     int     `yaml:"paletteSize"`
}

var current atomic.Pointer[Defaults]

func init() {
	d, err := parseDefaults(embeddedDefaults, nil)
	if err != nil {
		panic(fmt.Sprintf("primitives: embedded defaults: %v", err))
	}
	current.Store(d)
}

// CurrentDefaults returns the defaults in effect.
func CurrentDefaults() Defaults {
	return *current.Load()
}

// SetDefaults replaces the defaults used for new primitives.
func SetDefaults(d Defaults) {
	current.Store(&d)
}

// LoadDefaults reads the embedded defaults and overlays the YAML file at
// path, if path is not empty. Keys missing from the file keep their
// embedded value.
func LoadDefaults(path string) (Defaults, error) {
	base, err := parseDefaults(embeddedDefaults, nil)
	if err != nil {
		return Defaults{}, err
	}
	if path == "" {
		return *base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults{}, fmt.Errorf("read primitive defaults: %w", err)
	}
	d, err := parseDefaults(data, base)
	if err != nil {
		return Defaults{}, fmt.Errorf("parse primitive defaults %s: %w", path, err)
	}
	return *d, nil
}

func parseDefaults(data []byte, base *Defaults) (*Defaults, error) {
	var d Defaults
	if base != nil {
		d = *base
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	if d.Opacity < 0 || d.Opacity > 1 {
		return nil, fmt.Errorf("opacity %v out of range [0, 1]", d.Opacity)
	}
	if d.PointSizeFactor <= 0 {
		return nil, fmt.Errorf("pointSizeFactor must be positive, got %v", d.PointSizeFactor)
	}
	return &d, nil
}
