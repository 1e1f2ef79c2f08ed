package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/retrodesk/anim"
	"github.com/gogpu/retrodesk/cache"
	"github.com/gogpu/retrodesk/quality"
	"github.com/gogpu/retrodesk/render"
	"github.com/gogpu/retrodesk/screen"
)

// ErrInvalidConfig is returned for a configuration that fails validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the complete scene configuration.
type Config struct {
	// Glow is the phosphor color the screen materials are built around.
	Glow render.Color `yaml:"glow"`

	Performance Performance   `yaml:"performance"`
	Tuning      screen.Tuning `yaml:"tuning"`
	Screens     []Screen      `yaml:"screens"`
	LEDs        LEDs          `yaml:"leds"`
	Meshes      []Mesh        `yaml:"meshes"`
}

// Performance holds the adaptive quality and scheduling settings.
type Performance struct {
	Thresholds quality.Thresholds `yaml:"lodThresholds"`
	Profiles   Profiles           `yaml:"profiles"`
	Priorities anim.Priorities    `yaml:"priorities"`

	// GracePeriod is how long an unused shared render target survives.
	GracePeriod time.Duration `yaml:"gracePeriod"`

	// CacheScreens shares render targets between screens of equal size.
	CacheScreens bool `yaml:"cacheScreens"`

	// Isolation runs the compute kernels on background workers.
	Isolation bool `yaml:"isolation"`
}

// Profiles is the quality profile of each tier.
type Profiles struct {
	High   quality.Profile `yaml:"high"`
	Medium quality.Profile `yaml:"medium"`
	Low    quality.Profile `yaml:"low"`
}

// Tiers returns p indexed by tier.
func (p Profiles) Tiers() quality.Profiles {
	return quality.Profiles{quality.High: p.High, quality.Medium: p.Medium, quality.Low: p.Low}
}

// Default returns the stock configuration.
func Default() *Config {
	stock := quality.DefaultProfiles()
	return &Config{
		Glow: render.Glow,
		Performance: Performance{
			Thresholds: quality.DefaultThresholds(),
			Profiles: Profiles{
				High:   stock[quality.High],
				Medium: stock[quality.Medium],
				Low:    stock[quality.Low],
			},
			Priorities:   anim.DefaultPriorities(),
			GracePeriod:  cache.DefaultGracePeriod,
			CacheScreens: true,
			Isolation:    true,
		},
		Tuning:  screen.DefaultTuning(),
		Screens: defaultScreens(),
		LEDs:    defaultLEDs(),
		Meshes:  defaultMeshes(),
	}
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
// Unknown keys are rejected. Lists replace the default lists whole.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes cfg as YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate checks every section and that the mesh manifest covers every
// template the screens and lights use.
func (c *Config) Validate() error {
	var errs []error
	add := func(section string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", section, err))
		}
	}

	p := c.Performance
	add("performance.lodThresholds", p.Thresholds.Validate())
	for _, t := range quality.Tiers {
		add("performance.profiles."+strings.ToLower(t.String()), p.Profiles.Tiers()[t].Validate())
	}
	if p.GracePeriod < 0 {
		add("performance.gracePeriod", fmt.Errorf("negative duration %v", p.GracePeriod))
	}
	add("tuning", c.Tuning.Validate())

	meshes := make(map[string]bool, len(c.Meshes))
	mats := render.NewMaterials(c.Glow)
	for i, m := range c.Meshes {
		add(fmt.Sprintf("meshes[%d]", i), m.validate(mats))
		if meshes[m.Name] {
			add(fmt.Sprintf("meshes[%d]", i), fmt.Errorf("duplicate template %q", m.Name))
		}
		meshes[m.Name] = true
	}
	need := func(section, name string) {
		if name != "" && !meshes[name] {
			add(section, fmt.Errorf("template %q is not in the mesh manifest", name))
		}
	}

	panels := make(map[string]bool, len(c.Screens))
	for i, s := range c.Screens {
		section := fmt.Sprintf("screens[%d]", i)
		if _, err := s.Def(c.Tuning); err != nil {
			add(section, err)
			continue
		}
		if panels[s.Panel] {
			add(section, fmt.Errorf("panel %q is used twice", s.Panel))
		}
		panels[s.Panel] = true
		need(section, s.Frame)
		need(section, s.Panel)
	}

	add("leds", c.LEDs.validate())
	need("leds", c.LEDs.Template)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Selector builds the quality selector of the configuration.
func (c *Config) Selector() (*quality.Selector, error) {
	return quality.NewSelector(
		quality.WithThresholds(c.Performance.Thresholds),
		quality.WithProfiles(c.Performance.Profiles.Tiers()),
	)
}
