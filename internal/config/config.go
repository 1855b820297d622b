package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/semidec/internal/constants"
	"github.com/san-kum/semidec/internal/forcing"
	"github.com/san-kum/semidec/internal/semidec"
)

const (
	DefaultPreset     = "morris"
	DefaultCells      = 1
	DefaultSteps      = 10
	DefaultYears      = 1.0
	DefaultSubSteps   = 1
	DefaultDeposition = 0.5
	DefaultSurface    = 0.0105
)

type Config struct {
	Name      string        `yaml:"name"`
	Constants string        `yaml:"constants"` // TOML parameter file, overrides Preset
	Preset    string        `yaml:"preset"`    // constants preset used when Constants is empty
	Cells     int           `yaml:"cells"`     // number of preset cells
	Steps     int           `yaml:"steps"`
	Years     float64       `yaml:"years"` // per step
	SubSteps  int           `yaml:"sub_steps"`
	Workers   int           `yaml:"workers"`
	Forcing   ForcingConfig `yaml:"forcing"`
}

type ForcingConfig struct {
	File       string  `yaml:"file"` // CSV series, overrides the fields below
	Deposition float64 `yaml:"deposition"`
	Surface    float64 `yaml:"surface"`
	PulseEvery int     `yaml:"pulse_every"`
	PulseDepth float64 `yaml:"pulse_deposition"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:     "steady",
		Preset:   DefaultPreset,
		Cells:    DefaultCells,
		Steps:    DefaultSteps,
		Years:    DefaultYears,
		SubSteps: DefaultSubSteps,
		Forcing: ForcingConfig{
			Deposition: DefaultDeposition,
			Surface:    DefaultSurface,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Steps < 0:
		return semidec.Invalid("steps must be non-negative, got %d", c.Steps)
	case c.Years < 0:
		return semidec.Invalid("years must be non-negative, got %g", c.Years)
	case c.SubSteps < 1:
		return semidec.Invalid("sub_steps must be at least 1, got %d", c.SubSteps)
	case c.Constants == "" && c.Cells < 1:
		return semidec.Invalid("cells must be at least 1, got %d", c.Cells)
	case c.Forcing.Surface < 0:
		return semidec.Invalid("forcing surface must be non-negative, got %g", c.Forcing.Surface)
	case c.Forcing.PulseEvery < 0:
		return semidec.Invalid("pulse_every must be non-negative, got %d", c.Forcing.PulseEvery)
	}
	return nil
}

// Records returns the constants of every cell: the parameter file when one is
// set, otherwise Cells copies of the preset numbered from 1.
func (c *Config) Records() ([]constants.Record, error) {
	if c.Constants != "" {
		return constants.Load(c.Constants)
	}
	out := make([]constants.Record, 0, c.Cells)
	for id := 1; id <= c.Cells; id++ {
		r, ok := constants.GetPreset(c.Preset, id)
		if !ok {
			return nil, semidec.Invalid("unknown constants preset %q", c.Preset)
		}
		out = append(out, r)
	}
	return out, nil
}

// Series builds the forcing series of the run.
func (c *Config) Series() (forcing.Series, error) {
	if c.Forcing.File != "" {
		return forcing.LoadCSV(c.Forcing.File)
	}
	base := forcing.Input{Deposition: c.Forcing.Deposition, Surface: c.Forcing.Surface}
	if c.Forcing.PulseEvery > 0 {
		return forcing.Pulse{Base: base, Every: c.Forcing.PulseEvery, Deposition: c.Forcing.PulseDepth, N: c.Steps}, nil
	}
	return forcing.Constant{Input: base, N: c.Steps}, nil
}
