package config

import "sort"

var Presets = map[string]*Config{
	"steady": {
		Name: "steady", Preset: "morris", Cells: 1, Steps: 50, Years: 1, SubSteps: 1,
		Forcing: ForcingConfig{Deposition: 0.3, Surface: 0.0105},
	},
	"accretion": {
		Name: "accretion", Preset: "morris", Cells: 4, Steps: 100, Years: 1, SubSteps: 4,
		Forcing: ForcingConfig{Deposition: 1.0, Surface: 0.0105},
	},
	"erosion": {
		Name: "erosion", Preset: "morris", Cells: 1, Steps: 20, Years: 1, SubSteps: 2,
		Forcing: ForcingConfig{Deposition: -0.8, Surface: 0.008},
	},
	"pulse": {
		Name: "pulse", Preset: "morris", Cells: 2, Steps: 60, Years: 0.5, SubSteps: 1,
		Forcing: ForcingConfig{Deposition: 0.1, Surface: 0.0105, PulseEvery: 12, PulseDepth: 3.0},
	},
	"shallow": {
		Name: "shallow", Preset: "shallow-roots", Cells: 1, Steps: 40, Years: 1, SubSteps: 1,
		Forcing: ForcingConfig{Deposition: 0.4, Surface: 0.02},
	},
}

// GetPreset returns a copy of the named run preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
