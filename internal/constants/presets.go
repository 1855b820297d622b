package constants

import "sort"

// Morris returns the reference parameter set after Morris & Bowden (1986).
func Morris() Record {
	return Record{
		ID:     0,
		SA:     1.0,
		DU:     0.0,
		DB:     -30.0,
		BO:     0.07182,
		BI:     0.1,
		FO:     0.83,
		K:      0.7142,
		FC:     0.2,
		RO:     0.0105,
		RD:     30.0,
		K1:     0.1,
		K2:     0.5,
		K3:     0.0344,
		SvToRo: 1.0,
		WaToRl: 0.1,
		B:      1.0,
	}
}

var Presets = map[string]func() Record{
	"morris": Morris,
	"shallow-roots": func() Record {
		r := Morris()
		r.RD = 10.0
		r.K1 = 0.25
		return r
	},
	"refractory": func() Record {
		r := Morris()
		r.FC = 0.6
		r.K = 0.3
		return r
	},
	"mineral": func() Record {
		r := Morris()
		r.FO = 0.2
		return r
	},
}

// GetPreset returns the named parameter set with the given cell id.
func GetPreset(name string, id int) (Record, bool) {
	fn, ok := Presets[name]
	if !ok {
		return Record{}, false
	}
	r := fn()
	r.ID = id
	return r, true
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
