// Package constants provides the immutable per-cell parameter record of the
// model and its loader for TOML parameter files.
package constants

import (
	"math"

	"github.com/san-kum/semidec/internal/semidec"
)

// Record is the parameter bundle of one grid cell. It is passed by value and
// never modified once loaded.
type Record struct {
	ID     int     // cell identifier
	SA     float64 // surface area [cm2]
	DU     float64 // initial layer top elevation [cm]
	DB     float64 // initial layer bottom elevation [cm]
	BO     float64 // organic bulk density [g/cm3]
	BI     float64 // inorganic bulk density [g/cm3]
	FO     float64 // organic fraction of deposited sediment
	K      float64 // labile decay rate [1/yr]
	FC     float64 // refractory fraction of organic matter
	RO     float64 // surface live-biomass concentration [g/cm3]
	RD     float64 // maximum root depth [cm]
	K1     float64 // biomass distribution decay rate [1/cm]
	K2     float64 // natural turnover rate [1/yr]
	K3     float64 // ash fraction of biomass
	SvToRo float64 // stem volume to biomass conversion
	WaToRl float64 // above-ground litter fraction
	B      float64 // net litter transport
}

// Depth is the thickness of the initial layer [cm].
func (r Record) Depth() float64 { return math.Abs(r.DB - r.DU) }

// FI is the inorganic fraction of deposited sediment.
func (r Record) FI() float64 { return 1 - r.FO }

// FL is the labile fraction of organic matter.
func (r Record) FL() float64 { return 1 - r.FC }

// UptakeRate is the first-order rate [1/yr] at which inorganic stock is
// drawn into above-ground production.
func (r Record) UptakeRate() float64 { return r.K3 * r.WaToRl * r.SvToRo }

// OrganicLength converts an organic mass per unit area [g/cm2] to the
// thickness it occupies once compacted [cm].
func (r Record) OrganicLength(mass float64) float64 { return mass / r.BO }

// InorganicLength is OrganicLength for mineral matter.
func (r Record) InorganicLength(mass float64) float64 { return mass / r.BI }

// Validate checks every field against its physical range.
func (r Record) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"sa", r.SA}, {"du", r.DU}, {"db", r.DB}, {"bo", r.BO}, {"bi", r.BI},
		{"fo", r.FO}, {"k", r.K}, {"fc", r.FC}, {"ro", r.RO}, {"rd", r.RD},
		{"k1", r.K1}, {"k2", r.K2}, {"k3", r.K3}, {"sv_to_ro", r.SvToRo},
		{"wa_to_rl", r.WaToRl}, {"b", r.B},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return semidec.Invalid("cell %d: %s is not finite", r.ID, f.name)
		}
	}

	positive := map[string]float64{"sa": r.SA, "bo": r.BO, "bi": r.BI}
	for name, v := range positive {
		if v <= 0 {
			return semidec.Invalid("cell %d: %s must be positive, got %g", r.ID, name, v)
		}
	}

	rates := map[string]float64{
		"k": r.K, "ro": r.RO, "rd": r.RD, "k1": r.K1, "k2": r.K2,
		"sv_to_ro": r.SvToRo, "wa_to_rl": r.WaToRl,
	}
	for name, v := range rates {
		if v < 0 {
			return semidec.Invalid("cell %d: %s must be non-negative, got %g", r.ID, name, v)
		}
	}

	fractions := map[string]float64{"fo": r.FO, "fc": r.FC, "k3": r.K3}
	for name, v := range fractions {
		if v < 0 || v > 1 {
			return semidec.Invalid("cell %d: %s must lie in [0, 1], got %g", r.ID, name, v)
		}
	}

	if r.Depth() <= 0 {
		return semidec.Invalid("cell %d: initial layer has no depth (du=%g, db=%g)", r.ID, r.DU, r.DB)
	}
	return nil
}
