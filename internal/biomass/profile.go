// Package biomass computes live below-ground biomass under an
// exponential-decay-with-depth profile truncated at the maximum root depth.
package biomass

import "math"

// Profile is the live-biomass concentration c(z) = Surface*exp(-Decay*z)
// for 0 <= z <= RootDepth and zero below it. Depths are positive downward.
type Profile struct {
	Surface   float64 // concentration at z = 0 [g/cm3]
	Decay     float64 // decay rate with depth [1/cm]
	RootDepth float64 // maximum root depth [cm]
}

// At returns the concentration at depth z.
func (p Profile) At(z float64) float64 {
	if z < 0 || z > p.RootDepth {
		return 0
	}
	return p.Surface * math.Exp(-p.Decay*z)
}

// Mass returns the closed-form integral of the profile over [top, bottom]
// [g/cm2]. The part of the interval below RootDepth contributes nothing.
func (p Profile) Mass(top, bottom float64) float64 {
	top = math.Max(top, 0)
	bottom = math.Min(bottom, p.RootDepth)
	if bottom <= top {
		return 0
	}
	if p.Decay == 0 {
		return p.Surface * (bottom - top)
	}
	return p.Surface / p.Decay * (math.Exp(-p.Decay*top) - math.Exp(-p.Decay*bottom))
}

// Share returns the fraction of the biomass held in [top, bottom] that lies
// in [lo, hi]. It depends only on the shape of the profile, not on Surface.
func (p Profile) Share(top, bottom, lo, hi float64) float64 {
	shape := Profile{Surface: 1, Decay: p.Decay, RootDepth: p.RootDepth}
	whole := shape.Mass(top, bottom)
	if whole <= 0 {
		return 0
	}
	part := shape.Mass(math.Max(lo, top), math.Min(hi, bottom))
	return math.Min(part/whole, 1)
}

// Distribution integrates the profile (r0, k1, rd) over [top, bottom].
func Distribution(top, bottom, r0, k1, rd float64) float64 {
	return Profile{Surface: r0, Decay: k1, RootDepth: rd}.Mass(top, bottom)
}
