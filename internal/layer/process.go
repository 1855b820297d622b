package layer

import (
	"math"

	"github.com/san-kum/semidec/internal/biomass"
	"github.com/san-kum/semidec/internal/constants"
)

// Profile is the live-biomass profile of c at surface concentration r0.
func Profile(c constants.Record, r0 float64) biomass.Profile {
	return biomass.Profile{Surface: r0, Decay: c.K1, RootDepth: c.RD}
}

// LiveBiomass is the live biomass of [top, bottom] as organic length.
func LiveBiomass(c constants.Record, r0, top, bottom float64) float64 {
	return c.OrganicLength(biomass.Distribution(top, bottom, r0, c.K1, c.RD))
}

// Turnover is the dead organic matter produced by natural turnover of the
// layer's live biomass over dt years. It is not limited by any stock.
func Turnover(l Layer, c constants.Record, dt float64) Stocks {
	t := c.K2 * l.Biomass * dt
	return Stocks{Labile: c.FL() * t, Refractory: c.FC * t}
}

// Burial converts the live biomass that is pushed below the root depth when
// the layer moves down by shift. Ash is carried into the inorganic pool at
// inorganic bulk density.
func Burial(l Layer, c constants.Record, shift float64) Stocks {
	if shift <= 0 || l.Biomass <= 0 {
		return Stocks{}
	}
	r := l.Biomass * Profile(c, 1).Share(l.Top, l.Bottom, c.RD-shift, c.RD)
	return Stocks{
		Labile:     (1 - c.K3) * c.FL() * r,
		Refractory: (1 - c.K3) * c.FC * r,
		Inorganic:  c.InorganicLength(c.K3 * r * c.BO),
	}
}

// Decompose decays the labile pool at rate K over dt years. The lost mass
// leaves the system.
func Decompose(s Stocks, c constants.Record, dt float64) Stocks {
	s.Labile *= math.Exp(-c.K * dt)
	return s
}

// Uptake draws the inorganic pool into above-ground production over dt years.
func Uptake(s Stocks, c constants.Record, dt float64) Stocks {
	s.Inorganic *= math.Exp(-c.UptakeRate() * dt)
	return s
}

// Erosion is what Erode removed from a layer.
type Erosion struct {
	Fraction float64
	Stocks   Stocks
	Biomass  float64
}

// ErodedFraction is the share of a layer of thickness depth removed by e
// centimetres of erosion, clamped to [0, 1].
func ErodedFraction(depth, e float64) float64 {
	if e <= 0 {
		return 0
	}
	if depth <= 0 {
		return 1
	}
	return math.Min(e/depth, 1)
}

// Erode strips e centimetres from the top of l. Every stock loses the eroded
// fraction and the live biomass of [Top, Top+e] is removed.
func Erode(l Layer, c constants.Record, e float64) (Layer, Erosion) {
	f := ErodedFraction(l.Depth(), e)
	if f == 0 {
		return l, Erosion{}
	}
	lost := Erosion{
		Fraction: f,
		Stocks:   l.Stocks.Scale(f),
		Biomass:  l.Biomass * Profile(c, 1).Share(l.Top, l.Bottom, l.Top, l.Top+e),
	}
	if f == 1 {
		lost.Biomass = l.Biomass
	}
	l.Stocks = l.Stocks.Scale(1 - f).NonNegative()
	l.Biomass = math.Max(l.Biomass-lost.Biomass, 0)
	return l, lost
}

// Deposit builds the new surface layer [0, d] laid down by d centimetres of
// deposition under surface concentration r0.
func Deposit(c constants.Record, d, r0 float64) Layer {
	organic := d * c.FO
	return Layer{
		Top:     0,
		Bottom:  d,
		Biomass: LiveBiomass(c, r0, 0, d),
		Stocks: Stocks{
			Labile:     organic * c.FL(),
			Refractory: organic * c.FC,
			Inorganic:  d * c.FI(),
		},
	}
}

// Initial seeds the single layer a cell starts with. The part of the layer
// not occupied by live biomass is split between the pools like deposited
// sediment.
func Initial(c constants.Record) Layer {
	depth := c.Depth()
	bio := LiveBiomass(c, c.RO, 0, depth)
	sediment := math.Max(depth-bio, 0)
	organic := sediment * c.FO
	return Layer{
		Top:     0,
		Bottom:  depth,
		Biomass: bio,
		Stocks: Stocks{
			Labile:     organic * c.FL(),
			Refractory: organic * c.FC,
			Inorganic:  sediment * c.FI(),
		},
	}
}
