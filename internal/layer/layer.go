// Package layer holds the sediment layer value and the pure per-layer
// processes applied to it: turnover, burial, decomposition, inorganic uptake,
// erosion and deposition.
package layer

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Stocks are the dead sediment pools of a layer, expressed as the compacted
// thickness each pool occupies [cm].
type Stocks struct {
	Labile     float64
	Refractory float64
	Inorganic  float64
}

// Total is the combined thickness of all pools.
func (s Stocks) Total() float64 {
	return floats.Sum([]float64{s.Labile, s.Refractory, s.Inorganic})
}

// Organic is the labile plus refractory thickness.
func (s Stocks) Organic() float64 { return s.Labile + s.Refractory }

func (s Stocks) Add(o Stocks) Stocks {
	return Stocks{
		Labile:     s.Labile + o.Labile,
		Refractory: s.Refractory + o.Refractory,
		Inorganic:  s.Inorganic + o.Inorganic,
	}
}

func (s Stocks) Scale(f float64) Stocks {
	return Stocks{
		Labile:     s.Labile * f,
		Refractory: s.Refractory * f,
		Inorganic:  s.Inorganic * f,
	}
}

// NonNegative clamps every pool at zero.
func (s Stocks) NonNegative() Stocks {
	return Stocks{
		Labile:     math.Max(s.Labile, 0),
		Refractory: math.Max(s.Refractory, 0),
		Inorganic:  math.Max(s.Inorganic, 0),
	}
}

// Layer is one horizontal slab of the sediment column. Depths are measured
// positive downward from the cell surface.
type Layer struct {
	Top     float64
	Bottom  float64
	Biomass float64 // live biomass as compacted organic length [cm]
	Stocks
}

// Depth is the thickness of the layer.
func (l Layer) Depth() float64 { return l.Bottom - l.Top }

// Valid reports whether the layer is ordered and every quantity is finite and
// non-negative.
func (l Layer) Valid() bool {
	vals := []float64{l.Top, l.Bottom, l.Biomass, l.Labile, l.Refractory, l.Inorganic}
	if floats.HasNaN(vals) {
		return false
	}
	for _, v := range vals {
		if math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return l.Top <= l.Bottom
}
