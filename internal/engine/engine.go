// Package engine advances a sediment column by one (sub)step.
//
// Advance is a left fold over the layers from the surface down. The
// accumulator carries the next free depth and the erosion not yet absorbed,
// so whatever happens to a layer decides where the layer below it starts.
// Per layer the processes run in a fixed order:
//
//  1. turnover and burial of live biomass
//  2. decomposition of labile and uptake of inorganic stock
//  3. turnover and burial added to the stocks
//  4. erosion of the stocks
//  5. recomputed thickness and live biomass re-derived over the new interval
//
// A positive deposition then becomes a new surface layer.
package engine

import (
	"math"

	"github.com/san-kum/semidec/internal/constants"
	"github.com/san-kum/semidec/internal/layer"
	"github.com/san-kum/semidec/internal/semidec"
)

// Flux totals what a call to Advance moved between pools. Lengths are
// compacted thickness [cm].
type Flux struct {
	Turnover      float64 `json:"turnover"`
	Burial        float64 `json:"burial"`
	Decomposition float64 `json:"decomposition"`
	Uptake        float64 `json:"uptake"`
	Eroded        float64 `json:"eroded"`
	ErodedBiomass float64 `json:"eroded_biomass"`
	Deposited     float64 `json:"deposited"`
	LostErosion   float64 `json:"lost_erosion"`
	Collapsed     int     `json:"collapsed"`
}

// Add sums two fluxes.
func (f Flux) Add(o Flux) Flux {
	return Flux{
		Turnover:      f.Turnover + o.Turnover,
		Burial:        f.Burial + o.Burial,
		Decomposition: f.Decomposition + o.Decomposition,
		Uptake:        f.Uptake + o.Uptake,
		Eroded:        f.Eroded + o.Eroded,
		ErodedBiomass: f.ErodedBiomass + o.ErodedBiomass,
		Deposited:     f.Deposited + o.Deposited,
		LostErosion:   f.LostErosion + o.LostErosion,
		Collapsed:     f.Collapsed + o.Collapsed,
	}
}

// Engine applies the layer processes for one constants record.
type Engine struct {
	c constants.Record
}

func New(c constants.Record) (Engine, error) {
	if err := c.Validate(); err != nil {
		return Engine{}, err
	}
	return Engine{c: c}, nil
}

func (e Engine) Constants() constants.Record { return e.c }

type accumulator struct {
	cursor  float64 // top of the next layer
	erosion float64 // erosion still to be absorbed
	flux    Flux
}

type forcing struct {
	deposition float64
	surface    float64
	dt         float64
}

// Advance returns the column after dt years with the given signed deposition
// [cm] and surface live-biomass concentration [g/cm3]. The input slice is not
// modified.
func (e Engine) Advance(layers []layer.Layer, deposition, surface, dt float64) ([]layer.Layer, Flux, error) {
	if err := CheckForcing(deposition, surface, dt); err != nil {
		return nil, Flux{}, err
	}
	for i, l := range layers {
		if !l.Valid() {
			return nil, Flux{}, semidec.Invalid("layer %d is malformed: %+v", i, l)
		}
	}
	out, flux := e.advance(layers, forcing{deposition: deposition, surface: surface, dt: dt})
	return out, flux, nil
}

// CheckForcing validates the driving inputs of one step.
func CheckForcing(deposition, surface, dt float64) error {
	switch {
	case !finite(deposition):
		return semidec.Invalid("deposition is not finite: %v", deposition)
	case !finite(surface) || surface < 0:
		return semidec.Invalid("surface concentration must be finite and non-negative, got %v", surface)
	case !finite(dt) || dt < 0:
		return semidec.Invalid("timestep must be finite and non-negative, got %v", dt)
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func (e Engine) advance(layers []layer.Layer, in forcing) ([]layer.Layer, Flux) {
	out := make([]layer.Layer, 0, len(layers)+1)
	acc := accumulator{}
	if in.deposition > 0 {
		out = append(out, layer.Deposit(e.c, in.deposition, in.surface))
		acc.cursor = in.deposition
		acc.flux.Deposited = in.deposition
	} else if in.deposition < 0 {
		acc.erosion = -in.deposition
	}

	for _, l := range layers {
		var next layer.Layer
		var kept bool
		acc, next, kept = e.fold(acc, l, in)
		if kept {
			out = append(out, next)
		}
	}

	acc.flux.LostErosion = acc.erosion
	return out, acc.flux
}

func (e Engine) fold(acc accumulator, l layer.Layer, in forcing) (accumulator, layer.Layer, bool) {
	c := e.c
	depth := l.Depth()
	eroded := math.Min(acc.erosion, depth)
	acc.erosion -= eroded

	turnover := layer.Turnover(l, c, in.dt)
	var burial layer.Stocks
	if in.deposition > 0 {
		burial = layer.Burial(l, c, in.deposition)
	}

	decayed := layer.Uptake(layer.Decompose(l.Stocks, c, in.dt), c, in.dt)
	stocks := decayed.Add(turnover).Add(burial)
	grown := stocks.Total() - l.Stocks.Total()

	stripped, lost := layer.Erode(layer.Layer{Top: l.Top, Bottom: l.Bottom, Biomass: l.Biomass, Stocks: stocks}, c, eroded)

	acc.flux.Turnover += turnover.Total()
	acc.flux.Burial += burial.Total()
	acc.flux.Decomposition += l.Labile - decayed.Labile
	acc.flux.Uptake += l.Inorganic - decayed.Inorganic
	acc.flux.Eroded += lost.Stocks.Total()
	acc.flux.ErodedBiomass += lost.Biomass

	thickness := (depth + grown) * (1 - lost.Fraction)
	if thickness <= 0 {
		acc.flux.Collapsed++
		return acc, layer.Layer{}, false
	}

	top := acc.cursor
	bottom := top + thickness
	if top == l.Top && thickness == depth {
		bottom = l.Bottom
	}
	acc.cursor = bottom

	return acc, layer.Layer{
		Top:     top,
		Bottom:  bottom,
		Biomass: layer.LiveBiomass(c, in.surface, top, bottom),
		Stocks:  stripped.Stocks,
	}, true
}
