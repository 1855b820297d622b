// Package cell models one grid cell of the marsh: its constants, surface
// live-biomass concentration and sediment column.
package cell

import (
	"fmt"
	"slices"

	"github.com/san-kum/semidec/internal/constants"
	"github.com/san-kum/semidec/internal/engine"
	"github.com/san-kum/semidec/internal/layer"
	"github.com/san-kum/semidec/internal/semidec"
)

// Cell is an immutable snapshot of a cell. StepForward returns a new Cell and
// leaves the receiver untouched, so snapshots can be kept as history.
type Cell struct {
	engine  engine.Engine
	surface float64
	elapsed float64
	steps   int
	layers  []layer.Layer
	flux    engine.Flux
}

// New seeds a cell with a single layer spanning its initial depth.
func New(c constants.Record) (Cell, error) {
	e, err := engine.New(c)
	if err != nil {
		return Cell{}, err
	}
	return Cell{
		engine:  e,
		surface: c.RO,
		layers:  []layer.Layer{layer.Initial(c)},
	}, nil
}

func (c Cell) ID() int                     { return c.engine.Constants().ID }
func (c Cell) Constants() constants.Record { return c.engine.Constants() }
func (c Cell) Surface() float64            { return c.surface }
func (c Cell) Elapsed() float64            { return c.elapsed }
func (c Cell) Steps() int                  { return c.steps }
func (c Cell) Flux() engine.Flux           { return c.flux }
func (c Cell) Layers() []layer.Layer       { return slices.Clone(c.layers) }
func (c Cell) Len() int                    { return len(c.layers) }
func (c Cell) Layer(i int) layer.Layer     { return c.layers[i] }

// Thickness is the depth of the bottom of the column.
func (c Cell) Thickness() float64 {
	if len(c.layers) == 0 {
		return 0
	}
	return c.layers[len(c.layers)-1].Bottom
}

// Elevation is the surface elevation [cm]. The base of the initial layer is
// fixed, so the surface moves with the column thickness.
func (c Cell) Elevation() float64 {
	k := c.engine.Constants()
	return k.DU + c.Thickness() - k.Depth()
}

// Totals sums the stocks of every layer.
func (c Cell) Totals() layer.Stocks {
	var s layer.Stocks
	for _, l := range c.layers {
		s = s.Add(l.Stocks)
	}
	return s
}

// LiveBiomass sums the live biomass of every layer.
func (c Cell) LiveBiomass() float64 {
	var b float64
	for _, l := range c.layers {
		b += l.Biomass
	}
	return b
}

// StepForward advances the cell by years with the given signed deposition [cm]
// and target surface concentration [g/cm3], split into subSteps equal
// substeps. The surface concentration moves linearly from the current value
// to the target and reaches it on the last substep.
func (c Cell) StepForward(deposition, surface, years float64, subSteps int) (Cell, error) {
	if subSteps < 1 {
		return Cell{}, semidec.Invalid("subSteps must be at least 1, got %d", subSteps)
	}
	if err := engine.CheckForcing(deposition, surface, years); err != nil {
		return Cell{}, err
	}

	n := float64(subSteps)
	dep := deposition / n
	dt := years / n
	layers := c.layers
	var flux engine.Flux

	for i := 0; i < subSteps; i++ {
		r := surface
		if i < subSteps-1 {
			r = c.surface + (surface-c.surface)*float64(i+1)/n
		}
		next, f, err := c.engine.Advance(layers, dep, r, dt)
		if err != nil {
			return Cell{}, fmt.Errorf("substep %d: %w", i, err)
		}
		layers = next
		flux = flux.Add(f)
	}

	out := c
	out.layers = layers
	out.surface = surface
	out.elapsed = c.elapsed + years
	out.steps = c.steps + 1
	out.flux = flux
	return out, nil
}
