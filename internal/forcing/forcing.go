// Package forcing supplies the per-step driving inputs of a marsh run:
// deposition and surface live-biomass concentration for each cell.
package forcing

import (
	"github.com/san-kum/semidec/internal/semidec"
)

// Input drives one cell for one step.
type Input struct {
	Deposition float64 `json:"deposition" yaml:"deposition"` // signed, negative is erosion [cm]
	Surface    float64 `json:"surface" yaml:"surface"`       // surface live-biomass concentration [g/cm3]
}

// Series yields the inputs of each step for a set of cells.
type Series interface {
	Steps() int
	Inputs(step int, cells []int) (map[int]Input, error)
}

func checkStep(step, n int) error {
	if step < 0 || step >= n {
		return semidec.Invalid("step %d outside series of %d steps", step, n)
	}
	return nil
}

// Constant applies the same input to every cell at every step.
type Constant struct {
	Input
	N int
}

func (c Constant) Steps() int { return c.N }

func (c Constant) Inputs(step int, cells []int) (map[int]Input, error) {
	if err := checkStep(step, c.N); err != nil {
		return nil, err
	}
	out := make(map[int]Input, len(cells))
	for _, id := range cells {
		out[id] = c.Input
	}
	return out, nil
}

// Pulse is a constant series with a storm deposit replacing the base
// deposition every Every steps, starting at step Every-1.
type Pulse struct {
	Base       Input
	Every      int
	Deposition float64
	N          int
}

func (p Pulse) Steps() int { return p.N }

func (p Pulse) Inputs(step int, cells []int) (map[int]Input, error) {
	if err := checkStep(step, p.N); err != nil {
		return nil, err
	}
	in := p.Base
	if p.Every > 0 && (step+1)%p.Every == 0 {
		in.Deposition = p.Deposition
	}
	out := make(map[int]Input, len(cells))
	for _, id := range cells {
		out[id] = in
	}
	return out, nil
}
