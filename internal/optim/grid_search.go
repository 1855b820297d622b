// Package optim sweeps a grid of parameter values and ranks the runs by a
// metric.
package optim

import (
	"context"
	"fmt"
	"maps"
	"math"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/semidec/internal/cell"
	"github.com/san-kum/semidec/internal/constants"
	"github.com/san-kum/semidec/internal/forcing"
	"github.com/san-kum/semidec/internal/metrics"
	"github.com/san-kum/semidec/internal/semidec"
)

// Forcing parameter names accepted besides the constants keys.
const (
	ParamDeposition = "deposition"
	ParamSurface    = "surface"
)

// Evaluate runs one grid point and returns its metric values.
type Evaluate func(ctx context.Context, params map[string]float64) (map[string]float64, error)

// Point is one evaluated grid point.
type Point struct {
	Params  map[string]float64
	Metrics map[string]float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, semidec.Invalid("%d parameters with %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, semidec.Invalid("parameter %q has no values", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Points returns the cartesian product of the ranges, the last parameter
// varying fastest.
func (g *GridSearch) Points() []map[string]float64 {
	var out []map[string]float64
	g.collect(0, map[string]float64{}, &out)
	return out
}

func (g *GridSearch) collect(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, maps.Clone(current))
		return
	}
	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		g.collect(depth+1, current, out)
	}
	delete(current, name)
}

// Sweep evaluates every point with at most workers running at once and
// returns them in Points order. The first error cancels the sweep.
func (g *GridSearch) Sweep(ctx context.Context, eval Evaluate, workers int) ([]Point, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	points := g.Points()
	out := make([]Point, len(points))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, params := range points {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := eval(ctx, params)
			if err != nil {
				return fmt.Errorf("point %v: %w", params, err)
			}
			out[i] = Point{Params: params, Metrics: m}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Rank orders points by the distance of metric from target, closest first.
// Points missing the metric are dropped.
func Rank(points []Point, metric string, target float64) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if _, ok := p.Metrics[metric]; ok {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b Point) int {
		da := math.Abs(a.Metrics[metric] - target)
		db := math.Abs(b.Metrics[metric] - target)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})
	return out
}

// CellEvaluator steps a single cell under constant forcing. Parameters named
// deposition or surface override the forcing; any other name is a constants
// key applied to base.
func CellEvaluator(base constants.Record, in forcing.Input, steps int, years float64, subSteps int) Evaluate {
	return func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		r := base
		for name, v := range params {
			switch name {
			case ParamDeposition:
				in.Deposition = v
			case ParamSurface:
				in.Surface = v
			default:
				var err error
				if r, err = r.With(name, v); err != nil {
					return nil, err
				}
			}
		}

		c, err := cell.New(r)
		if err != nil {
			return nil, err
		}
		ms := metrics.Standard()
		observe := func(c cell.Cell) {
			for _, m := range ms {
				m.Observe(c)
			}
		}
		observe(c)
		for i := 0; i < steps; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if c, err = c.StepForward(in.Deposition, in.Surface, years, subSteps); err != nil {
				return nil, fmt.Errorf("step %d: %w", i, err)
			}
			observe(c)
		}
		out := metrics.Snapshot(ms)
		out["elevation"] = c.Elevation()
		return out, nil
	}
}
