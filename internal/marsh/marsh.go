// Package marsh advances a set of independent cells together. Cells share no
// state, so each step fans out over a bounded pool of workers.
package marsh

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"github.com/san-kum/semidec/internal/cell"
	"github.com/san-kum/semidec/internal/constants"
	"github.com/san-kum/semidec/internal/forcing"
	"github.com/san-kum/semidec/internal/semidec"
)

// Marsh is an immutable set of cells ordered by id.
type Marsh struct {
	cells   []cell.Cell
	index   map[int]int
	workers int
	log     *slog.Logger
}

type Option func(*Marsh)

// WithWorkers bounds the number of goroutines used per step.
func WithWorkers(n int) Option {
	return func(m *Marsh) {
		if n > 0 {
			m.workers = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Marsh) {
		if l != nil {
			m.log = l
		}
	}
}

// New seeds one cell per record. Ids must be unique.
func New(records []constants.Record, opts ...Option) (Marsh, error) {
	m := Marsh{
		index:   make(map[int]int, len(records)),
		workers: runtime.GOMAXPROCS(0),
		log:     slog.Default(),
	}
	for _, o := range opts {
		o(&m)
	}

	sorted := slices.Clone(records)
	slices.SortFunc(sorted, func(a, b constants.Record) int { return cmp.Compare(a.ID, b.ID) })
	for _, r := range sorted {
		if _, dup := m.index[r.ID]; dup {
			return Marsh{}, semidec.Invalid("duplicate cell id %d", r.ID)
		}
		c, err := cell.New(r)
		if err != nil {
			return Marsh{}, fmt.Errorf("cell %d: %w", r.ID, err)
		}
		m.index[r.ID] = len(m.cells)
		m.cells = append(m.cells, c)
	}
	return m, nil
}

func (m Marsh) Len() int { return len(m.cells) }

// IDs returns the cell ids in ascending order.
func (m Marsh) IDs() []int {
	ids := make([]int, len(m.cells))
	for i, c := range m.cells {
		ids[i] = c.ID()
	}
	return ids
}

func (m Marsh) Cell(id int) (cell.Cell, error) {
	i, ok := m.index[id]
	if !ok {
		return cell.Cell{}, fmt.Errorf("%w: %d", semidec.ErrUnknownCell, id)
	}
	return m.cells[i], nil
}

// Cells returns the cells in id order.
func (m Marsh) Cells() []cell.Cell { return slices.Clone(m.cells) }

// Step advances every cell named in inputs by years. Cells not named keep
// their state. Unknown ids fail the whole step before any cell moves.
func (m Marsh) Step(ctx context.Context, inputs map[int]forcing.Input, years float64, subSteps int) (Marsh, error) {
	if err := ctx.Err(); err != nil {
		return Marsh{}, err
	}

	todo := make([]int, 0, len(inputs))
	for id := range inputs {
		i, ok := m.index[id]
		if !ok {
			return Marsh{}, fmt.Errorf("%w: %d", semidec.ErrUnknownCell, id)
		}
		todo = append(todo, i)
	}
	slices.Sort(todo)

	next := slices.Clone(m.cells)
	errs := make([]error, len(todo))

	parallelFor(len(todo), m.workers, func(start, end int) {
		for k := start; k < end; k++ {
			if err := ctx.Err(); err != nil {
				errs[k] = err
				return
			}
			i := todo[k]
			c := m.cells[i]
			in := inputs[c.ID()]
			stepped, err := c.StepForward(in.Deposition, in.Surface, years, subSteps)
			if err != nil {
				errs[k] = &semidec.StepError{Cell: c.ID(), Step: c.Steps(), Years: c.Elapsed(), Wrapped: err}
				continue
			}
			next[i] = stepped
			m.logStep(stepped)
		}
	})

	for _, err := range errs {
		if err != nil {
			return Marsh{}, err
		}
	}

	out := m
	out.cells = next
	return out, nil
}

func (m Marsh) logStep(c cell.Cell) {
	f := c.Flux()
	m.log.Debug("cell stepped",
		"cell", c.ID(),
		"step", c.Steps(),
		"layers", c.Len(),
		"elevation", c.Elevation(),
		"decomposed", f.Decomposition)
	if f.Collapsed > 0 {
		m.log.Warn("layers collapsed", "cell", c.ID(), "step", c.Steps(), "count", f.Collapsed)
	}
	if f.LostErosion > 0 {
		m.log.Warn("erosion exceeded column", "cell", c.ID(), "step", c.Steps(), "lost", f.LostErosion)
	}
}

// parallelFor splits [0, n) into at most workers contiguous chunks.
func parallelFor(n, workers int, fn func(start, end int)) {
	if n == 0 {
		return
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
