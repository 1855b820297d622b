// Package metrics accumulates per-cell summaries over a run.
package metrics

import (
	"github.com/san-kum/semidec/internal/cell"
)

// Metric observes a cell after each step.
type Metric interface {
	Name() string
	Observe(c cell.Cell)
	Value() float64
	Reset()
}

// Standard returns a fresh instance of every built-in metric.
func Standard() []Metric {
	return []Metric{NewAccretion(), NewOrganicStock(), NewLayerCount(), NewDecomposition()}
}

// Snapshot collects the current values keyed by name.
func Snapshot(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Accretion is the elevation gained since the first observation [cm].
type Accretion struct {
	name    string
	start   float64
	current float64
	samples int
}

func NewAccretion() *Accretion {
	return &Accretion{name: "accretion"}
}

func (a *Accretion) Name() string { return a.name }

func (a *Accretion) Observe(c cell.Cell) {
	if a.samples == 0 {
		a.start = c.Elevation()
	}
	a.current = c.Elevation()
	a.samples++
}

func (a *Accretion) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.current - a.start
}

func (a *Accretion) Reset() {
	a.start = 0
	a.current = 0
	a.samples = 0
}

// OrganicStock is the labile plus refractory thickness at the last
// observation [cm].
type OrganicStock struct {
	name  string
	value float64
}

func NewOrganicStock() *OrganicStock {
	return &OrganicStock{name: "organic_stock"}
}

func (o *OrganicStock) Name() string        { return o.name }
func (o *OrganicStock) Observe(c cell.Cell) { o.value = c.Totals().Organic() }
func (o *OrganicStock) Value() float64      { return o.value }
func (o *OrganicStock) Reset()              { o.value = 0 }

// LayerCount is the number of layers at the last observation.
type LayerCount struct {
	name  string
	count int
}

func NewLayerCount() *LayerCount {
	return &LayerCount{name: "layers"}
}

func (l *LayerCount) Name() string        { return l.name }
func (l *LayerCount) Observe(c cell.Cell) { l.count = c.Len() }
func (l *LayerCount) Value() float64      { return float64(l.count) }
func (l *LayerCount) Reset()              { l.count = 0 }

// Decomposition is the labile thickness lost to decay over all observed
// steps [cm].
type Decomposition struct {
	name  string
	total float64
}

func NewDecomposition() *Decomposition {
	return &Decomposition{name: "decomposition"}
}

func (d *Decomposition) Name() string        { return d.name }
func (d *Decomposition) Observe(c cell.Cell) { d.total += c.Flux().Decomposition }
func (d *Decomposition) Value() float64      { return d.total }
func (d *Decomposition) Reset()              { d.total = 0 }
