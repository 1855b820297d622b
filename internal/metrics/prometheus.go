package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Exporter mirrors metric values into labelled Prometheus gauges so a batch
// run can leave them in a node_exporter textfile.
type Exporter struct {
	reg    *prometheus.Registry
	gauges map[string]*prometheus.GaugeVec
}

func NewExporter(names []string) *Exporter {
	e := &Exporter{
		reg:    prometheus.NewRegistry(),
		gauges: make(map[string]*prometheus.GaugeVec, len(names)),
	}
	for _, name := range names {
		g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "semidec",
			Name:      name,
			Help:      "Per-cell " + name + " at the end of the last step.",
		}, []string{"cell"})
		e.reg.MustRegister(g)
		e.gauges[name] = g
	}
	return e
}

// Set records the values of ms for one cell. Unknown names are ignored.
func (e *Exporter) Set(cellID int, ms []Metric) {
	label := strconv.Itoa(cellID)
	for _, m := range ms {
		if g, ok := e.gauges[m.Name()]; ok {
			g.WithLabelValues(label).Set(m.Value())
		}
	}
}

func (e *Exporter) Registry() *prometheus.Registry { return e.reg }

// WriteTextfile writes the gauges in Prometheus text format.
func (e *Exporter) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, e.reg)
}
