package viz

import (
	"fmt"
	"slices"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/semidec/internal/cell"
)

// ProfilePlot plots one column of the layer table against layer index from
// the surface down, e.g. "labile".
func ProfilePlot(c cell.Cell, column string, width, height int) (string, error) {
	idx := slices.Index(cell.Headers(), column)
	if idx < 0 {
		return "", fmt.Errorf("unknown column %q, want one of %v", column, cell.Headers())
	}
	rows := c.Rows()
	if len(rows) == 0 {
		return "", fmt.Errorf("cell %d has no layers", c.ID())
	}

	data := make([]float64, len(rows))
	for i, r := range rows {
		data[i] = r[idx]
	}
	return plot(data, width, height, fmt.Sprintf("%s by layer (surface → bottom), cell %d", column, c.ID())), nil
}

// HistoryPlot plots a per-step series.
func HistoryPlot(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	return plot(values, width, height, caption)
}

func plot(data []float64, width, height int, caption string) string {
	if len(data) == 1 {
		data = []float64{data[0], data[0]}
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
