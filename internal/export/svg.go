package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/semidec/internal/layer"
)

// Pool colours of the column drawing, surface to bottom order of the legend.
const (
	labileColor     = "#7fbf3f"
	refractoryColor = "#8b5a2b"
	inorganicColor  = "#b0b0b0"
	biomassColor    = "#2e8b57"
)

// ColumnSVG draws the sediment column as a stratigraphic log: one band per
// layer, its height proportional to thickness and split horizontally by the
// share of each pool.
func ColumnSVG(layers []layer.Layer, width, height int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	if len(layers) == 0 || layers[len(layers)-1].Bottom <= 0 {
		sb.WriteString("</svg>")
		return sb.String()
	}

	scale := float64(height) / layers[len(layers)-1].Bottom
	for _, l := range layers {
		y := l.Top * scale
		h := l.Depth() * scale
		parts := []struct {
			value float64
			color string
		}{
			{l.Biomass, biomassColor},
			{l.Labile, labileColor},
			{l.Refractory, refractoryColor},
			{l.Inorganic, inorganicColor},
		}
		total := l.Biomass + l.Total()
		if total <= 0 {
			continue
		}
		x := 0.0
		for _, p := range parts {
			w := p.value / total * float64(width)
			if w > 0 {
				fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, x, y, w, h, p.color)
			}
			x += w
		}
		fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#0a0a0a" stroke-width="0.5"/>
`, y, width, y)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesSVG plots y against x as a polyline, e.g. elevation over time.
func SeriesSVG(xs, ys []float64, width, height int, strokeColor string) string {
	n := min(len(xs), len(ys))
	if n < 2 {
		return ""
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 0; i < n; i++ {
		minX, maxX = min(minX, xs[i]), max(maxX, xs[i])
		minY, maxY = min(minY, ys[i]), max(maxY, ys[i])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i := 0; i < n; i++ {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
