package viz

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/semidec/internal/cell"
)

// LayerTable renders the layer stack of c, surface first. At most limit rows
// are shown; limit <= 0 shows all of them.
func LayerTable(c cell.Cell, limit int) string {
	rows := c.Rows()
	hidden := 0
	if limit > 0 && len(rows) > limit {
		hidden = len(rows) - limit
		rows = rows[:limit]
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(CurrentTheme.Muted)).
		Headers(append([]string{"#"}, cell.Headers()...)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(CurrentTheme.Primary)
			}
			switch cell.Headers()[max(col-1, 0)] {
			case "labile":
				return s.Foreground(CurrentTheme.Labile)
			case "refractory":
				return s.Foreground(CurrentTheme.Refractory)
			case "inorganic":
				return s.Foreground(CurrentTheme.Inorganic)
			case "biomass":
				return s.Foreground(CurrentTheme.Biomass)
			}
			return s.Foreground(CurrentTheme.Text)
		})

	for i, row := range rows {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, strconv.Itoa(i))
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(v, 'f', 4, 64))
		}
		t.Row(rec...)
	}

	out := t.Render()
	if hidden > 0 {
		out += "\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Render(fmt.Sprintf("… %d deeper layers", hidden))
	}
	return out
}

// Summary renders the headline numbers of c.
func Summary(c cell.Cell) string {
	tot := c.Totals()
	f := c.Flux()
	lines := []string{
		HeaderStyle().Render(fmt.Sprintf("cell %d", c.ID())),
		KeyValue("elapsed", fmt.Sprintf("%.2f y (%d steps)", c.Elapsed(), c.Steps())),
		KeyValue("elevation", fmt.Sprintf("%.4f cm", c.Elevation())),
		KeyValue("thickness", fmt.Sprintf("%.4f cm", c.Thickness())),
		KeyValue("layers", strconv.Itoa(c.Len())),
		KeyValue("live biomass", fmt.Sprintf("%.4f cm", c.LiveBiomass())),
		KeyValue("labile", fmt.Sprintf("%.4f cm", tot.Labile)),
		KeyValue("refractory", fmt.Sprintf("%.4f cm", tot.Refractory)),
		KeyValue("inorganic", fmt.Sprintf("%.4f cm", tot.Inorganic)),
	}
	if f.LostErosion > 0 {
		lines = append(lines, WarningStyle().Render(fmt.Sprintf("erosion exceeded column by %.4f cm", f.LostErosion)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
