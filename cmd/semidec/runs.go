package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/san-kum/semidec/internal/cell"
	"github.com/san-kum/semidec/internal/export"
	"github.com/san-kum/semidec/internal/layer"
	"github.com/san-kum/semidec/internal/storage"
	"github.com/san-kum/semidec/internal/viz"
)

// historyFields are the plottable columns of a run history.
var historyFields = map[string]func(storage.HistoryRow) float64{
	"elevation":     func(h storage.HistoryRow) float64 { return h.Elevation },
	"thickness":     func(h storage.HistoryRow) float64 { return h.Thickness },
	"layers":        func(h storage.HistoryRow) float64 { return float64(h.Layers) },
	"biomass":       func(h storage.HistoryRow) float64 { return h.Biomass },
	"labile":        func(h storage.HistoryRow) float64 { return h.Labile },
	"refractory":    func(h storage.HistoryRow) float64 { return h.Refractory },
	"inorganic":     func(h storage.HistoryRow) float64 { return h.Inorganic },
	"decomposition": func(h storage.HistoryRow) float64 { return h.Decomposition },
}

func historyFieldNames() []string {
	names := make([]string, 0, len(historyFields))
	for name := range historyFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// selectCell returns the --cell flag, or the first cell of the run when the
// flag was left unset.
func selectCell(cmd *cobra.Command, meta *storage.RunMetadata) (int, error) {
	if !cmd.Flags().Changed("cell") {
		if len(meta.Cells) == 0 {
			return 0, fmt.Errorf("run %s has no cells", meta.ID)
		}
		return meta.Cells[0], nil
	}
	if !slices.Contains(meta.Cells, cellID) {
		return 0, fmt.Errorf("run %s has no cell %d (cells: %v)", meta.ID, cellID, meta.Cells)
	}
	return cellID, nil
}

func cellHistory(rows []storage.HistoryRow, id int) []storage.HistoryRow {
	var out []storage.HistoryRow
	for _, h := range rows {
		if h.Cell == id {
			out = append(out, h)
		}
	}
	return out
}

// rowsToLayers rebuilds layers from a stored layer table.
func rowsToLayers(rows [][]float64) ([]layer.Layer, error) {
	width := len(cell.Headers())
	out := make([]layer.Layer, len(rows))
	for i, r := range rows {
		if len(r) != width {
			return nil, fmt.Errorf("layer %d: %d columns, want %d", i, len(r), width)
		}
		out[i] = layer.Layer{
			Top:     r[0],
			Bottom:  r[1],
			Biomass: r[3],
			Stocks:  layer.Stocks{Labile: r[4], Refractory: r[5], Inorganic: r[6]},
		}
	}
	return out, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCREATED\tCELLS\tSTEPS\tYEARS\tFORCING")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%g\t%s\n",
			run.ID,
			run.Name,
			humanize.Time(run.Timestamp),
			len(run.Cells),
			run.Steps,
			run.Years*float64(run.Steps),
			run.Forcing,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Println(viz.HeaderStyle().Render("run " + meta.ID))
	fmt.Println(viz.KeyValue("name", meta.Name))
	fmt.Println(viz.KeyValue("created", meta.Timestamp.Format("2006-01-02 15:04:05")))
	fmt.Println(viz.KeyValue("constants", meta.Constants))
	fmt.Println(viz.KeyValue("forcing", meta.Forcing))
	fmt.Println(viz.KeyValue("steps", fmt.Sprintf("%d x %g y (%d substeps)", meta.Steps, meta.Years, meta.SubSteps)))
	fmt.Println()

	for _, id := range meta.Cells {
		fmt.Println(viz.HeaderStyle().Render(fmt.Sprintf("cell %d", id)))
		values := meta.Metrics[id]
		names := make([]string, 0, len(values))
		for name := range values {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Println(viz.KeyValue(name, fmt.Sprintf("%.6f", values[name])))
		}
		fmt.Println()
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	id, err := selectCell(cmd, meta)
	if err != nil {
		return err
	}
	rows, err := st.LoadHistory(meta.ID)
	if err != nil {
		return err
	}
	rows = cellHistory(rows, id)
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	names := historyFieldNames()
	if field != "" {
		if _, ok := historyFields[field]; !ok {
			return fmt.Errorf("unknown field %q (available: %v)", field, names)
		}
		names = []string{field}
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("cell: %d\n", id)
	fmt.Printf("steps: %d\n\n", len(rows))

	for _, name := range names {
		get := historyFields[name]
		data := make([]float64, len(rows))
		for i, h := range rows {
			data[i] = get(h)
		}
		fmt.Println(viz.HistoryPlot(data, name, 80, 10))
		fmt.Println()
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	id, err := selectCell(cmd, meta)
	if err != nil {
		return err
	}
	rows, err := st.LoadLayers(meta.ID, id)
	if err != nil {
		return err
	}
	return export.WriteCSV(os.Stdout, cell.Headers(), rows)
}

type runExport struct {
	*storage.RunMetadata
	History []storage.HistoryRow `json:"history"`
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	history, err := st.LoadHistory(meta.ID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(runExport{RunMetadata: meta, History: history})
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	id, err := selectCell(cmd, meta)
	if err != nil {
		return err
	}

	rows, err := st.LoadLayers(meta.ID, id)
	if err != nil {
		return err
	}
	layers, err := rowsToLayers(rows)
	if err != nil {
		return err
	}
	history, err := st.LoadHistory(meta.ID)
	if err != nil {
		return err
	}
	history = cellHistory(history, id)
	xs := make([]float64, len(history))
	ys := make([]float64, len(history))
	for i, h := range history {
		xs[i], ys[i] = h.Elapsed, h.Elevation
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	files := map[string]string{
		fmt.Sprintf("cell_%d_column.svg", id):    export.ColumnSVG(layers, 240, 600),
		fmt.Sprintf("cell_%d_elevation.svg", id): export.SeriesSVG(xs, ys, 600, 300, "#2e8b57"),
	}
	for name, svg := range files {
		if svg == "" {
			continue
		}
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Println(path)
	}
	return nil
}
