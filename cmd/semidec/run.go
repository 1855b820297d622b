package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/semidec/internal/catalog"
	"github.com/san-kum/semidec/internal/cell"
	"github.com/san-kum/semidec/internal/config"
	"github.com/san-kum/semidec/internal/marsh"
	"github.com/san-kum/semidec/internal/metrics"
	"github.com/san-kum/semidec/internal/storage"
	"github.com/san-kum/semidec/internal/viz"
)

// runConfig resolves the run configuration: preset, then config file, then
// any flag set explicitly on the command line.
func runConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("constants") {
		cfg.Constants = constantsFile
	}
	if flags.Changed("forcing") {
		cfg.Forcing.File = forcingFile
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("years") {
		cfg.Years = years
	}
	if flags.Changed("substeps") {
		cfg.SubSteps = subSteps
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("deposition") {
		cfg.Forcing.Deposition = deposition
	}
	if flags.Changed("surface") {
		cfg.Forcing.Surface = surface
	}
	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := runConfig(cmd)
	if err != nil {
		return err
	}
	records, err := cfg.Records()
	if err != nil {
		return err
	}
	series, err := cfg.Series()
	if err != nil {
		return err
	}

	log := slog.Default()
	m, err := marsh.New(records, marsh.WithWorkers(cfg.Workers), marsh.WithLogger(log))
	if err != nil {
		return err
	}

	tracked := make(map[int][]metrics.Metric, m.Len())
	for _, c := range m.Cells() {
		ms := metrics.Standard()
		for _, x := range ms {
			x.Observe(c)
		}
		tracked[c.ID()] = ms
	}

	var history []storage.HistoryRow
	total := series.Steps()
	observe := func(step int, m marsh.Marsh) error {
		fmt.Fprint(os.Stderr, progressLine(step+1, total))
		for _, c := range m.Cells() {
			for _, x := range tracked[c.ID()] {
				x.Observe(c)
			}
			history = append(history, storage.Summarise(step, c))
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s: %d cells, %d steps...\n", cfg.Name, m.Len(), series.Steps())
	start := time.Now()
	final, err := marsh.Run(ctx, m, series, cfg.Years, cfg.SubSteps, observe)
	if err != nil {
		return err
	}
	if total > 0 {
		fmt.Fprintln(os.Stderr)
	}
	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Name:      cfg.Name,
		Constants: constantsSource(cfg),
		Forcing:   forcingSource(cfg),
		Steps:     series.Steps(),
		Years:     cfg.Years,
		SubSteps:  cfg.SubSteps,
		Metrics:   make(map[int]map[string]float64, len(tracked)),
	}
	for id, ms := range tracked {
		meta.Metrics[id] = metrics.Snapshot(ms)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(meta, final.Cells(), history)
	if err != nil {
		return err
	}
	log.Info("run saved", "id", runID, "dir", st.Dir())

	if catalogPath != "" {
		if err := recordRun(ctx, st, runID, history); err != nil {
			return err
		}
	}
	if promTextfile != "" {
		if err := writeMetrics(tracked); err != nil {
			return err
		}
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n\n", runID)
	printCells(final.Cells(), tracked)
	return nil
}

// progressLine redraws the step progress bar in place.
func progressLine(done, total int) string {
	frac := 1.0
	if total > 0 {
		frac = float64(done) / float64(total)
	}
	return fmt.Sprintf("\r%s %d/%d", viz.ProgressBar(frac, 30), done, total)
}

func constantsSource(cfg *config.Config) string {
	if cfg.Constants != "" {
		return cfg.Constants
	}
	return "preset:" + cfg.Preset
}

func forcingSource(cfg *config.Config) string {
	switch {
	case cfg.Forcing.File != "":
		return cfg.Forcing.File
	case cfg.Forcing.PulseEvery > 0:
		return fmt.Sprintf("pulse:%g/%g every %d", cfg.Forcing.Deposition, cfg.Forcing.PulseDepth, cfg.Forcing.PulseEvery)
	}
	return fmt.Sprintf("constant:%g", cfg.Forcing.Deposition)
}

func recordRun(ctx context.Context, st *storage.Store, runID string, history []storage.HistoryRow) error {
	saved, err := st.Load(runID)
	if err != nil {
		return err
	}
	cat, err := catalog.Open(ctx, catalogPath)
	if err != nil {
		return err
	}
	defer cat.Close()
	if err := cat.Record(ctx, *saved, history); err != nil {
		return err
	}
	slog.Info("run catalogued", "id", runID, "catalog", cat.Path())
	return nil
}

func writeMetrics(tracked map[int][]metrics.Metric) error {
	names := make([]string, 0)
	for _, x := range metrics.Standard() {
		names = append(names, x.Name())
	}
	exp := metrics.NewExporter(names)
	for id, ms := range tracked {
		exp.Set(id, ms)
	}
	return exp.WriteTextfile(promTextfile)
}

func printCells(cells []cell.Cell, tracked map[int][]metrics.Metric) {
	for _, c := range cells {
		fmt.Println(viz.Summary(c))
		fmt.Println()
		for _, x := range tracked[c.ID()] {
			fmt.Println(viz.KeyValue(x.Name(), fmt.Sprintf("%.6f", x.Value())))
		}
		fmt.Println()
	}
	if len(cells) == 1 {
		fmt.Println(viz.LayerTable(cells[0], 12))
	}
}
