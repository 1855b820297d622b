package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/semidec/internal/viz"
)

var (
	dataDir string
	verbose int
	// run inputs
	configFile    string
	preset        string
	constantsFile string
	forcingFile   string
	steps         int
	years         float64
	subSteps      int
	workers       int
	deposition    float64
	surface       float64
	// outputs
	catalogPath  string
	promTextfile string
	catalogDB    string
	// per-run selection
	cellID   int
	field    string
	outDir   string
	presetID int
	// live view
	frameRate int
	theme     string
)

// main registers the commands and flags of the semidec CLI and executes the
// root command. It exits with status 1 if the command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "semidec",
		Short:         "salt-marsh sediment and biomass layer model",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(newLogger(verbose))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".semidec", "data directory")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "log verbosity (-v info, -vv debug)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a marsh simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&constantsFile, "constants", "", "constants file (toml)")
	runCmd.Flags().StringVar(&forcingFile, "forcing", "", "forcing series (csv)")
	runCmd.Flags().IntVar(&steps, "steps", 10, "number of steps")
	runCmd.Flags().Float64Var(&years, "years", 1.0, "years per step")
	runCmd.Flags().IntVar(&subSteps, "substeps", 1, "substeps per step")
	runCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = all cpus)")
	runCmd.Flags().Float64Var(&deposition, "deposition", 0.5, "deposition per step [cm]")
	runCmd.Flags().Float64Var(&surface, "surface", 0.0105, "surface biomass concentration [g/cm3]")
	runCmd.Flags().StringVar(&catalogPath, "catalog", "", "also index the run in this sqlite database")
	runCmd.Flags().StringVar(&promTextfile, "prom-textfile", "", "write final metrics in prometheus text format")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata and final metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the history of a cell",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&cellID, "cell", 0, "cell id (default first cell)")
	plotCmd.Flags().StringVar(&field, "field", "", "history field (default all)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the final layer table of a cell to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().IntVar(&cellID, "cell", 0, "cell id (default first cell)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and history to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "draw the final column and elevation history of a cell",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().IntVar(&cellID, "cell", 0, "cell id (default first cell)")
	svgCmd.Flags().StringVar(&outDir, "out", ".", "output directory")

	historyCmd := &cobra.Command{
		Use:   "history [run_id]",
		Short: "query the run catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE:  queryCatalog,
	}
	historyCmd.Flags().StringVar(&catalogDB, "catalog", "semidec.db", "sqlite database")
	historyCmd.Flags().IntVar(&cellID, "cell", 0, "cell id (default first cell)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list run and constants presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	constantsCmd := &cobra.Command{
		Use:   "constants [preset]",
		Short: "print a constants preset as a toml file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printConstants,
	}
	constantsCmd.Flags().IntVar(&presetID, "id", 1, "cell id of the record")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "step one cell with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&constantsFile, "constants", "", "constants file (toml), first cell is used")
	liveCmd.Flags().Float64Var(&deposition, "deposition", 0.5, "deposition per step [cm]")
	liveCmd.Flags().Float64Var(&surface, "surface", 0.0105, "surface biomass concentration [g/cm3]")
	liveCmd.Flags().Float64Var(&years, "years", 1.0, "years per step")
	liveCmd.Flags().IntVar(&subSteps, "substeps", 1, "substeps per step")
	liveCmd.Flags().IntVar(&frameRate, "fps", 5, "steps per second")
	liveCmd.Flags().StringVar(&theme, "theme", "marsh", "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	rootCmd.AddCommand(runCmd, listCmd, showCmd, plotCmd, exportCSVCmd, exportJSONCmd, svgCmd, historyCmd, presetsCmd, constantsCmd, liveCmd, newSweepCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(verbosity int) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbosity >= 2:
		level = slog.LevelDebug
	case verbosity == 1:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
