package main

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/san-kum/semidec/internal/catalog"
	"github.com/san-kum/semidec/internal/cell"
	"github.com/san-kum/semidec/internal/config"
	"github.com/san-kum/semidec/internal/constants"
	"github.com/san-kum/semidec/internal/tui"
	"github.com/san-kum/semidec/internal/viz"
)

// queryCatalog lists the catalogued runs, or with a run id prints the
// trajectory of one cell.
func queryCatalog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cat, err := catalog.Open(ctx, catalogDB)
	if err != nil {
		return err
	}
	defer cat.Close()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if len(args) == 0 {
		runs, err := cat.Runs(ctx)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no runs catalogued")
			return nil
		}
		fmt.Fprintln(w, "ID\tNAME\tCREATED\tCELLS\tSTEPS\tYEARS\tSUBSTEPS")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%g\t%d\n",
				r.ID, r.Name, humanize.Time(r.Created), r.Cells, r.Steps, r.Years, r.SubSteps)
		}
		return w.Flush()
	}

	rows, err := cat.Trajectory(ctx, args[0], cellID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no history for run %s cell %d", args[0], cellID)
	}
	fmt.Fprintln(w, "STEP\tELAPSED\tELEVATION\tTHICKNESS\tLAYERS\tBIOMASS\tLABILE\tREFRACTORY\tINORGANIC")
	for _, h := range rows {
		fmt.Fprintf(w, "%d\t%.2f\t%.6f\t%.6f\t%d\t%.6f\t%.6f\t%.6f\t%.6f\n",
			h.Step, h.Elapsed, h.Elevation, h.Thickness, h.Layers,
			h.Biomass, h.Labile, h.Refractory, h.Inorganic)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("run presets:")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Printf("  %-10s constants=%s steps=%d deposition=%g\n", name, cfg.Preset, cfg.Steps, cfg.Forcing.Deposition)
	}
	fmt.Println("constants presets:")
	for _, name := range constants.ListPresets() {
		fmt.Printf("  %s\n", name)
	}
	return nil
}

func printConstants(cmd *cobra.Command, args []string) error {
	name := config.DefaultPreset
	if len(args) > 0 {
		name = args[0]
	}
	r, ok := constants.GetPreset(name, presetID)
	if !ok {
		return fmt.Errorf("unknown constants preset: %s (available: %v)", name, constants.ListPresets())
	}
	data, err := constants.Format([]constants.Record{r})
	if err != nil {
		return err
	}
	fmt.Printf("# constants preset %q\n", name)
	_, err = os.Stdout.Write(data)
	return err
}

func liveCell(args []string) (cell.Cell, error) {
	if constantsFile != "" {
		records, err := constants.Load(constantsFile)
		if err != nil {
			return cell.Cell{}, err
		}
		return cell.New(records[0])
	}
	name := config.DefaultPreset
	if len(args) > 0 {
		name = args[0]
	}
	r, ok := constants.GetPreset(name, 1)
	if !ok {
		return cell.Cell{}, fmt.Errorf("unknown constants preset: %s (available: %v)", name, constants.ListPresets())
	}
	return cell.New(r)
}

func runLive(cmd *cobra.Command, args []string) error {
	c, err := liveCell(args)
	if err != nil {
		return err
	}
	if frameRate <= 0 {
		return fmt.Errorf("fps must be positive, got %d", frameRate)
	}
	if !slices.Contains(viz.ThemeNames(), theme) {
		return fmt.Errorf("unknown theme: %s (available: %v)", theme, viz.ThemeNames())
	}
	viz.SetTheme(theme)

	interval := time.Second / time.Duration(frameRate)
	model := tui.NewModel(c, deposition, surface, years, subSteps, interval)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
