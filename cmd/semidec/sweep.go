package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/semidec/internal/config"
	"github.com/san-kum/semidec/internal/constants"
	"github.com/san-kum/semidec/internal/forcing"
	"github.com/san-kum/semidec/internal/optim"
)

var (
	sweepParams []string
	sweepMetric string
	sweepTarget float64
	sweepTop    int
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "run one cell over a grid of parameters and rank the results",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	cmd.Flags().StringArrayVar(&sweepParams, "param", nil, "name=v1,v2,... (constants key, deposition or surface); repeatable")
	cmd.Flags().StringVar(&sweepMetric, "metric", "accretion", "metric to rank by")
	cmd.Flags().Float64Var(&sweepTarget, "target", 0, "rank by distance of the metric from this value")
	cmd.Flags().IntVar(&sweepTop, "top", 10, "rows to print (0 = all)")
	cmd.Flags().IntVar(&steps, "steps", 10, "number of steps")
	cmd.Flags().Float64Var(&years, "years", 1.0, "years per step")
	cmd.Flags().IntVar(&subSteps, "substeps", 1, "substeps per step")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = all cpus)")
	cmd.Flags().Float64Var(&deposition, "deposition", 0.5, "deposition per step [cm]")
	cmd.Flags().Float64Var(&surface, "surface", 0.0105, "surface biomass concentration [g/cm3]")
	return cmd
}

// parseParam splits "name=v1,v2" into its name and values.
func parseParam(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("param %q: want name=v1,v2,...", s)
	}
	var values []float64
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return "", nil, fmt.Errorf("param %s: %w", name, err)
		}
		values = append(values, v)
	}
	return strings.TrimSpace(name), values, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, p := range sweepParams {
		name, values, err := parseParam(p)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	gs, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	name := config.DefaultPreset
	if len(args) > 0 {
		name = args[0]
	}
	base, ok := constants.GetPreset(name, 1)
	if !ok {
		return fmt.Errorf("unknown constants preset: %s (available: %v)", name, constants.ListPresets())
	}

	eval := optim.CellEvaluator(base, forcing.Input{Deposition: deposition, Surface: surface}, steps, years, subSteps)
	points, err := gs.Sweep(cmd.Context(), eval, workers)
	if err != nil {
		return err
	}
	ranked := optim.Rank(points, sweepMetric, sweepTarget)
	if len(ranked) == 0 {
		return fmt.Errorf("no point reports metric %q", sweepMetric)
	}
	if sweepTop > 0 && len(ranked) > sweepTop {
		ranked = ranked[:sweepTop]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RANK\t%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(sweepMetric))
	for i, p := range ranked {
		cols := make([]string, len(names))
		for j, n := range names {
			cols[j] = strconv.FormatFloat(p.Params[n], 'g', -1, 64)
		}
		fmt.Fprintf(w, "%d\t%s\t%.6f\n", i+1, strings.Join(cols, "\t"), p.Metrics[sweepMetric])
	}
	return w.Flush()
}
