package marsh

import (
	"context"
	"fmt"

	"github.com/san-kum/semidec/internal/forcing"
)

// Observer is called after every completed step with the step index and the
// marsh it produced.
type Observer func(step int, m Marsh) error

// Run drives the marsh through every step of the series.
func Run(ctx context.Context, m Marsh, series forcing.Series, years float64, subSteps int, observe Observer) (Marsh, error) {
	ids := m.IDs()
	for step := 0; step < series.Steps(); step++ {
		inputs, err := series.Inputs(step, ids)
		if err != nil {
			return m, fmt.Errorf("step %d: %w", step, err)
		}

		next, err := m.Step(ctx, inputs, years, subSteps)
		if err != nil {
			return m, err
		}
		m = next

		if observe != nil {
			if err := observe(step, m); err != nil {
				return m, err
			}
		}
	}
	m.log.Info("run complete", "steps", series.Steps(), "cells", m.Len())
	return m, nil
}
