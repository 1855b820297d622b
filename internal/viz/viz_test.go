package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/semidec/internal/cell"
	"github.com/san-kum/semidec/internal/constants"
)

func stepped(t *testing.T, n int) cell.Cell {
	t.Helper()
	c, err := cell.New(constants.Morris())
	if err != nil {
		t.Fatalf("cell.New: %v", err)
	}
	for i := 0; i < n; i++ {
		if c, err = c.StepForward(1.0, c.Surface(), 1.0, 1); err != nil {
			t.Fatalf("StepForward: %v", err)
		}
	}
	return c
}

func TestLayerTable(t *testing.T) {
	out := LayerTable(stepped(t, 2), 0)
	for _, want := range []string{"labile", "inorganic", "0.6640", "1.0000"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestLayerTableLimit(t *testing.T) {
	out := LayerTable(stepped(t, 5), 2)
	if !strings.Contains(out, "4 deeper layers") {
		t.Errorf("expected hidden-layer note:\n%s", out)
	}
}

func TestSummary(t *testing.T) {
	out := Summary(stepped(t, 1))
	for _, want := range []string{"cell 0", "elevation", "-8.0112"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestProfilePlot(t *testing.T) {
	c := stepped(t, 3)
	out, err := ProfilePlot(c, "labile", 40, 8)
	if err != nil {
		t.Fatalf("ProfilePlot: %v", err)
	}
	if !strings.Contains(out, "labile by layer") {
		t.Errorf("missing caption:\n%s", out)
	}

	if _, err := ProfilePlot(c, "nonexistent", 40, 8); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestProfilePlotSingleLayer(t *testing.T) {
	if _, err := ProfilePlot(stepped(t, 0), "biomass", 20, 4); err != nil {
		t.Errorf("single layer: %v", err)
	}
}

func TestHistoryPlot(t *testing.T) {
	if HistoryPlot(nil, "x", 10, 4) != "" {
		t.Error("expected empty plot for no data")
	}
	if out := HistoryPlot([]float64{0, 0.5, 0.7, 0.8}, "elevation", 20, 4); !strings.Contains(out, "elevation") {
		t.Errorf("missing caption:\n%s", out)
	}
}

func TestColumnCanvas(t *testing.T) {
	c := ColumnCanvas(stepped(t, 3).Layers(), 20, 10)
	if c.Width != 20 || c.Height != 10 {
		t.Fatalf("unexpected size %dx%d", c.Width, c.Height)
	}
	drawn := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				drawn++
			}
		}
	}
	if drawn == 0 {
		t.Error("nothing drawn")
	}

	empty := ColumnCanvas(nil, 5, 5)
	if strings.Trim(empty.String(), "\u2800\n") != "" {
		t.Error("empty column should draw nothing")
	}
}

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(1, 1)
	if c.Grid[0][0] == 0x2800 {
		t.Fatal("pixel not set")
	}
	c.Set(-1, 0)
	c.Set(100, 100)
	if c.Grid[1][1] != 0x2800 {
		t.Error("out of range pixel drawn")
	}
}

func TestThemes(t *testing.T) {
	defer SetTheme("marsh")

	if GetTheme("nonexistent").Name != "marsh" {
		t.Error("expected fallback to marsh")
	}
	SetTheme("peat")
	if CurrentTheme.Name != "peat" {
		t.Errorf("expected peat, got %s", CurrentTheme.Name)
	}
	seen := map[string]bool{}
	for range Themes {
		NextTheme()
		seen[CurrentTheme.Name] = true
	}
	if len(seen) != len(Themes) {
		t.Errorf("NextTheme visited %d of %d themes", len(seen), len(Themes))
	}
}

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != len(Themes) || names[0] != Themes[0].Name {
		t.Errorf("unexpected theme names %v", names)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent      float64
		filled, rest int
	}{
		{0, 0, 10},
		{0.5, 5, 5},
		{1, 10, 0},
		{2, 10, 0},
		{-1, 0, 10},
	}
	for _, tt := range tests {
		out := ProgressBar(tt.percent, 10)
		if got := strings.Count(out, "█"); got != tt.filled {
			t.Errorf("percent %v: expected %d filled, got %d", tt.percent, tt.filled, got)
		}
		if got := strings.Count(out, "░"); got != tt.rest {
			t.Errorf("percent %v: expected %d empty, got %d", tt.percent, tt.rest, got)
		}
	}
}

func TestSparkline(t *testing.T) {
	if out := Sparkline(nil, 5); !strings.Contains(out, "─────") {
		t.Errorf("unexpected empty sparkline %q", out)
	}
	if out := Sparkline([]float64{1, 2, 3, 4}, 4); !strings.Contains(out, "█") {
		t.Errorf("expected full bar for max value: %q", out)
	}
}
