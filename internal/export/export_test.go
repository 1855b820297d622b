package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/san-kum/semidec/internal/cell"
	"github.com/san-kum/semidec/internal/constants"
)

func oneStep(t *testing.T) cell.Cell {
	t.Helper()
	c, err := cell.New(constants.Morris())
	if err != nil {
		t.Fatalf("cell.New: %v", err)
	}
	c, err = c.StepForward(1.0, c.Surface(), 1.0, 1)
	if err != nil {
		t.Fatalf("StepForward: %v", err)
	}
	return c
}

func TestWriteCellCSVGolden(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCellCSV(&buf, oneStep(t)); err != nil {
		t.Fatalf("WriteCellCSV: %v", err)
	}
	g := goldie.New(t)
	g.Assert(t, "morris_one_step", buf.Bytes())
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cell.csv")
	if err := ExportCSV(path, oneStep(t)); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("expected 3 lines, got %d", len(lines))
	}
}

func TestWriteJSON(t *testing.T) {
	c := oneStep(t)
	var buf bytes.Buffer
	if err := WriteJSON(&buf, []cell.Cell{c}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var got []CellData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(got))
	}
	d := got[0]
	if d.Steps != 1 || d.Elapsed != 1 {
		t.Errorf("expected step 1 at t=1, got step %d at t=%f", d.Steps, d.Elapsed)
	}
	if len(d.Rows) != 2 || len(d.Headers) != 7 {
		t.Errorf("expected 2x7 table, got %d rows and %d headers", len(d.Rows), len(d.Headers))
	}
	if d.Flux.Deposited != 1 {
		t.Errorf("expected deposited 1, got %f", d.Flux.Deposited)
	}
	if !strings.Contains(buf.String(), `"lost_erosion"`) {
		t.Error("flux field names missing from JSON")
	}
}

func TestColumnSVG(t *testing.T) {
	svg := ColumnSVG(oneStep(t).Layers(), 120, 400)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not an svg document")
	}
	// two layers with four pools each
	if n := strings.Count(svg, "<rect x="); n != 8 {
		t.Errorf("expected 8 pool bands, got %d", n)
	}
	if !strings.Contains(svg, inorganicColor) {
		t.Error("inorganic band missing")
	}

	empty := ColumnSVG(nil, 10, 10)
	if strings.Contains(empty, "<rect x=") {
		t.Error("empty column should draw no bands")
	}
}

func TestSeriesSVG(t *testing.T) {
	if SeriesSVG([]float64{1}, []float64{1}, 100, 100, "#fff") != "" {
		t.Error("expected empty output for a single point")
	}
	svg := SeriesSVG([]float64{0, 1, 2}, []float64{0, 0.5, 0.7}, 100, 50, "#00ff00")
	if strings.Count(svg, " L") != 2 {
		t.Errorf("expected 2 line segments:\n%s", svg)
	}
}
