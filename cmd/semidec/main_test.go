package main

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/san-kum/semidec/internal/cell"
	"github.com/san-kum/semidec/internal/constants"
	"github.com/san-kum/semidec/internal/storage"
)

func TestParseParam(t *testing.T) {
	name, values, err := parseParam("deposition=0, 0.5,1")
	if err != nil {
		t.Fatalf("parseParam: %v", err)
	}
	if name != "deposition" {
		t.Errorf("expected deposition, got %q", name)
	}
	want := []float64{0, 0.5, 1}
	if len(values) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(values))
	}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("value %d: expected %v, got %v", i, want[i], values[i])
		}
	}

	for _, bad := range []string{"k1", "=1", "k1=", "k1=a"} {
		if _, _, err := parseParam(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestRowsToLayers(t *testing.T) {
	c, err := cell.New(constants.Morris())
	if err != nil {
		t.Fatalf("cell.New: %v", err)
	}
	c, err = c.StepForward(1, c.Surface(), 1, 1)
	if err != nil {
		t.Fatalf("StepForward: %v", err)
	}

	layers, err := rowsToLayers(c.Rows())
	if err != nil {
		t.Fatalf("rowsToLayers: %v", err)
	}
	want := c.Layers()
	if len(layers) != len(want) {
		t.Fatalf("expected %d layers, got %d", len(want), len(layers))
	}
	for i := range want {
		if layers[i] != want[i] {
			t.Errorf("layer %d: expected %+v, got %+v", i, want[i], layers[i])
		}
	}

	if _, err := rowsToLayers([][]float64{{1, 2}}); err == nil {
		t.Error("expected error for short row")
	}
}

func TestCellHistory(t *testing.T) {
	rows := []storage.HistoryRow{{Step: 0, Cell: 1}, {Step: 0, Cell: 2}, {Step: 1, Cell: 1}}
	got := cellHistory(rows, 1)
	if len(got) != 2 || got[1].Step != 1 {
		t.Errorf("unexpected history %+v", got)
	}
}

func TestProgressLine(t *testing.T) {
	tests := []struct {
		done, total int
		filled      int
		suffix      string
	}{
		{0, 10, 0, " 0/10"},
		{5, 10, 15, " 5/10"},
		{10, 10, 30, " 10/10"},
		{0, 0, 30, " 0/0"},
	}
	for _, tt := range tests {
		line := progressLine(tt.done, tt.total)
		if !strings.HasPrefix(line, "\r") || !strings.HasSuffix(line, tt.suffix) {
			t.Errorf("%d/%d: unexpected line %q", tt.done, tt.total, line)
		}
		if got := strings.Count(line, "█"); got != tt.filled {
			t.Errorf("%d/%d: expected %d filled cells, got %d", tt.done, tt.total, tt.filled, got)
		}
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		verbosity int
		level     slog.Level
	}{
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{5, slog.LevelDebug},
	}
	for _, tt := range tests {
		l := newLogger(tt.verbosity)
		if !l.Enabled(context.Background(), tt.level) {
			t.Errorf("verbosity %d: level %v disabled", tt.verbosity, tt.level)
		}
		if l.Enabled(context.Background(), tt.level-1) {
			t.Errorf("verbosity %d: level below %v enabled", tt.verbosity, tt.level)
		}
	}
}
