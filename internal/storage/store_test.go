package storage

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/san-kum/semidec/internal/cell"
	"github.com/san-kum/semidec/internal/constants"
)

func run(t *testing.T, steps int) ([]cell.Cell, []HistoryRow) {
	t.Helper()
	var cells []cell.Cell
	var history []HistoryRow
	for _, id := range []int{1, 2} {
		r := constants.Morris()
		r.ID = id
		c, err := cell.New(r)
		if err != nil {
			t.Fatalf("cell.New: %v", err)
		}
		for i := 0; i < steps; i++ {
			c, err = c.StepForward(0.5*float64(id), c.Surface(), 1.0, 1)
			if err != nil {
				t.Fatalf("StepForward: %v", err)
			}
			history = append(history, Summarise(i, c))
		}
		cells = append(cells, c)
	}
	return cells, history
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cells, history := run(t, 3)
	meta := RunMetadata{
		Name:     "test",
		Steps:    3,
		Years:    1,
		SubSteps: 1,
		Metrics:  map[int]map[string]float64{1: {"layers": 4}},
	}

	runID, err := st.Save(meta, cells, history)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	id, err := uuid.Parse(runID)
	if err != nil {
		t.Fatalf("run id %q is not a uuid: %v", runID, err)
	}
	if id.Version() != 7 {
		t.Errorf("expected uuid v7, got v%d", id.Version())
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Name != "test" {
		t.Errorf("expected name 'test', got '%s'", loaded.Name)
	}
	if len(loaded.Cells) != 2 || loaded.Cells[0] != 1 || loaded.Cells[1] != 2 {
		t.Errorf("expected cells [1 2], got %v", loaded.Cells)
	}
	if loaded.Metrics[1]["layers"] != 4 {
		t.Errorf("expected layers metric 4, got %f", loaded.Metrics[1]["layers"])
	}
	if loaded.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestStoreLoadLayers(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	cells, history := run(t, 2)
	runID, err := st.Save(RunMetadata{Name: "layers"}, cells, history)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	rows, err := st.LoadLayers(runID, 2)
	if err != nil {
		t.Fatalf("load layers failed: %v", err)
	}
	want := cells[1].Rows()
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i := range want {
		for j := range want[i] {
			if math.Abs(rows[i][j]-want[i][j]) > 5e-7 {
				t.Errorf("row %d col %d: expected %f, got %f", i, j, want[i][j], rows[i][j])
			}
		}
	}

	// served from cache once the file is gone
	if err := os.Remove(filepath.Join(st.Dir(), runID, "cell_2.csv")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := st.LoadLayers(runID, 2); err != nil {
		t.Errorf("expected cached layers, got %v", err)
	}
	if _, err := st.LoadLayers(runID, 9); err == nil {
		t.Error("expected error for unknown cell")
	}
}

func TestStoreLoadLayersReturnsCopy(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	cells, history := run(t, 1)
	runID, err := st.Save(RunMetadata{Name: "copy"}, cells, history)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	first, err := st.LoadLayers(runID, 1)
	if err != nil {
		t.Fatalf("load layers failed: %v", err)
	}
	want := first[0][1]
	first[0][1] = -1
	first[0] = nil

	second, err := st.LoadLayers(runID, 1)
	if err != nil {
		t.Fatalf("load layers failed: %v", err)
	}
	if second[0] == nil || second[0][1] != want {
		t.Errorf("cached layers changed by caller: got %v, want bottom %f", second[0], want)
	}
}

func TestStoreLoadHistory(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	cells, history := run(t, 3)
	runID, err := st.Save(RunMetadata{Name: "history"}, cells, history)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := st.LoadHistory(runID)
	if err != nil {
		t.Fatalf("load history failed: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(got))
	}
	for i, h := range got {
		w := history[i]
		if h.Step != w.Step || h.Cell != w.Cell || h.Layers != w.Layers {
			t.Errorf("row %d: expected %+v, got %+v", i, w, h)
		}
		if math.Abs(h.Elevation-w.Elevation) > 5e-7 || math.Abs(h.Decomposition-w.Decomposition) > 5e-7 {
			t.Errorf("row %d: expected %+v, got %+v", i, w, h)
		}
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	cells, history := run(t, 1)
	first, err := st.Save(RunMetadata{Name: "first"}, cells, history)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(RunMetadata{Name: "second"}, cells, history)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := os.MkdirAll(filepath.Join(tmpDir, "not-a-run"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID == runs[1].ID || (runs[0].ID != first && runs[0].ID != second) {
		t.Errorf("unexpected run ids %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cells, history := run(t, 1)
	runID, err := st.Save(RunMetadata{Name: "files"}, cells, history)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "history.csv", "cell_1.csv", "cell_2.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}
