// Package storage keeps completed runs on disk, one directory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/san-kum/semidec/internal/cell"
	"github.com/san-kum/semidec/internal/export"
)

const (
	metadataFile = "metadata.json"
	historyFile  = "history.csv"
	layerCache   = 64
)

type Store struct {
	baseDir string
	layers  *lru.Cache[string, [][]float64]
}

func New(baseDir string) *Store {
	cache, _ := lru.New[string, [][]float64](layerCache)
	return &Store{baseDir: baseDir, layers: cache}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	Timestamp time.Time                  `json:"timestamp"`
	Constants string                     `json:"constants"`
	Forcing   string                     `json:"forcing"`
	Cells     []int                      `json:"cells"`
	Steps     int                        `json:"steps"`
	Years     float64                    `json:"years"`
	SubSteps  int                        `json:"sub_steps"`
	Metrics   map[int]map[string]float64 `json:"metrics"`
}

// HistoryRow summarises one cell after one step.
type HistoryRow struct {
	Step          int
	Cell          int
	Elapsed       float64
	Elevation     float64
	Thickness     float64
	Layers        int
	Biomass       float64
	Labile        float64
	Refractory    float64
	Inorganic     float64
	Decomposition float64
}

var historyHeader = []string{
	"step", "cell", "elapsed", "elevation", "thickness", "layers",
	"biomass", "labile", "refractory", "inorganic", "decomposition",
}

// Summarise builds the history row of c after step.
func Summarise(step int, c cell.Cell) HistoryRow {
	t := c.Totals()
	return HistoryRow{
		Step:          step,
		Cell:          c.ID(),
		Elapsed:       c.Elapsed(),
		Elevation:     c.Elevation(),
		Thickness:     c.Thickness(),
		Layers:        c.Len(),
		Biomass:       c.LiveBiomass(),
		Labile:        t.Labile,
		Refractory:    t.Refractory,
		Inorganic:     t.Inorganic,
		Decomposition: c.Flux().Decomposition,
	}
}

func (h HistoryRow) record() []string {
	return []string{
		strconv.Itoa(h.Step), strconv.Itoa(h.Cell),
		export.FormatFloat(h.Elapsed), export.FormatFloat(h.Elevation),
		export.FormatFloat(h.Thickness), strconv.Itoa(h.Layers),
		export.FormatFloat(h.Biomass), export.FormatFloat(h.Labile),
		export.FormatFloat(h.Refractory), export.FormatFloat(h.Inorganic),
		export.FormatFloat(h.Decomposition),
	}
}

func cellFile(id int) string { return fmt.Sprintf("cell_%d.csv", id) }

// Save writes a new run directory and returns its id. The id, timestamp and
// cell list of meta are filled in here.
func (s *Store) Save(meta RunMetadata, cells []cell.Cell, history []HistoryRow) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	meta.ID = id.String()
	meta.Timestamp = time.Now().UTC()
	meta.Cells = make([]int, len(cells))
	for i, c := range cells {
		meta.Cells[i] = c.ID()
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	for _, c := range cells {
		if err := export.ExportCSV(filepath.Join(runDir, cellFile(c.ID())), c); err != nil {
			return "", err
		}
	}
	if err := writeHistory(filepath.Join(runDir, historyFile), history); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeHistory(path string, rows []HistoryRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(historyHeader); err != nil {
		f.Close()
		return err
	}
	for _, h := range rows {
		if err := w.Write(h.record()); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	slices.SortFunc(runs, func(a, b RunMetadata) int { return b.Timestamp.Compare(a.Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadLayers reads the final layer table of one cell of a run. Tables are
// cached since runs never change once saved.
func (s *Store) LoadLayers(runID string, cellID int) ([][]float64, error) {
	key := runID + "/" + strconv.Itoa(cellID)
	if rows, ok := s.layers.Get(key); ok {
		return cloneRows(rows), nil
	}

	records, err := readCSV(filepath.Join(s.baseDir, runID, cellFile(cellID)))
	if err != nil {
		return nil, err
	}

	rows := make([][]float64, 0, len(records))
	for i, rec := range records {
		row := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", cellFile(cellID), i+2, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}

	s.layers.Add(key, rows)
	return cloneRows(rows), nil
}

func cloneRows(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = slices.Clone(r)
	}
	return out
}

// LoadHistory reads the per-step summary of a run.
func (s *Store) LoadHistory(runID string) ([]HistoryRow, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, historyFile))
	if err != nil {
		return nil, err
	}

	rows := make([]HistoryRow, 0, len(records))
	for i, rec := range records {
		if len(rec) != len(historyHeader) {
			return nil, fmt.Errorf("%s line %d: %d fields, want %d", historyFile, i+2, len(rec), len(historyHeader))
		}
		var h HistoryRow
		var ints [3]int
		for k, idx := range []int{0, 1, 5} {
			v, err := strconv.Atoi(rec[idx])
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", historyFile, i+2, err)
			}
			ints[k] = v
		}
		h.Step, h.Cell, h.Layers = ints[0], ints[1], ints[2]

		dsts := []*float64{
			&h.Elapsed, &h.Elevation, &h.Thickness, nil, &h.Biomass,
			&h.Labile, &h.Refractory, &h.Inorganic, &h.Decomposition,
		}
		for k, dst := range dsts {
			if dst == nil {
				continue
			}
			v, err := strconv.ParseFloat(rec[k+2], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", historyFile, i+2, err)
			}
			*dst = v
		}
		rows = append(rows, h)
	}
	return rows, nil
}

// readCSV returns the records after the header row.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}
