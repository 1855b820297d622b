package forcing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/san-kum/semidec/internal/semidec"
)

// Header is the required first row of a forcing CSV file.
var Header = []string{"step", "cell", "deposition", "biomass"}

// Table is a forcing series read from a file. Cells absent from a step are
// left untouched for that step.
type Table struct {
	steps []map[int]Input
}

func (t *Table) Steps() int { return len(t.steps) }

func (t *Table) Inputs(step int, cells []int) (map[int]Input, error) {
	if err := checkStep(step, len(t.steps)); err != nil {
		return nil, err
	}
	out := make(map[int]Input)
	for id, in := range t.steps[step] {
		if cells == nil || slices.Contains(cells, id) {
			out[id] = in
		}
	}
	return out, nil
}

// Cells returns the sorted ids mentioned anywhere in the table.
func (t *Table) Cells() []int {
	seen := map[int]bool{}
	for _, step := range t.steps {
		for id := range step {
			seen[id] = true
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open forcing %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("forcing %s: %w", path, err)
	}
	return t, nil
}

// ReadCSV parses rows of step,cell,deposition,biomass. Steps are numbered
// from zero and must not leave gaps.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, semidec.Invalid("empty forcing file")
	}
	if err != nil {
		return nil, err
	}
	for i := range head {
		head[i] = strings.ToLower(strings.TrimSpace(head[i]))
	}
	if !slices.Equal(head, Header) {
		return nil, semidec.Invalid("forcing header is %v, want %v", head, Header)
	}

	t := &Table{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)

		step, err := strconv.Atoi(rec[0])
		if err != nil || step < 0 {
			return nil, semidec.Invalid("line %d: bad step %q", line, rec[0])
		}
		id, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, semidec.Invalid("line %d: bad cell %q", line, rec[1])
		}
		dep, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, semidec.Invalid("line %d: bad deposition %q", line, rec[2])
		}
		surface, err := strconv.ParseFloat(rec[3], 64)
		if err != nil || surface < 0 {
			return nil, semidec.Invalid("line %d: bad biomass %q", line, rec[3])
		}

		for len(t.steps) <= step {
			t.steps = append(t.steps, map[int]Input{})
		}
		if _, dup := t.steps[step][id]; dup {
			return nil, semidec.Invalid("line %d: cell %d listed twice for step %d", line, id, step)
		}
		t.steps[step][id] = Input{Deposition: dep, Surface: surface}
	}

	for i, s := range t.steps {
		if len(s) == 0 {
			return nil, semidec.Invalid("step %d has no inputs", i)
		}
	}
	return t, nil
}
