package constants

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/san-kum/semidec/internal/semidec"
)

// Ellipsis in a parameter list means "continue the sequence": an id range
// in ids, a repeated value everywhere else.
const Ellipsis = "..."

// MaxIDRange bounds the number of cells an id range may declare.
const MaxIDRange = 1 << 20

type field struct {
	key string
	get func(Record) float64
	set func(*Record, float64)
}

var fields = []field{
	{"sa", func(r Record) float64 { return r.SA }, func(r *Record, v float64) { r.SA = v }},
	{"du", func(r Record) float64 { return r.DU }, func(r *Record, v float64) { r.DU = v }},
	{"db", func(r Record) float64 { return r.DB }, func(r *Record, v float64) { r.DB = v }},
	{"bo", func(r Record) float64 { return r.BO }, func(r *Record, v float64) { r.BO = v }},
	{"bi", func(r Record) float64 { return r.BI }, func(r *Record, v float64) { r.BI = v }},
	{"fo", func(r Record) float64 { return r.FO }, func(r *Record, v float64) { r.FO = v }},
	{"k", func(r Record) float64 { return r.K }, func(r *Record, v float64) { r.K = v }},
	{"fc", func(r Record) float64 { return r.FC }, func(r *Record, v float64) { r.FC = v }},
	{"ro", func(r Record) float64 { return r.RO }, func(r *Record, v float64) { r.RO = v }},
	{"rd", func(r Record) float64 { return r.RD }, func(r *Record, v float64) { r.RD = v }},
	{"k1", func(r Record) float64 { return r.K1 }, func(r *Record, v float64) { r.K1 = v }},
	{"k2", func(r Record) float64 { return r.K2 }, func(r *Record, v float64) { r.K2 = v }},
	{"k3", func(r Record) float64 { return r.K3 }, func(r *Record, v float64) { r.K3 = v }},
	{"sv_to_ro", func(r Record) float64 { return r.SvToRo }, func(r *Record, v float64) { r.SvToRo = v }},
	{"wa_to_rl", func(r Record) float64 { return r.WaToRl }, func(r *Record, v float64) { r.WaToRl = v }},
	{"b", func(r Record) float64 { return r.B }, func(r *Record, v float64) { r.B = v }},
}

// Keys lists the parameter names a constants file must define besides ids.
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

// Load reads a TOML constants file and returns one validated record per
// declared cell id, in declaration order.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	records, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// With returns a copy of r with the named parameter replaced. The result is
// not validated.
func (r Record) With(key string, v float64) (Record, error) {
	for _, f := range fields {
		if f.key == key {
			f.set(&r, v)
			return r, nil
		}
	}
	return r, semidec.Invalid("unknown parameter %q", key)
}

// Format encodes records as a constants document that Parse reads back.
// Ids and values are written as explicit lists.
func Format(records []Record) ([]byte, error) {
	if len(records) == 0 {
		return nil, semidec.Invalid("no records to format")
	}
	doc := make(map[string]any, len(fields)+1)
	ids := make([]int, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	doc["ids"] = ids
	for _, f := range fields {
		values := make([]float64, len(records))
		for i, r := range records {
			values[i] = f.get(r)
		}
		doc[f.key] = values
	}
	return toml.Marshal(doc)
}

// Parse decodes the TOML document held in data. Nothing is defaulted: every
// key returned by Keys must be present.
func Parse(data []byte) ([]Record, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, semidec.Invalid("decode toml: %v", err)
	}

	idsRaw, ok := raw["ids"]
	if !ok {
		return nil, fmt.Errorf("%w: ids", semidec.ErrMissingConstant)
	}
	idList, ok := idsRaw.([]any)
	if !ok {
		idList = []any{idsRaw}
	}
	ids, err := ParseIDs(idList)
	if err != nil {
		return nil, err
	}

	records := make([]Record, len(ids))
	for i, id := range ids {
		records[i].ID = id
	}

	for _, f := range fields {
		v, ok := raw[f.key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", semidec.ErrMissingConstant, f.key)
		}
		values, err := ParseValues(f.key, asList(v), len(ids))
		if err != nil {
			return nil, err
		}
		for i := range records {
			f.set(&records[i], values[i])
		}
	}

	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// ParseIDs expands an id list. Accepted forms are an explicit list of
// integers or [first, "...", last], an inclusive range.
func ParseIDs(items []any) ([]int, error) {
	if len(items) == 0 {
		return nil, semidec.Invalid("ids: empty list")
	}

	if at := indexOfEllipsis(items); at >= 0 {
		if at != 1 {
			return nil, semidec.Invalid("ids: %q must follow exactly one id", Ellipsis)
		}
		if len(items) != 3 {
			return nil, semidec.Invalid("ids: expected one id after %q, got %d", Ellipsis, len(items)-2)
		}
		first, ok := asInt(items[0])
		if !ok {
			return nil, semidec.Invalid("ids: %v is not an integer", items[0])
		}
		last, ok := asInt(items[2])
		if !ok {
			return nil, semidec.Invalid("ids: %v is not an integer", items[2])
		}
		if last < first {
			return nil, semidec.Invalid("ids: range %d..%d is descending", first, last)
		}
		if uint64(last)-uint64(first) >= MaxIDRange {
			return nil, semidec.Invalid("ids: range %d..%d spans more than %d cells", first, last, MaxIDRange)
		}
		ids := make([]int, 0, last-first+1)
		for id := first; ; id++ {
			ids = append(ids, id)
			if id == last {
				break
			}
		}
		return ids, nil
	}

	ids := make([]int, len(items))
	seen := make(map[int]bool, len(items))
	for i, item := range items {
		id, ok := asInt(item)
		if !ok {
			return nil, semidec.Invalid("ids: %v is not an integer", item)
		}
		if seen[id] {
			return nil, semidec.Invalid("ids: duplicate id %d", id)
		}
		seen[id] = true
		ids[i] = id
	}
	return ids, nil
}

// ParseValues expands the value list of one parameter to n values. A list
// ending in "..." repeats its last value until n values are produced.
func ParseValues(key string, items []any, n int) ([]float64, error) {
	if len(items) == 0 {
		return nil, semidec.Invalid("%s: empty list", key)
	}

	repeat := false
	if at := indexOfEllipsis(items); at >= 0 {
		if at == 0 {
			return nil, semidec.Invalid("%s: %q needs a value before it", key, Ellipsis)
		}
		if at != len(items)-1 {
			return nil, semidec.Invalid("%s: values after %q are not allowed", key, Ellipsis)
		}
		items = items[:at]
		repeat = true
	}

	if len(items) > n || (!repeat && len(items) != n) {
		return nil, semidec.Invalid("%s: expected %d values, got %d", key, n, len(items))
	}

	values := make([]float64, 0, n)
	for _, item := range items {
		v, ok := asFloat(item)
		if !ok {
			return nil, semidec.Invalid("%s: %v is not a number", key, item)
		}
		values = append(values, v)
	}
	for len(values) < n {
		values = append(values, values[len(values)-1])
	}
	return values, nil
}

func asList(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{v, Ellipsis}
}

func indexOfEllipsis(items []any) int {
	for i, item := range items {
		if s, ok := item.(string); ok && s == Ellipsis {
			return i
		}
	}
	return -1
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
