// Package export writes cell layer tables as CSV, JSON and SVG.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/semidec/internal/cell"
	"github.com/san-kum/semidec/internal/engine"
)

// FormatFloat is the fixed notation used in every table this package writes.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteCSV writes a header row followed by rows in fixed notation.
func WriteCSV(w io.Writer, headers []string, rows [][]float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	rec := make([]string, len(headers))
	for _, row := range rows {
		rec = rec[:0]
		for _, v := range row {
			rec = append(rec, FormatFloat(v))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCellCSV writes the layer table of c.
func WriteCellCSV(w io.Writer, c cell.Cell) error {
	return WriteCSV(w, cell.Headers(), c.Rows())
}

func ExportCSV(path string, c cell.Cell) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCellCSV(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// CellData is the JSON form of one cell.
type CellData struct {
	ID        int         `json:"id"`
	Steps     int         `json:"steps"`
	Elapsed   float64     `json:"elapsed"`
	Surface   float64     `json:"surface"`
	Elevation float64     `json:"elevation"`
	Headers   []string    `json:"headers"`
	Rows      [][]float64 `json:"rows"`
	Flux      engine.Flux `json:"flux"`
}

func NewCellData(c cell.Cell) CellData {
	return CellData{
		ID:        c.ID(),
		Steps:     c.Steps(),
		Elapsed:   c.Elapsed(),
		Surface:   c.Surface(),
		Elevation: c.Elevation(),
		Headers:   cell.Headers(),
		Rows:      c.Rows(),
		Flux:      c.Flux(),
	}
}

// WriteJSON writes the cells as an indented JSON array.
func WriteJSON(w io.Writer, cells []cell.Cell) error {
	data := make([]CellData, len(cells))
	for i, c := range cells {
		data[i] = NewCellData(c)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func ExportJSON(path string, cells []cell.Cell) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(f, cells); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ExportJSONStdout writes the cells to standard output.
func ExportJSONStdout(cells []cell.Cell) error {
	return WriteJSON(os.Stdout, cells)
}
