// Package catalog indexes saved runs in a SQLite database so that step
// histories can be queried across runs without reading every run directory.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/san-kum/semidec/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	created   TEXT NOT NULL,
	cells     INTEGER NOT NULL,
	steps     INTEGER NOT NULL,
	years     REAL NOT NULL,
	sub_steps INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS history (
	run_id        TEXT NOT NULL REFERENCES runs(id),
	step          INTEGER NOT NULL,
	cell          INTEGER NOT NULL,
	elapsed       REAL NOT NULL,
	elevation     REAL NOT NULL,
	thickness     REAL NOT NULL,
	layers        INTEGER NOT NULL,
	biomass       REAL NOT NULL,
	labile        REAL NOT NULL,
	refractory    REAL NOT NULL,
	inorganic     REAL NOT NULL,
	decomposition REAL NOT NULL,
	PRIMARY KEY (run_id, cell, step)
);`

// Catalog is a SQLite index of runs.
type Catalog struct {
	db   *sql.DB
	path string
}

// Open creates the database file and schema when missing.
func Open(ctx context.Context, path string) (*Catalog, error) {
	if path == "" {
		path = "semidec.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Catalog{db: db, path: path}, nil
}

func (c *Catalog) Close() error { return c.db.Close() }

func (c *Catalog) Path() string { return c.path }

// Record inserts a run and its history in one transaction.
func (c *Catalog) Record(ctx context.Context, meta storage.RunMetadata, history []storage.HistoryRow) (retErr error) {
	if meta.ID == "" {
		return errors.New("catalog: run has no id")
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs(id,name,created,cells,steps,years,sub_steps) VALUES(?,?,?,?,?,?,?)`,
		meta.ID, meta.Name, meta.Timestamp.UTC().Format(time.RFC3339Nano),
		len(meta.Cells), meta.Steps, meta.Years, meta.SubSteps); err != nil {
		return fmt.Errorf("insert run %s: %w", meta.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO history
		(run_id,step,cell,elapsed,elevation,thickness,layers,biomass,labile,refractory,inorganic,decomposition)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, h := range history {
		if _, err := stmt.ExecContext(ctx, meta.ID, h.Step, h.Cell, h.Elapsed, h.Elevation,
			h.Thickness, h.Layers, h.Biomass, h.Labile, h.Refractory, h.Inorganic, h.Decomposition); err != nil {
			return fmt.Errorf("insert history step %d cell %d: %w", h.Step, h.Cell, err)
		}
	}
	return tx.Commit()
}

// RunSummary is one row of the runs table.
type RunSummary struct {
	ID       string
	Name     string
	Created  time.Time
	Cells    int
	Steps    int
	Years    float64
	SubSteps int
}

// Runs lists the recorded runs, newest first.
func (c *Catalog) Runs(ctx context.Context) ([]RunSummary, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id,name,created,cells,steps,years,sub_steps FROM runs ORDER BY created DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var created string
		if err := rows.Scan(&r.ID, &r.Name, &created, &r.Cells, &r.Steps, &r.Years, &r.SubSteps); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if r.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("run %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Trajectory returns the history of one cell of a run in step order.
func (c *Catalog) Trajectory(ctx context.Context, runID string, cellID int) ([]storage.HistoryRow, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT step,cell,elapsed,elevation,thickness,layers,
		biomass,labile,refractory,inorganic,decomposition
		FROM history WHERE run_id = ? AND cell = ? ORDER BY step`, runID, cellID)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []storage.HistoryRow
	for rows.Next() {
		var h storage.HistoryRow
		if err := rows.Scan(&h.Step, &h.Cell, &h.Elapsed, &h.Elevation, &h.Thickness, &h.Layers,
			&h.Biomass, &h.Labile, &h.Refractory, &h.Inorganic, &h.Decomposition); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
