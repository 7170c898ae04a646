// Package results persists the scores of a parameter sweep.
package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pan-webis-de/schaetti18-authorship-attribution/sweep"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Row is one finalized configuration of a run.
type Row struct {
	Run     string
	Key     string
	Param   sweep.Param
	Samples int
	Mean    float64
	Max     float64
	Created time.Time
}

// Store keeps sweep results in an SQLite database.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

const schema = `
	CREATE TABLE IF NOT EXISTS cells (
		run TEXT NOT NULL,
		key TEXT NOT NULL,
		reservoir_size INTEGER NOT NULL,
		layers INTEGER NOT NULL,
		param TEXT NOT NULL,
		samples INTEGER NOT NULL,
		mean_f1 REAL NOT NULL,
		max_f1 REAL NOT NULL,
		created INTEGER NOT NULL,
		PRIMARY KEY (run, key)
	);
	CREATE INDEX IF NOT EXISTS idx_cells_run ON cells(run);
`

// Open opens (or creates) the database at path.
// Use ":memory:" for a private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	// Every connection to ":memory:" is a new database.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create tables")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// NewRun returns a fresh run identifier.
func NewRun() string {
	return uuid.New().String()
}

// Save stores the finalized cells of a table under run.
// Cells that are not finalized are skipped.
func (s *Store) Save(ctx context.Context, run string, table *sweep.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return errors.New("store closed")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO cells
		(run, key, reservoir_size, layers, param, samples, mean_f1, max_f1, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	now := time.Now().UnixNano()
	for _, c := range table.Cells() {
		if !c.Final {
			continue
		}
		_, err := stmt.ExecContext(ctx, run, c.Param.Key(), c.Param.ReservoirSize, c.Param.Layers,
			c.Param.ID(), c.Samples, c.Mean, c.Max, now)
		if err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "insert %s", c.Param.Key())
		}
	}
	return tx.Commit()
}

// Load returns the rows of a run ordered by reservoir size and depth.
func (s *Store) Load(ctx context.Context, run string) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, errors.New("store closed")
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, param, samples, mean_f1, max_f1, created FROM cells
		WHERE run = ? ORDER BY reservoir_size, layers, key`, run)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Row
	for rows.Next() {
		r := Row{Run: run}
		var param string
		var created int64
		if err := rows.Scan(&r.Key, &param, &r.Samples, &r.Mean, &r.Max, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(param), &r.Param); err != nil {
			return nil, errors.Wrapf(err, "decode param %s", r.Key)
		}
		r.Created = time.Unix(0, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Runs lists the stored run identifiers, most recent first.
func (s *Store) Runs(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, errors.New("store closed")
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run FROM cells GROUP BY run ORDER BY MAX(created) DESC, run`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []string
	for rows.Next() {
		var run string
		if err := rows.Scan(&run); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
