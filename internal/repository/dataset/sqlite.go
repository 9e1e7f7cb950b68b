package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	domds "github.com/kailas-cloud/jokedex/internal/domain/dataset"
	"github.com/kailas-cloud/jokedex/internal/domain/joke"
)

// Schema is the table layout SQLSource reads. datasets.position defines
// dataset order, including datasets without rows; jokes row order defines
// record order within a dataset.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS datasets (
    name     TEXT PRIMARY KEY,
    position INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS jokes (
    dataset TEXT NOT NULL REFERENCES datasets(name),
    id      TEXT NOT NULL,
    title   TEXT NOT NULL DEFAULT '',
    body    TEXT NOT NULL,
    score   INTEGER,
    PRIMARY KEY (dataset, id)
)`,
}

// SQLSource reads datasets from the datasets and jokes tables.
type SQLSource struct {
	db *sql.DB

	mu          sync.Mutex
	schemaReady bool
}

// OpenSQLite opens a SQLite database by DSN.
func OpenSQLite(dsn string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	return conn, nil
}

// NewSQLSource creates a table-backed source.
func NewSQLSource(db *sql.DB) *SQLSource {
	return &SQLSource{db: db}
}

// Read loads every registered dataset in position order with its rows in insertion order.
func (s *SQLSource) Read(ctx context.Context) ([]domds.Dataset, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT d.name, j.id, j.title, j.body, j.score
FROM datasets d
LEFT JOIN jokes j ON j.dataset = d.name
ORDER BY d.position, j.rowid`)
	if err != nil {
		return nil, fmt.Errorf("query jokes: %w", err)
	}
	defer rows.Close()

	var order []string
	byName := make(map[string][]joke.Joke)
	for rows.Next() {
		var (
			name            string
			id, title, body sql.NullString
			score           sql.NullInt64
		)
		if err := rows.Scan(&name, &id, &title, &body, &score); err != nil {
			return nil, fmt.Errorf("scan joke: %w", err)
		}
		if _, seen := byName[name]; !seen {
			order = append(order, name)
			byName[name] = []joke.Joke{}
		}
		if !id.Valid {
			continue
		}
		var sp *int
		if score.Valid {
			v := int(score.Int64)
			sp = &v
		}
		byName[name] = append(byName[name], joke.Reconstruct(id.String, title.String, body.String, sp))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jokes: %w", err)
	}

	sets := make([]domds.Dataset, 0, len(order))
	for _, name := range order {
		d, err := domds.New(name, byName[name])
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", name, err)
		}
		sets = append(sets, d)
	}
	return sets, nil
}

// ensureSchema creates the tables once per source. It runs outside any write
// transaction so a rolled back write never takes the tables with it.
func (s *SQLSource) ensureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schemaReady {
		return nil
	}
	for _, stmt := range Schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	s.schemaReady = true
	return nil
}

// Write replaces a dataset in a single transaction. A new dataset is appended
// after the existing ones; a replaced dataset keeps its position.
func (s *SQLSource) Write(ctx context.Context, d *domds.Dataset) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO datasets (name, position)
SELECT ?, COALESCE(MAX(position) + 1, 0) FROM datasets`, d.Name()); err != nil {
		return fmt.Errorf("register dataset %s: %w", d.Name(), err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM jokes WHERE dataset = ?`, d.Name()); err != nil {
		return fmt.Errorf("clear dataset %s: %w", d.Name(), err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO jokes (dataset, id, title, body, score) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	jokes := d.Jokes()
	for i := range jokes {
		j := &jokes[i]
		var score any
		if p := j.ScorePtr(); p != nil {
			score = *p
		}
		if _, err := stmt.ExecContext(ctx, d.Name(), j.ID(), j.Title(), j.Body(), score); err != nil {
			return fmt.Errorf("insert joke %s/%s: %w", d.Name(), j.ID(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
