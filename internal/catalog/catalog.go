// Package catalog keeps a SQLite history of assistant runs and the
// previews they downloaded. The scoring core itself stays stateless;
// the catalog only records outcomes.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Download is one recorded preview download.
type Download struct {
	RunID       string
	Kind        string // "music" or "sfx"
	Requirement string
	SoundID     int64
	Name        string
	Score       float64
	Rank        int
	License     string
	FilePath    string
}

// Run is one recorded assistant run.
type Run struct {
	ID         string
	Document   string
	StartedAt  time.Time
	FinishedAt *time.Time
	Tracks     int
	Effects    int
	Downloads  int
}

// Catalog wraps the SQLite database.
type Catalog struct {
	db *sql.DB
}

// Open opens the catalog at the given path with WAL mode enabled,
// creating the parent directory if needed, and runs pending
// migrations.
func Open(dbPath string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging catalog: %w", err)
	}

	// Single writer connection for SQLite.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating catalog: %w", err)
	}

	return &Catalog{db: db}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// BeginRun records the start of a new run against the given document
// and returns the run ID.
func (c *Catalog) BeginRun(ctx context.Context, document string) (string, error) {
	id := uuid.New().String()
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO runs (id, document, started_at) VALUES (?, ?, ?)`,
		id, document, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// FinishRun marks a run finished and stores its requirement and
// download counts.
func (c *Catalog) FinishRun(ctx context.Context, runID string, tracks, effects, downloads int) error {
	_, err := c.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, tracks = ?, effects = ?, downloads = ? WHERE id = ?`,
		time.Now().UTC(), tracks, effects, downloads, runID)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return nil
}

// RecordDownload stores one downloaded preview.
func (c *Catalog) RecordDownload(ctx context.Context, d Download) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO downloads (run_id, kind, requirement, sound_id, name, score, match_rank, license, file_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.RunID, d.Kind, d.Requirement, d.SoundID, d.Name, d.Score, d.Rank, d.License, d.FilePath)
	if err != nil {
		return fmt.Errorf("inserting download: %w", err)
	}
	return nil
}

// RunDownloads returns the downloads recorded for a run, in insertion
// order.
func (c *Catalog) RunDownloads(ctx context.Context, runID string) ([]Download, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT run_id, kind, requirement, sound_id, name, score, match_rank, license, file_path
		 FROM downloads WHERE run_id = ? ORDER BY id`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("querying downloads: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var downloads []Download
	for rows.Next() {
		var d Download
		if err := rows.Scan(&d.RunID, &d.Kind, &d.Requirement, &d.SoundID, &d.Name,
			&d.Score, &d.Rank, &d.License, &d.FilePath); err != nil {
			return nil, fmt.Errorf("scanning download: %w", err)
		}
		downloads = append(downloads, d)
	}
	return downloads, rows.Err()
}

// GetRun returns one run by ID, or nil if it does not exist.
func (c *Catalog) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT id, document, started_at, finished_at, tracks, effects, downloads
		 FROM runs WHERE id = ?`,
		runID)

	var r Run
	var finished sql.NullTime
	err := row.Scan(&r.ID, &r.Document, &r.StartedAt, &finished, &r.Tracks, &r.Effects, &r.Downloads)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	if finished.Valid {
		r.FinishedAt = &finished.Time
	}
	return &r, nil
}
