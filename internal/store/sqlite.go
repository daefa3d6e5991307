// Package store persists analysis runs to a local SQLite database so past
// runs can be listed and compared.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/postlens/postlens/internal/model"
)

// Run is one persisted analysis run.
type Run struct {
	ID             int64
	Source         string
	PostCount      int
	MeanScore      float64
	LowCredCount   int
	LowCredPercent float64
	CreatedAt      time.Time
}

// DB wraps the SQLite connection and provides run persistence.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the database at path and initializes the schema.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		post_count INTEGER NOT NULL,
		mean_score REAL NOT NULL,
		low_cred_count INTEGER NOT NULL,
		low_cred_percent REAL NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);

	CREATE TABLE IF NOT EXISTS post_scores (
		run_id INTEGER NOT NULL REFERENCES runs(id),
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		score INTEGER NOT NULL,
		failed INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, position)
	);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun persists a completed report with its per-post scores and returns
// the run id.
func (db *DB) SaveRun(ctx context.Context, report *model.Report, posts []model.Post) (int64, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	cred := report.Credibility
	res, err := sq.Insert("runs").
		Columns("source", "post_count", "mean_score", "low_cred_count", "low_cred_percent", "created_at").
		Values(report.Source, report.Overview.TotalPosts, cred.Summary.Mean,
			cred.LowCredibilityCount, cred.LowCredibilityPercent, report.GeneratedAt.UTC()).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	insert := sq.Insert("post_scores").
		Columns("run_id", "position", "title", "score", "failed")
	for i, result := range cred.Results {
		title := ""
		if i < len(posts) {
			title = posts[i].Title
		}
		insert = insert.Values(runID, i, title, result.Score, result.Failed)
	}
	if len(cred.Results) > 0 {
		if _, err := insert.RunWith(tx).ExecContext(ctx); err != nil {
			return 0, fmt.Errorf("insert post scores: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return runID, nil
}

// History returns the most recent runs, newest first.
func (db *DB) History(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := sq.Select("id", "source", "post_count", "mean_score", "low_cred_count", "low_cred_percent", "created_at").
		From("runs").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		RunWith(db.conn).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Source, &r.PostCount, &r.MeanScore,
			&r.LowCredCount, &r.LowCredPercent, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return runs, nil
}

// RunScores returns the per-post scores of a run in input order.
func (db *DB) RunScores(ctx context.Context, runID int64) ([]model.CredibilityResult, error) {
	rows, err := sq.Select("score", "failed").
		From("post_scores").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("position ASC").
		RunWith(db.conn).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query post scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []model.CredibilityResult
	for rows.Next() {
		var r model.CredibilityResult
		if err := rows.Scan(&r.Score, &r.Failed); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return results, nil
}
