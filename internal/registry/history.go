package registry

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// History records one row per retrain in SQLite.
type History struct {
	db *sql.DB
}

// OpenHistory opens or creates the history database at path.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	// WAL so the CLI can read history while a training run appends.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS retrains (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		artifact_id TEXT NOT NULL,
		db_version TEXT NOT NULL,
		f1_score REAL NOT NULL,
		label_count INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_retrains_db_version ON retrains(db_version);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: %w", err)
	}
	return &History{db: db}, nil
}

// Close closes the underlying database.
func (h *History) Close() error {
	return h.db.Close()
}

// Append stores one retrain record.
func (h *History) Append(meta Meta) error {
	_, err := h.db.Exec(`
		INSERT INTO retrains (artifact_id, db_version, f1_score, label_count, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, meta.ArtifactID, meta.DBVersion, meta.F1Score, meta.LabelCount, meta.CreatedAt.Format(time.RFC3339))
	return err
}

// Latest returns the most recent retrain record.
func (h *History) Latest() (Meta, error) {
	row := h.db.QueryRow(`
		SELECT artifact_id, db_version, f1_score, label_count, created_at
		FROM retrains
		ORDER BY id DESC
		LIMIT 1
	`)
	return scanMeta(row.Scan)
}

// Recent returns up to limit retrain records, newest first.
func (h *History) Recent(limit int) ([]Meta, error) {
	rows, err := h.db.Query(`
		SELECT artifact_id, db_version, f1_score, label_count, created_at
		FROM retrains
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metas []Meta
	for rows.Next() {
		meta, err := scanMeta(rows.Scan)
		if err != nil {
			return nil, err
		}
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

func scanMeta(scan func(...any) error) (Meta, error) {
	var meta Meta
	var created string
	if err := scan(&meta.ArtifactID, &meta.DBVersion, &meta.F1Score, &meta.LabelCount, &created); err != nil {
		return Meta{}, err
	}
	meta.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return meta, nil
}
