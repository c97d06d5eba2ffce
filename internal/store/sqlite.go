package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"BioDash/internal/model"
)

// SQLiteStore persists load history and band definitions to SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external tools can read history while the service writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS dataset_loads (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			dataset_id   TEXT NOT NULL,
			fingerprint  TEXT NOT NULL,
			row_count    INTEGER,
			agent_count  INTEGER,
			dropped_rows INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_loads_ts ON dataset_loads(timestamp)`,

		`CREATE TABLE IF NOT EXISTS band_definitions (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			dataset_id   TEXT NOT NULL,
			agent        TEXT NOT NULL,
			band_index   INTEGER NOT NULL,
			name         TEXT,
			min          REAL,
			max          REAL,
			member_count INTEGER,
			label        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bands_dataset ON band_definitions(dataset_id)`,
	}

	for _, st := range stmts {
		if _, err := s.db.Exec(st); err != nil {
			return fmt.Errorf("exec %q: %w", st[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) RecordLoad(evt *LoadEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO dataset_loads
		(timestamp, dataset_id, fingerprint, row_count, agent_count, dropped_rows)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.DatasetID, evt.Fingerprint,
		evt.RowCount, evt.AgentCount, evt.DroppedRows,
	)
	return err
}

func (s *SQLiteStore) RecordBands(datasetID string, table model.BandTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO band_definitions
		(timestamp, dataset_id, agent, band_index, name, min, max, member_count, label)
		VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for agent, bands := range table {
		for _, b := range bands {
			if _, err := stmt.Exec(now, datasetID, agent, b.Index, b.Name, b.Min, b.Max, b.MemberCount, b.Label); err != nil {
				return fmt.Errorf("insert band for %q: %w", agent, err)
			}
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	log.Info().Msg("closing sqlite store")
	return s.db.Close()
}
