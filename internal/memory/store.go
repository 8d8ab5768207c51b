// Package memory is the persistent customer-memory engine: customer
// profiles, the append-only interaction log, and conversation sessions
// with their messages. It backs the pipeline's customer context and the
// qualification scorer's evidence feed; the pipeline core itself only
// reads from here.
package memory

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeNow is a package-level var to allow test injection.
var timeNow = time.Now

// Config holds memory store configuration.
type Config struct {
	DataDir string
}

// DefaultConfig returns the default configuration for the memory store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{DataDir: filepath.Join(home, ".salesagent")}
}

// Store is the customer-memory engine backed by SQLite.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New creates a new Store with the given configuration.
// It creates the data directory if needed, opens SQLite with WAL mode,
// and runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("memory: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "memory.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("memory: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("memory: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("memory: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS customers (
			id                    TEXT PRIMARY KEY,
			company_name          TEXT NOT NULL,
			industry              TEXT NOT NULL DEFAULT '',
			company_size          TEXT NOT NULL DEFAULT '',
			website               TEXT NOT NULL DEFAULT '',
			contact_name          TEXT NOT NULL DEFAULT '',
			contact_title         TEXT NOT NULL DEFAULT '',
			contact_email         TEXT NOT NULL DEFAULT '',
			contact_phone         TEXT NOT NULL DEFAULT '',
			budget_range          TEXT NOT NULL DEFAULT '',
			decision_timeline     TEXT NOT NULL DEFAULT '',
			relationship_strength TEXT NOT NULL DEFAULT 'new',
			engagement_level      INTEGER NOT NULL DEFAULT 0,
			tags                  TEXT NOT NULL DEFAULT '',
			created_at            TEXT NOT NULL,
			updated_at            TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_customers_company ON customers(company_name COLLATE NOCASE);

		CREATE TABLE IF NOT EXISTS interactions (
			id          TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			deal_id     TEXT NOT NULL DEFAULT '',
			type        TEXT NOT NULL,
			summary     TEXT NOT NULL,
			details     TEXT NOT NULL DEFAULT '',
			sentiment   TEXT NOT NULL DEFAULT 'neutral',
			created_at  TEXT NOT NULL,
			FOREIGN KEY (customer_id) REFERENCES customers(id)
		);

		CREATE INDEX IF NOT EXISTS idx_interactions_customer ON interactions(customer_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_interactions_deal     ON interactions(deal_id);

		CREATE TABLE IF NOT EXISTS conversations (
			id          TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			deal_id     TEXT NOT NULL DEFAULT '',
			started_at  TEXT NOT NULL,
			ended_at    TEXT,
			summary     TEXT,
			FOREIGN KEY (customer_id) REFERENCES customers(id)
		);

		CREATE INDEX IF NOT EXISTS idx_conversations_customer ON conversations(customer_id, started_at DESC);

		CREATE TABLE IF NOT EXISTS messages (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id TEXT NOT NULL,
			role            TEXT NOT NULL,
			content         TEXT NOT NULL,
			created_at      TEXT NOT NULL,
			FOREIGN KEY (conversation_id) REFERENCES conversations(id)
		);

		CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

func stamp() string {
	return timeNow().UTC().Format(time.RFC3339)
}
