// Package cache persists tokenized instance sets between runs so eager
// dataset construction can skip re-tokenizing an unchanged corpus.
package cache

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/tursodatabase/go-libsql"
)

// Provider stores opaque instance-set payloads keyed by a corpus
// fingerprint. Payload encoding is the caller's concern.
type Provider struct {
	db *sql.DB
}

// NewProvider opens or initializes the cache database at path, creating
// parent directories as needed.
func NewProvider(path string) (*Provider, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("could not create cache directory: %w", err)
		}
	}

	slog.Info("Instance cache path:", "path", path)

	db, err := ConnectToDB(path)
	if err != nil {
		return nil, err
	}

	provider := &Provider{db: db}
	if err := provider.init(); err != nil {
		db.Close()
		return nil, err
	}
	return provider, nil
}

// ConnectToDB opens a libsql database at the given file path.
func ConnectToDB(path string) (*sql.DB, error) {
	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to cache database: %w", err)
	}
	return db, nil
}

// init sets up the cache tables.
func (p *Provider) init() error {
	_, err := p.db.Exec(`CREATE TABLE IF NOT EXISTS instance_sets (
		id TEXT PRIMARY KEY UNIQUE,
		fingerprint TEXT UNIQUE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		payload BLOB
	)`)
	if err != nil {
		return fmt.Errorf("failed to create instance_sets table: %w", err)
	}
	return nil
}

// Lookup returns the cached payload for fingerprint, if any.
func (p *Provider) Lookup(fingerprint string) ([]byte, bool, error) {
	var payload []byte
	err := p.db.QueryRow(
		"SELECT payload FROM instance_sets WHERE fingerprint = $1", fingerprint,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up instance set: %w", err)
	}
	return payload, true, nil
}

// Store saves a payload under fingerprint, replacing any previous entry.
func (p *Provider) Store(fingerprint string, payload []byte) error {
	_, err := p.db.Exec(
		`INSERT INTO instance_sets (id, fingerprint, created_at, payload) VALUES ($1, $2, $3, $4)
		 ON CONFLICT(fingerprint) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at`,
		uuid.New().String(), fingerprint, time.Now(), payload,
	)
	if err != nil {
		return fmt.Errorf("failed to store instance set: %w", err)
	}
	return nil
}

// Evict removes the entry for fingerprint, if present.
func (p *Provider) Evict(fingerprint string) error {
	_, err := p.db.Exec("DELETE FROM instance_sets WHERE fingerprint = $1", fingerprint)
	if err != nil {
		return fmt.Errorf("failed to evict instance set: %w", err)
	}
	return nil
}

// Close closes the cache database connection.
func (p *Provider) Close() error {
	return p.db.Close()
}
