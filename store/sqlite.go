package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps one row per caller in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path. When the table is
// empty and a legacy db.json sits next to it, its entries are imported once.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	ctx := context.Background()

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL allows the HTTP callback and the chat handlers to read while one writes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.importLegacy(ctx, filepath.Join(filepath.Dir(path), "db.json")); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS credentials (
		caller_id TEXT PRIMARY KEY,
		credential_json TEXT NOT NULL,
		updated_at_unixms INTEGER NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("migrate credentials table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) importLegacy(ctx context.Context, legacyPath string) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM credentials`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	creds, err := readCredentialsFile(legacyPath)
	if err != nil || len(creds) == 0 {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for callerID, cred := range creds {
		if err := upsert(ctx, tx, callerID, cred); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, callerID string, cred Credential) error {
	b, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encode credential: %w", err)
	}
	_, err = db.ExecContext(ctx, `INSERT INTO credentials(caller_id, credential_json, updated_at_unixms)
		VALUES(?, ?, ?)
		ON CONFLICT(caller_id) DO UPDATE SET
			credential_json = excluded.credential_json,
			updated_at_unixms = excluded.updated_at_unixms`,
		callerID, string(b), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(callerID string) (Credential, bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT credential_json FROM credentials WHERE caller_id = ?`, callerID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Credential{}, false, nil
	}
	if err != nil {
		return Credential{}, false, fmt.Errorf("load credential: %w", err)
	}
	var cred Credential
	if err := json.Unmarshal([]byte(raw), &cred); err != nil {
		return Credential{}, false, fmt.Errorf("decode credential: %w", err)
	}
	return cred, true, nil
}

func (s *SQLiteStore) Put(callerID string, cred Credential) error {
	return upsert(context.Background(), s.db, callerID, cred)
}

func (s *SQLiteStore) Delete(callerID string) error {
	if _, err := s.db.Exec(`DELETE FROM credentials WHERE caller_id = ?`, callerID); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
