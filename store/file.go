package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore mirrors an in-memory credential map to a single JSON file. The
// whole file is rewritten on every mutation.
type FileStore struct {
	path string

	mu    sync.RWMutex
	creds map[string]Credential
}

// NewFileStore loads path if it exists. A missing file is an empty store.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, creds: map[string]Credential{}}

	creds, err := readCredentialsFile(path)
	if err != nil {
		return nil, err
	}
	if creds != nil {
		s.creds = creds
	}
	return s, nil
}

func readCredentialsFile(path string) (map[string]Credential, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials %s: %w", path, err)
	}
	if len(b) == 0 {
		return nil, nil
	}
	creds := map[string]Credential{}
	if err := json.Unmarshal(b, &creds); err != nil {
		return nil, fmt.Errorf("decode credentials %s: %w", path, err)
	}
	return creds, nil
}

func (s *FileStore) Get(callerID string) (Credential, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.creds[callerID]
	return cred, ok, nil
}

func (s *FileStore) Put(callerID string, cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[callerID] = cred
	return s.flushLocked()
}

func (s *FileStore) Delete(callerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creds, callerID)
	return s.flushLocked()
}

func (s *FileStore) Close() error { return nil }

// flushLocked writes the full map through a temp file and rename so a crash
// never leaves a truncated file behind.
func (s *FileStore) flushLocked() error {
	b, err := json.MarshalIndent(s.creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close credentials: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace credentials %s: %w", s.path, err)
	}
	return nil
}
