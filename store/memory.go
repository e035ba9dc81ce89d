package store

import "sync"

// MemoryStore keeps credentials for the lifetime of the process only.
type MemoryStore struct {
	mu    sync.RWMutex
	creds map[string]Credential
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{creds: map[string]Credential{}}
}

func (s *MemoryStore) Get(callerID string) (Credential, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.creds[callerID]
	return cred, ok, nil
}

func (s *MemoryStore) Put(callerID string, cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[callerID] = cred
	return nil
}

func (s *MemoryStore) Delete(callerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.creds, callerID)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
