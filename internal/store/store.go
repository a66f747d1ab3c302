// Package store is a small JSON-file key/value store with per-entry expiry.
// It stands in for the browser-side persisted records the event page kept:
// the visitor's login, the guide-shown marker, and the collected-stamp list
// written out-of-band by the scan flow.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type entry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store persists string values by key with an expiry horizon in days.
// Expired entries read as absent and are pruned on the next write.
type Store struct {
	path    string
	entries map[string]entry
	now     func() time.Time
}

// Open loads the store file at path, creating an empty store if the file
// does not exist. A corrupt file is treated as empty rather than fatal.
func Open(path string) (*Store, error) {
	s := &Store{
		path:    path,
		entries: make(map[string]entry),
		now:     time.Now,
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		s.entries = make(map[string]entry)
	}
	return s, nil
}

// Get returns the value for key, or ok=false if absent or expired.
func (s *Store) Get(key string) (string, bool) {
	e, ok := s.entries[key]
	if !ok || s.now().After(e.ExpiresAt) {
		return "", false
	}
	return e.Value, true
}

// Set writes value under key, expiring after the given number of days.
func (s *Store) Set(key, value string, expiryDays int) error {
	s.prune()
	s.entries[key] = entry{
		Value:     value,
		ExpiresAt: s.now().Add(time.Duration(expiryDays) * 24 * time.Hour),
	}
	return s.flush()
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	if _, ok := s.entries[key]; !ok {
		return nil
	}
	delete(s.entries, key)
	return s.flush()
}

func (s *Store) prune() {
	now := s.now()
	for k, e := range s.entries {
		if now.After(e.ExpiresAt) {
			delete(s.entries, k)
		}
	}
}

func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	return nil
}
