package prefs

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Store guards the preference document and writes every change through.
type Store struct {
	mu       sync.Mutex
	state    *State
	filePath string
}

// Open loads the store from filePath. A missing file is an empty store.
func Open(filePath string) (*Store, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	return &Store{state: state, filePath: filePath}, nil
}

// Get returns a copy of the current preferences.
func (s *Store) Get() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.state
}

// WorkerBase returns the relay base URL, empty when unset.
func (s *Store) WorkerBase() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.WorkerBase
}

// SetWorkerBase stores base after trimming it. An empty value clears the
// preference.
func (s *Store) SetWorkerBase(base string) error {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base != "" {
		u, err := url.Parse(base)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("worker base %q must be an http(s) URL", base)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state.WorkerBase
	s.state.WorkerBase = base
	if err := SaveState(s.filePath, s.state); err != nil {
		s.state.WorkerBase = prev
		return fmt.Errorf("save prefs: %w", err)
	}
	return nil
}

// Resolve returns the preferred relay base, falling back to configured.
func (s *Store) Resolve(configured string) string {
	if wb := s.WorkerBase(); wb != "" {
		return wb
	}
	return configured
}
