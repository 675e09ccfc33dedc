// Package storage persists session-local state under the base path.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/pairtask/pairtask/pkg/models"
)

// SessionStore holds the current authenticated identity and notifies
// watchers whenever it changes, including on logout (identity becomes nil).
// The core re-runs its initialization on every change.
type SessionStore interface {
	Current() *models.Profile
	SetCurrent(p models.Profile) error
	Clear() error
	Watch(fn func(current *models.Profile))
	Load() error
}

type sessionFile struct {
	Version string          `yaml:"version"`
	Member  *models.Profile `yaml:"member,omitempty"`
}

type fileSessionStore struct {
	basePath string

	mu       sync.Mutex
	current  *models.Profile
	watchers []func(*models.Profile)
}

// NewSessionStore creates a SessionStore backed by session.yaml in the
// given base directory.
func NewSessionStore(basePath string) SessionStore {
	return &fileSessionStore{basePath: basePath}
}

func (s *fileSessionStore) path() string {
	return filepath.Join(s.basePath, "session.yaml")
}

// Load reads session.yaml from disk. A missing file means no session.
func (s *fileSessionStore) Load() error {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading session.yaml: %w", err)
	}

	var f sessionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing session.yaml: %w", err)
	}

	s.mu.Lock()
	s.current = f.Member
	s.mu.Unlock()
	return nil
}

// Current returns the authenticated identity, or nil if none.
func (s *fileSessionStore) Current() *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	p := *s.current
	return &p
}

// SetCurrent persists the identity and notifies watchers.
func (s *fileSessionStore) SetCurrent(p models.Profile) error {
	if err := s.save(&p); err != nil {
		return err
	}
	s.mu.Lock()
	s.current = &p
	watchers := append([]func(*models.Profile){}, s.watchers...)
	s.mu.Unlock()

	for _, fn := range watchers {
		cp := p
		fn(&cp)
	}
	return nil
}

// Clear removes the persisted identity and notifies watchers with nil.
func (s *fileSessionStore) Clear() error {
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session.yaml: %w", err)
	}
	s.mu.Lock()
	s.current = nil
	watchers := append([]func(*models.Profile){}, s.watchers...)
	s.mu.Unlock()

	for _, fn := range watchers {
		fn(nil)
	}
	return nil
}

// Watch registers a callback invoked on every session change.
func (s *fileSessionStore) Watch(fn func(*models.Profile)) {
	s.mu.Lock()
	s.watchers = append(s.watchers, fn)
	s.mu.Unlock()
}

func (s *fileSessionStore) save(p *models.Profile) error {
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	data, err := yaml.Marshal(sessionFile{Version: "1.0", Member: p})
	if err != nil {
		return fmt.Errorf("marshalling session.yaml: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0o600); err != nil {
		return fmt.Errorf("writing session.yaml: %w", err)
	}
	return nil
}
