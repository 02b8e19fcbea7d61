// Package store persists the last confirmed time control
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/lixenwraith/chess-clock/timecontrol"
	"github.com/lixenwraith/chess-clock/toml"
)

// ErrNotFound is returned when no record has been saved yet
var ErrNotFound = errors.New("time control not found")

// LoadError reports a record that exists but cannot be used
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Store loads and saves the configuration record
type Store interface {
	Load() (timecontrol.TimeControl, error)
	Save(tc timecontrol.TimeControl) error
}

// record is the persisted layout; pointers detect missing keys
type record struct {
	Type          *string `toml:"type"`
	P1InitialTime *int    `toml:"p1_initial_time"`
	P2InitialTime *int    `toml:"p2_initial_time"`
	P1AltTime     *int    `toml:"p1_alt_time"`
	P2AltTime     *int    `toml:"p2_alt_time"`
}

func toRecord(tc timecontrol.TimeControl) record {
	kind := tc.Kind.String()
	return record{
		Type:          &kind,
		P1InitialTime: &tc.P1InitialTime,
		P2InitialTime: &tc.P2InitialTime,
		P1AltTime:     &tc.P1AltTime,
		P2AltTime:     &tc.P2AltTime,
	}
}

func (r record) timeControl() (timecontrol.TimeControl, error) {
	var tc timecontrol.TimeControl
	if r.Type == nil {
		return tc, errors.New("missing key type")
	}
	kind, err := timecontrol.ParseKind(*r.Type)
	if err != nil {
		return tc, err
	}
	tc.Kind = kind

	for _, f := range []struct {
		name string
		src  *int
		dst  *int
	}{
		{"p1_initial_time", r.P1InitialTime, &tc.P1InitialTime},
		{"p2_initial_time", r.P2InitialTime, &tc.P2InitialTime},
		{"p1_alt_time", r.P1AltTime, &tc.P1AltTime},
		{"p2_alt_time", r.P2AltTime, &tc.P2AltTime},
	} {
		if f.src == nil {
			return tc, fmt.Errorf("missing key %s", f.name)
		}
		*f.dst = *f.src
	}

	if err := tc.Validate(); err != nil {
		return tc, err
	}
	return tc, nil
}

// FileStore keeps the record in a TOML file
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and validates the record
func (s *FileStore) Load() (timecontrol.TimeControl, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return timecontrol.TimeControl{}, ErrNotFound
	}
	if err != nil {
		return timecontrol.TimeControl{}, &LoadError{Path: s.path, Err: err}
	}

	var rec record
	if err := toml.Unmarshal(data, &rec); err != nil {
		return timecontrol.TimeControl{}, &LoadError{Path: s.path, Err: err}
	}
	tc, err := rec.timeControl()
	if err != nil {
		return timecontrol.TimeControl{}, &LoadError{Path: s.path, Err: err}
	}
	return tc, nil
}

// Save validates and writes the record, replacing the file atomically
func (s *FileStore) Save(tc timecontrol.TimeControl) error {
	if err := tc.Validate(); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	data, err := toml.Marshal(toRecord(tc))
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// MemoryStore holds the record in memory
type MemoryStore struct {
	mu    sync.Mutex
	tc    *timecontrol.TimeControl
	saves int
	err   error
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (timecontrol.TimeControl, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tc == nil {
		return timecontrol.TimeControl{}, ErrNotFound
	}
	return *m.tc, nil
}

func (m *MemoryStore) Save(tc timecontrol.TimeControl) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.tc = &tc
	m.saves++
	return nil
}

// FailSaves makes Save return err (nil restores)
func (m *MemoryStore) FailSaves(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Saves returns the number of successful saves
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// LoadOrDefault returns the stored record, or writes and adopts the default
// when it is missing or unusable
func LoadOrDefault(s Store) timecontrol.TimeControl {
	tc, err := s.Load()
	if err == nil {
		return tc
	}

	log.Printf("store: %v, using default", err)
	tc = timecontrol.Default()
	if err := s.Save(tc); err != nil {
		log.Printf("store: write default: %v", err)
	}
	return tc
}
