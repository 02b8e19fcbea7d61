package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/chess-clock/timecontrol"
)

func TestFileStoreMissing(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "tc.toml"))
	if _, err := s.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tc.toml")
	s := NewFileStore(path)

	want := timecontrol.TimeControl{Kind: timecontrol.Delay, P1InitialTime: 25, P2InitialTime: 3, P1AltTime: 0, P2AltTime: 30}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	layout := "type = \"delay\"\np1_initial_time = 25\np2_initial_time = 3\np1_alt_time = 0\np2_alt_time = 30\n"
	if string(data) != layout {
		t.Errorf("Unexpected layout:\n%s", data)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestFileStoreRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"corrupt", "type = \n"},
		{"unknown kind", "type = \"fischer\"\np1_initial_time = 5\np2_initial_time = 5\np1_alt_time = 0\np2_alt_time = 0\n"},
		{"missing key", "type = \"bonus\"\np1_initial_time = 5\n"},
		{"out of range", "type = \"bonus\"\np1_initial_time = 0\np2_initial_time = 5\np1_alt_time = 0\np2_alt_time = 0\n"},
		{"wrong type", "type = \"bonus\"\np1_initial_time = \"ten\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tc.toml")
			os.WriteFile(path, []byte(tt.content), 0644)

			_, err := NewFileStore(path).Load()
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("Expected *LoadError, got %v", err)
			}
			if le.Path != path {
				t.Errorf("Expected path %s, got %s", path, le.Path)
			}
		})
	}
}

func TestFileStoreSaveValidates(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "tc.toml"))
	bad := timecontrol.Default()
	bad.P2AltTime = 31
	if err := s.Save(bad); err == nil {
		t.Error("Expected invalid record to be refused")
	}
	if _, err := s.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected nothing written, got %v", err)
	}
}

func TestLoadOrDefaultWritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tc.toml")
	os.WriteFile(path, []byte("garbage garbage\n"), 0644)
	s := NewFileStore(path)

	if tc := LoadOrDefault(s); tc != timecontrol.Default() {
		t.Errorf("Expected default, got %s", tc)
	}
	got, err := s.Load()
	if err != nil || got != timecontrol.Default() {
		t.Errorf("Expected default persisted, got %s (%v)", got, err)
	}
}

func TestLoadOrDefaultKeepsStored(t *testing.T) {
	m := NewMemoryStore()
	want := timecontrol.TimeControl{Kind: timecontrol.Delay, P1InitialTime: 1, P2InitialTime: 1, P1AltTime: 2, P2AltTime: 2}
	m.Save(want)

	if tc := LoadOrDefault(m); tc != want {
		t.Errorf("Expected stored record, got %s", tc)
	}
	if m.Saves() != 1 {
		t.Errorf("Expected no extra save, got %d", m.Saves())
	}
}

func TestLoadSettings(t *testing.T) {
	s, err := LoadSettings("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s != DefaultSettings() {
		t.Error("Expected defaults for empty path")
	}
	if s.Timing.TickPeriod() != time.Second || s.Timing.PollPeriod() != 100*time.Millisecond {
		t.Errorf("Expected appliance cadences, got %+v", s.Timing)
	}

	path := filepath.Join(t.TempDir(), "settings.toml")
	os.WriteFile(path, []byte("[timing]\ntick_period_ms = 250\n\n[audio]\nenabled = false\n\n[store]\npath = \"/var/lib/clock.toml\"\n"), 0644)

	s, err = LoadSettings(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Timing.TickPeriod() != 250*time.Millisecond {
		t.Errorf("Expected 250ms tick, got %v", s.Timing.TickPeriod())
	}
	if s.Timing.DebounceMs != 500 {
		t.Errorf("Expected default debounce kept, got %d", s.Timing.DebounceMs)
	}
	if s.Audio.Enabled {
		t.Error("Expected audio disabled")
	}
	if s.Store.Path != "/var/lib/clock.toml" {
		t.Errorf("Expected store path override, got %s", s.Store.Path)
	}
}

func TestLoadSettingsErrors(t *testing.T) {
	if _, err := LoadSettings(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Expected error for missing explicit file")
	}

	path := filepath.Join(t.TempDir(), "settings.toml")
	os.WriteFile(path, []byte("[timing]\npoll_period_ms = 0\n"), 0644)
	_, err := LoadSettings(path)
	if err == nil || !strings.Contains(err.Error(), "poll_period_ms") {
		t.Errorf("Expected poll_period_ms validation error, got %v", err)
	}
}
