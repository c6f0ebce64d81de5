// Package consent persists the cookie banner choice.
package consent

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Key is the storage key of the preference.
const Key = "localhealth-cookie-preference"

// Accepted and Declined are the two choices offered by the banner.
const (
	Accepted = "accepted"
	Declined = "declined"
)

// ErrInvalidValue is returned by Set for anything but Accepted or Declined.
var ErrInvalidValue = errors.New("consent value must be accepted or declined")

// Preference is a stored choice. Timestamp is in Unix milliseconds.
type Preference struct {
	Value     string `json:"value"`
	Timestamp int64  `json:"timestamp"`
}

// Store reads and writes the preference. Get reports ok=false when no
// usable preference exists and the banner should be shown.
type Store interface {
	Get() (Preference, bool, error)
	Set(value string) (Preference, error)
}

func newPreference(value string, now time.Time) (Preference, error) {
	if value != Accepted && value != Declined {
		return Preference{}, fmt.Errorf("%w: %q", ErrInvalidValue, value)
	}
	return Preference{Value: value, Timestamp: now.UnixMilli()}, nil
}

// MemoryStore keeps the preference in memory.
type MemoryStore struct {
	mu   sync.Mutex
	pref *Preference
	now  func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// Get implements Store.
func (m *MemoryStore) Get() (Preference, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pref == nil {
		return Preference{}, false, nil
	}
	return *m.pref, true, nil
}

// Set implements Store.
func (m *MemoryStore) Set(value string) (Preference, error) {
	p, err := newPreference(value, m.now())
	if err != nil {
		return Preference{}, err
	}
	m.mu.Lock()
	m.pref = &p
	m.mu.Unlock()
	return p, nil
}

// FileStore keeps key-value pairs in a JSON file, like browser local
// storage. Other keys in the file are preserved.
type FileStore struct {
	path string
	now  func() time.Time

	mu   sync.Mutex
	last *Preference
}

// NewFileStore uses the file at path; it is created on the first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Get implements Store. A missing, unreadable or malformed file reports
// no preference; only the malformed case returns an error for logging.
func (f *FileStore) Get() (Preference, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		if f.last != nil {
			return *f.last, true, err
		}
		return Preference{}, false, err
	}
	raw, ok := entries[Key]
	if !ok {
		return Preference{}, false, nil
	}
	var p Preference
	if err := json.Unmarshal(raw, &p); err != nil {
		return Preference{}, false, fmt.Errorf("decode %s: %w", Key, err)
	}
	if p.Value == "" {
		return Preference{}, false, nil
	}
	return p, true, nil
}

// Set implements Store. The choice stays in effect for this process even
// when it cannot be written.
func (f *FileStore) Set(value string) (Preference, error) {
	p, err := newPreference(value, f.now())
	if err != nil {
		return Preference{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = &p

	entries, err := f.read()
	if err != nil {
		slog.Warn("replacing unreadable consent file", "path", f.path, "error", err)
		entries = make(map[string]json.RawMessage)
	}
	encoded, err := json.Marshal(p)
	if err != nil {
		return p, err
	}
	entries[Key] = encoded
	if err := f.write(entries); err != nil {
		return p, fmt.Errorf("save consent: %w", err)
	}
	return p, nil
}

func (f *FileStore) read() (map[string]json.RawMessage, error) {
	entries := make(map[string]json.RawMessage)
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}
	return entries, nil
}

func (f *FileStore) write(entries map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".consent-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
