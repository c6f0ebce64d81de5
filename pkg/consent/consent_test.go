package consent

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	if _, ok, err := s.Get(); ok || err != nil {
		t.Fatalf("empty store Get = %v, %v", ok, err)
	}
	if _, err := s.Set("maybe"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Set(maybe) = %v, want ErrInvalidValue", err)
	}
	p, err := s.Set(Declined)
	if err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.Get()
	if !ok || err != nil || got != p {
		t.Errorf("Get = %+v, %v, %v", got, ok, err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "storage.json")
	s := NewFileStore(path)
	s.now = func() time.Time { return time.UnixMilli(1717000000000) }

	if _, ok, err := s.Get(); ok || err != nil {
		t.Fatalf("missing file Get = %v, %v", ok, err)
	}

	if _, err := s.Set(Accepted); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened := NewFileStore(path)
	p, ok, err := reopened.Get()
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if p.Value != Accepted || p.Timestamp != 1717000000000 {
		t.Errorf("Preference = %+v", p)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]Preference
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw[Key].Value != Accepted {
		t.Errorf("file content = %s", data)
	}
}

func TestFileStoreKeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte(`{"theme":"dark"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path).Set(Declined); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["theme"]) != `"dark"` {
		t.Errorf("theme = %s", raw["theme"])
	}
}

func TestFileStoreMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"not json", "{{{", true},
		{"bad preference", `{"localhealth-cookie-preference": 42}`, true},
		{"empty value", `{"localhealth-cookie-preference": {"value": ""}}`, false},
		{"empty file", ``, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "storage.json")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, ok, err := NewFileStore(path).Get()
			if ok {
				t.Error("malformed content should show the banner again")
			}
			if (err != nil) != tc.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFileStoreOverwritesUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{{{"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path)
	if _, err := s.Set(Accepted); err != nil {
		t.Fatal(err)
	}
	p, ok, err := s.Get()
	if err != nil || !ok || p.Value != Accepted {
		t.Errorf("Get = %+v, %v, %v", p, ok, err)
	}
}
