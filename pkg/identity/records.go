package identity

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RegistrationsCollection holds one record per created account.
const RegistrationsCollection = "registrations"

// ErrEmptyCollection is returned for a blank collection name.
var ErrEmptyCollection = errors.New("collection name is empty")

// Record is a stored document.
type Record struct {
	ID         string         `json:"id"`
	Collection string         `json:"collection"`
	Fields     map[string]any `json:"fields"`
	CreatedAt  time.Time      `json:"created_at"`
}

// MemoryRecords keeps records in process memory.
type MemoryRecords struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryRecords returns an empty store.
func NewMemoryRecords() *MemoryRecords {
	return &MemoryRecords{}
}

// AddRecord implements RecordStore.
func (m *MemoryRecords) AddRecord(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if collection == "" {
		return "", ErrEmptyCollection
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r := Record{
		ID:         uuid.NewString(),
		Collection: collection,
		Fields:     maps.Clone(fields),
		CreatedAt:  time.Now().UTC(),
	}
	m.mu.Lock()
	m.records = append(m.records, r)
	m.mu.Unlock()
	return r.ID, nil
}

// Records returns the records of collection in insertion order.
func (m *MemoryRecords) Records(collection string) []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Record
	for _, r := range m.records {
		if r.Collection == collection {
			out = append(out, r)
		}
	}
	return out
}
