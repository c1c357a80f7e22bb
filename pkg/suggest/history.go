package suggest

import (
	"sync"
	"time"
)

// HistoryCap is the maximum number of persisted history entries; the list
// keeps the most frequent ones.
const HistoryCap = 50

// SearchRecord is one persisted history entry.
type SearchRecord struct {
	Query     string
	Timestamp time.Time
	Count     int
}

// HistoryStore is the injected accessor behind search history persistence.
// The aggregator only ever reads and writes the whole named list; the
// storage medium is the caller's choice.
type HistoryStore interface {
	Load() ([]SearchRecord, error)
	Save(records []SearchRecord) error
}

// MemoryStore keeps history in process memory. Useful as the default store
// and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	records []SearchRecord
}

// NewMemoryStore returns an empty in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored records.
func (m *MemoryStore) Load() ([]SearchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := make([]SearchRecord, len(m.records))
	copy(records, m.records)
	return records, nil
}

// Save replaces the stored records.
func (m *MemoryStore) Save(records []SearchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make([]SearchRecord, len(records))
	copy(m.records, records)
	return nil
}
