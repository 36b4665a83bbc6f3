package catalog

import (
	"sync"

	"quotedesk/internal/domain"
)

// Snapshot is the last collection loaded for a source
type Snapshot struct {
	Records []domain.Record
	Page    *domain.OrderPage
	Stale   bool
}

// MemoryStore keeps the latest snapshot per source and the combobox
// vocabularies. Safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[domain.Source]Snapshot
	customers []string
	assets    []domain.Asset
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[domain.Source]Snapshot)}
}

func (s *MemoryStore) Snapshot(src domain.Source) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[src]
	if !ok {
		return Snapshot{}, false
	}
	// Return a copy to prevent external modification
	snap.Records = append([]domain.Record(nil), snap.Records...)
	return snap, true
}

func (s *MemoryStore) Put(src domain.Source, snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap.Records = append([]domain.Record(nil), snap.Records...)
	s.snapshots[src] = snap
}

func (s *MemoryStore) Candidates() ([]string, []domain.Asset) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.customers...), append([]domain.Asset(nil), s.assets...)
}

func (s *MemoryStore) SetCandidates(customers []string, assets []domain.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = append([]string(nil), customers...)
	s.assets = append([]domain.Asset(nil), assets...)
}

// AddCustomer appends a newly created customer name
func (s *MemoryStore) AddCustomer(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = append(s.customers, name)
}

// AddAsset appends a newly created asset
func (s *MemoryStore) AddAsset(a domain.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = append(s.assets, a)
}
