package credentials

import "sort"

// Store is a guarded registry of server configurations keyed by server ID.
//
// Entries are created only by Add, replaced only by Update and deleted only by
// Remove. Values are opaque to the store and are returned exactly as stored.
//
// Store has no internal locking. Callers that share a Store between goroutines
// must synchronize access themselves.
type Store[C any] struct {
	entries map[string]C
}

// NewStore creates an empty credential store
func NewStore[C any]() *Store[C] {
	return &Store[C]{
		entries: make(map[string]C),
	}
}

// Get returns the configuration stored for serverID. The boolean is false when
// no entry exists, so zero values are legal stored configurations.
func (s *Store[C]) Get(serverID string) (C, bool) {
	cfg, ok := s.entries[serverID]
	return cfg, ok
}

// Add inserts cfg for serverID if the ID is not already present
func (s *Store[C]) Add(serverID string, cfg C) bool {
	if _, exists := s.entries[serverID]; exists {
		return false
	}
	s.entries[serverID] = cfg
	return true
}

// Update replaces the configuration of an existing serverID
func (s *Store[C]) Update(serverID string, cfg C) bool {
	if _, exists := s.entries[serverID]; !exists {
		return false
	}
	s.entries[serverID] = cfg
	return true
}

// Remove deletes the entry for serverID if present
func (s *Store[C]) Remove(serverID string) bool {
	if _, exists := s.entries[serverID]; !exists {
		return false
	}
	delete(s.entries, serverID)
	return true
}

// Len returns the number of stored entries
func (s *Store[C]) Len() int {
	return len(s.entries)
}

// ServerIDs returns the stored server IDs in sorted order
func (s *Store[C]) ServerIDs() []string {
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
