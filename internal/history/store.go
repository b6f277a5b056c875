// Package history provides the bounded, most-recent-first ledger of analyses for a session.
package history

import (
	"sync"

	"github.com/hyperjump/integrity/internal/models"
)

// DefaultCapacity is the number of records a store retains.
const DefaultCapacity = 50

// Store holds the currently viewed analysis and the archived history.
// History is most-recent-first and never longer than the capacity; the current
// record is tracked separately and need not be archived.
type Store struct {
	capacity int
	current  *models.AnalysisRecord
	records  []*models.AnalysisRecord
	mu       sync.RWMutex
}

// NewStore creates a store with the given capacity. Non-positive values use DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity}
}

// Capacity returns the maximum history length.
func (s *Store) Capacity() int {
	return s.capacity
}

// SetCurrent replaces the currently viewed analysis. rec may be nil.
func (s *Store) SetCurrent(rec *models.AnalysisRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = rec
}

// Current returns the currently viewed analysis, or nil.
func (s *Store) Current() *models.AnalysisRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Add prepends rec and evicts the oldest records beyond capacity. The evicted records
// are returned oldest-first. Adding the same id twice stores two entries.
func (s *Store) Add(rec *models.AnalysisRecord) []*models.AnalysisRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]*models.AnalysisRecord, 0, len(s.records)+1)
	records = append(records, rec)
	records = append(records, s.records...)
	var evicted []*models.AnalysisRecord
	if len(records) > s.capacity {
		tail := records[s.capacity:]
		evicted = make([]*models.AnalysisRecord, 0, len(tail))
		for i := len(tail) - 1; i >= 0; i-- {
			evicted = append(evicted, tail[i])
		}
		records = records[:s.capacity]
	}
	s.records = records
	return evicted
}

// Clear empties the history. The current record is unaffected.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}

// GetByID returns the current record when its id matches, otherwise the first
// matching record in history order.
func (s *Store) GetByID(id string) (*models.AnalysisRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current != nil && s.current.ID == id {
		return s.current, true
	}
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return nil, false
}

// List returns a copy of the history, most recent first.
func (s *Store) List() []*models.AnalysisRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.AnalysisRecord(nil), s.records...)
}

// Len returns the number of archived records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
