// Package session holds the per-session state: the confirmed-record
// mapping keyed by instrument ID and the import batches pending review.
// State is always passed explicitly into operations, never kept as ambient
// globals, and nothing here survives beyond the session TTL.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/epeers/transferdesk/internal/models"
	"github.com/patrickmn/go-cache"
)

// State is the mutable state of one user session. The record map is keyed
// by instrument ID: putting a record for an instrument already present
// overwrites it (last write wins).
type State struct {
	mu      sync.RWMutex
	records map[int64]models.PortfolioRecord
	pending map[string]*models.ImportBatch
}

func newState() *State {
	return &State{
		records: make(map[int64]models.PortfolioRecord),
		pending: make(map[string]*models.ImportBatch),
	}
}

// Get returns the record for an instrument, if any.
func (s *State) Get(instrumentID int64) (models.PortfolioRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[instrumentID]
	return rec, ok
}

// Put inserts or replaces the record for its instrument.
func (s *State) Put(rec models.PortfolioRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.InstrumentID] = rec
}

// All returns every record, ordered by instrument ID so exports are
// deterministic.
func (s *State) All() []models.PortfolioRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PortfolioRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InstrumentID < out[j].InstrumentID })
	return out
}

// Clear drops all records. Pending batches are untouched.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[int64]models.PortfolioRecord)
}

// AddBatch parks an import batch for review.
func (s *State) AddBatch(b *models.ImportBatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[b.ID] = b
}

// Batch returns a pending batch by ID.
func (s *State) Batch(id string) (*models.ImportBatch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.pending[id]
	return b, ok
}

// TakeBatch removes and returns a pending batch. Used by both confirm and
// discard: either way the batch is consumed.
func (s *State) TakeBatch(id string) (*models.ImportBatch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	return b, ok
}

// Store hands out session states keyed by session ID, expiring them after
// a period of inactivity.
type Store struct {
	sessions *cache.Cache
}

// NewStore creates a session store with the given idle TTL.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: cache.New(ttl, 2*ttl),
	}
}

// Session returns the state for a session ID, creating it if absent. Each
// access refreshes the TTL.
func (st *Store) Session(id string) *State {
	if v, found := st.sessions.Get(id); found {
		state := v.(*State)
		st.sessions.Set(id, state, cache.DefaultExpiration)
		return state
	}
	state := newState()
	st.sessions.Set(id, state, cache.DefaultExpiration)
	return state
}
