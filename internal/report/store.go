package report

import (
	"context"
	"sync"
)

// DefaultCapacity is the number of reports kept when none is configured.
const DefaultCapacity = 100

// Store keeps reports in memory by ID and memoizes them by upload digest
// and options. The oldest report is evicted once capacity is reached.
type Store struct {
	mu       sync.RWMutex
	capacity int
	byID     map[string]*Report
	byKey    map[string]*Report
	order    []string
}

// NewStore creates a store holding at most capacity reports.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		byID:     make(map[string]*Report),
		byKey:    make(map[string]*Report),
	}
}

// Get returns the report with the given ID.
func (s *Store) Get(id string) (*Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	return r, ok
}

// Len returns the number of stored reports.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Lookup returns a previously built report for identical bytes and options.
func (s *Store) Lookup(digest string, opts Options) (*Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byKey[digest+"|"+opts.key()]
	return r, ok
}

// Put stores a report, evicting the oldest when full. A report built for
// the same bytes and options replaces nothing; the first one wins.
func (s *Store) Put(r *Report) *Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.key != "" {
		if existing, ok := s.byKey[r.key]; ok {
			return existing
		}
	}

	for len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		if old, ok := s.byID[oldest]; ok {
			delete(s.byKey, old.key)
			delete(s.byID, oldest)
		}
	}

	s.byID[r.ID] = r
	if r.key != "" {
		s.byKey[r.key] = r
	}
	s.order = append(s.order, r.ID)
	return r
}

// GetOrBuild returns the memoized report for the upload, building and
// storing it if needed. cached reports whether the report already existed.
func (s *Store) GetOrBuild(ctx context.Context, b *Builder, upload Upload, opts Options) (r *Report, cached bool, err error) {
	digest := Digest(upload.Data)
	if existing, ok := s.Lookup(digest, opts); ok {
		return existing, true, nil
	}

	r, err = b.Build(ctx, upload, opts)
	if err != nil {
		return nil, false, err
	}

	stored := s.Put(r)
	return stored, stored != r, nil
}
