package queue

import (
	"sync"

	"github.com/jmylchreest/toastui/internal/config"
)

// Set holds one lazily created Queue per position. Every manager in a
// process shares the Set returned by Default; tests create their own.
type Set struct {
	mu     sync.Mutex
	queues map[config.Position]*Queue
	seq    *seqSource
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{
		queues: make(map[config.Position]*Queue),
		seq:    &seqSource{},
	}
}

var (
	defaultSet  *Set
	defaultOnce sync.Once
)

// Default returns the process-wide Set.
func Default() *Set {
	defaultOnce.Do(func() {
		defaultSet = NewSet()
	})
	return defaultSet
}

// For returns the queue for position, creating it on first use.
func (s *Set) For(position config.Position) *Queue {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[position]
	if !ok {
		// Queues share the set's sequence so admissions are comparable across positions.
		q = &Queue{position: position, seq: s.seq}
		s.queues[position] = q
	}
	return q
}

// Remove deletes id from whichever queue holds it.
func (s *Set) Remove(id string) bool {
	for _, q := range s.snapshot() {
		if q.Remove(id) {
			return true
		}
	}
	return false
}

// Count returns the total number of entries across all positions.
func (s *Set) Count() int {
	n := 0
	for _, q := range s.snapshot() {
		n += q.Count()
	}
	return n
}

// Latest returns the most recently admitted entry across all positions
// for which filter returns true. A nil filter accepts everything.
func (s *Set) Latest(filter func(Entry) bool) (Entry, bool) {
	var (
		best  Entry
		bestS uint64
		found bool
	)
	for _, q := range s.snapshot() {
		e, seq, ok := q.latest(filter)
		if ok && (!found || seq > bestS) {
			best, bestS, found = e, seq, true
		}
	}
	return best, found
}

func (s *Set) snapshot() []*Queue {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Queue, 0, len(s.queues))
	for _, q := range s.queues {
		out = append(out, q)
	}
	return out
}
