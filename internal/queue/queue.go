// Package queue keeps the ordered, bounded set of visible entries per screen position.
package queue

import (
	"sync"

	"github.com/jmylchreest/toastui/internal/config"
)

// Entry is anything that can be admitted to a queue.
type Entry interface {
	EntryID() string
}

// Leaver is implemented by entries that can be on their way out, such as a
// toast playing its exit animation. Leaving entries neither count toward
// maxVisible nor get evicted; they leave through Remove.
type Leaver interface {
	Leaving() bool
}

func leaving(e Entry) bool {
	l, ok := e.(Leaver)
	return ok && l.Leaving()
}

// EvictFunc is called for every entry removed to make room for a new one.
// It runs after the queue lock is released.
type EvictFunc func(Entry)

type slot struct {
	entry Entry
	seq   uint64
}

// Queue is the ordered collection of entries for one position.
type Queue struct {
	mu       sync.Mutex
	position config.Position
	slots    []slot
	seq      *seqSource
}

type seqSource struct {
	mu   sync.Mutex
	next uint64
}

func (s *seqSource) take() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

// New creates an empty queue for position.
func New(position config.Position) *Queue {
	return &Queue{position: position, seq: &seqSource{}}
}

// Position returns the layout zone this queue serves.
func (q *Queue) Position() config.Position {
	return q.position
}

// Admit inserts entry, first evicting the oldest staying entries so that at
// most maxVisible staying entries remain afterwards. A maxVisible of 0
// disables the bound. Leaving entries are not counted.
// New entries go to the head when newestOnTop is set, otherwise the tail.
// Evicted entries are returned and passed to evict in oldest-first order.
func (q *Queue) Admit(entry Entry, maxVisible int, newestOnTop bool, evict EvictFunc) []Entry {
	q.mu.Lock()
	var evicted []Entry
	if maxVisible > 0 {
		for q.stayingLocked() >= maxVisible {
			oldest := q.oldestStayingLocked()
			if oldest < 0 {
				break
			}
			evicted = append(evicted, q.slots[oldest].entry)
			q.slots = append(q.slots[:oldest], q.slots[oldest+1:]...)
		}
	}

	s := slot{entry: entry, seq: q.seq.take()}
	if newestOnTop {
		q.slots = append([]slot{s}, q.slots...)
	} else {
		q.slots = append(q.slots, s)
	}
	q.mu.Unlock()

	if evict != nil {
		for _, e := range evicted {
			evict(e)
		}
	}
	return evicted
}

// Remove deletes the entry with id, preserving the order of the rest.
// Removing an unknown id is a no-op and reports false.
func (q *Queue) Remove(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, s := range q.slots {
		if s.entry.EntryID() == id {
			q.slots = append(q.slots[:i], q.slots[i+1:]...)
			return true
		}
	}
	return false
}

// Count returns the number of queued entries.
func (q *Queue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.slots)
}

// Entries returns a snapshot of the queued entries in display order.
func (q *Queue) Entries() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Entry, len(q.slots))
	for i, s := range q.slots {
		out[i] = s.entry
	}
	return out
}

func (q *Queue) stayingLocked() int {
	n := 0
	for _, s := range q.slots {
		if !leaving(s.entry) {
			n++
		}
	}
	return n
}

// oldestStayingLocked returns the slot index of the oldest entry that is not
// leaving, or -1.
func (q *Queue) oldestStayingLocked() int {
	oldest := -1
	for i, s := range q.slots {
		if leaving(s.entry) {
			continue
		}
		if oldest < 0 || s.seq < q.slots[oldest].seq {
			oldest = i
		}
	}
	return oldest
}

// latest returns the most recently admitted entry accepted by filter.
func (q *Queue) latest(filter func(Entry) bool) (Entry, uint64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var (
		best  Entry
		bestS uint64
		found bool
	)
	for _, s := range q.slots {
		if filter != nil && !filter(s.entry) {
			continue
		}
		if !found || s.seq > bestS {
			best, bestS, found = s.entry, s.seq, true
		}
	}
	return best, bestS, found
}
