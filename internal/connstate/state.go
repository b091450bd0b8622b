// Package connstate implements the per-connection fuzzing state and its
// LRU-bounded table, spec.md §3 ("ConnectionFuzzState") and §4.6. The
// map-plus-mutex table shape is grounded on the teacher's
// internal/responder.Registry (map[string]*Service guarded by
// sync.RWMutex, duplicate-checked Register, existence-checked Get); the
// eviction bookkeeping is grounded on internal/security.RateLimiter, which
// tracks lastSeen per entry and an evictionCount alongside its bounded map
// for exactly the same "don't grow forever" reason spec.md §4.6 states.
package connstate

import (
	"sync"

	"github.com/joshuafuller/quicfuzz/internal/hostquic"
	"github.com/joshuafuller/quicfuzz/internal/phase"
	"github.com/joshuafuller/quicfuzz/internal/pilot"
)

// TargetPhase and TargetWait bounds from spec.md §3.
const (
	MinTargetWait = 1
	MaxTargetWait = 16
)

// Entry is spec.md §3's ConnectionFuzzState. Exported fields are read and
// written directly by the scheduler and mutators that own a *Entry for
// the duration of one Hook call (spec.md §5: "a ConnectionFuzzState
// pointer obtained from the table at the start of the call and valid for
// its duration"); the table itself only ever touches the LRU link fields.
type Entry struct {
	ICID hostquic.ConnectionID

	Pilot *pilot.Stream

	TargetPhase phase.Handshake
	TargetWait  int

	WaitCount [phase.Count]int

	AlreadyFuzzed bool

	LastTouchedNanos int64

	HasSentMaxData   bool
	LastSentMaxData  uint64

	NewCIDSeqNoAvailable bool
	LastNewCIDSeqNoSent  uint64

	// next/prev form the intrusive doubly-linked LRU list the table
	// maintains; no code outside this package ever reads or writes them,
	// per spec.md §9's "no aliasing is exposed to callers."
	next, prev *Entry
}

// Table is the map from initial connection id to *Entry, bounded by an
// LRU eviction policy, exactly per spec.md §4.6. Table is safe for
// concurrent use only insofar as spec.md §5 requires: the reference
// design assumes single-threaded use per context, matching the host
// stack's per-event-loop model, so Table's own mutex exists to make
// "caller chooses to share across threads" a documented, supported choice
// rather than undefined behavior — the same trade the teacher's Registry
// makes explicit in its doc comment.
type Table struct {
	mu       sync.Mutex
	byICID   map[hostquic.ConnectionID]*Entry
	head     *Entry // MRU
	tail     *Entry // LRU
	size     int
	capacity int
	evicted  uint64
}

// NewTable creates an empty table bounded to capacity entries. A
// non-positive capacity is treated as unbounded (eviction never fires);
// spec.md's "LRU eviction" is a capacity *policy*, not a mandatory bound.
func NewTable(capacity int) *Table {
	return &Table{
		byICID:   make(map[hostquic.ConnectionID]*Entry),
		capacity: capacity,
	}
}

// Lookup returns the entry for icid if present, moving it to MRU.
func (t *Table) Lookup(icid hostquic.ConnectionID) (*Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.byICID[icid]
	if ok {
		t.touch(e)
	}
	return e, ok
}

// Insert adds a newly created entry, evicting the LRU entry first if the
// table is at capacity. It is the caller's job to have already checked
// Lookup returned false; Insert does not check for an existing key with
// the same ICID (spec.md §3's invariant — "exactly one ConnectionFuzzState
// exists per initial connection id" — is the scheduler's responsibility to
// uphold by always calling Lookup before Insert).
func (t *Table) Insert(e *Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.capacity > 0 && t.size >= t.capacity {
		t.evictOldest()
	}
	t.byICID[e.ICID] = e
	t.pushFront(e)
	t.size++
}

// Len returns the number of entries currently tracked.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.size
}

// Evicted returns the total number of entries removed by LRU eviction
// since the table was created, mirroring RateLimiter.evictionCount's role
// as a metrics surface.
func (t *Table) Evicted() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.evicted
}

// touch moves e to the MRU position. Callers must hold t.mu.
func (t *Table) touch(e *Entry) {
	if t.head == e {
		return
	}
	t.unlink(e)
	t.pushFront(e)
}

// pushFront inserts e at the MRU end. Callers must hold t.mu.
func (t *Table) pushFront(e *Entry) {
	e.prev = nil
	e.next = t.head
	if t.head != nil {
		t.head.prev = e
	}
	t.head = e
	if t.tail == nil {
		t.tail = e
	}
}

// unlink removes e from the list without touching the map. Callers must
// hold t.mu.
func (t *Table) unlink(e *Entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		t.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		t.tail = e.prev
	}
	e.next, e.prev = nil, nil
}

// evictOldest removes the LRU entry from both the map and the list.
// Callers must hold t.mu. Per spec.md §4.6: "no entry is referenced
// externally once removed" — the caller that was mid-call on the evicted
// connection (impossible in the single-threaded model, since a call holds
// its own entry for its own duration) is not this package's concern; the
// invariant holds because Lookup/Insert are the only ways to obtain a
// pointer and both happen at call start.
func (t *Table) evictOldest() {
	victim := t.tail
	if victim == nil {
		return
	}
	t.unlink(victim)
	delete(t.byICID, victim.ICID)
	t.size--
	t.evicted++
}
