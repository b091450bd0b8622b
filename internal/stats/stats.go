// Package stats implements the statistics surface spec.md §2 step 6 and
// §6 require: per-phase counters the test harness reads after a run to
// assert invariants like "tried >= 1 and tried <= fuzzed for every phase."
// The shape — a small set of named uint64 counters behind a mutex,
// incremented on the hot path and read back wholesale for assertions — is
// grounded on the teacher's internal/security.RateLimiter, which tracks an
// analogous evictionCount alongside its per-source rate-limiting state.
package stats

import (
	"sync"

	"github.com/joshuafuller/quicfuzz/internal/phase"
)

// PhaseCounters holds the five counters spec.md §6 names, one array per
// counter indexed by phase.Handshake.
type PhaseCounters struct {
	mu sync.Mutex

	nbCnxTried     [phase.Count]uint64
	nbCnxFuzzed    [phase.Count]uint64
	nbPacketsFuzzed [phase.Count]uint64
	waitMax        [phase.Count]uint64
	waitedMax      [phase.Count]uint64
}

// New returns a zeroed counter set.
func New() *PhaseCounters {
	return &PhaseCounters{}
}

// RecordConnectionTried increments nb_cnx_tried for the connection's
// target phase, the first time the scheduler ever considers fuzzing it
// (spec.md §8: "Sum over phases of nb_cnx_tried[p] equals the number of
// distinct connections established during the run").
func (s *PhaseCounters) RecordConnectionTried(p phase.Handshake) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nbCnxTried[p]++
}

// RecordConnectionFuzzed increments nb_cnx_fuzzed for p, once per
// connection the first time it is actually mutated (not merely eligible).
func (s *PhaseCounters) RecordConnectionFuzzed(p phase.Handshake) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nbCnxFuzzed[p]++
}

// RecordPacketFuzzed increments nb_packets_fuzzed for p on every packet
// the scheduler actually mutates, including re-fuzzes of an
// already-fuzzed connection.
func (s *PhaseCounters) RecordPacketFuzzed(p phase.Handshake) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nbPacketsFuzzed[p]++
}

// ObserveWait records a connection's wait_count[phase] reaching n,
// updating wait_max[phase] to the maximum ever observed (spec.md §8:
// "wait_max[ready] > 1 after a normal run").
func (s *PhaseCounters) ObserveWait(p phase.Handshake, n uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > s.waitMax[p] {
		s.waitMax[p] = n
	}
}

// RecordWaitedOut records the wait_count[phase] value a connection had
// accumulated at the moment it became eligible and was fuzzed
// (waited_max[phase] in spec.md §6).
func (s *PhaseCounters) RecordWaitedOut(p phase.Handshake, n uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > s.waitedMax[p] {
		s.waitedMax[p] = n
	}
}

// Snapshot is an immutable copy of all five counter arrays, safe to read
// without further synchronization — this is what test assertions and
// cmd/quicfuzzdemo's summary line operate on.
type Snapshot struct {
	NbCnxTried      [phase.Count]uint64
	NbCnxFuzzed     [phase.Count]uint64
	NbPacketsFuzzed [phase.Count]uint64
	WaitMax         [phase.Count]uint64
	WaitedMax       [phase.Count]uint64
}

// Snapshot returns a point-in-time copy of every counter.
func (s *PhaseCounters) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		NbCnxTried:      s.nbCnxTried,
		NbCnxFuzzed:     s.nbCnxFuzzed,
		NbPacketsFuzzed: s.nbPacketsFuzzed,
		WaitMax:         s.waitMax,
		WaitedMax:       s.waitedMax,
	}
}

// UnhealthyPhases checks the "tried <= fuzzed" half of the per-phase
// invariant spec.md §8 names and returns the phases that violate it,
// empty if the run is healthy. A phase with no tried connection is not
// reported, so the "tried >= 1" half is not checked here. It is a query,
// not a test assertion itself, so it can be used both from _test.go files
// (wrapped in testify's require) and from cmd/quicfuzzdemo's summary.
func (snap Snapshot) UnhealthyPhases() []phase.Handshake {
	var bad []phase.Handshake
	for _, p := range phase.All() {
		if snap.NbCnxTried[p] < 1 {
			continue // a phase a run never reached is not a violation by itself
		}
		if snap.NbCnxTried[p] > snap.NbCnxFuzzed[p] {
			bad = append(bad, p)
		}
	}
	return bad
}
