// Package scheduler implements the per-packet orchestration spec.md §4.5
// describes: retrieve or create connection state, draw a pilot, classify
// the packet, gate eligibility on the handshake phase and wait count, then
// run injection, mutation, and the RETIRE_CONNECTION_ID opportunistic
// append. The nine-step contract is a straight-line function by design —
// grounded on the teacher's internal/responder.Registry.Register, which
// also reads as "one call, one connection, one set of side effects" rather
// than a layered pipeline of smaller interfaces.
package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/joshuafuller/quicfuzz/internal/connstate"
	"github.com/joshuafuller/quicfuzz/internal/hostquic"
	"github.com/joshuafuller/quicfuzz/internal/pilot"
	"github.com/joshuafuller/quicfuzz/internal/special"
	"github.com/joshuafuller/quicfuzz/internal/stats"
)

// Scheduler holds the collaborators a single FuzzerContext wires together:
// the per-connection state table, the statistics surface, the host
// stack's phase accessor, and the frame-shape contracts the frame walker
// needs. It carries no lock of its own; spec.md §5 places that
// responsibility on the caller when sharing one instance across
// goroutines, matching connstate.Table's own documented stance.
type Scheduler struct {
	Table           *connstate.Table
	Stats           *stats.PhaseCounters
	Phases          hostquic.PhaseAccessor
	Skipper         hostquic.FrameSkipper
	Typer           hostquic.FrameTypeIdentifier
	ContextEntropy  uint64
	TestTargetEntry string
	Logger          zerolog.Logger
}

// Handle runs the full per-packet contract and returns the packet's new
// length. buf[headerLength:currentLength] is the plaintext payload;
// buf[:headerLength] is the packet header, left alone for ordinary packets
// but rewritten by the Version Negotiation and Retry fuzzers. capacity bounds
// any growth from injection, extension, or the RETIRE_CONNECTION_ID
// append.
func (s *Scheduler) Handle(conn hostquic.ConnectionHandle, buf []byte, capacity, currentLength, headerLength int) int {
	entry, ok := s.Table.Lookup(conn.ICID)
	if !ok {
		entry = connstate.New(conn.ICID, s.ContextEntropy, seedFromConnectionID(conn.ICID))
		s.Table.Insert(entry)
		s.Stats.RecordConnectionTried(entry.TargetPhase)
		s.Logger.Debug().
			Bytes("icid", conn.LogID[:]).
			Str("target_phase", entry.TargetPhase.String()).
			Int("target_wait", entry.TargetWait).
			Msg("new connection fuzz state")
	}

	pilotValue := entry.Pilot.Next()
	cur := pilot.NewCursor(entry.Pilot, pilotValue)

	payload := buf[:currentLength]
	switch {
	case special.IsVersionNegotiation(payload):
		return s.handleVersionNegotiation(entry, cur, buf, currentLength, capacity)
	case special.IsRetry(payload):
		return s.handleRetry(entry, cur, buf, currentLength, capacity)
	default:
		return s.handleOrdinary(conn, entry, cur, buf, capacity, currentLength, headerLength)
	}
}

func (s *Scheduler) handleVersionNegotiation(entry *connstate.Entry, cur *pilot.Cursor, buf []byte, currentLength, capacity int) int {
	if entry.AlreadyFuzzed && !cur.Chance(2) {
		return currentLength
	}
	headerLen, ok := special.VNHeaderLen(buf[:currentLength])
	if !ok {
		s.Logger.Debug().Msg("version negotiation header too short to fuzz")
		return currentLength
	}
	newLength := special.MutateVersionNegotiation(cur, buf, headerLen, currentLength, capacity)
	entry.AlreadyFuzzed = true
	return newLength
}

func (s *Scheduler) handleRetry(entry *connstate.Entry, cur *pilot.Cursor, buf []byte, currentLength, capacity int) int {
	if entry.AlreadyFuzzed && !cur.Chance(2) {
		return currentLength
	}
	newLength := special.MutateRetry(cur, buf, currentLength, capacity)
	entry.AlreadyFuzzed = true
	return newLength
}

func (s *Scheduler) handleOrdinary(conn hostquic.ConnectionHandle, entry *connstate.Entry, cur *pilot.Cursor, buf []byte, capacity, currentLength, headerLength int) int {
	ph := s.Phases.Phase(conn)
	entry.WaitCount[ph]++
	s.Stats.ObserveWait(ph, uint64(entry.WaitCount[ph]))

	eligible := ph > entry.TargetPhase || (ph == entry.TargetPhase && entry.WaitCount[ph] >= entry.TargetWait)
	eligible = eligible && (!entry.AlreadyFuzzed || cur.Bool())
	if !eligible {
		return currentLength
	}

	if !entry.AlreadyFuzzed {
		s.Stats.RecordConnectionFuzzed(ph)
	}
	s.Stats.RecordWaitedOut(ph, uint64(entry.WaitCount[ph]))

	newLength := currentLength
	var injected bool
	switch cur.Choice(3) {
	case 0:
		newLength, injected = s.injectAppend(cur, buf, newLength, capacity, headerLength)
	case 1:
		newLength, injected = s.injectPrepend(cur, buf, newLength, capacity, headerLength)
	default:
		newLength, injected = s.injectReplace(cur, buf, newLength, capacity, headerLength)
	}

	var mutated bool
	if cur.Chance(2) {
		if err := s.mutateOneFrame(cur, buf, headerLength, newLength, entry); err == nil {
			mutated = true
		} else {
			s.Logger.Debug().Err(err).Msg("frame mutation declined")
		}
	}

	if !injected && !mutated {
		newLength = s.basicFuzz(cur, buf, headerLength, newLength, capacity)
	}

	if entry.NewCIDSeqNoAvailable && cur.Chance(4) {
		newLength = s.appendRetireConnectionID(buf, headerLength, newLength, capacity, entry)
		entry.NewCIDSeqNoAvailable = false
	}

	s.Stats.RecordPacketFuzzed(ph)
	entry.AlreadyFuzzed = true
	return newLength
}

// seedFromConnectionID derives a PRNG seed from a connection's initial
// connection id bytes, spec.md §3's "freshly generated random connection
// id" being the ICID the host stack already assigned — there is no
// separate entropy source to draw from, so the id itself is mixed into a
// 64-bit seed via FNV-1a, the same non-cryptographic mixing the teacher
// uses for its message-id hashing in internal/message.
func seedFromConnectionID(icid hostquic.ConnectionID) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for _, b := range icid.Slice() {
		h ^= uint64(b)
		h *= prime64
	}
	return h
}
