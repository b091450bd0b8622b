package hostquic

import (
	"sync"

	"github.com/joshuafuller/quicfuzz/internal/phase"
)

// FakeEndpoint is a test double for the host QUIC stack's consumed
// primitives (PhaseAccessor, FrameSkipper, FrameTypeIdentifier), grounded
// on the teacher's internal/transport.MockTransport: it records every
// outbound call for assertion and returns pre-configured responses
// instead of doing any real protocol work. Tests and cmd/quicfuzzdemo use
// it as the "external collaborator" spec.md §1 places outside this
// module's scope.
type FakeEndpoint struct {
	ReferenceSkipper

	mu      sync.Mutex
	phases  map[ConnectionID]phase.Handshake
	sent    []SentPacket
	closed  map[ConnectionID]uint64 // ICID -> transport error code, per CloseConnection calls recorded in tests
}

// SentPacket records one packet a caller handed to the fake endpoint after
// running it through the mutation hook, for test assertion.
type SentPacket struct {
	Conn    ConnectionHandle
	Payload []byte
}

// NewFakeEndpoint creates an empty fake with every connection defaulting
// to phase.Initial until SetPhase is called.
func NewFakeEndpoint() *FakeEndpoint {
	return &FakeEndpoint{
		phases: make(map[ConnectionID]phase.Handshake),
		closed: make(map[ConnectionID]uint64),
	}
}

// SetPhase configures the handshake phase FakeEndpoint reports for conn's
// ICID, letting a test drive a connection through Initial -> NotReady ->
// Ready -> Closing without a real handshake.
func (f *FakeEndpoint) SetPhase(icid ConnectionID, p phase.Handshake) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phases[icid] = p
}

// Phase implements PhaseAccessor.
func (f *FakeEndpoint) Phase(conn ConnectionHandle) phase.Handshake {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.phases[conn.ICID]
	if !ok {
		return phase.Initial
	}
	return p
}

// RecordSent appends a packet to the fake's send log, mirroring
// MockTransport.Send's recording behavior. Callers pass the buffer after
// the mutation hook has run on it.
func (f *FakeEndpoint) RecordSent(conn ConnectionHandle, payload []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, SentPacket{Conn: conn, Payload: append([]byte(nil), payload...)})
}

// SentPackets returns a copy of every packet recorded so far.
func (f *FakeEndpoint) SentPackets() []SentPacket {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SentPacket, len(f.sent))
	copy(out, f.sent)
	return out
}

// RecordClose simulates the host stack tearing down a connection with a
// transport-level error code, the observable effect spec.md §8's
// end-to-end scenarios assert on ("the server must eventually close a
// connection with transport-level FRAME_ENCODING_ERROR").
func (f *FakeEndpoint) RecordClose(icid ConnectionID, transportErrorCode uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed[icid] = transportErrorCode
	f.phases[icid] = phase.Closing
}

// ClosedWith reports the transport error code a connection was closed
// with, and whether it was closed at all.
func (f *FakeEndpoint) ClosedWith(icid ConnectionID) (uint64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	code, ok := f.closed[icid]
	return code, ok
}
