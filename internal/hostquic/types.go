// Package hostquic defines the narrow set of contracts the mutation engine
// consumes from the host QUIC stack (spec.md §6, "Host-stack primitives
// consumed"), plus a reference implementation of each used by this
// module's own tests and by cmd/quicfuzzdemo. The host stack itself —
// connection setup, encryption, retransmission, loss recovery — is an
// external collaborator per spec.md §1 and is never implemented here.
package hostquic

import "github.com/joshuafuller/quicfuzz/internal/phase"

// FrameType is the numeric QUIC frame-type code, per RFC 9000 §19 plus the
// extension frames spec.md §4.3 names.
type FrameType uint64

// Frame-type constants per RFC 9000 §19 and the named extensions. Values
// mirror the wire codepoints exactly (not an internal enumeration) so a
// mutator can compare a decoded type varint directly against these
// constants.
const (
	FramePadding            FrameType = 0x00
	FramePing                FrameType = 0x01
	FrameAck                 FrameType = 0x02
	FrameAckECN              FrameType = 0x03
	FrameResetStream         FrameType = 0x04
	FrameStopSending         FrameType = 0x05
	FrameCrypto              FrameType = 0x06
	FrameNewToken            FrameType = 0x07
	FrameStreamBase          FrameType = 0x08 // 0x08..0x0f, OFF/LEN/FIN bits in the low 3 bits
	FrameStreamMax           FrameType = 0x0f
	FrameMaxData             FrameType = 0x10
	FrameMaxStreamData       FrameType = 0x11
	FrameMaxStreamsBidi      FrameType = 0x12
	FrameMaxStreamsUni       FrameType = 0x13
	FrameDataBlocked         FrameType = 0x14
	FrameStreamDataBlocked   FrameType = 0x15
	FrameStreamsBlockedBidi  FrameType = 0x16
	FrameStreamsBlockedUni   FrameType = 0x17
	FrameNewConnectionID     FrameType = 0x18
	FrameRetireConnectionID  FrameType = 0x19
	FramePathChallenge       FrameType = 0x1a
	FramePathResponse        FrameType = 0x1b
	FrameConnectionClose     FrameType = 0x1c
	FrameApplicationClose    FrameType = 0x1d
	FrameHandshakeDone       FrameType = 0x1e
	FrameDatagramBase        FrameType = 0x30 // RFC 9221: 0x30 (no length) / 0x31 (length)
	FrameDatagramMax         FrameType = 0x31
	// FrameACKFrequency is not assigned a final RFC 9000 codepoint; the
	// value below matches the ACK Frequency draft codepoint fuzi_q's
	// original source hardcodes (see SPEC_FULL.md §9, open question 3).
	FrameACKFrequency FrameType = 0xaf
	// Multipath extension frames (draft-ietf-quic-multipath); codepoints
	// per the draft's provisional allocation, mirrored from
	// original_source for the frames spec.md §4.3 names explicitly.
	FramePathAbandon  FrameType = 0x15228c00
	FramePathBackup   FrameType = 0x15228c05
	FramePathAvailable FrameType = 0x15228c04
	FramePathsBlocked FrameType = 0x15228c08
)

// IsStream reports whether t is one of the 8 STREAM frame codepoints
// (0x08..0x0f), where the low 3 bits are the OFF/LEN/FIN flags rather than
// part of the type's identity.
func (t FrameType) IsStream() bool {
	return t >= FrameStreamBase && t <= FrameStreamMax
}

// IsDatagram reports whether t is one of the two RFC 9221 DATAGRAM
// codepoints.
func (t FrameType) IsDatagram() bool {
	return t == FrameDatagramBase || t == FrameDatagramMax
}

// ConnectionHandle identifies a connection to the mutation engine. ICID is
// the stable fuzzing-state key (spec.md §3); LogID is a diagnostic-only
// correlation identifier with no bearing on fuzzing state, mirroring
// cloudflared's use of google/uuid for connection/session correlation in
// its own QUIC transport logging.
type ConnectionHandle struct {
	ICID  ConnectionID
	LogID [16]byte // a github.com/google/uuid.UUID, stored by value to keep this package free of a hard uuid import
}

// ConnectionID is a QUIC connection id: 0 to 20 bytes per RFC 9000 §5.1,
// stored as a small fixed array with an explicit length so it is cheap to
// use as a map key without escaping to the heap on every lookup.
type ConnectionID struct {
	Bytes [20]byte
	Len   uint8
}

// Slice returns the connection id's significant bytes.
func (c ConnectionID) Slice() []byte {
	return c.Bytes[:c.Len]
}

// NewConnectionID builds a ConnectionID from a byte slice, truncating to
// 20 bytes if the caller passes something longer (callers are expected to
// pass RFC-conformant ids; this is a defensive bound, not a validator).
func NewConnectionID(b []byte) ConnectionID {
	var cid ConnectionID
	n := len(b)
	if n > len(cid.Bytes) {
		n = len(cid.Bytes)
	}
	copy(cid.Bytes[:], b[:n])
	cid.Len = uint8(n)
	return cid
}

// PhaseAccessor maps a live connection handle to the four-phase
// classification the scheduler reasons about (spec.md §3, "HandshakePhase").
type PhaseAccessor interface {
	Phase(conn ConnectionHandle) phase.Handshake
}

// FrameSkipper reports how many bytes the frame starting at buf[0]
// occupies, or an error if it cannot be parsed. isAckOnly mirrors the host
// stack's own ack-eliciting classification, which spec.md §6 lists as part
// of the consumed primitive even though the mutation engine does not use
// it directly today; it is threaded through for callers (e.g. statistics)
// that do.
type FrameSkipper interface {
	SkipFrame(buf []byte) (consumed int, isAckOnly bool, err error)
}

// FrameTypeIdentifier decodes the frame-type varint at the start of buf
// without consuming the rest of the frame.
type FrameTypeIdentifier interface {
	IdentifyFrameType(buf []byte) (t FrameType, width int, err error)
}
