// Package mutate implements the frame mutators spec.md §4.3 describes: one
// strategy family per frame kind, dispatched through a declarative lookup
// keyed by frame.Kind rather than a type switch (spec.md §9's redesign
// note), so each mutator is independently constructible and testable. The
// table-of-funcs shape is grounded on the teacher's internal/state package,
// which dispatches protocol events through a map[State]handler rather than
// a switch, for the same "declarative and testable in isolation" reason.
package mutate

import (
	"github.com/joshuafuller/quicfuzz/internal/connstate"
	"github.com/joshuafuller/quicfuzz/internal/frame"
	"github.com/joshuafuller/quicfuzz/internal/fuzzerr"
	"github.com/joshuafuller/quicfuzz/internal/pilot"
)

// Func mutates the frame occupying buf[ext.Start:ext.End] in place. buf is
// the full packet payload so a mutator can see bytes outside its own frame
// when that is meaningful (the PADDING/PING/HANDSHAKE_DONE mutator reads
// and rewrites the zero bytes that follow its one-byte frame). entry is the owning connection's fuzz state,
// non-nil, for mutators that read or write captured values (MAX_DATA,
// NEW_CONNECTION_ID). Returning an error means the mutator declined; the
// scheduler treats a decline as a no-op per spec.md §7, never as a fatal
// condition.
type Func func(cur *pilot.Cursor, buf []byte, ext frame.Extent, entry *connstate.Entry) error

// table is the declarative dispatch: one entry per frame.Kind that has a
// dedicated strategy. A kind with no entry falls through to Default.
var table = map[frame.Kind]Func{
	frame.KindPadding:           zeroLengthFrame,
	frame.KindPing:              zeroLengthFrame,
	frame.KindHandshakeDone:     zeroLengthFrame,
	frame.KindAck:               ack,
	frame.KindAckECN:            ack,
	frame.KindAckFrequency:      ackFrequency,
	frame.KindStream:            stream,
	frame.KindMaxData:           maxData,
	frame.KindDataBlocked:       genericVarintsFixed(1, "DATA_BLOCKED"),
	frame.KindMaxStreamData:     genericVarintsFixed(2, "MAX_STREAM_DATA"),
	frame.KindStreamDataBlocked: genericVarintsFixed(2, "STREAM_DATA_BLOCKED"),
	frame.KindMaxStreamsBidi:    boundaryStreamLimit("MAX_STREAMS_BIDI"),
	frame.KindMaxStreamsUni:     boundaryStreamLimit("MAX_STREAMS_UNI"),
	frame.KindStreamsBlockedBidi: boundaryStreamLimit("STREAMS_BLOCKED_BIDI"),
	frame.KindStreamsBlockedUni:  boundaryStreamLimit("STREAMS_BLOCKED_UNI"),
	frame.KindResetStream:        genericVarintsFixed(3, "RESET_STREAM"),
	frame.KindStopSending:        genericVarintsFixed(2, "STOP_SENDING"),
	frame.KindNewConnectionID:    newConnectionID,
	frame.KindRetireConnectionID: retireConnectionID,
	frame.KindNewToken:           newToken,
	frame.KindCrypto:             crypto,
	frame.KindPathChallenge:      pathChallengeResponse,
	frame.KindPathResponse:       pathChallengeResponse,
	frame.KindPathAbandon:        extensionVarints(2, "PATH_ABANDON"),
	frame.KindPathAvailable:      extensionVarints(2, "PATH_AVAILABLE"),
	frame.KindPathBackup:         extensionVarints(2, "PATH_BACKUP"),
	frame.KindPathsBlocked:       extensionVarints(1, "PATHS_BLOCKED"),
	frame.KindDatagram:           datagram,
	frame.KindConnectionClose:    closeFrame(true),
	frame.KindApplicationClose:   closeFrame(false),
}

// Dispatch looks up and runs the mutator for ext's frame kind, falling
// back to Default when no dedicated mutator is registered (any frame kind
// this table does not name, such as KindDefault).
func Dispatch(cur *pilot.Cursor, buf []byte, ext frame.Extent, entry *connstate.Entry) error {
	fn, ok := table[frame.Classify(ext.Type)]
	if !ok {
		fn = Default
	}
	return fn(cur, buf, ext, entry)
}

// Default implements spec.md §4.3's fallback: skip the frame-type varint,
// then XOR one of the next up-to-eight bytes with a pilot-derived mask.
func Default(cur *pilot.Cursor, buf []byte, ext frame.Extent, _ *connstate.Entry) error {
	typeWidth, ok := typeWidthOf(buf, ext)
	if !ok {
		return &fuzzerr.MutationError{Frame: "default", Reason: "frame too short for type field"}
	}
	start := ext.Start + typeWidth
	avail := ext.End - start
	if avail <= 0 {
		return &fuzzerr.MutationError{Frame: "default", Reason: "no payload bytes after type field"}
	}
	if avail > 8 {
		avail = 8
	}
	idx := int(cur.Choice(uint64(avail)))
	mask := byte(cur.Take(8))
	if mask == 0 {
		mask = 0xFF
	}
	buf[start+idx] ^= mask
	return nil
}
