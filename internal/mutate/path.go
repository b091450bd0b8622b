package mutate

import (
	"github.com/joshuafuller/quicfuzz/internal/connstate"
	"github.com/joshuafuller/quicfuzz/internal/frame"
	"github.com/joshuafuller/quicfuzz/internal/fuzzerr"
	"github.com/joshuafuller/quicfuzz/internal/pilot"
)

// pathChallengeResponse implements spec.md §4.3's PATH_CHALLENGE /
// PATH_RESPONSE strategy: uniformly flip the type's low bit (swapping the
// two frames' roles, 0x1a <-> 0x1b) or XOR one of the eight data bytes.
func pathChallengeResponse(cur *pilot.Cursor, buf []byte, ext frame.Extent, _ *connstate.Entry) error {
	typeWidth, ok := typeWidthOf(buf, ext)
	if !ok || typeWidth != 1 {
		return &fuzzerr.MutationError{Frame: "PATH_CHALLENGE/RESPONSE", Reason: "type byte not single-width"}
	}
	dataStart := ext.Start + typeWidth
	if ext.End-dataStart < 8 {
		return &fuzzerr.MutationError{Frame: "PATH_CHALLENGE/RESPONSE", Reason: "short data field"}
	}
	if cur.Bool() {
		buf[ext.Start] ^= 0x01
		return nil
	}
	idx := dataStart + int(cur.Choice(8))
	buf[idx] ^= byte(cur.Take(8))
	return nil
}
