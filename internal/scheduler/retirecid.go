package scheduler

import (
	"github.com/joshuafuller/quicfuzz/internal/connstate"
	"github.com/joshuafuller/quicfuzz/internal/frame"
	"github.com/joshuafuller/quicfuzz/internal/hostquic"
	"github.com/joshuafuller/quicfuzz/internal/varint"
)

// appendRetireConnectionID implements spec.md §4.5 step 8: append a
// well-formed RETIRE_CONNECTION_ID(seq) frame using the sequence number
// captured when NEW_CONNECTION_ID was last mutated, creating the
// pathology of retiring a CID in the same packet that introduced it.
//
// The insertion offset resolves SPEC_FULL.md's open question: it is the
// end of the last non-PADDING frame the walker parsed in the
// *post-mutation* payload (frame.LastNonPaddingOffset), not a
// possibly-stale length captured earlier in the call — any trailing
// padding at that offset is overwritten rather than preserved, since
// padding has no structural meaning to protect.
func (s *Scheduler) appendRetireConnectionID(buf []byte, headerLength, currentLength, capacity int, entry *connstate.Entry) int {
	extents, _ := frame.Walk(buf[headerLength:currentLength], s.Skipper, s.Typer)
	insertAt := headerLength + frame.LastNonPaddingOffset(buf[headerLength:currentLength], extents)

	frameBytes := encodeRetireConnectionID(entry.LastNewCIDSeqNoSent)
	if insertAt+len(frameBytes) > capacity {
		return currentLength
	}
	copy(buf[insertAt:], frameBytes)
	newLength := insertAt + len(frameBytes)
	if newLength < currentLength {
		newLength = currentLength
	}
	return newLength
}

// encodeRetireConnectionID builds a minimal well-formed
// RETIRE_CONNECTION_ID frame: the type byte followed by seq's minimal
// varint encoding.
func encodeRetireConnectionID(seq uint64) []byte {
	out := make([]byte, 1+varint.EncodedWidth(seq))
	out[0] = byte(hostquic.FrameRetireConnectionID)
	varint.Encode(out[1:], seq)
	return out
}
