// Package frame implements the frame walker spec.md §4.2 describes:
// iterating frame extents in a decrypted QUIC payload so the scheduler
// and mutators can address individual frames without re-deriving their
// boundaries. The offset-advancing, error-on-first-failure shape is
// grounded on the teacher's internal/message.ParseMessage, which walks a
// DNS message's sections the same way: advance an offset, stop and
// surface what has been parsed so far the moment something doesn't fit.
package frame

import (
	"github.com/joshuafuller/quicfuzz/internal/fuzzerr"
	"github.com/joshuafuller/quicfuzz/internal/hostquic"
)

// MaxFrames bounds how many frame extents Walk will report, per spec.md
// §4.2 ("up to a configurable maximum (32)").
const MaxFrames = 32

// Extent is the half-open byte range [Start, End) of one frame within the
// payload Walk was given, plus the frame's identified type.
type Extent struct {
	Start int
	End   int
	Type  hostquic.FrameType
}

// Walk iterates the frames in payload, starting at offset 0 (callers pass
// the payload slice already sliced past the packet header), using skipper
// to determine each frame's length and typer to identify its type. It
// stops at the first frame it cannot parse, returning every extent parsed
// up to that point — spec.md §4.2: "On parse error, the walker stops; the
// prior frames remain available for fuzzing." It never returns more than
// MaxFrames extents.
func Walk(payload []byte, skipper hostquic.FrameSkipper, typer hostquic.FrameTypeIdentifier) ([]Extent, error) {
	var extents []Extent
	offset := 0
	for offset < len(payload) && len(extents) < MaxFrames {
		t, _, err := typer.IdentifyFrameType(payload[offset:])
		if err != nil {
			return extents, &fuzzerr.ParseError{Operation: "identify frame type", Offset: offset, Err: err}
		}
		consumed, _, err := skipper.SkipFrame(payload[offset:])
		if err != nil {
			return extents, &fuzzerr.ParseError{Operation: "skip frame", Offset: offset, Err: err}
		}
		if consumed <= 0 {
			return extents, &fuzzerr.ParseError{Operation: "skip frame", Offset: offset, Err: errZeroLengthFrame}
		}
		end := offset + consumed
		if end > len(payload) {
			return extents, &fuzzerr.ParseError{Operation: "skip frame", Offset: offset, Err: errFrameOverrunsPayload}
		}
		extents = append(extents, Extent{Start: offset, End: end, Type: t})
		offset = end
	}
	return extents, nil
}

// LastNonPaddingOffset returns the offset of the start of the trailing
// padding run in extents — a PADDING frame followed only by more PADDING
// until the end of the parsed extents. When the last parsed frame is not
// PADDING it returns that frame's end offset, and when no frame was
// parsed it returns len(payload). The scheduler uses this to know where it can append
// or overwrite an injected frame without destroying real content (spec.md
// §4.2).
func LastNonPaddingOffset(payload []byte, extents []Extent) int {
	end := len(payload)
	if len(extents) > 0 {
		end = extents[len(extents)-1].End
	}
	for i := len(extents) - 1; i >= 0; i-- {
		if extents[i].Type != hostquic.FramePadding {
			return extents[i].End
		}
	}
	if len(extents) > 0 && extents[0].Type == hostquic.FramePadding {
		return extents[0].Start
	}
	return end
}
