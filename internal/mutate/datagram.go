package mutate

import (
	"github.com/joshuafuller/quicfuzz/internal/connstate"
	"github.com/joshuafuller/quicfuzz/internal/frame"
	"github.com/joshuafuller/quicfuzz/internal/fuzzerr"
	"github.com/joshuafuller/quicfuzz/internal/hostquic"
	"github.com/joshuafuller/quicfuzz/internal/pilot"
)

// datagram implements spec.md §4.3's DATAGRAM strategy: if the LEN bit
// (RFC 9221's 0x30/0x31 distinction) is absent, force it on — sacrificing
// the frame's first data byte to carry a freshly-written one-byte Length
// field, since the mutation engine never resizes a frame — then fuzz the
// declared length either way.
func datagram(cur *pilot.Cursor, buf []byte, ext frame.Extent, _ *connstate.Entry) error {
	typeWidth, ok := typeWidthOf(buf, ext)
	if !ok {
		return &fuzzerr.MutationError{Frame: "DATAGRAM", Reason: "missing type byte"}
	}
	hasLen := hostquic.FrameType(buf[ext.Start]) == hostquic.FrameDatagramMax

	if !hasLen {
		if ext.End-(ext.Start+typeWidth) < 1 {
			return &fuzzerr.MutationError{Frame: "DATAGRAM", Reason: "no room to carry a Length field"}
		}
		buf[ext.Start] = byte(hostquic.FrameDatagramMax)
		lengthOffset := ext.Start + typeWidth
		remaining := ext.End - lengthOffset - 1
		if remaining < 0 {
			remaining = 0
		}
		if remaining > 0x3F {
			remaining = 0x3F
		}
		buf[lengthOffset] = byte(remaining)
		f := varintField{start: lengthOffset, end: lengthOffset + 1, value: uint64(remaining)}
		return fuzzLength(cur, buf, f)
	}

	lengthOffset := ext.Start + typeWidth
	f, _, err := decodeFieldAt(buf, lengthOffset, ext.End)
	if err != nil {
		return &fuzzerr.MutationError{Frame: "DATAGRAM", Reason: "missing Length field", Err: err}
	}
	return fuzzLength(cur, buf, f)
}

func fuzzLength(cur *pilot.Cursor, buf []byte, f varintField) error {
	if cur.Chance(4) {
		mutateField(cur, buf, f, boundaryMaximal(fieldWidth(f)))
		return nil
	}
	flipField(cur, buf, f)
	return nil
}
