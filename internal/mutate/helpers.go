package mutate

import (
	"github.com/joshuafuller/quicfuzz/internal/connstate"
	"github.com/joshuafuller/quicfuzz/internal/frame"
	"github.com/joshuafuller/quicfuzz/internal/fuzzerr"
	"github.com/joshuafuller/quicfuzz/internal/pilot"
	"github.com/joshuafuller/quicfuzz/internal/varint"
)

// typeWidthOf re-decodes the width of the frame-type varint at the start
// of ext so a mutator can locate the first field after it. Frame.Walk
// already paid this cost once; mutators pay it again rather than thread a
// third return value through every call site, matching spec.md §4.3's
// "first byte of the frame" framing of the problem (cheap relative to the
// rest of the mutation).
func typeWidthOf(buf []byte, ext frame.Extent) (int, bool) {
	if ext.Start >= ext.End || ext.Start >= len(buf) {
		return 0, false
	}
	n, err := varint.Skip(buf[ext.Start:ext.End])
	if err != nil {
		return 0, false
	}
	return n, true
}

// varintField is one decoded varint's position within buf, relative to
// the whole payload (not the frame).
type varintField struct {
	start, end int
	value      uint64
}

// fieldsAfterType walks up to maxFields varints starting immediately after
// the frame-type varint, stopping early if the frame runs out of room.
func fieldsAfterType(buf []byte, ext frame.Extent, maxFields int) []varintField {
	typeWidth, ok := typeWidthOf(buf, ext)
	if !ok {
		return nil
	}
	offset := ext.Start + typeWidth
	var fields []varintField
	for len(fields) < maxFields && offset < ext.End {
		v, n, err := varint.Decode(buf[offset:ext.End])
		if err != nil {
			break
		}
		fields = append(fields, varintField{start: offset, end: offset + n, value: v})
		offset += n
	}
	return fields
}

// mutateField rewrites one decoded field to newValue via width-preserving
// overwrite, falling back to a single-bit flip of the value bits when
// newValue does not fit in the field's original width, per spec.md §4.1
// and §7.
func mutateField(cur *pilot.Cursor, buf []byte, f varintField, newValue uint64) {
	if varint.OverwriteInPlace(buf, f.start, f.end, newValue) {
		return
	}
	varint.FlipSingleBit(buf, f.start, uint(cur.Take(3)))
}

// flipField flips a single pilot-chosen bit of f's value bits, used by
// every "otherwise generic fuzz" fallback.
func flipField(cur *pilot.Cursor, buf []byte, f varintField) {
	varint.FlipSingleBit(buf, f.start, uint(cur.Take(3)))
}

// boundaryMaximal returns the largest value representable at width bytes:
// spec.md §4.3's "existing lower 6 bits of byte 0 are set to 1 and all
// subsequent bytes of the varint to 0xFF."
func boundaryMaximal(width int) uint64 {
	switch width {
	case 1:
		return 0x3F
	case 2:
		return 0x3FFF
	case 4:
		return 0x3FFFFFFF
	default:
		return varint.MaxValue
	}
}

func fieldWidth(f varintField) int { return f.end - f.start }

// genericVarintField implements spec.md §4.3's "Generic varint-field
// mutator": given a frame that is a flat sequence of varints, pick one
// (never the type field) and either overwrite it in place with a
// pilot-derived value or flip one of its bits.
func genericVarintField(cur *pilot.Cursor, buf []byte, fields []varintField) error {
	if len(fields) == 0 {
		return &fuzzerr.MutationError{Frame: "generic", Reason: "no varint fields present"}
	}
	f := fields[cur.Choice(uint64(len(fields)))]
	if cur.Bool() {
		flipField(cur, buf, f)
		return nil
	}
	mutateField(cur, buf, f, cur.Take(uint(fieldWidth(f)*8-2)))
	return nil
}

// genericVarintsFixed builds a Func that treats a frame as exactly count
// varints after the type field and applies the generic varint-field
// mutator to them. name is used only in declined-mutation diagnostics.
func genericVarintsFixed(count int, name string) Func {
	return func(cur *pilot.Cursor, buf []byte, ext frame.Extent, _ *connstate.Entry) error {
		fields := fieldsAfterType(buf, ext, count)
		if len(fields) == 0 {
			return &fuzzerr.MutationError{Frame: name, Reason: "no varint fields present"}
		}
		return genericVarintField(cur, buf, fields)
	}
}

// extensionVarints is genericVarintsFixed's counterpart for the
// multipath/ACK_FREQUENCY extension frames, whose type field is wider
// (4-byte varint) but otherwise follow the same flat-varint-sequence
// shape spec.md §4.3 calls for ("otherwise generic fuzz").
func extensionVarints(count int, name string) Func {
	return genericVarintsFixed(count, name)
}

// boundaryStreamLimit implements the MAX_STREAMS/STREAMS_BLOCKED
// supplemental mutator (SPEC_FULL.md §4.3): fuzz the single Maximum
// Streams varint to a boundary value (0, or 2^60-1, just under RFC 9000
// §4.6's 2^60 ceiling) or
// fall through to a generic fuzz of the same field.
func boundaryStreamLimit(name string) Func {
	const streamCountCeiling = uint64(1) << 60
	return func(cur *pilot.Cursor, buf []byte, ext frame.Extent, _ *connstate.Entry) error {
		fields := fieldsAfterType(buf, ext, 1)
		if len(fields) == 0 {
			return &fuzzerr.MutationError{Frame: name, Reason: "missing maximum-streams field"}
		}
		f := fields[0]
		if cur.Bool() {
			target := uint64(0)
			if cur.Bool() {
				target = streamCountCeiling - 1
			}
			mutateField(cur, buf, f, target)
			return nil
		}
		return genericVarintField(cur, buf, fields)
	}
}

// zeroLengthFrame covers the PADDING/PING/HANDSHAKE_DONE family (no
// fields, one type byte). With ~1/8 probability it substitutes the type
// byte for one of the other two zero-length types; otherwise it
// overwrites the type byte with one of eleven candidate multi-varint
// frame types chosen so their trailing varints fit the available space,
// then hands off to the generic varint mutator for that many fields.
// This is spec.md §4.3's highest-value strategy, since padding occupies
// most of a packet's tail.
var candidateFrameTypes = []struct {
	typ   byte
	count int
}{
	{0x10, 1}, // MAX_DATA
	{0x14, 1}, // DATA_BLOCKED
	{0x16, 1}, // STREAMS_BLOCKED_BIDI
	{0x17, 1}, // STREAMS_BLOCKED_UNI
	{0x19, 1}, // RETIRE_CONNECTION_ID
	{0x15, 2}, // STREAM_DATA_BLOCKED
	{0x05, 2}, // STOP_SENDING
	{0x11, 2}, // MAX_STREAM_DATA
	{0x12, 1}, // MAX_STREAMS_BIDI
	{0x13, 1}, // MAX_STREAMS_UNI
	{0x04, 3}, // RESET_STREAM
}

// maxZeroRunScan bounds how far availableZeroRun looks past a padding
// byte before giving up, so a pathological all-zero buffer cannot make a
// single mutation scan the entire payload.
const maxZeroRunScan = 64

// availableZeroRun counts consecutive 0x00 bytes in buf starting at from,
// capped at maxZeroRunScan.
func availableZeroRun(buf []byte, from int) int {
	n := 0
	for from+n < len(buf) && n < maxZeroRunScan && buf[from+n] == 0x00 {
		n++
	}
	return n
}

func zeroLengthFrame(cur *pilot.Cursor, buf []byte, ext frame.Extent, _ *connstate.Entry) error {
	if ext.End-ext.Start < 1 {
		return &fuzzerr.MutationError{Frame: "zero-length", Reason: "frame is empty"}
	}
	if cur.Chance(8) {
		var alts []byte
		for _, a := range []byte{0x00, 0x01, 0x1e} {
			if a != buf[ext.Start] {
				alts = append(alts, a)
			}
		}
		buf[ext.Start] = alts[cur.Choice(uint64(len(alts)))]
		return nil
	}
	// A single PADDING/PING/HANDSHAKE_DONE extent is only ever one byte
	// wide (frame.Walk reports each zero-length frame separately); the
	// scratch room for a substituted multi-field frame type is the run of
	// zero bytes padding leaves behind it, not the one-byte extent itself.
	avail := availableZeroRun(buf, ext.Start+1)
	var fits []struct {
		typ   byte
		count int
	}
	for _, c := range candidateFrameTypes {
		if c.count <= avail {
			fits = append(fits, c)
		}
	}
	if len(fits) == 0 {
		return &fuzzerr.MutationError{Frame: "zero-length", Reason: "no candidate frame type fits available space"}
	}
	chosen := fits[cur.Choice(uint64(len(fits)))]
	buf[ext.Start] = chosen.typ
	fakeExt := frame.Extent{Start: ext.Start, End: ext.Start + 1 + chosen.count*8}
	if fakeExt.End > len(buf) {
		fakeExt.End = len(buf)
	}
	fields := fieldsAfterType(buf, fakeExt, chosen.count)
	if len(fields) == 0 {
		return nil
	}
	return genericVarintField(cur, buf, fields)
}
