package mutate

import (
	"github.com/joshuafuller/quicfuzz/internal/connstate"
	"github.com/joshuafuller/quicfuzz/internal/frame"
	"github.com/joshuafuller/quicfuzz/internal/fuzzerr"
	"github.com/joshuafuller/quicfuzz/internal/pilot"
	"github.com/joshuafuller/quicfuzz/internal/varint"
)

// stream implements spec.md §4.3's STREAM frame strategy: observe the
// OFF/LEN bits of the type byte and choose among flipping FIN, fuzzing
// Stream ID, fuzzing Offset (if present, 1/4 chance boundary-maximal),
// fuzzing Length (if present, same treatment), or a random byte flip.
func stream(cur *pilot.Cursor, buf []byte, ext frame.Extent, _ *connstate.Entry) error {
	typeWidth, ok := typeWidthOf(buf, ext)
	if !ok {
		return &fuzzerr.MutationError{Frame: "STREAM", Reason: "missing type byte"}
	}
	typeByte := buf[ext.Start]
	off := typeByte&0x04 != 0
	hasLen := typeByte&0x02 != 0

	offset := ext.Start + typeWidth
	idField, n, err := decodeFieldAt(buf, offset, ext.End)
	if err != nil {
		return &fuzzerr.MutationError{Frame: "STREAM", Reason: "missing Stream ID", Err: err}
	}
	offset += n

	var offsetField *varintField
	if off {
		f, n, err := decodeFieldAt(buf, offset, ext.End)
		if err != nil {
			return &fuzzerr.MutationError{Frame: "STREAM", Reason: "missing Offset", Err: err}
		}
		offsetField = &f
		offset += n
	}

	var lengthField *varintField
	if hasLen {
		f, _, err := decodeFieldAt(buf, offset, ext.End)
		if err != nil {
			return &fuzzerr.MutationError{Frame: "STREAM", Reason: "missing Length", Err: err}
		}
		lengthField = &f
	}

	choices := 2 // flip FIN, fuzz Stream ID
	if offsetField != nil {
		choices++
	}
	if lengthField != nil {
		choices++
	}

	switch cur.Choice(uint64(choices)) {
	case 0:
		buf[ext.Start] ^= 0x01 // flip FIN
		return nil
	case 1:
		return boundaryOrGeneric(cur, buf, idField)
	case 2:
		if offsetField != nil {
			return boundaryOrGeneric(cur, buf, *offsetField)
		}
		return boundaryOrGeneric(cur, buf, *lengthField)
	default:
		return boundaryOrGeneric(cur, buf, *lengthField)
	}
}

// decodeFieldAt decodes one varint at offset, bounded by end.
func decodeFieldAt(buf []byte, offset, end int) (varintField, int, error) {
	if offset >= end {
		return varintField{}, 0, fuzzerrShortField
	}
	v, n, err := varint.Decode(buf[offset:end])
	if err != nil {
		return varintField{}, 0, err
	}
	return varintField{start: offset, end: offset + n, value: v}, n, nil
}

var fuzzerrShortField = &fuzzerr.ParseError{Operation: "decode STREAM field", Offset: -1}

// boundaryOrGeneric rewrites f to its boundary-maximal value for its
// current width with 1/4 probability, else flips one of its bits.
func boundaryOrGeneric(cur *pilot.Cursor, buf []byte, f varintField) error {
	if cur.Chance(4) {
		mutateField(cur, buf, f, boundaryMaximal(fieldWidth(f)))
		return nil
	}
	flipField(cur, buf, f)
	return nil
}
