package mutate

import (
	"github.com/joshuafuller/quicfuzz/internal/connstate"
	"github.com/joshuafuller/quicfuzz/internal/frame"
	"github.com/joshuafuller/quicfuzz/internal/fuzzerr"
	"github.com/joshuafuller/quicfuzz/internal/pilot"
)

// crypto implements spec.md §4.3's CRYPTO strategy: with ~1/2 probability
// choose among Offset-to-near-max, Length-to-absurd, Length-to-zero, or
// 1-3 random byte flips into the crypto data, to exercise out-of-order
// reassembly and length-sanity paths.
func crypto(cur *pilot.Cursor, buf []byte, ext frame.Extent, _ *connstate.Entry) error {
	typeWidth, ok := typeWidthOf(buf, ext)
	if !ok {
		return &fuzzerr.MutationError{Frame: "CRYPTO", Reason: "missing type byte"}
	}
	offset := ext.Start + typeWidth

	offsetField, n, err := decodeFieldAt(buf, offset, ext.End)
	if err != nil {
		return &fuzzerr.MutationError{Frame: "CRYPTO", Reason: "missing Offset", Err: err}
	}
	offset += n

	lengthField, n, err := decodeFieldAt(buf, offset, ext.End)
	if err != nil {
		return &fuzzerr.MutationError{Frame: "CRYPTO", Reason: "missing Length", Err: err}
	}
	dataStart := offset + n
	dataEnd := dataStart + int(lengthField.value)
	if dataEnd > ext.End {
		dataEnd = ext.End
	}

	if !cur.Bool() {
		if dataEnd <= dataStart {
			flipField(cur, buf, lengthField)
			return nil
		}
		flips := 1 + int(cur.Choice(3))
		for i := 0; i < flips; i++ {
			idx := dataStart + int(cur.Choice(uint64(dataEnd-dataStart)))
			buf[idx] ^= 1 << cur.Take(3)
		}
		return nil
	}

	switch cur.Choice(3) {
	case 0:
		mutateField(cur, buf, offsetField, boundaryMaximal(fieldWidth(offsetField))-1)
	case 1:
		mutateField(cur, buf, lengthField, boundaryMaximal(fieldWidth(lengthField)))
	default:
		mutateField(cur, buf, lengthField, 0)
	}
	return nil
}

// newToken implements spec.md §4.3's NEW_TOKEN strategy: fuzz the Token
// Length varint, fill the token with patterned data, or flip random bytes
// inside the declared token extent.
func newToken(cur *pilot.Cursor, buf []byte, ext frame.Extent, _ *connstate.Entry) error {
	typeWidth, ok := typeWidthOf(buf, ext)
	if !ok {
		return &fuzzerr.MutationError{Frame: "NEW_TOKEN", Reason: "missing type byte"}
	}
	offset := ext.Start + typeWidth

	lengthField, n, err := decodeFieldAt(buf, offset, ext.End)
	if err != nil {
		return &fuzzerr.MutationError{Frame: "NEW_TOKEN", Reason: "missing Token Length", Err: err}
	}
	tokenStart := offset + n
	tokenEnd := tokenStart + int(lengthField.value)
	if tokenEnd > ext.End {
		tokenEnd = ext.End
	}

	switch cur.Choice(3) {
	case 0:
		if cur.Bool() {
			flipField(cur, buf, lengthField)
		} else {
			mutateField(cur, buf, lengthField, boundaryMaximal(fieldWidth(lengthField)))
		}
	case 1:
		if tokenEnd <= tokenStart {
			return &fuzzerr.MutationError{Frame: "NEW_TOKEN", Reason: "empty token"}
		}
		patterns := []byte{0x00, 0xFF, 0xA5}
		p := patterns[cur.Choice(uint64(len(patterns)))]
		for i := tokenStart; i < tokenEnd; i++ {
			buf[i] = p
		}
	default:
		if tokenEnd <= tokenStart {
			return &fuzzerr.MutationError{Frame: "NEW_TOKEN", Reason: "empty token"}
		}
		flips := 1 + int(cur.Choice(3))
		for i := 0; i < flips; i++ {
			idx := tokenStart + int(cur.Choice(uint64(tokenEnd-tokenStart)))
			buf[idx] ^= 1 << cur.Take(3)
		}
	}
	return nil
}
