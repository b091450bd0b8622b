// Package varint implements QUIC variable-length integer encoding per
// RFC 9000 §16, plus the width-preserving in-place rewrite operations the
// mutation engine needs on top of the wire format.
//
// Encoding and decoding of minimally-encoded varints is delegated to
// quicvarint, the same primitive quic-go itself exports; this package adds
// only what a fuzzer needs and quicvarint does not provide: overwriting an
// already-encoded field with a new value while preserving its original
// byte width, and the bounded single-bit-flip fallback used when that is
// not possible.
package varint

import (
	"errors"

	"github.com/quic-go/quic-go/quicvarint"
)

// ErrBufferTooShort is returned when a decode or skip operation would read
// past the end of the supplied slice.
var ErrBufferTooShort = errors.New("varint: buffer too short for declared width")

// MaxValue is the largest value a QUIC varint can represent (2^62 - 1).
const MaxValue = uint64(1)<<62 - 1

// Decode reads one varint starting at buf[0] and returns its value and the
// number of bytes it occupies. len(buf) bounds the readable region;
// callers walking part of a larger buffer pass the sub-slice.
func Decode(buf []byte) (value uint64, consumed int, err error) {
	if len(buf) == 0 {
		return 0, 0, ErrBufferTooShort
	}
	width := EncodedWidthOfFirstByte(buf[0])
	if len(buf) < width {
		return 0, 0, ErrBufferTooShort
	}
	v, err := quicvarint.Read(&byteReader{b: buf[:width]})
	if err != nil {
		return 0, 0, ErrBufferTooShort
	}
	return v, width, nil
}

// Skip behaves like Decode but only reports how many bytes the varint
// occupies, without materializing the value.
func Skip(buf []byte) (consumed int, err error) {
	if len(buf) == 0 {
		return 0, ErrBufferTooShort
	}
	width := EncodedWidthOfFirstByte(buf[0])
	if len(buf) < width {
		return 0, ErrBufferTooShort
	}
	return width, nil
}

// EncodedWidth returns the number of bytes (1, 2, 4, or 8) the minimal
// encoding of value occupies.
func EncodedWidth(value uint64) int {
	return quicvarint.Len(value)
}

// EncodedWidthOfFirstByte returns the declared width of a varint whose
// first byte is b, per the two most-significant bits (00→1, 01→2, 10→4,
// 11→8).
func EncodedWidthOfFirstByte(b byte) int {
	switch b >> 6 {
	case 0:
		return 1
	case 1:
		return 2
	case 2:
		return 4
	default:
		return 8
	}
}

// Encode writes the minimal encoding of value into buf, returning the
// number of bytes written, or an error if buf is too short or value
// exceeds MaxValue.
func Encode(buf []byte, value uint64) (written int, err error) {
	if value > MaxValue {
		return 0, errors.New("varint: value exceeds 62-bit range")
	}
	width := quicvarint.Len(value)
	if len(buf) < width {
		return 0, ErrBufferTooShort
	}
	out := quicvarint.Append(buf[:0:width], value)
	copy(buf[:width], out)
	return width, nil
}

// OverwriteInPlace rewrites the varint occupying buf[fieldStart:fieldEnd]
// with newValue, preserving the field's original byte width: if newValue's
// natural encoding fits within (fieldEnd - fieldStart), the field is
// rewritten as a (possibly non-minimal) encoding of exactly that width —
// byte 0 keeps the field's width prefix, the value is right-justified in
// the remaining bits, and the value bits above it are zero. Decoding the
// field afterwards yields newValue at the original width. It returns false
// without modifying buf if newValue does not fit in the field's width,
// leaving the fallback (a single-bit flip) to the caller.
func OverwriteInPlace(buf []byte, fieldStart, fieldEnd int, newValue uint64) bool {
	if fieldStart < 0 || fieldEnd > len(buf) || fieldStart >= fieldEnd {
		return false
	}
	fieldWidth := fieldEnd - fieldStart
	if newValue > MaxValue {
		return false
	}
	naturalWidth := quicvarint.Len(newValue)
	if naturalWidth > fieldWidth {
		return false
	}
	return writeWidthPreserving(buf[fieldStart:fieldEnd], newValue, fieldWidth)
}

// writeWidthPreserving encodes value using exactly width bytes, regardless
// of value's minimal width, by writing the minimal encoding and then
// re-tagging the top two bits of byte 0 to the field's width class and
// zero-padding the value bytes in between. width must be one of 1, 2, 4, 8.
func writeWidthPreserving(field []byte, value uint64, width int) bool {
	var prefix byte
	switch width {
	case 1:
		prefix = 0x00
	case 2:
		prefix = 0x40
	case 4:
		prefix = 0x80
	case 8:
		prefix = 0xC0
	default:
		return false
	}

	for i := range field {
		field[i] = 0
	}
	// Value occupies the low (width*8 - 2) bits of the field, big-endian,
	// right-justified in the last bytes.
	shift := uint(0)
	for i := width - 1; i >= 1; i-- {
		field[i] = byte(value >> shift)
		shift += 8
	}
	field[0] = prefix | byte(value>>shift)
	return true
}

// FlipSingleBit flips one bit of the value-carrying portion of byte
// fieldStart (the low six bits of byte 0, i.e. mask 0x3F, since the top
// two bits are the width tag and must never change for a flip fallback to
// remain parseable at its original width). bitIndex selects which of the
// six value bits to flip. This is the fallback spec.md §4.1 and §7 call
// for when OverwriteInPlace's natural width does not fit.
func FlipSingleBit(buf []byte, fieldStart int, bitIndex uint) bool {
	if fieldStart < 0 || fieldStart >= len(buf) {
		return false
	}
	bitIndex %= 6
	buf[fieldStart] ^= 1 << bitIndex
	return true
}

// byteReader adapts a []byte to the io.ByteReader quicvarint.Read expects,
// without pulling in bytes.Reader's larger surface for a one-shot read.
type byteReader struct {
	b   []byte
	pos int
}

func (r *byteReader) ReadByte() (byte, error) {
	if r.pos >= len(r.b) {
		return 0, ErrBufferTooShort
	}
	c := r.b[r.pos]
	r.pos++
	return c, nil
}
