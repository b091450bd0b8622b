package varint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 63, 64, 16383, 16384, 0x3FFFFFFF, 0x40000000, MaxValue}
	for _, v := range values {
		buf := make([]byte, 8)
		n, err := Encode(buf, v)
		require.NoError(t, err)

		got, consumed, err := Decode(buf[:n])
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, n, consumed)
	}
}

func TestEncodeRejectsOutOfRange(t *testing.T) {
	buf := make([]byte, 8)
	_, err := Encode(buf, MaxValue+1)
	require.Error(t, err)
}

func TestOverwriteInPlacePreservesWidth(t *testing.T) {
	buf := make([]byte, 8)
	n, err := Encode(buf, 1000) // 2-byte field
	require.NoError(t, err)
	require.Equal(t, 2, n)

	ok := OverwriteInPlace(buf, 0, n, 5)
	require.True(t, ok)
	assert.Equal(t, 2, EncodedWidthOfFirstByte(buf[0]))

	got, consumed, err := Decode(buf[:n])
	require.NoError(t, err)
	assert.Equal(t, uint64(5), got)
	assert.Equal(t, 2, consumed)
}

func TestOverwriteInPlaceRejectsValueThatDoesNotFit(t *testing.T) {
	buf := make([]byte, 8)
	n, err := Encode(buf, 10) // 1-byte field
	require.NoError(t, err)

	ok := OverwriteInPlace(buf, 0, n, 1000)
	assert.False(t, ok, "a 2-byte-minimum value must not fit a 1-byte field")
}

func TestFlipSingleBitStaysWithinWidth(t *testing.T) {
	buf := make([]byte, 2)
	n, err := Encode(buf, 10)
	require.NoError(t, err)
	before := EncodedWidthOfFirstByte(buf[0])

	ok := FlipSingleBit(buf, 0, 2)
	require.True(t, ok)
	assert.Equal(t, before, EncodedWidthOfFirstByte(buf[0]), "flip must not change the width tag")

	_, consumed, err := Decode(buf[:n])
	require.NoError(t, err)
	assert.Equal(t, n, consumed)
}

func TestSkipMatchesEncodedWidth(t *testing.T) {
	buf := make([]byte, 8)
	n, err := Encode(buf, 0x3FFFFFFF)
	require.NoError(t, err)

	consumed, err := Skip(buf[:n])
	require.NoError(t, err)
	assert.Equal(t, n, consumed)
}

func TestDecodeShortBufferErrors(t *testing.T) {
	buf := []byte{0x80} // declares a 4-byte width but only 1 byte present
	_, _, err := Decode(buf)
	require.ErrorIs(t, err, ErrBufferTooShort)
}
