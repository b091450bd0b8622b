package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuafuller/quicfuzz/internal/hostquic"
)

func TestWalkParsesMultipleFrames(t *testing.T) {
	skipper := hostquic.ReferenceSkipper{}
	payload := []byte{
		byte(hostquic.FramePing),
		byte(hostquic.FramePadding),
		byte(hostquic.FrameMaxData), 0x40, 0x00,
	}
	extents, err := Walk(payload, skipper, skipper)
	require.NoError(t, err)
	require.Len(t, extents, 3)
	assert.Equal(t, Extent{Start: 0, End: 1, Type: hostquic.FramePing}, extents[0])
	assert.Equal(t, Extent{Start: 1, End: 2, Type: hostquic.FramePadding}, extents[1])
	assert.Equal(t, Extent{Start: 2, End: 5, Type: hostquic.FrameMaxData}, extents[2])
}

func TestWalkStopsAtFirstParseError(t *testing.T) {
	skipper := hostquic.ReferenceSkipper{}
	payload := []byte{
		byte(hostquic.FramePing),
		byte(hostquic.FrameMaxData), // truncated: no varint payload follows
	}
	extents, err := Walk(payload, skipper, skipper)
	require.Error(t, err)
	require.Len(t, extents, 1, "the well-formed prefix must still be returned")
	assert.Equal(t, hostquic.FramePing, extents[0].Type)
}

func TestWalkNeverExceedsMaxFrames(t *testing.T) {
	skipper := hostquic.ReferenceSkipper{}
	payload := make([]byte, 0, MaxFrames*2+4)
	for i := 0; i < MaxFrames+4; i++ {
		payload = append(payload, byte(hostquic.FramePing))
	}
	extents, err := Walk(payload, skipper, skipper)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(extents), MaxFrames)
}

func TestLastNonPaddingOffsetSkipsTrailingPadding(t *testing.T) {
	skipper := hostquic.ReferenceSkipper{}
	payload := []byte{
		byte(hostquic.FramePing),
		byte(hostquic.FramePadding),
		byte(hostquic.FramePadding),
	}
	extents, err := Walk(payload, skipper, skipper)
	require.NoError(t, err)
	assert.Equal(t, 1, LastNonPaddingOffset(payload, extents))
}

func TestClassifyCollapsesStreamVariants(t *testing.T) {
	for off := byte(0); off < 8; off++ {
		k := Classify(hostquic.FrameStreamBase + hostquic.FrameType(off))
		assert.Equal(t, KindStream, k)
	}
}

func TestClassifyDefaultsForUnknownType(t *testing.T) {
	assert.Equal(t, KindDefault, Classify(hostquic.FrameType(0xFF00)))
}
