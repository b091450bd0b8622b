package scheduler

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuafuller/quicfuzz/internal/connstate"
	"github.com/joshuafuller/quicfuzz/internal/hostquic"
	"github.com/joshuafuller/quicfuzz/internal/pilot"
	"github.com/joshuafuller/quicfuzz/internal/stats"
)

func newTestScheduler() *Scheduler {
	skipper := hostquic.ReferenceSkipper{}
	return &Scheduler{
		Table:   connstate.NewTable(16),
		Stats:   stats.New(),
		Skipper: skipper,
		Typer:   skipper,
		Logger:  zerolog.Nop(),
	}
}

func newTestCursor(seed uint64) *pilot.Cursor {
	stream := pilot.NewStream(seed, seed+1)
	return pilot.NewCursor(stream, stream.Next())
}

func TestInjectAppendPlacesEntryAfterExistingFrames(t *testing.T) {
	s := newTestScheduler()
	buf := make([]byte, 64)
	buf[0], buf[1] = 0xFF, 0xFF // header, untouched
	buf[2] = byte(hostquic.FramePing)
	currentLength := 3
	headerLength := 2

	s.TestTargetEntry = "ping"
	cur := newTestCursor(1)
	newLength, ok := s.injectAppend(cur, buf, currentLength, len(buf), headerLength)
	require.True(t, ok)
	assert.Greater(t, newLength, currentLength)
	assert.Equal(t, byte(0xFF), buf[0])
	assert.Equal(t, byte(0xFF), buf[1])
}

func TestInjectPrependShiftsExistingPayloadRight(t *testing.T) {
	s := newTestScheduler()
	buf := make([]byte, 64)
	buf[0], buf[1] = 0xFF, 0xFF
	buf[2] = byte(hostquic.FramePing)
	currentLength := 3
	headerLength := 2

	s.TestTargetEntry = "padding_5_bytes"
	cur := newTestCursor(2)
	newLength, ok := s.injectPrepend(cur, buf, currentLength, len(buf), headerLength)
	require.True(t, ok)
	assert.Equal(t, currentLength+5, newLength)
	assert.Equal(t, byte(hostquic.FramePing), buf[headerLength+5])
}

func TestInjectReplaceDiscardsExistingPayload(t *testing.T) {
	s := newTestScheduler()
	buf := make([]byte, 64)
	buf[0], buf[1] = 0xFF, 0xFF
	buf[2] = byte(hostquic.FramePing)
	currentLength := 3
	headerLength := 2

	s.TestTargetEntry = "ping"
	cur := newTestCursor(3)
	newLength, ok := s.injectReplace(cur, buf, currentLength, len(buf), headerLength)
	require.True(t, ok)
	assert.Equal(t, headerLength+1, newLength)
}

func TestInjectAppendFailsWhenCapacityTooSmall(t *testing.T) {
	s := newTestScheduler()
	buf := make([]byte, 4)
	buf[0] = byte(hostquic.FramePing)
	s.TestTargetEntry = "padding_10_bytes"
	cur := newTestCursor(4)
	newLength, ok := s.injectAppend(cur, buf, 1, len(buf), 0)
	assert.False(t, ok)
	assert.Equal(t, 1, newLength)
}

func TestBasicFuzzNeverExceedsCapacity(t *testing.T) {
	s := newTestScheduler()
	buf := make([]byte, 16)
	buf[2] = byte(hostquic.FramePing)
	cur := newTestCursor(5)
	newLength := s.basicFuzz(cur, buf, 2, 3, len(buf))
	assert.LessOrEqual(t, newLength, len(buf))
	assert.GreaterOrEqual(t, newLength, 3)
}

func TestAppendRetireConnectionIDInsertsAfterLastFrame(t *testing.T) {
	s := newTestScheduler()
	buf := make([]byte, 32)
	buf[2] = byte(hostquic.FramePing)
	headerLength, currentLength := 2, 3

	entry := connstate.New(hostquic.NewConnectionID([]byte{1, 2}), 1, 1)
	entry.LastNewCIDSeqNoSent = 7

	newLength := s.appendRetireConnectionID(buf, headerLength, currentLength, len(buf), entry)
	assert.Greater(t, newLength, currentLength)
	assert.Equal(t, byte(hostquic.FrameRetireConnectionID), buf[currentLength])
}
