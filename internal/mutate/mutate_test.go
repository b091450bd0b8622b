package mutate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuafuller/quicfuzz/internal/connstate"
	"github.com/joshuafuller/quicfuzz/internal/frame"
	"github.com/joshuafuller/quicfuzz/internal/hostquic"
	"github.com/joshuafuller/quicfuzz/internal/pilot"
)

func newEntry() *connstate.Entry {
	icid := hostquic.NewConnectionID([]byte{1, 2, 3, 4})
	return connstate.New(icid, 1, 2)
}

// dispatchCases pairs a representative wire encoding with its frame type,
// covering every dedicated entry in the dispatch table plus the default
// fallback, so Dispatch never panics across the full breadth of
// frame.Kind.
func dispatchCases() map[string][]byte {
	return map[string][]byte{
		"padding":             {0x00},
		"ping":                {0x01},
		"handshake_done":      {0x1e},
		"ack":                 {0x02, 0x0A, 0x00, 0x00, 0x00},
		"ack_ecn":             {0x03, 0x0A, 0x00, 0x00, 0x00, 0, 0, 0},
		"ack_frequency":       {0x40, 0xaf, 0x01, 0x02, 0x03}, // type 0xaf as a two-byte varint
		"stream":              {0x08, 0x04}, // no OFF/LEN bits: stream id only, data runs to buffer end
		"max_data":            {0x10, 0x40, 0x00},
		"data_blocked":        {0x14, 0x10},
		"max_stream_data":     {0x11, 0x04, 0x10},
		"stream_data_blocked": {0x15, 0x04, 0x10},
		"max_streams_bidi":    {0x12, 0x10},
		"max_streams_uni":     {0x13, 0x10},
		"streams_blocked_bidi": {0x16, 0x10},
		"streams_blocked_uni":  {0x17, 0x10},
		"reset_stream":         {0x04, 0x01, 0x10, 0x05},
		"stop_sending":         {0x05, 0x01, 0x10},
		"new_connection_id":    append([]byte{0x18, 0x01, 0x00, 0x04, 1, 2, 3, 4}, make([]byte, 16)...),
		"retire_connection_id": {0x19, 0x01},
		"new_token":            {0x07, 0x02, 0xAA, 0xBB},
		"crypto":               {0x06, 0x00, 0x02, 0xAA, 0xBB},
		"path_challenge":       append([]byte{0x1a}, make([]byte, 8)...),
		"path_response":        append([]byte{0x1b}, make([]byte, 8)...),
		"path_abandon":         {0x95, 0x22, 0x8c, 0x00, 0x01, 0x00},
		"path_available":       {0x95, 0x22, 0x8c, 0x04, 0x00, 0x0F},
		"path_backup":          {0x95, 0x22, 0x8c, 0x05, 0x00, 0x0F},
		"paths_blocked":        {0x95, 0x22, 0x8c, 0x08, 0x11},
		"datagram":             {0x30, 0xAA, 0xBB},
		"connection_close":     {0x1c, 0x0A, 0x00, 0x00},
		"application_close":    {0x1d, 0x0A, 0x00},
		"unknown_default":      {0x21, 0xAA, 0xBB, 0xCC},
	}
}

func TestDispatchNeverPanicsAcrossAllKinds(t *testing.T) {
	stream := pilot.NewStream(11, 22)
	entry := newEntry()

	for name, wire := range dispatchCases() {
		t.Run(name, func(t *testing.T) {
			skipper := hostquic.ReferenceSkipper{}
			typ, _, err := skipper.IdentifyFrameType(wire)
			require.NoError(t, err)

			for i := 0; i < 50; i++ {
				buf := append([]byte(nil), wire...)
				ext := frame.Extent{Start: 0, End: len(buf), Type: typ}
				cur := pilot.NewCursor(stream, stream.Next())
				assert.NotPanics(t, func() {
					_ = Dispatch(cur, buf, ext, entry)
				})
			}
		})
	}
}

func TestDefaultFlipsOneByteAfterTypeField(t *testing.T) {
	stream := pilot.NewStream(1, 1)
	cur := pilot.NewCursor(stream, stream.Next())
	buf := []byte{0x21, 0xAA, 0xBB, 0xCC, 0xDD}
	ext := frame.Extent{Start: 0, End: len(buf), Type: hostquic.FrameType(0x21)}

	err := Default(cur, buf, ext, nil)
	require.NoError(t, err)
	assert.NotEqual(t, []byte{0xAA, 0xBB, 0xCC, 0xDD}, buf[1:], "exactly one byte after the type field should have changed")
}

func TestMaxDataMutatesTheFieldAcrossManyDraws(t *testing.T) {
	entry := newEntry()
	entry.HasSentMaxData = true
	entry.LastSentMaxData = 1000

	stream := pilot.NewStream(1, 1)
	original := []byte{0x10, 0x80, 0x00, 0x00, 0x00} // 4-byte width field

	var sawChange bool
	for i := 0; i < 200; i++ {
		buf := append([]byte(nil), original...)
		ext := frame.Extent{Start: 0, End: len(buf), Type: hostquic.FrameMaxData}
		cur := pilot.NewCursor(stream, stream.Next())
		_ = maxData(cur, buf, ext, entry)

		if string(buf) != string(original) {
			sawChange = true
			break
		}
	}
	assert.True(t, sawChange, "expected maxData to rewrite the field at least once across 200 draws")
}
