package mutate

import (
	"github.com/joshuafuller/quicfuzz/internal/connstate"
	"github.com/joshuafuller/quicfuzz/internal/frame"
	"github.com/joshuafuller/quicfuzz/internal/fuzzerr"
	"github.com/joshuafuller/quicfuzz/internal/pilot"
)

// maxData implements spec.md §4.3's MAX_DATA strategy: opportunistically
// record the sent value in the connection's fuzz state, then with ~1/4
// probability rewrite it to half the last recorded value (a decrease
// attack; QUIC forbids flow-control limits from decreasing). Otherwise it
// falls through to a generic fuzz of the same field.
func maxData(cur *pilot.Cursor, buf []byte, ext frame.Extent, entry *connstate.Entry) error {
	fields := fieldsAfterType(buf, ext, 1)
	if len(fields) == 0 {
		return &fuzzerr.MutationError{Frame: "MAX_DATA", Reason: "missing Maximum Data field"}
	}
	f := fields[0]

	if entry != nil {
		entry.HasSentMaxData = true
		entry.LastSentMaxData = f.value
	}

	if entry != nil && entry.HasSentMaxData && cur.Chance(4) {
		mutateField(cur, buf, f, entry.LastSentMaxData/2)
		return nil
	}
	return genericVarintField(cur, buf, fields)
}
