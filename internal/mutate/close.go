package mutate

import (
	"github.com/joshuafuller/quicfuzz/internal/connstate"
	"github.com/joshuafuller/quicfuzz/internal/frame"
	"github.com/joshuafuller/quicfuzz/internal/fuzzerr"
	"github.com/joshuafuller/quicfuzz/internal/pilot"
)

// closeFrame implements spec.md §4.3's CONNECTION_CLOSE/APPLICATION_CLOSE
// strategy: generic fuzz over the varint fields preceding the reason
// phrase, leaving the reason phrase bytes themselves untouched.
// CONNECTION_CLOSE (0x1c) carries Error Code, Frame Type, Reason Length;
// APPLICATION_CLOSE (0x1d) carries Error Code, Reason Length — the
// varint walk stops after that many fields, so the reason phrase that
// follows the Reason Length field is never decoded or rewritten.
func closeFrame(transportClose bool) Func {
	return func(cur *pilot.Cursor, buf []byte, ext frame.Extent, _ *connstate.Entry) error {
		name := "APPLICATION_CLOSE"
		fieldCount := 2
		if transportClose {
			name = "CONNECTION_CLOSE"
			fieldCount = 3
		}
		fields := fieldsAfterType(buf, ext, fieldCount)
		if len(fields) < fieldCount {
			return &fuzzerr.MutationError{Frame: name, Reason: "missing error-code/reason-length fields"}
		}
		return genericVarintField(cur, buf, fields)
	}
}
