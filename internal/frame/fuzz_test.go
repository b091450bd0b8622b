package frame

import (
	"testing"

	"github.com/joshuafuller/quicfuzz/internal/hostquic"
)

// FuzzWalk exercises the frame walker against arbitrary payload bytes:
// Walk must never panic, and every extent it reports must describe a
// well-formed, in-bounds, non-empty byte range, regardless of how
// malformed the input is (spec.md §7's "never crash the host process"
// requirement extends to this module's own parsing surface too).
func FuzzWalk(f *testing.F) {
	f.Add([]byte{0x00, 0x01, 0x10, 0x40, 0x00})
	f.Add([]byte{0x1c, 0x0A, 0x00, 0x00})
	f.Add([]byte{})
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF})

	skipper := hostquic.ReferenceSkipper{}
	f.Fuzz(func(t *testing.T, data []byte) {
		extents, _ := Walk(data, skipper, skipper)
		if len(extents) > MaxFrames {
			t.Fatalf("Walk returned %d extents, exceeding MaxFrames", len(extents))
		}
		for _, e := range extents {
			if e.Start < 0 || e.End > len(data) || e.Start >= e.End {
				t.Fatalf("Walk returned an invalid extent %+v for input of length %d", e, len(data))
			}
		}
	})
}
