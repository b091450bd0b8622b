package varint

import "testing"

// FuzzDecode exercises Decode against arbitrary byte sequences, the same
// "never panic on untrusted bytes" property spec.md §7 requires of every
// parser surface, mirrored here the way the teacher's own
// tests/fuzz/parser_fuzz_test.go drives ParseMessage.
func FuzzDecode(f *testing.F) {
	f.Add([]byte{0x00})
	f.Add([]byte{0x40, 0x00})
	f.Add([]byte{0x80, 0x00, 0x00, 0x00})
	f.Add([]byte{0xC0, 0, 0, 0, 0, 0, 0, 0})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		value, consumed, err := Decode(data)
		if err != nil {
			return
		}
		if consumed <= 0 || consumed > len(data) {
			t.Fatalf("Decode reported consumed=%d for input of length %d", consumed, len(data))
		}
		if value > MaxValue {
			t.Fatalf("Decode produced a value exceeding the 62-bit range: %d", value)
		}

		buf := make([]byte, 8)
		n, err := Encode(buf, value)
		if err != nil {
			t.Fatalf("Encode failed to re-encode a value Decode just produced: %v", err)
		}
		got, reConsumed, err := Decode(buf[:n])
		if err != nil {
			t.Fatalf("round-trip Decode failed: %v", err)
		}
		if got != value || reConsumed != n {
			t.Fatalf("round trip mismatch: got %d/%d, want %d/%d", got, reConsumed, value, n)
		}
	})
}
