package scheduler

import "github.com/joshuafuller/quicfuzz/internal/pilot"

// basicFuzz implements spec.md §4.5 step 7's fallback: when neither
// injection nor frame mutation fired, either XOR random bytes in the
// payload region or extend the packet by up to 16 bytes of pilot-derived
// fill.
func (s *Scheduler) basicFuzz(cur *pilot.Cursor, buf []byte, headerLength, currentLength, capacity int) int {
	if cur.Bool() && currentLength > headerLength {
		flips := 1 + int(cur.Choice(4))
		span := currentLength - headerLength
		for i := 0; i < flips; i++ {
			idx := headerLength + int(cur.Choice(uint64(span)))
			buf[idx] ^= byte(cur.Take(8))
		}
		return currentLength
	}

	room := capacity - currentLength
	if room <= 0 {
		return currentLength
	}
	extend := 1 + int(cur.Choice(16))
	if extend > room {
		extend = room
	}
	for i := 0; i < extend; i++ {
		buf[currentLength+i] = byte(cur.Take(8))
	}
	return currentLength + extend
}
