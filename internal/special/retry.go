package special

import "github.com/joshuafuller/quicfuzz/internal/pilot"

// maxConnectionIDLen is the RFC 9000 §17.2 ceiling for DCID/SCID length
// fields (20 bytes); a declared length above this marks the packet as not
// parseable as Retry, mirroring the original's
// PICOQUIC_CONNECTION_ID_MAX_SIZE guard.
const maxConnectionIDLen = 20

// MutateRetry implements spec.md §4.4's sixteen-action Retry packet
// fuzzer, grounded on original_source/lib/fuzzer.c's
// retry_packet_fuzzer. currentLength must be at least 23 bytes (the
// caller is expected to have already checked IsRetry); capacity bounds
// growth, and the result never drops below the 23-byte minimum. Returns
// the packet's new length.
func MutateRetry(cur *pilot.Cursor, buf []byte, currentLength, capacity int) int {
	const minRetryLen = 23
	if currentLength < minRetryLen {
		return currentLength
	}
	originalLength := currentLength

	dcidLen := int(buf[5])
	if dcidLen > maxConnectionIDLen {
		return currentLength
	}
	scidLenOffset := 1 + 4 + 1 + dcidLen
	if scidLenOffset >= originalLength {
		return currentLength
	}
	scidLen := int(buf[scidLenOffset])
	if scidLen > maxConnectionIDLen {
		return currentLength
	}

	tokenStart := scidLenOffset + 1 + scidLen
	tagStart := originalLength - 16
	if tokenStart > tagStart {
		return currentLength
	}
	tokenLen := tagStart - tokenStart

	switch cur.Choice(16) {
	case 0: // flip low nibble of byte 0
		buf[0] ^= byte(cur.Take(4))

	case 1: // XOR a version byte
		if originalLength >= 5 {
			idx := 1 + int(cur.Choice(4))
			buf[idx] ^= byte(cur.Take(8))
		}

	case 2: // flip 1-3 bytes inside the token
		if tokenLen > 0 {
			flips := 1 + int(cur.Choice(3))
			for i := 0; i < flips; i++ {
				idx := tokenStart + int(cur.Choice(uint64(tokenLen)))
				buf[idx] ^= byte(cur.Take(8))
			}
		}

	case 3: // flip 1-4 bytes inside the integrity tag
		flips := 1 + int(cur.Choice(4))
		for i := 0; i < flips; i++ {
			idx := tagStart + int(cur.Choice(16))
			buf[idx] ^= byte(cur.Take(8))
		}

	case 4: // truncate part of the integrity tag
		if originalLength > minRetryLen {
			cut := 1 + int(cur.Choice(15))
			if originalLength > cut {
				currentLength = originalLength - cut
			}
			floor := scidLenOffset + 1 + scidLen + tokenLen
			if currentLength < floor {
				currentLength = floor
			}
		}

	case 5: // truncate part of the token, dropping the tag entirely
		if tokenLen > 0 {
			cut := 1 + int(cur.Choice(uint64(tokenLen)))
			currentLength = tokenStart + (tokenLen - cut)
		} else {
			currentLength = scidLenOffset + 1 + scidLen
		}

	case 6: // extend the packet with garbage, corrupting the original tag
		if capacity > originalLength {
			add := 1 + int(cur.Choice(8))
			if originalLength+add > capacity {
				add = capacity - originalLength
			}
			for i := 0; i < add; i++ {
				buf[originalLength+i] = byte(cur.Take(8))
			}
			currentLength = originalLength + add
			if originalLength >= 16 {
				originalTagLoc := originalLength - 16
				if originalTagLoc < currentLength-16 {
					buf[originalTagLoc+int(cur.Choice(16))] ^= byte(cur.Take(8))
				}
			}
		}

	case 7: // zero out DCID length
		if originalLength > 5 {
			buf[5] = 0
		}

	case 8: // zero out SCID length
		if scidLenOffset < originalLength {
			buf[scidLenOffset] = 0
		}

	default:
		headerAndCIDLen := scidLenOffset + 1 + scidLen
		if headerAndCIDLen > 0 {
			idx := int(cur.Choice(uint64(headerAndCIDLen)))
			if idx < originalLength {
				buf[idx] ^= byte(cur.Take(8))
			}
		} else if tokenLen > 0 {
			idx := tokenStart + int(cur.Choice(uint64(tokenLen)))
			buf[idx] ^= byte(cur.Take(8))
		}
	}

	if currentLength < minRetryLen {
		currentLength = minRetryLen
	}
	if currentLength > capacity {
		currentLength = capacity
	}
	return currentLength
}
