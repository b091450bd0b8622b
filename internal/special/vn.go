package special

import "github.com/joshuafuller/quicfuzz/internal/pilot"

// MutateVersionNegotiation implements spec.md §4.4's sixteen-action
// Version Negotiation fuzzer, grounded on
// original_source/lib/fuzzer.c's version_negotiation_packet_fuzzer.
// headerLen is the offset VNHeaderLen computed (start of the version
// list); currentLength is the packet's current length; capacity bounds
// any growth. Returns the packet's new length.
func MutateVersionNegotiation(cur *pilot.Cursor, buf []byte, headerLen, currentLength, capacity int) int {
	if headerLen > currentLength || headerLen > capacity {
		return currentLength
	}
	originalLength := currentLength
	versionListLen := currentLength - headerLen
	if versionListLen%4 != 0 {
		return currentLength
	}
	numVersions := versionListLen / 4

	switch cur.Choice(16) {
	case 0: // corrupt byte 0
		if headerLen > 0 {
			buf[0] ^= byte(cur.Take(6))
		}

	case 1: // reserved: no-op, mirrors the original's deliberate skip of DCID/SCID length corruption here

	case 2: // empty the version list
		currentLength = headerLen

	case 3: // truncate 1-3 bytes off the end
		if numVersions > 0 {
			remove := 1 + int(cur.Choice(3))
			if currentLength > headerLen+remove {
				currentLength -= remove
			} else if currentLength > headerLen {
				currentLength = headerLen
			}
		}

	case 4: // overwrite a chosen version with grease value 0x0A0A0A0A
		overwriteVersion(cur, buf, headerLen, numVersions, originalLength, 0x0A0A0A0A)

	case 5: // overwrite a chosen version with grease value 0x1A1A1A1A
		overwriteVersion(cur, buf, headerLen, numVersions, originalLength, 0x1A1A1A1A)

	case 6: // bit-flip a chosen version
		if numVersions > 0 {
			idx := int(cur.Choice(uint64(numVersions)))
			p := headerLen + idx*4
			if p+4 <= originalLength {
				mask := cur.Take(32)
				buf[p] ^= byte(mask)
				buf[p+1] ^= byte(mask >> 8)
				buf[p+2] ^= byte(mask >> 16)
				buf[p+3] ^= byte(mask >> 24)
			}
		}

	case 7: // duplicate one version onto another slot
		if numVersions >= 2 {
			target := int(cur.Choice(uint64(numVersions)))
			source := int(cur.Choice(uint64(numVersions)))
			if target != source {
				tp, sp := headerLen+target*4, headerLen+source*4
				if tp+4 <= originalLength && sp+4 <= originalLength {
					copy(buf[tp:tp+4], buf[sp:sp+4])
				}
			}
		}

	case 8: // append one garbage version, extending the packet
		if currentLength+4 <= capacity {
			v := cur.Take(32)
			buf[currentLength] = byte(v)
			buf[currentLength+1] = byte(v >> 8)
			buf[currentLength+2] = byte(v >> 16)
			buf[currentLength+3] = byte(v >> 24)
			currentLength += 4
		}

	case 9: // swap two versions
		if numVersions >= 2 {
			i1 := int(cur.Choice(uint64(numVersions)))
			i2 := int(cur.Choice(uint64(numVersions)))
			if i1 != i2 {
				p1, p2 := headerLen+i1*4, headerLen+i2*4
				if p1+4 <= originalLength && p2+4 <= originalLength {
					var tmp [4]byte
					copy(tmp[:], buf[p1:p1+4])
					copy(buf[p1:p1+4], buf[p2:p2+4])
					copy(buf[p2:p2+4], tmp[:])
				}
			}
		}

	default: // XOR one random byte inside the version list
		if versionListLen > 0 {
			idx := headerLen + int(cur.Choice(uint64(versionListLen)))
			buf[idx] ^= byte(cur.Take(8))
		}
	}

	if currentLength < headerLen {
		currentLength = headerLen
	}
	if currentLength > capacity {
		currentLength = capacity
	}
	return currentLength
}

func overwriteVersion(cur *pilot.Cursor, buf []byte, headerLen, numVersions, originalLength int, value uint32) {
	if numVersions == 0 {
		return
	}
	idx := int(cur.Choice(uint64(numVersions)))
	p := headerLen + idx*4
	if p+4 > originalLength {
		return
	}
	buf[p] = byte(value >> 24)
	buf[p+1] = byte(value >> 16)
	buf[p+2] = byte(value >> 8)
	buf[p+3] = byte(value)
}
