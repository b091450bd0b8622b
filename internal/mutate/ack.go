package mutate

import (
	"github.com/joshuafuller/quicfuzz/internal/connstate"
	"github.com/joshuafuller/quicfuzz/internal/frame"
	"github.com/joshuafuller/quicfuzz/internal/fuzzerr"
	"github.com/joshuafuller/quicfuzz/internal/pilot"
)

// ack implements spec.md §4.3's ACK frame strategy: generic varint fuzz
// over Largest Acknowledged and ACK Delay, plus two low-probability
// targeted strategies (flip a reserved type-byte bit, or corrupt Largest
// Acknowledged / truncate ACK Range Count). It handles both ACK and
// ACK_ECN; the ECN counts are left untouched since the generic path over
// the first two fields already exercises the shared prefix.
func ack(cur *pilot.Cursor, buf []byte, ext frame.Extent, entry *connstate.Entry) error {
	if cur.Chance(8) {
		typeWidth, ok := typeWidthOf(buf, ext)
		if !ok || typeWidth != 1 {
			return &fuzzerr.MutationError{Frame: "ACK", Reason: "type byte not single-width"}
		}
		buf[ext.Start] ^= byte(1) << (2 + cur.Choice(5)) // one of the bits in 0x7C
		return nil
	}

	fields := fieldsAfterType(buf, ext, 3) // Largest Acknowledged, ACK Delay, ACK Range Count
	if len(fields) < 2 {
		return &fuzzerr.MutationError{Frame: "ACK", Reason: "missing Largest Acknowledged/ACK Delay"}
	}

	if cur.Chance(16) {
		largest := fields[0]
		if cur.Bool() {
			mutateField(cur, buf, largest, 0)
		} else {
			mutateField(cur, buf, largest, 1)
		}
		return nil
	}
	if cur.Chance(16) && len(fields) == 3 {
		mutateField(cur, buf, fields[2], 0)
		return nil
	}

	return genericVarintField(cur, buf, fields[:2])
}

// ackFrequency implements spec.md §4.3's ACK_FREQUENCY strategy: pick
// uniformly among the three varints (Sequence Number, Packet Tolerance,
// Update Max Ack Delay), or flip a random payload byte.
func ackFrequency(cur *pilot.Cursor, buf []byte, ext frame.Extent, _ *connstate.Entry) error {
	fields := fieldsAfterType(buf, ext, 3)
	if cur.Chance(4) {
		return Default(cur, buf, ext, nil)
	}
	if len(fields) == 0 {
		return &fuzzerr.MutationError{Frame: "ACK_FREQUENCY", Reason: "no varint fields present"}
	}
	return genericVarintField(cur, buf, fields)
}
