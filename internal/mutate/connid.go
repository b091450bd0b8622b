package mutate

import (
	"github.com/joshuafuller/quicfuzz/internal/connstate"
	"github.com/joshuafuller/quicfuzz/internal/frame"
	"github.com/joshuafuller/quicfuzz/internal/fuzzerr"
	"github.com/joshuafuller/quicfuzz/internal/pilot"
)

// newConnectionID implements spec.md §4.3's NEW_CONNECTION_ID strategy:
// record the sequence number and arm a retire opportunity in the
// connection's fuzz state, then with ~1/3 probability pick one of five
// sub-targets (Sequence Number, Retire Prior To, Length byte, CID bytes,
// Stateless Reset Token); otherwise leave the frame unchanged and return
// nil.
func newConnectionID(cur *pilot.Cursor, buf []byte, ext frame.Extent, entry *connstate.Entry) error {
	typeWidth, ok := typeWidthOf(buf, ext)
	if !ok {
		return &fuzzerr.MutationError{Frame: "NEW_CONNECTION_ID", Reason: "missing type byte"}
	}
	offset := ext.Start + typeWidth

	seqField, n, err := decodeFieldAt(buf, offset, ext.End)
	if err != nil {
		return &fuzzerr.MutationError{Frame: "NEW_CONNECTION_ID", Reason: "missing Sequence Number", Err: err}
	}
	offset += n

	retireField, n, err := decodeFieldAt(buf, offset, ext.End)
	if err != nil {
		return &fuzzerr.MutationError{Frame: "NEW_CONNECTION_ID", Reason: "missing Retire Prior To", Err: err}
	}
	offset += n

	if offset >= ext.End {
		return &fuzzerr.MutationError{Frame: "NEW_CONNECTION_ID", Reason: "missing CID Length byte"}
	}
	lengthOffset := offset
	cidLen := int(buf[lengthOffset])
	cidStart := lengthOffset + 1
	cidEnd := cidStart + cidLen
	tokenEnd := cidEnd + 16

	if entry != nil {
		entry.NewCIDSeqNoAvailable = true
		entry.LastNewCIDSeqNoSent = seqField.value
	}

	if !cur.Chance(3) {
		return nil
	}

	switch cur.Choice(5) {
	case 0: // Sequence Number
		target := [3]uint64{0, 0x3FFF, cur.Take(16)}
		mutateField(cur, buf, seqField, target[cur.Choice(3)])
	case 1: // Retire Prior To
		var target uint64
		switch cur.Choice(3) {
		case 0:
			if entry != nil {
				target = entry.LastNewCIDSeqNoSent
			}
		case 1:
			target = 0
		default:
			if seqField.value > 0 {
				target = seqField.value - 1
			}
		}
		mutateField(cur, buf, retireField, target)
	case 2: // Length byte
		if cidEnd > len(buf) || tokenEnd > ext.End {
			return &fuzzerr.MutationError{Frame: "NEW_CONNECTION_ID", Reason: "frame too short for CID/token"}
		}
		candidates := []byte{0x00, 0xFF, byte(cidLen + 1)}
		buf[lengthOffset] = candidates[cur.Choice(uint64(len(candidates)))]
	case 3: // CID bytes
		if cidEnd > ext.End || cidLen == 0 {
			return &fuzzerr.MutationError{Frame: "NEW_CONNECTION_ID", Reason: "empty connection id"}
		}
		flips := 1 + int(cur.Choice(2))
		for i := 0; i < flips; i++ {
			idx := cidStart + int(cur.Choice(uint64(cidLen)))
			buf[idx] ^= 1 << cur.Take(3)
		}
	case 4: // Stateless Reset Token
		if tokenEnd > ext.End {
			return &fuzzerr.MutationError{Frame: "NEW_CONNECTION_ID", Reason: "frame too short for reset token"}
		}
		flips := 1 + int(cur.Choice(2))
		for i := 0; i < flips; i++ {
			idx := cidEnd + int(cur.Choice(16))
			buf[idx] ^= 1 << cur.Take(3)
		}
	}
	return nil
}

// retireConnectionID implements spec.md §4.3's RETIRE_CONNECTION_ID
// strategy: with low probability set the sequence number to a boundary
// value; otherwise flip a bit.
func retireConnectionID(cur *pilot.Cursor, buf []byte, ext frame.Extent, _ *connstate.Entry) error {
	fields := fieldsAfterType(buf, ext, 1)
	if len(fields) == 0 {
		return &fuzzerr.MutationError{Frame: "RETIRE_CONNECTION_ID", Reason: "missing Sequence Number field"}
	}
	f := fields[0]
	if cur.Chance(4) {
		targets := []uint64{0, 1, boundaryMaximal(fieldWidth(f))}
		mutateField(cur, buf, f, targets[cur.Choice(uint64(len(targets)))])
		return nil
	}
	flipField(cur, buf, f)
	return nil
}
