package hostquic

import (
	"errors"

	"github.com/joshuafuller/quicfuzz/internal/varint"
)

// ErrShortFrame is returned by ReferenceSkipper when a frame's declared
// fields run past the end of the supplied buffer.
var ErrShortFrame = errors.New("hostquic: frame runs past end of buffer")

// ErrUnknownFrameType is returned when the leading varint does not match
// any frame type this reference implementation recognizes.
var ErrUnknownFrameType = errors.New("hostquic: unrecognized frame type")

// ReferenceSkipper is a minimal, self-contained implementation of
// FrameSkipper and FrameTypeIdentifier covering every RFC 9000 §19 frame
// plus the extensions spec.md §4.3 names. It exists because the real host
// QUIC stack's frame-skip primitive is an external collaborator
// (spec.md §1) this module never implements; tests and cmd/quicfuzzdemo
// use ReferenceSkipper as the stand-in the teacher's
// internal/transport.MockTransport played for the querier/responder
// packages — a test double that is honest about being a double, not a
// production parser.
type ReferenceSkipper struct{}

// IdentifyFrameType decodes the frame-type varint at the start of buf.
func (ReferenceSkipper) IdentifyFrameType(buf []byte) (FrameType, int, error) {
	v, n, err := varint.Decode(buf)
	if err != nil {
		return 0, 0, ErrShortFrame
	}
	return FrameType(v), n, nil
}

// SkipFrame reports how many bytes the frame at buf[0] occupies.
func (r ReferenceSkipper) SkipFrame(buf []byte) (consumed int, isAckOnly bool, err error) {
	t, typeWidth, err := r.IdentifyFrameType(buf)
	if err != nil {
		return 0, false, err
	}
	rest := buf[typeWidth:]

	switch {
	case t == FramePadding, t == FramePing, t == FrameHandshakeDone:
		return typeWidth, false, nil

	case t == FrameAck || t == FrameAckECN:
		n, err := skipAck(rest, t == FrameAckECN)
		return typeWidth + n, true, err

	case t == FrameResetStream:
		return skipVarints(buf, typeWidth, 3, "RESET_STREAM")

	case t == FrameStopSending:
		return skipVarints(buf, typeWidth, 2, "STOP_SENDING")

	case t == FrameCrypto:
		return skipLengthPrefixed(buf, typeWidth, 1, "CRYPTO")

	case t == FrameNewToken:
		return skipLengthPrefixed(buf, typeWidth, 0, "NEW_TOKEN")

	case t.IsStream():
		return skipStream(buf, typeWidth, t)

	case t == FrameMaxData, t == FrameDataBlocked:
		return skipVarints(buf, typeWidth, 1, "MAX_DATA/DATA_BLOCKED")

	case t == FrameMaxStreamData, t == FrameStreamDataBlocked:
		return skipVarints(buf, typeWidth, 2, "MAX_STREAM_DATA/STREAM_DATA_BLOCKED")

	case t == FrameMaxStreamsBidi, t == FrameMaxStreamsUni,
		t == FrameStreamsBlockedBidi, t == FrameStreamsBlockedUni:
		return skipVarints(buf, typeWidth, 1, "MAX_STREAMS/STREAMS_BLOCKED")

	case t == FrameNewConnectionID:
		return skipNewConnectionID(buf, typeWidth)

	case t == FrameRetireConnectionID:
		return skipVarints(buf, typeWidth, 1, "RETIRE_CONNECTION_ID")

	case t == FramePathChallenge, t == FramePathResponse:
		if len(rest) < 8 {
			return 0, false, ErrShortFrame
		}
		return typeWidth + 8, false, nil

	case t == FrameConnectionClose:
		return skipConnectionClose(buf, typeWidth, true)

	case t == FrameApplicationClose:
		return skipConnectionClose(buf, typeWidth, false)

	case t.IsDatagram():
		return skipDatagram(buf, typeWidth, t == FrameDatagramMax)

	case t == FrameACKFrequency:
		return skipVarints(buf, typeWidth, 3, "ACK_FREQUENCY")

	case t == FramePathAbandon:
		return skipVarints(buf, typeWidth, 2, "PATH_ABANDON")

	case t == FramePathAvailable, t == FramePathBackup:
		return skipVarints(buf, typeWidth, 2, "PATH_AVAILABLE/PATH_BACKUP")

	case t == FramePathsBlocked:
		return skipVarints(buf, typeWidth, 1, "PATHS_BLOCKED")

	default:
		return 0, false, ErrUnknownFrameType
	}
}

// skipVarints consumes `count` varints after the type field, used by every
// frame whose remainder is a flat sequence of varints.
func skipVarints(buf []byte, offset int, count int, _ string) (int, bool, error) {
	for i := 0; i < count; i++ {
		if offset > len(buf) {
			return 0, false, ErrShortFrame
		}
		n, err := varint.Skip(buf[offset:])
		if err != nil {
			return 0, false, ErrShortFrame
		}
		offset += n
	}
	return offset, false, nil
}

func skipAck(rest []byte, ecn bool) (int, error) {
	o := 0
	// Largest Acknowledged, ACK Delay.
	for i := 0; i < 2; i++ {
		_, n, err := varint.Decode(rest[o:])
		if err != nil {
			return 0, ErrShortFrame
		}
		o += n
	}
	count, n, err := varint.Decode(rest[o:])
	if err != nil {
		return 0, ErrShortFrame
	}
	o += n
	// First ACK Range.
	_, n, err = varint.Decode(rest[o:])
	if err != nil {
		return 0, ErrShortFrame
	}
	o += n
	for i := uint64(0); i < count; i++ {
		// Gap.
		_, n, err := varint.Decode(rest[o:])
		if err != nil {
			return 0, ErrShortFrame
		}
		o += n
		// ACK Range Length.
		_, n, err = varint.Decode(rest[o:])
		if err != nil {
			return 0, ErrShortFrame
		}
		o += n
	}
	if ecn {
		for i := 0; i < 3; i++ {
			_, n, err := varint.Decode(rest[o:])
			if err != nil {
				return 0, ErrShortFrame
			}
			o += n
		}
	}
	return o, nil
}

func skipLengthPrefixed(buf []byte, offset int, varintsBefore int, _ string) (int, bool, error) {
	for i := 0; i < varintsBefore; i++ {
		n, err := varint.Skip(buf[offset:])
		if err != nil {
			return 0, false, ErrShortFrame
		}
		offset += n
	}
	length, n, err := varint.Decode(buf[offset:])
	if err != nil {
		return 0, false, ErrShortFrame
	}
	offset += n
	end := offset + int(length)
	if end > len(buf) || end < offset {
		return 0, false, ErrShortFrame
	}
	return end, false, nil
}

func skipStream(buf []byte, offset int, t FrameType) (int, bool, error) {
	off := byte(t) & 0x04
	lenBit := byte(t) & 0x02
	// Stream ID.
	n, err := varint.Skip(buf[offset:])
	if err != nil {
		return 0, false, ErrShortFrame
	}
	offset += n
	if off != 0 {
		n, err := varint.Skip(buf[offset:])
		if err != nil {
			return 0, false, ErrShortFrame
		}
		offset += n
	}
	if lenBit != 0 {
		length, n, err := varint.Decode(buf[offset:])
		if err != nil {
			return 0, false, ErrShortFrame
		}
		offset += n
		end := offset + int(length)
		if end > len(buf) || end < offset {
			return 0, false, ErrShortFrame
		}
		return end, false, nil
	}
	// No LEN bit: data extends to the end of the packet.
	return len(buf), false, nil
}

func skipNewConnectionID(buf []byte, offset int) (int, bool, error) {
	// Sequence Number, Retire Prior To.
	for i := 0; i < 2; i++ {
		n, err := varint.Skip(buf[offset:])
		if err != nil {
			return 0, false, ErrShortFrame
		}
		offset += n
	}
	if offset >= len(buf) {
		return 0, false, ErrShortFrame
	}
	cidLen := int(buf[offset])
	offset++
	end := offset + cidLen + 16 // Connection ID + 16-byte Stateless Reset Token.
	if end > len(buf) || end < offset {
		return 0, false, ErrShortFrame
	}
	return end, false, nil
}

func skipConnectionClose(buf []byte, offset int, withFrameType bool) (int, bool, error) {
	// Error Code.
	n, err := varint.Skip(buf[offset:])
	if err != nil {
		return 0, false, ErrShortFrame
	}
	offset += n
	if withFrameType {
		n, err = varint.Skip(buf[offset:])
		if err != nil {
			return 0, false, ErrShortFrame
		}
		offset += n
	}
	length, n, err := varint.Decode(buf[offset:])
	if err != nil {
		return 0, false, ErrShortFrame
	}
	offset += n
	end := offset + int(length)
	if end > len(buf) || end < offset {
		return 0, false, ErrShortFrame
	}
	return end, false, nil
}

func skipDatagram(buf []byte, offset int, hasLength bool) (int, bool, error) {
	if !hasLength {
		return len(buf), false, nil
	}
	length, n, err := varint.Decode(buf[offset:])
	if err != nil {
		return 0, false, ErrShortFrame
	}
	offset += n
	end := offset + int(length)
	if end > len(buf) || end < offset {
		return 0, false, ErrShortFrame
	}
	return end, false, nil
}
