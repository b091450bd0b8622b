package frame

import "github.com/joshuafuller/quicfuzz/internal/hostquic"

// Kind is the small tagged sum spec.md §9's redesign note calls for: a
// discriminator mutators dispatch on instead of a type switch over the
// numeric frame type, so the mutator table (internal/mutate) can be a
// plain map literal rather than a growing switch statement.
type Kind int

const (
	KindDefault Kind = iota
	KindPadding
	KindPing
	KindHandshakeDone
	KindAck
	KindAckECN
	KindAckFrequency
	KindStream
	KindMaxData
	KindDataBlocked
	KindMaxStreamData
	KindStreamDataBlocked
	KindMaxStreamsBidi
	KindMaxStreamsUni
	KindStreamsBlockedBidi
	KindStreamsBlockedUni
	KindResetStream
	KindStopSending
	KindNewConnectionID
	KindRetireConnectionID
	KindNewToken
	KindCrypto
	KindPathChallenge
	KindPathResponse
	KindPathAbandon
	KindPathAvailable
	KindPathBackup
	KindPathsBlocked
	KindDatagram
	KindConnectionClose
	KindApplicationClose
)

// Classify maps a wire frame type onto its dispatch Kind. STREAM frames
// collapse the eight OFF/LEN/FIN variants onto one Kind since the STREAM
// mutator itself inspects those bits; everything this table does not name
// falls to KindDefault, the byte-XOR fallback spec.md §4.3 describes.
func Classify(t hostquic.FrameType) Kind {
	switch {
	case t == hostquic.FramePadding:
		return KindPadding
	case t == hostquic.FramePing:
		return KindPing
	case t == hostquic.FrameHandshakeDone:
		return KindHandshakeDone
	case t == hostquic.FrameAck:
		return KindAck
	case t == hostquic.FrameAckECN:
		return KindAckECN
	case t == hostquic.FrameACKFrequency:
		return KindAckFrequency
	case t.IsStream():
		return KindStream
	case t == hostquic.FrameMaxData:
		return KindMaxData
	case t == hostquic.FrameDataBlocked:
		return KindDataBlocked
	case t == hostquic.FrameMaxStreamData:
		return KindMaxStreamData
	case t == hostquic.FrameStreamDataBlocked:
		return KindStreamDataBlocked
	case t == hostquic.FrameMaxStreamsBidi:
		return KindMaxStreamsBidi
	case t == hostquic.FrameMaxStreamsUni:
		return KindMaxStreamsUni
	case t == hostquic.FrameStreamsBlockedBidi:
		return KindStreamsBlockedBidi
	case t == hostquic.FrameStreamsBlockedUni:
		return KindStreamsBlockedUni
	case t == hostquic.FrameResetStream:
		return KindResetStream
	case t == hostquic.FrameStopSending:
		return KindStopSending
	case t == hostquic.FrameNewConnectionID:
		return KindNewConnectionID
	case t == hostquic.FrameRetireConnectionID:
		return KindRetireConnectionID
	case t == hostquic.FrameNewToken:
		return KindNewToken
	case t == hostquic.FrameCrypto:
		return KindCrypto
	case t == hostquic.FramePathChallenge:
		return KindPathChallenge
	case t == hostquic.FramePathResponse:
		return KindPathResponse
	case t == hostquic.FramePathAbandon:
		return KindPathAbandon
	case t == hostquic.FramePathAvailable:
		return KindPathAvailable
	case t == hostquic.FramePathBackup:
		return KindPathBackup
	case t == hostquic.FramePathsBlocked:
		return KindPathsBlocked
	case t.IsDatagram():
		return KindDatagram
	case t == hostquic.FrameConnectionClose:
		return KindConnectionClose
	case t == hostquic.FrameApplicationClose:
		return KindApplicationClose
	default:
		return KindDefault
	}
}
