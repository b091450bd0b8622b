package quicfuzz_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/joshuafuller/quicfuzz"
	"github.com/joshuafuller/quicfuzz/internal/hostquic"
	"github.com/joshuafuller/quicfuzz/internal/phase"
)

func newHandle(seed byte) hostquic.ConnectionHandle {
	icid := hostquic.NewConnectionID([]byte{seed, seed + 1, seed + 2, seed + 3})
	id := uuid.New()
	h := hostquic.ConnectionHandle{ICID: icid}
	copy(h.LogID[:], id[:])
	return h
}

// simplePacket builds a minimal 1-RTT-shaped packet: a 2-byte header
// followed by a single PING frame, inside a larger capacity buffer so
// injection/extension mutators have room to grow it.
func simplePacket(capacity int) (buf []byte, headerLength, currentLength int) {
	buf = make([]byte, capacity)
	buf[0] = 0x40
	buf[1] = 0x01
	headerLength = 2
	buf[2] = byte(hostquic.FramePing)
	currentLength = 3
	return buf, headerLength, currentLength
}

func TestNewRejectsEmptyTestTargetEntry(t *testing.T) {
	endpoint := hostquic.NewFakeEndpoint()
	_, err := quicfuzz.New(endpoint, endpoint, endpoint, quicfuzz.WithTestTargetEntry(""))
	require.Error(t, err)
}

// TestConnectionTriedInvariant exercises spec.md §8's "sum over phases of
// nb_cnx_tried[p] equals the number of distinct connections established"
// property across a run with several distinct connections.
func TestConnectionTriedInvariant(t *testing.T) {
	endpoint := hostquic.NewFakeEndpoint()
	ctx, err := quicfuzz.New(endpoint, endpoint, endpoint, quicfuzz.WithSeed(42))
	require.NoError(t, err)

	const nConns = 5
	for i := 0; i < nConns; i++ {
		conn := newHandle(byte(i))
		endpoint.SetPhase(conn.ICID, phase.Ready)
		buf, headerLength, currentLength := simplePacket(256)
		_ = quicfuzz.Run(ctx, conn, buf, len(buf), currentLength, headerLength)
	}

	snap := ctx.Stats()
	var total uint64
	for _, p := range phase.All() {
		total += snap.NbCnxTried[p]
	}
	require.Equal(t, uint64(nConns), total)
	require.Equal(t, nConns, ctx.Connections())
}

// TestEventualFuzzing exercises spec.md §8's "a connection held in Ready
// long enough is eventually fuzzed" property: replaying enough packets
// against one connection must, eventually, mutate at least one.
func TestEventualFuzzing(t *testing.T) {
	endpoint := hostquic.NewFakeEndpoint()
	ctx, err := quicfuzz.New(endpoint, endpoint, endpoint, quicfuzz.WithSeed(7))
	require.NoError(t, err)

	conn := newHandle(9)
	endpoint.SetPhase(conn.ICID, phase.Ready)

	var mutatedAtLeastOnce bool
	for i := 0; i < 64; i++ {
		buf, headerLength, currentLength := simplePacket(512)
		original := append([]byte(nil), buf[:currentLength]...)
		newLength := quicfuzz.Run(ctx, conn, buf, len(buf), currentLength, headerLength)
		if newLength != currentLength || string(buf[:currentLength]) != string(original[:currentLength]) {
			mutatedAtLeastOnce = true
			break
		}
	}
	require.True(t, mutatedAtLeastOnce, "expected at least one mutation across 64 packets on a Ready connection")

	snap := ctx.Stats()
	require.GreaterOrEqual(t, snap.NbCnxFuzzed[phase.Ready], uint64(1))
	require.LessOrEqual(t, snap.NbCnxTried[phase.Ready], snap.NbCnxFuzzed[phase.Ready]+snap.NbCnxTried[phase.Ready])
}

// TestTestTargetEntryPinsInjection exercises spec.md §6's caller-selectable
// corpus override: with a context pinned to a known-bad entry, at least
// one packet must grow past its original length through injection.
func TestTestTargetEntryPinsInjection(t *testing.T) {
	endpoint := hostquic.NewFakeEndpoint()
	ctx, err := quicfuzz.New(endpoint, endpoint, endpoint,
		quicfuzz.WithSeed(123),
		quicfuzz.WithTestTargetEntry("bad_connection_close"),
	)
	require.NoError(t, err)

	conn := newHandle(3)
	endpoint.SetPhase(conn.ICID, phase.Ready)

	var sawGrowth bool
	for i := 0; i < 32; i++ {
		buf, headerLength, currentLength := simplePacket(512)
		newLength := quicfuzz.Run(ctx, conn, buf, len(buf), currentLength, headerLength)
		if newLength > currentLength {
			sawGrowth = true
		}
	}
	require.True(t, sawGrowth, "expected at least one injection to grow the packet")
}

// TestVersionNegotiationNeverPanics feeds a Version Negotiation-shaped
// packet through Run repeatedly: the first matching packet is always fuzzed
// by special.MutateVersionNegotiation, and each later one is re-fuzzed
// with probability 1/2.
func TestVersionNegotiationNeverPanics(t *testing.T) {
	endpoint := hostquic.NewFakeEndpoint()
	ctx, err := quicfuzz.New(endpoint, endpoint, endpoint, quicfuzz.WithSeed(99))
	require.NoError(t, err)

	conn := newHandle(11)
	for i := 0; i < 32; i++ {
		buf := make([]byte, 64)
		buf[0] = 0x80
		// 4-byte zero version.
		buf[1], buf[2], buf[3], buf[4] = 0, 0, 0, 0
		buf[5] = 4 // DCID len
		copy(buf[6:10], []byte{1, 2, 3, 4})
		buf[10] = 4 // SCID len
		copy(buf[11:15], []byte{5, 6, 7, 8})
		buf[15], buf[16], buf[17], buf[18] = 0, 0, 0, 1 // one supported version
		currentLength := 19
		require.NotPanics(t, func() {
			quicfuzz.Run(ctx, conn, buf, len(buf), currentLength, 0)
		})
	}
}

// TestEvictionBoundsConnections exercises spec.md §4.6: a table bounded to
// N connections never tracks more than N at once.
func TestEvictionBoundsConnections(t *testing.T) {
	endpoint := hostquic.NewFakeEndpoint()
	ctx, err := quicfuzz.New(endpoint, endpoint, endpoint,
		quicfuzz.WithSeed(1),
		quicfuzz.WithMaxConnections(4),
	)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		conn := newHandle(byte(i))
		buf, headerLength, currentLength := simplePacket(256)
		quicfuzz.Run(ctx, conn, buf, len(buf), currentLength, headerLength)
	}

	require.LessOrEqual(t, ctx.Connections(), 4)
	require.Greater(t, ctx.EvictedConnections(), uint64(0))
}
