// quicfuzzdemo is a simple example demonstrating the quicfuzz mutation
// engine end to end against the in-memory hostquic.FakeEndpoint, since a
// real QUIC host stack is an external collaborator this module never
// implements.
//
// Usage:
//
//	go run ./cmd/quicfuzzdemo --packets 200 --seed 42
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/joshuafuller/quicfuzz"
	"github.com/joshuafuller/quicfuzz/internal/hostquic"
	"github.com/joshuafuller/quicfuzz/internal/phase"
)

func main() {
	seed := pflag.Uint64("seed", 42, "entropy seed mixed into every connection's pilot stream")
	packets := pflag.Int("packets", 200, "number of packets to replay against one simulated connection")
	targetEntry := pflag.String("target-entry", "", "pin packet injection to a single named corpus entry")
	verbose := pflag.Bool("verbose", false, "enable debug-level structured logging")
	pflag.Parse()

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	}

	endpoint := hostquic.NewFakeEndpoint()
	opts := []quicfuzz.Option{
		quicfuzz.WithSeed(*seed),
		quicfuzz.WithLogger(logger),
	}
	if *targetEntry != "" {
		opts = append(opts, quicfuzz.WithTestTargetEntry(*targetEntry))
	}

	ctx, err := quicfuzz.New(endpoint, endpoint, endpoint, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quicfuzzdemo: %v\n", err)
		os.Exit(1)
	}

	icid := hostquic.NewConnectionID([]byte{0xde, 0xad, 0xbe, 0xef})
	id := uuid.New()
	conn := hostquic.ConnectionHandle{ICID: icid}
	copy(conn.LogID[:], id[:])
	endpoint.SetPhase(icid, phase.Ready)

	for i := 0; i < *packets; i++ {
		buf := make([]byte, 512)
		buf[0] = 0x40
		buf[1] = byte(i)
		buf[2] = byte(hostquic.FramePing)
		currentLength := 3

		newLength := quicfuzz.Run(ctx, conn, buf, len(buf), currentLength, 2)
		endpoint.RecordSent(conn, buf[:newLength])
	}

	snap := ctx.Stats()
	fmt.Println("quicfuzzdemo summary:")
	for _, p := range phase.All() {
		fmt.Printf("  %-10s tried=%-4d fuzzed=%-4d packets_fuzzed=%-4d wait_max=%-4d waited_max=%-4d\n",
			p, snap.NbCnxTried[p], snap.NbCnxFuzzed[p], snap.NbPacketsFuzzed[p], snap.WaitMax[p], snap.WaitedMax[p])
	}
	if bad := snap.UnhealthyPhases(); len(bad) > 0 {
		fmt.Printf("unhealthy phases: %v\n", bad)
		os.Exit(1)
	}
	fmt.Printf("connections tracked: %d, evicted: %d, packets sent: %d\n",
		ctx.Connections(), ctx.EvictedConnections(), len(endpoint.SentPackets()))
}
