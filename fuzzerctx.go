package quicfuzz

import (
	"github.com/rs/zerolog"

	"github.com/joshuafuller/quicfuzz/internal/connstate"
	"github.com/joshuafuller/quicfuzz/internal/hostquic"
	"github.com/joshuafuller/quicfuzz/internal/scheduler"
	"github.com/joshuafuller/quicfuzz/internal/stats"
)

// defaultMaxConnections bounds the connection-state table absent an
// explicit WithMaxConnections option, large enough that a short fuzzing
// run never evicts, small enough that a long-running host process never
// grows its tracking table unbounded.
const defaultMaxConnections = 4096

// defaultSeed is the context-wide entropy value used absent an explicit
// WithSeed option. It is a fixed, arbitrary constant rather than a
// time-derived value: spec.md's reference design is meant to be
// reproducible run-to-run unless a caller deliberately asks for fresh
// entropy, the same reason the teacher's tests always construct a
// Responder with explicit, fixed inputs rather than reading the clock.
const defaultSeed uint64 = 0x5153554943465a5a // the ASCII bytes "QSUICFZZ"

// FuzzerContext is the engine's single piece of mutable state: the
// per-connection fuzzing table, the statistics surface, and the
// collaborators the scheduler needs from the host stack. It corresponds
// to spec.md §3's "FuzzerContext" and is constructed once per fuzzing
// run via New.
//
// FuzzerContext carries no internal synchronization, matching
// spec.md §5: Hook is synchronous, and a caller sharing one context
// across goroutines is responsible for its own mutual exclusion, the
// same trade the teacher's Responder documents for its own registry.
type FuzzerContext struct {
	table     *connstate.Table
	counters  *stats.PhaseCounters
	scheduler *scheduler.Scheduler

	seed            uint64
	maxConnections  int
	logger          zerolog.Logger
	testTargetEntry string
}

// New constructs a FuzzerContext wired against the host stack's phase
// accessor, frame skipper, and frame type identifier — the three
// primitives spec.md §6 lists as consumed from the host QUIC stack.
// Options configure everything else (seed, table capacity, logger,
// test-targeting override), per the teacher's functional-options
// pattern (responder.Option).
func New(phases hostquic.PhaseAccessor, skipper hostquic.FrameSkipper, typer hostquic.FrameTypeIdentifier, opts ...Option) (*FuzzerContext, error) {
	ctx := &FuzzerContext{
		seed:           defaultSeed,
		maxConnections: defaultMaxConnections,
		logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(ctx); err != nil {
			return nil, err
		}
	}

	ctx.table = connstate.NewTable(ctx.maxConnections)
	ctx.counters = stats.New()
	ctx.scheduler = &scheduler.Scheduler{
		Table:           ctx.table,
		Stats:           ctx.counters,
		Phases:          phases,
		Skipper:         skipper,
		Typer:           typer,
		ContextEntropy:  ctx.seed,
		TestTargetEntry: ctx.testTargetEntry,
		Logger:          ctx.logger,
	}
	return ctx, nil
}

// Hook is the function signature a host QUIC stack calls on every
// packet it is about to send, per spec.md §6 and SPEC_FULL.md §6. buf
// holds the plaintext payload from headerLength to currentLength; the
// header itself (buf[:headerLength]) is left alone for ordinary packets,
// while the Version Negotiation and Retry fuzzers rewrite header bytes
// as well. capacity bounds
// any growth the engine performs. The return value is the packet's new
// length.
type Hook func(ctx *FuzzerContext, conn hostquic.ConnectionHandle, buf []byte, capacity, currentLength, headerLength int) (newLength int)

// Run is the engine's Hook implementation: look up or create the
// connection's fuzzing state, then run the full per-packet contract
// (internal/scheduler.Scheduler.Handle). Run satisfies the Hook type and
// is the function most callers pass directly as their hook.
func Run(ctx *FuzzerContext, conn hostquic.ConnectionHandle, buf []byte, capacity, currentLength, headerLength int) int {
	return ctx.scheduler.Handle(conn, buf, capacity, currentLength, headerLength)
}

// Stats returns a point-in-time snapshot of the engine's per-phase
// counters, for the invariant assertions spec.md §8 describes.
func (ctx *FuzzerContext) Stats() stats.Snapshot {
	return ctx.counters.Snapshot()
}

// Connections returns the number of connections currently tracked in the
// fuzzing-state table.
func (ctx *FuzzerContext) Connections() int {
	return ctx.table.Len()
}

// EvictedConnections returns the total number of connection states
// removed by LRU eviction since the context was created.
func (ctx *FuzzerContext) EvictedConnections() uint64 {
	return ctx.table.Evicted()
}
