package quicfuzz

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Option configures a FuzzerContext at construction time, following the
// teacher's functional-options pattern (responder.Option): each Option
// is a closure over the context under construction, applied in order by
// New before any scheduler call can observe it.
type Option func(*FuzzerContext) error

// WithSeed overrides the context-wide entropy value mixed into every new
// connection's pilot stream alongside that connection's own initial
// connection id (spec.md §3). Two contexts built with the same seed and
// fed the same sequence of connection ids and packets produce identical
// mutation decisions.
func WithSeed(seed uint64) Option {
	return func(ctx *FuzzerContext) error {
		ctx.seed = seed
		return nil
	}
}

// WithMaxConnections overrides the connection-state table's LRU capacity
// (internal/connstate.Table, spec.md §4.6). A non-positive value means
// unbounded — eviction never fires.
func WithMaxConnections(n int) Option {
	return func(ctx *FuzzerContext) error {
		ctx.maxConnections = n
		return nil
	}
}

// WithLogger overrides the structured logger the engine uses for
// debug-level diagnostic events — a new connection's fuzz state was
// created, a frame mutation was declined, a Version Negotiation header was
// too short to fuzz. Evictions and successful mutations are not logged.
// The default is a
// disabled logger, so library use imposes no cost unless a caller opts
// in.
func WithLogger(logger zerolog.Logger) Option {
	return func(ctx *FuzzerContext) error {
		ctx.logger = logger
		return nil
	}
}

// WithTestTargetEntry restricts packet injection (internal/scheduler's
// append/prepend/replace actions) to a single named corpus entry,
// looked up via internal/corpus.ByName. It exists so a test can pin
// down exactly which malformed frame a scenario exercises instead of
// drawing from the full corpus at random (spec.md §6's caller-selectable
// subset, scoped per-context per SPEC_FULL.md §9's "eliminating
// cross-test bleed" redesign note). An unknown name is not rejected at
// option-application time — the scheduler falls back to the full corpus
// if the name does not resolve — so a typo fails a test's assertions
// rather than construction itself.
func WithTestTargetEntry(name string) Option {
	return func(ctx *FuzzerContext) error {
		if name == "" {
			return fmt.Errorf("quicfuzz: WithTestTargetEntry requires a non-empty name")
		}
		ctx.testTargetEntry = name
		return nil
	}
}
