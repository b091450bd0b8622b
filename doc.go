// Package quicfuzz implements a structure-aware QUIC mutation engine: a
// Hook a host QUIC stack calls on every packet it is about to send,
// which probabilistically corrupts frames, injects corpus fragments, and
// fuzzes Version Negotiation and Retry packets, per spec.md/SPEC_FULL.md.
//
// The engine never parses or produces a QUIC connection itself — it
// consumes a small set of host-stack primitives (internal/hostquic) and
// owns nothing beyond its own per-connection fuzzing state
// (internal/connstate) and statistics (internal/stats).
package quicfuzz
