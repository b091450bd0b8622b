package pilot

// Cursor consumes a single 64-bit pilot in bit-segments, as spec.md §4.3
// describes: "a choice index, then sub-choices, then fill bits." When a
// cursor runs out of bits it draws a fresh pilot from the owning Stream
// (spec.md §9's replenishment rule) rather than returning zero-entropy
// bits forever.
type Cursor struct {
	stream  *Stream
	current uint64
	left    uint
}

// NewCursor starts a cursor at the given initial pilot, backed by stream
// for replenishment once the initial 64 bits are exhausted.
func NewCursor(stream *Stream, initial uint64) *Cursor {
	return &Cursor{stream: stream, current: initial, left: 64}
}

// Take returns the next n bits (n <= 64) as the low bits of the result,
// replenishing from the stream as needed. Requests larger than the
// remaining budget span a replenishment boundary transparently.
func (c *Cursor) Take(n uint) uint64 {
	if n == 0 {
		return 0
	}
	if n > 64 {
		n = 64
	}
	if c.left >= n {
		v := c.current & mask(n)
		c.current >>= n
		c.left -= n
		return v
	}
	// Not enough bits left: take what remains, replenish, take the rest.
	lowN := c.left
	low := c.current & mask(lowN)
	c.current = c.stream.Replenish()
	c.left = 64
	remaining := n - lowN
	high := c.current & mask(remaining)
	c.current >>= remaining
	c.left -= remaining
	return low | (high << lowN)
}

// Choice returns a value in [0, n) using the minimum number of bits that
// cover n, biased only by the usual modulo skew for non-power-of-two n
// (acceptable here: these are fuzzing weights, not a fairness-critical
// sampler).
func (c *Cursor) Choice(n uint64) uint64 {
	if n <= 1 {
		return 0
	}
	bits := bitsNeeded(n)
	return c.Take(bits) % n
}

// Bool returns a single-bit boolean, biased toward true with probability
// numerator/denominator when those are supplied via Chance instead.
func (c *Cursor) Bool() bool {
	return c.Take(1) != 0
}

// Chance reports true with probability 1/denominator, matching the
// "~1/8 probability", "~1/4 probability" language spec.md §4.3 and §4.5
// use throughout. denominator must be a power of two for the bit count to
// be exact; non-power-of-two denominators fall back to Choice's modulo
// sampling.
func (c *Cursor) Chance(denominator uint64) bool {
	if denominator <= 1 {
		return true
	}
	return c.Choice(denominator) == 0
}

// Remaining reports how many bits of the current pilot have not been
// consumed yet, for tests asserting the replenishment rule does not
// violate any guaranteed bound.
func (c *Cursor) Remaining() uint {
	return c.left
}

func mask(n uint) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}

func bitsNeeded(n uint64) uint {
	if n <= 1 {
		return 1
	}
	var bits uint
	for v := n - 1; v > 0; v >>= 1 {
		bits++
	}
	return bits
}
