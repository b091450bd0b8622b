package pilot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamIsDeterministicForSameSeeds(t *testing.T) {
	s1 := NewStream(1, 2)
	s2 := NewStream(1, 2)
	for i := 0; i < 8; i++ {
		assert.Equal(t, s1.Next(), s2.Next())
	}
}

func TestStreamDiffersAcrossConnectionSeeds(t *testing.T) {
	s1 := NewStream(1, 2)
	s2 := NewStream(1, 3)
	var same int
	for i := 0; i < 8; i++ {
		if s1.Next() == s2.Next() {
			same++
		}
	}
	assert.Less(t, same, 8, "two distinct connection seeds should not produce an identical pilot sequence")
}

func TestChoiceStaysInRange(t *testing.T) {
	stream := NewStream(5, 9)
	cur := NewCursor(stream, stream.Next())
	for n := uint64(2); n <= 37; n++ {
		for i := 0; i < 50; i++ {
			v := cur.Choice(n)
			assert.Less(t, v, n)
		}
	}
}

func TestChoiceWithZeroOrOneAlwaysReturnsZero(t *testing.T) {
	stream := NewStream(1, 1)
	cur := NewCursor(stream, stream.Next())
	assert.Equal(t, uint64(0), cur.Choice(0))
	assert.Equal(t, uint64(0), cur.Choice(1))
}

func TestChanceApproximatesDenominator(t *testing.T) {
	stream := NewStream(123, 456)
	cur := NewCursor(stream, stream.Next())
	const trials = 8000
	const denominator = 8
	var hits int
	for i := 0; i < trials; i++ {
		if cur.Chance(denominator) {
			hits++
		}
	}
	rate := float64(hits) / float64(trials)
	assert.InDelta(t, 1.0/denominator, rate, 0.03)
}

func TestTakeReplenishesAcrossBoundary(t *testing.T) {
	stream := NewStream(1, 2)
	cur := NewCursor(stream, stream.Next())

	// Drain the initial pilot down to a handful of bits, then request
	// more than remain: Take must replenish from the stream rather than
	// ever reporting a negative remaining-bit count.
	cur.Take(60)
	assert.Equal(t, uint(4), cur.Remaining())

	_ = cur.Take(10)
	assert.Equal(t, uint(58), cur.Remaining())
}

func TestTakeZeroBitsIsNoop(t *testing.T) {
	stream := NewStream(1, 2)
	cur := NewCursor(stream, stream.Next())
	remaining := cur.Remaining()
	assert.Equal(t, uint64(0), cur.Take(0))
	assert.Equal(t, remaining, cur.Remaining())
}
