package connstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuafuller/quicfuzz/internal/hostquic"
)

func cid(b byte) hostquic.ConnectionID {
	return hostquic.NewConnectionID([]byte{b, b + 1, b + 2, b + 3})
}

func TestNewDrawsTargetPhaseAndWaitWithinBounds(t *testing.T) {
	for i := byte(0); i < 20; i++ {
		e := New(cid(i), 1, uint64(i))
		assert.GreaterOrEqual(t, e.TargetWait, MinTargetWait)
		assert.LessOrEqual(t, e.TargetWait, MaxTargetWait)
	}
}

func TestTableLookupAfterInsert(t *testing.T) {
	table := NewTable(0)
	e := New(cid(1), 1, 2)
	table.Insert(e)

	got, ok := table.Lookup(e.ICID)
	require.True(t, ok)
	assert.Same(t, e, got)
	assert.Equal(t, 1, table.Len())
}

func TestTableLookupMissingReturnsFalse(t *testing.T) {
	table := NewTable(0)
	_, ok := table.Lookup(cid(99))
	assert.False(t, ok)
}

func TestTableEvictsLeastRecentlyUsed(t *testing.T) {
	table := NewTable(2)
	a := New(cid(1), 1, 1)
	b := New(cid(2), 1, 2)
	c := New(cid(3), 1, 3)

	table.Insert(a)
	table.Insert(b)
	// touch a so b becomes the LRU entry
	table.Lookup(a.ICID)
	table.Insert(c)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, uint64(1), table.Evicted())

	_, aStillPresent := table.Lookup(a.ICID)
	_, bStillPresent := table.Lookup(b.ICID)
	_, cStillPresent := table.Lookup(c.ICID)
	assert.True(t, aStillPresent)
	assert.False(t, bStillPresent, "b was least recently used and should have been evicted")
	assert.True(t, cStillPresent)
}

func TestTableWithNonPositiveCapacityNeverEvicts(t *testing.T) {
	table := NewTable(0)
	for i := byte(0); i < 50; i++ {
		table.Insert(New(cid(i), 1, uint64(i)))
	}
	assert.Equal(t, 50, table.Len())
	assert.Equal(t, uint64(0), table.Evicted())
}
