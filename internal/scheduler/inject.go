package scheduler

import (
	"github.com/joshuafuller/quicfuzz/internal/corpus"
	"github.com/joshuafuller/quicfuzz/internal/frame"
	"github.com/joshuafuller/quicfuzz/internal/pilot"
)

// pickCorpusEntry chooses an injection corpus entry: the context's
// test-targeting override if one is set and known (spec.md §6's
// caller-selectable subset, moved onto FuzzerContext per spec.md §9's
// "eliminating cross-test bleed" redesign note), otherwise a pilot-chosen
// entry from the full table.
func (s *Scheduler) pickCorpusEntry(cur *pilot.Cursor) *corpus.Entry {
	if s.TestTargetEntry != "" {
		if e := corpus.ByName(s.TestTargetEntry); e != nil {
			return e
		}
	}
	return &corpus.Table[cur.Choice(uint64(len(corpus.Table)))]
}

// injectAppend implements spec.md §4.5 step 6's append action: memcpy a
// corpus entry after the last-non-padding offset.
func (s *Scheduler) injectAppend(cur *pilot.Cursor, buf []byte, currentLength, capacity, headerLength int) (int, bool) {
	extents, _ := frame.Walk(buf[headerLength:currentLength], s.Skipper, s.Typer)
	insertAt := headerLength + frame.LastNonPaddingOffset(buf[headerLength:currentLength], extents)

	e := s.pickCorpusEntry(cur)
	if insertAt+len(e.Bytes) > capacity {
		return currentLength, false
	}
	n := copy(buf[insertAt:capacity], e.Bytes)
	newLength := insertAt + n
	if newLength < currentLength {
		newLength = currentLength
	}
	return newLength, true
}

// injectPrepend implements spec.md §4.5 step 6's prepend action: shift
// existing frames right by the entry's length, then memcpy the entry
// immediately after the header.
func (s *Scheduler) injectPrepend(cur *pilot.Cursor, buf []byte, currentLength, capacity, headerLength int) (int, bool) {
	e := s.pickCorpusEntry(cur)
	shift := len(e.Bytes)
	if currentLength+shift > capacity {
		return currentLength, false
	}
	copy(buf[headerLength+shift:currentLength+shift], buf[headerLength:currentLength])
	copy(buf[headerLength:headerLength+shift], e.Bytes)
	return currentLength + shift, true
}

// injectReplace implements spec.md §4.5 step 6's replace action: memcpy
// the entry at the header boundary, discarding everything after.
func (s *Scheduler) injectReplace(cur *pilot.Cursor, buf []byte, currentLength, capacity, headerLength int) (int, bool) {
	e := s.pickCorpusEntry(cur)
	if headerLength+len(e.Bytes) > capacity {
		return currentLength, false
	}
	copy(buf[headerLength:], e.Bytes)
	return headerLength + len(e.Bytes), true
}
