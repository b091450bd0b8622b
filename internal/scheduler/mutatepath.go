package scheduler

import (
	"github.com/joshuafuller/quicfuzz/internal/connstate"
	"github.com/joshuafuller/quicfuzz/internal/frame"
	"github.com/joshuafuller/quicfuzz/internal/fuzzerr"
	"github.com/joshuafuller/quicfuzz/internal/mutate"
	"github.com/joshuafuller/quicfuzz/internal/pilot"
)

// mutateOneFrame runs the frame walker over the current payload and
// dispatches one pilot-chosen frame to the mutator table (spec.md §4.5
// step 7's "frame-walker+mutator path").
func (s *Scheduler) mutateOneFrame(cur *pilot.Cursor, buf []byte, headerLength, currentLength int, entry *connstate.Entry) error {
	extents, err := frame.Walk(buf[headerLength:currentLength], s.Skipper, s.Typer)
	if len(extents) == 0 {
		if err != nil {
			return err
		}
		return &fuzzerr.MutationError{Frame: "none", Reason: "payload contains no parseable frames"}
	}
	idx := cur.Choice(uint64(len(extents)))
	chosen := extents[idx]
	abs := frame.Extent{
		Start: headerLength + chosen.Start,
		End:   headerLength + chosen.End,
		Type:  chosen.Type,
	}
	return mutate.Dispatch(cur, buf, abs, entry)
}
