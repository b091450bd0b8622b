package connstate

import (
	"github.com/joshuafuller/quicfuzz/internal/hostquic"
	"github.com/joshuafuller/quicfuzz/internal/phase"
	"github.com/joshuafuller/quicfuzz/internal/pilot"
)

// New creates a fresh Entry for icid, consuming PRNG bits to choose
// target_phase and target_wait exactly as spec.md §3 describes: "chosen at
// creation by consuming PRNG bits." contextEntropy is the FuzzerContext-
// wide entropy field; connectionSeed is freshly generated per spec.md §3's
// lifecycle rule ("a freshly generated random connection id").
func New(icid hostquic.ConnectionID, contextEntropy, connectionSeed uint64) *Entry {
	stream := pilot.NewStream(contextEntropy, connectionSeed)
	cursor := pilot.NewCursor(stream, stream.Next())

	e := &Entry{
		ICID:        icid,
		Pilot:       stream,
		TargetPhase: phase.Handshake(cursor.Choice(uint64(phase.Count))),
		TargetWait:  MinTargetWait + int(cursor.Choice(MaxTargetWait-MinTargetWait+1)),
	}
	return e
}
